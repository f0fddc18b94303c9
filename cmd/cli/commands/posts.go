package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/carabineros/intranet/pkg/core/model"
	"github.com/carabineros/intranet/pkg/core/services"
)

// PostsCmd creates the posts command group
func PostsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Publish and review announcements",
	}

	cmd.AddCommand(createPostCmd(app))
	cmd.AddCommand(deletePostCmd(app))
	cmd.AddCommand(feedCmd(app))
	cmd.AddCommand(markReadCmd(app))
	cmd.AddCommand(readStatsCmd(app))

	return cmd
}

func createPostCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish an announcement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			title, _ := cmd.Flags().GetString("title")
			content, _ := cmd.Flags().GetString("content")
			category, _ := cmd.Flags().GetString("category")
			priority, _ := cmd.Flags().GetString("priority")
			private, _ := cmd.Flags().GetBool("private")
			recipients, _ := cmd.Flags().GetStringSlice("to")
			author, _ := cmd.Flags().GetString("author")
			attach, _ := cmd.Flags().GetString("attach")

			input := services.PostInput{
				Title:        title,
				Content:      content,
				Category:     category,
				Priority:     model.Priority(priority),
				IsPrivate:    private,
				RecipientIDs: recipients,
				CreatedBy:    author,
			}

			if attach != "" {
				data, err := os.ReadFile(attach)
				if err != nil {
					return fmt.Errorf("failed to read attachment: %w", err)
				}
				input.Attachment = &services.Attachment{Name: filepath.Base(attach), Data: data}
			}

			app.Logger.Debug("posts create command",
				zap.String("title", title),
				zap.Bool("private", private),
				zap.Int("recipients", len(recipients)))

			// a nil *mediaclient.Client must not become a non-nil interface
			var uploader services.Uploader
			if app.MediaClient != nil {
				uploader = app.MediaClient
			}

			post, err := services.CreatePost(app.Ctx, app.Database, uploader, app.Logger, input)
			if err != nil {
				return err
			}

			fmt.Printf("\n✅ Post published: %s\n", post.ID)
			if post.AttachmentURL != "" {
				fmt.Printf("Attachment: %s\n", post.AttachmentURL)
			}
			return nil
		},
	}

	cmd.Flags().String("title", "", "Title")
	cmd.Flags().String("content", "", "Body text")
	cmd.Flags().String("category", "general", "Category")
	cmd.Flags().String("priority", string(model.PriorityNormal), "Priority (normal, importante, urgente)")
	cmd.Flags().Bool("private", false, "Only show the post to the --to accounts")
	cmd.Flags().StringSlice("to", nil, "Recipient account IDs of a private post")
	cmd.Flags().String("author", "", "Account ID of the author")
	cmd.Flags().String("attach", "", "File to attach")

	return cmd
}

func deletePostCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <post_id>",
		Short: "Delete a post with its recipients and read receipts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.DeletePost(app.Ctx, app.Database, app.Logger, args[0]); err != nil {
				return err
			}

			fmt.Printf("\n✅ Post deleted: %s\n", args[0])
			return nil
		},
	}
}

func feedCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "feed <account_id>",
		Short: "Show the posts visible to an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			feed, err := services.Feed(app.Ctx, app.Database, args[0])
			if err != nil {
				return err
			}

			if len(feed) == 0 {
				fmt.Println("No posts.")
				return nil
			}

			loc := app.Cfg.Location()
			fmt.Println()
			for _, item := range feed {
				marker := "•"
				if item.Read {
					marker = " "
				}
				fmt.Printf("%s %s  [%s] %s%s\n",
					marker,
					item.Post.CreatedAt.In(loc).Format("2006-01-02 15:04"),
					item.Post.Priority,
					item.Post.Title,
					privateLabel(item.Post.IsPrivate))
			}
			fmt.Println()

			return nil
		},
	}
}

func markReadCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "read <post_id> <account_id>",
		Short: "Record that an account read a post",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inserted, err := services.MarkRead(app.Ctx, app.Database, app.Logger, args[0], args[1])
			if err != nil {
				return err
			}

			if inserted {
				fmt.Println("✅ Marked as read.")
			} else {
				fmt.Println("Already read.")
			}
			return nil
		},
	}
}

func readStatsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <post_id>",
		Short: "Show who has read a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := services.ReadStats(app.Ctx, app.Database, args[0])
			if err != nil {
				return err
			}

			loc := app.Cfg.Location()
			fmt.Printf("\n📊 %s%s\n\n", stats.Post.Title, privateLabel(stats.Post.IsPrivate))
			fmt.Printf("Read by %d of %d (%d%%)\n\n", stats.Reads, stats.Recipients, stats.Percent)

			for _, r := range stats.ReadBy {
				fmt.Printf("  ✓ %s  %s\n", r.UserID, r.ReadAt.In(loc).Format("2006-01-02 15:04"))
			}
			for _, a := range stats.Unread {
				fmt.Printf("  ✗ %s (%s)\n", a.FullName, a.ID)
			}
			fmt.Println()

			return nil
		},
	}
}

func privateLabel(private bool) string {
	if private {
		return " (private)"
	}
	return ""
}
