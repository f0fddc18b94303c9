package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carabineros/intranet/pkg/core/model"
	"github.com/carabineros/intranet/pkg/db"
)

// ErrNoRecipients is returned when a private post has nobody to address
var ErrNoRecipients = errors.New("a private post needs at least one recipient")

// Uploader stores an attachment and returns its public URL. Remove deletes
// an uploaded attachment by that URL.
type Uploader interface {
	Upload(ctx context.Context, name string, contentType string, data []byte) (string, error)
	Remove(ctx context.Context, url string) error
}

// Attachment is a file to publish with a post
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// PostInput is an announcement as written by an administrator
type PostInput struct {
	Title        string         `validate:"required,max=200"`
	Content      string         `validate:"required"`
	Category     string         `validate:"required"`
	Priority     model.Priority `validate:"omitempty,oneof=normal importante urgente"`
	IsPrivate    bool
	RecipientIDs []string
	CreatedBy    string `validate:"required"`
	Attachment   *Attachment
}

// FeedItem is a post as seen by one user
type FeedItem struct {
	Post db.Post
	Read bool
}

// PostStatsStore defines the database operations needed for read statistics
type PostStatsStore interface {
	GetPost(ctx context.Context, id string) (*db.Post, error)
	GetPostRecipients(ctx context.Context, postID string) ([]string, error)
	GetPostReads(ctx context.Context, postID string) ([]db.PostRead, error)
	GetAccounts(ctx context.Context) ([]db.Account, error)
}

// PostReadStats summarises who has read a post
type PostReadStats struct {
	Post       db.Post
	Recipients int
	Reads      int
	Percent    int
	ReadBy     []db.PostRead
	Unread     []db.Account
}

// CreatePost publishes an announcement, uploading its attachment first
func CreatePost(ctx context.Context, store db.PostStore, uploader Uploader, logger *zap.Logger, input PostInput) (*db.Post, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	input.Category = strings.TrimSpace(input.Category)
	if input.Priority == "" {
		input.Priority = model.PriorityNormal
	}

	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid post: %w", err)
	}

	recipients := uniqueNonEmpty(input.RecipientIDs)
	if input.IsPrivate && len(recipients) == 0 {
		return nil, ErrNoRecipients
	}
	if !input.IsPrivate {
		recipients = nil
	}

	post := &db.Post{
		ID:        uuid.New().String(),
		Title:     input.Title,
		Content:   input.Content,
		Category:  input.Category,
		Priority:  input.Priority,
		IsPrivate: input.IsPrivate,
		IsActive:  true,
		CreatedBy: input.CreatedBy,
		CreatedAt: time.Now().UTC(),
	}

	if input.Attachment != nil {
		if uploader == nil {
			return nil, fmt.Errorf("attachments are not available: no media storage configured")
		}
		url, err := uploader.Upload(ctx, input.Attachment.Name, input.Attachment.ContentType, input.Attachment.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to upload attachment: %w", err)
		}
		post.AttachmentURL = url
		post.AttachmentName = input.Attachment.Name
		logger.Debug("Attachment uploaded", zap.String("url", url))
	}

	if err := store.InsertPost(ctx, post, recipients); err != nil {
		if post.AttachmentURL != "" {
			if rmErr := uploader.Remove(ctx, post.AttachmentURL); rmErr != nil {
				logger.Warn("Orphaned attachment left in storage",
					zap.String("url", post.AttachmentURL),
					zap.Error(rmErr))
			}
		}
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}

	logger.Info("Post published",
		zap.String("id", post.ID),
		zap.Bool("private", post.IsPrivate),
		zap.Int("recipients", len(recipients)))

	return post, nil
}

// DeletePost removes a post with its recipients and read receipts
func DeletePost(ctx context.Context, store db.PostStore, logger *zap.Logger, id string) error {
	if err := store.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	logger.Info("Post deleted", zap.String("id", id))
	return nil
}

// Feed returns the active posts visible to userID, newest first: every public
// post plus the private posts addressed to the user
func Feed(ctx context.Context, store db.PostStore, userID string) ([]FeedItem, error) {
	posts, err := store.GetPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}

	addressed, err := store.GetRecipientPostIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch post recipients: %w", err)
	}
	addressedSet := toSet(addressed)

	reads, err := store.GetUserReads(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch post reads: %w", err)
	}
	readSet := make(map[string]bool, len(reads))
	for _, r := range reads {
		readSet[r.PostID] = true
	}

	feed := make([]FeedItem, 0, len(posts))
	for _, p := range posts {
		if !p.IsActive {
			continue
		}
		if p.IsPrivate && !addressedSet[p.ID] {
			continue
		}
		feed = append(feed, FeedItem{Post: p, Read: readSet[p.ID]})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Post.CreatedAt.After(feed[j].Post.CreatedAt)
	})

	return feed, nil
}

// MarkRead records that userID read postID. It reports false when the post
// was already read.
func MarkRead(ctx context.Context, store db.PostStore, logger *zap.Logger, postID string, userID string) (bool, error) {
	inserted, err := store.InsertPostRead(ctx, &db.PostRead{
		PostID: postID,
		UserID: userID,
		ReadAt: time.Now().UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("failed to mark post read: %w", err)
	}
	logger.Debug("Post read", zap.String("post_id", postID), zap.String("user_id", userID), zap.Bool("new", inserted))
	return inserted, nil
}

// ReadStats reports how many of a post's audience have read it. The audience
// of a public post is every account.
func ReadStats(ctx context.Context, store PostStatsStore, postID string) (*PostReadStats, error) {
	post, err := store.GetPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch post: %w", err)
	}

	accounts, err := store.GetAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	audience := make([]db.Account, 0, len(accounts))
	if post.IsPrivate {
		recipientIDs, err := store.GetPostRecipients(ctx, postID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch post recipients: %w", err)
		}
		recipientSet := toSet(recipientIDs)
		for _, a := range accounts {
			if recipientSet[a.ID] {
				audience = append(audience, a)
			}
		}
	} else {
		audience = append(audience, accounts...)
	}

	reads, err := store.GetPostReads(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch post reads: %w", err)
	}

	audienceSet := make(map[string]bool, len(audience))
	for _, a := range audience {
		audienceSet[a.ID] = true
	}

	stats := &PostReadStats{
		Post:       *post,
		Recipients: len(audience),
		ReadBy:     make([]db.PostRead, 0, len(reads)),
		Unread:     make([]db.Account, 0),
	}

	readSet := make(map[string]bool, len(reads))
	for _, r := range reads {
		if !audienceSet[r.UserID] || readSet[r.UserID] {
			continue
		}
		readSet[r.UserID] = true
		stats.ReadBy = append(stats.ReadBy, r)
	}
	stats.Reads = len(stats.ReadBy)

	for _, a := range audience {
		if !readSet[a.ID] {
			stats.Unread = append(stats.Unread, a)
		}
	}

	if stats.Recipients > 0 {
		stats.Percent = int(math.Round(float64(stats.Reads) * 100 / float64(stats.Recipients)))
	}

	return stats, nil
}

func uniqueNonEmpty(values []string) []string {
	seen := make(map[string]bool, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		result = append(result, v)
	}
	return result
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
