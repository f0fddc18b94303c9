package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/carabineros/intranet/pkg/clients/provisioning"
	"github.com/carabineros/intranet/pkg/core/model"
	"github.com/carabineros/intranet/pkg/core/services"
)

// AccountsCmd creates the accounts command group
func AccountsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage user accounts",
	}

	cmd.AddCommand(listAccountsCmd(app))
	cmd.AddCommand(createAccountCmd(app))
	cmd.AddCommand(updateAccountCmd(app))
	cmd.AddCommand(relinkAccountCmd(app))
	cmd.AddCommand(deleteAccountCmd(app))

	return cmd
}

func addAccountFlags(cmd *cobra.Command) {
	cmd.Flags().String("badge", "", "Badge number")
	cmd.Flags().String("name", "", "Full name")
	cmd.Flags().String("rank", "", "Rank")
	cmd.Flags().String("role", string(model.RoleStaff), "Role (admin or staff)")
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("phone", "", "Phone number")
	cmd.Flags().Bool("whatsapp", false, "Phone number accepts WhatsApp messages")
}

func accountFromFlags(cmd *cobra.Command) provisioning.Account {
	badge, _ := cmd.Flags().GetString("badge")
	name, _ := cmd.Flags().GetString("name")
	rank, _ := cmd.Flags().GetString("rank")
	role, _ := cmd.Flags().GetString("role")
	email, _ := cmd.Flags().GetString("email")
	phone, _ := cmd.Flags().GetString("phone")
	whatsapp, _ := cmd.Flags().GetBool("whatsapp")

	return provisioning.Account{
		BadgeNumber:     badge,
		FullName:        name,
		Rank:            rank,
		Role:            model.Role(role),
		Email:           email,
		Phone:           phone,
		WhatsappEnabled: whatsapp,
	}
}

func listAccountsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := app.Database.GetAccounts(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}

			fmt.Printf("\nFound %d accounts:\n\n", len(accounts))
			for _, a := range accounts {
				fmt.Printf("- %s (%s) badge %s - %s - %s\n", a.FullName, a.ID, a.BadgeNumber, a.Role, a.Email)
			}

			return nil
		},
	}
}

func createAccountCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account and link its pending roster entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireProvisioner(); err != nil {
				return err
			}

			account := accountFromFlags(cmd)
			account.Password, _ = cmd.Flags().GetString("password")

			app.Logger.Debug("accounts create command", zap.String("badge", account.BadgeNumber))

			result, err := services.CreateAccount(app.Ctx, app.Provisioner, app.Database, app.Logger, account)
			if err != nil {
				return err
			}

			fmt.Printf("\n✅ Account created: %s\n", result.UserID)
			printLinked(result.Linked)
			return nil
		},
	}

	addAccountFlags(cmd)
	cmd.Flags().String("password", "", "Initial password")

	return cmd
}

func updateAccountCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <account_id>",
		Short: "Update an account profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireProvisioner(); err != nil {
				return err
			}

			relink, _ := cmd.Flags().GetBool("relink")
			account := accountFromFlags(cmd)

			result, err := services.UpdateAccount(app.Ctx, app.Database, app.Provisioner, app.Logger, args[0], account, relink)
			if err != nil {
				return err
			}

			fmt.Printf("\n✅ Account updated: %s\n", result.UserID)
			printLinked(result.Linked)
			return nil
		},
	}

	addAccountFlags(cmd)
	cmd.Flags().Bool("relink", false, "Link pending roster entries even if the badge did not change")

	return cmd
}

func relinkAccountCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "relink <account_id>",
		Short: "Link roster entries imported before the account existed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.RelinkAccount(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}

			printLinked(result.Linked)
			return nil
		},
	}
}

func deleteAccountCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <account_id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireProvisioner(); err != nil {
				return err
			}

			if err := services.DeleteAccount(app.Ctx, app.Provisioner, app.Logger, args[0]); err != nil {
				return err
			}

			fmt.Printf("\n✅ Account deleted: %s\n", args[0])
			fmt.Println("Its roster entries are kept under their badge number.")
			return nil
		},
	}
}

func printLinked(linked int64) {
	if linked == 0 {
		fmt.Println("No pending roster entries to link.")
		return
	}
	fmt.Printf("Linked %d roster entries.\n", linked)
}
