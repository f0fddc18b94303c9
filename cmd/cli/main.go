package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/carabineros/intranet/cmd/cli/commands"
	"github.com/carabineros/intranet/internal/config"
	"github.com/carabineros/intranet/pkg/clients/mediaclient"
	"github.com/carabineros/intranet/pkg/clients/provisioning"
	"github.com/carabineros/intranet/pkg/clients/sheetsclient"
	"github.com/carabineros/intranet/pkg/postgres"
	"github.com/carabineros/intranet/pkg/utils/logging"
)

var (
	env      string
	app      *commands.AppContext
	database *postgres.DB
)

func main() {
	app = &commands.AppContext{}

	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Intranet CLI - Manage shift rosters, accounts and announcements",
		Long:  `A CLI tool for importing shift rosters, managing the shift code catalog, accounts and announcements.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if database != nil {
				database.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	// Add all commands
	rootCmd.AddCommand(commands.ImportRosterCmd(app))
	rootCmd.AddCommand(commands.LinkRosterCmd(app))
	rootCmd.AddCommand(commands.ShiftCodesCmd(app))
	rootCmd.AddCommand(commands.AccountsCmd(app))
	rootCmd.AddCommand(commands.PostsCmd(app))
	rootCmd.AddCommand(commands.MyRosterCmd(app))
	rootCmd.AddCommand(commands.StatsCmd(app))
	rootCmd.AddCommand(interactiveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, database and the optional clients
func initApp() error {
	var err error
	app.Ctx = context.Background()

	// Initialize logger
	app.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully", zap.String("timezone", app.Cfg.Timezone))

	// Connect to database
	app.Logger.Info("Connecting to database")
	database, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	app.Logger.Info("Running database migrations")
	if err := database.RunMigrations(app.Ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Database = database
	app.Logger.Info("Database initialized successfully")

	// Initialize sheets client
	if app.Cfg.Sheets.CredentialsFile != "" {
		app.Logger.Info("Initializing sheets client")
		app.SheetsClient, err = sheetsclient.NewClient(app.Ctx, app.Cfg.Sheets.CredentialsFile)
		if err != nil {
			return fmt.Errorf("failed to create sheets client: %w", err)
		}
		app.Logger.Debug("Sheets client initialized successfully")
	}

	// Initialize media client
	if app.Cfg.Media.Bucket != "" {
		app.Logger.Info("Initializing media client", zap.String("bucket", app.Cfg.Media.Bucket))
		app.MediaClient, err = mediaclient.NewClient(app.Cfg.Media)
		if err != nil {
			return fmt.Errorf("failed to create media client: %w", err)
		}
		app.Logger.Debug("Media client initialized successfully")
	}

	// Initialize provisioning client
	if app.Cfg.Provisioning.URL != "" {
		app.Logger.Info("Initializing provisioning client")
		app.Provisioner, err = provisioning.NewClient(app.Cfg.Provisioning)
		if err != nil {
			return fmt.Errorf("failed to create provisioning client: %w", err)
		}
		app.Logger.Debug("Provisioning client initialized successfully")
	}

	return nil
}

func interactiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (connect once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands over one database connection.
The session will keep running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("\n🚀 Starting interactive session...")
			fmt.Println("Type 'help' for available commands, 'exit' or 'quit' to leave")

			rootCmd := cmd.Parent()
			scanner := bufio.NewScanner(os.Stdin)

			for {
				fmt.Print("> ")

				if !scanner.Scan() {
					break
				}

				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				parts := strings.Fields(line)

				if parts[0] == "exit" || parts[0] == "quit" {
					fmt.Println("👋 Goodbye!")
					return nil
				}

				if parts[0] == "help" {
					printInteractiveHelp(rootCmd)
					continue
				}

				// Find resolves subcommand groups such as "posts feed"
				targetCmd, cmdArgs, err := rootCmd.Find(parts)
				if err != nil || targetCmd == rootCmd || targetCmd.Name() == "interactive" {
					fmt.Printf("❌ Unknown command: %s (type 'help' for available commands)\n\n", parts[0])
					continue
				}
				if targetCmd.RunE == nil {
					printSubcommands(targetCmd)
					continue
				}

				// Reset flags left over from the previous run
				targetCmd.Flags().VisitAll(func(flag *pflag.Flag) {
					flag.Changed = false
					flag.Value.Set(flag.DefValue)
				})

				// RunE is called directly so PersistentPreRunE does not reconnect
				if err := targetCmd.ParseFlags(cmdArgs); err != nil {
					fmt.Printf("❌ Error parsing flags: %v\n\n", err)
					continue
				}

				cmdArgs = targetCmd.Flags().Args()

				if targetCmd.Args != nil {
					if err := targetCmd.Args(targetCmd, cmdArgs); err != nil {
						fmt.Printf("❌ Error: %v\n\n", err)
						continue
					}
				}

				if err := targetCmd.RunE(targetCmd, cmdArgs); err != nil {
					fmt.Printf("❌ Error: %v\n\n", err)
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}

			return nil
		},
	}

	return cmd
}

func printInteractiveHelp(rootCmd *cobra.Command) {
	fmt.Println("\nAvailable commands:")

	cmds := rootCmd.Commands()
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name() < cmds[j].Name() })

	for _, c := range cmds {
		switch c.Name() {
		case "interactive", "completion", "help":
			continue
		}
		if c.HasSubCommands() {
			for _, sub := range c.Commands() {
				fmt.Printf("  %-40s %s\n", c.Name()+" "+sub.Use, sub.Short)
			}
			continue
		}
		fmt.Printf("  %-40s %s\n", c.Use, c.Short)
	}

	fmt.Println("\n  help                                     Show this help message")
	fmt.Println("  exit, quit                               Exit the interactive session")
}

func printSubcommands(cmd *cobra.Command) {
	fmt.Printf("%s subcommands:\n", cmd.Name())
	for _, sub := range cmd.Commands() {
		fmt.Printf("  %-30s %s\n", sub.Use, sub.Short)
	}
	fmt.Println()
}
