package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/database"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFile string
	Verbose bool
}

// NewRootCommand creates the root command for the reservectl CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "reservectl",
		Short: "Operate the table reservation service",
		Long:  "Maintenance commands for the table reservation service: schema migrations, restaurants, admin accounts and reminder mail.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.EnvFile == "" {
				return nil
			}
			if err := godotenv.Load(opts.EnvFile); err != nil {
				return fmt.Errorf("load env file %q: %w", opts.EnvFile, err)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "load environment variables from this file first")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewHashPasswordCommand(opts))
	cmd.AddCommand(NewCreateRestaurantCommand(opts))
	cmd.AddCommand(NewCreateAdminCommand(opts))
	cmd.AddCommand(NewSendRemindersCommand(opts))
	cmd.AddCommand(NewConsumeMailCommand(opts))

	return cmd
}

// openDatabase loads the service configuration and connects to its database.
func openDatabase() (config.Config, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("config: %w", err)
	}
	db, err := database.OpenDriver(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("database: %w", err)
	}
	return cfg, db, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
