package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/table-reservation/internal/database"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Long: `Apply the embedded schema migrations for the configured DB_DRIVER.

Migrations already recorded in schema_migrations are skipped, so the
command is safe to run on every deploy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := database.Migrate(commandContext(cmd), db, cfg.DBDriver)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, name := range applied {
				fmt.Fprintf(out, "applied %s\n", name)
			}
			if len(applied) == 0 || rootOpts.Verbose {
				fmt.Fprintf(out, "schema up to date (%s)\n", cfg.DBDriver)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	return cmd
}
