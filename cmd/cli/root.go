package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/KI0T0/teste-back-end-teddy/pkg/adapters/repository/sqldb"
	"github.com/KI0T0/teste-back-end-teddy/pkg/config"
	"github.com/KI0T0/teste-back-end-teddy/pkg/logging"
)

type cliOptions struct {
	databaseURL string
	logLevel    string
	logger      *slog.Logger
}

// newRootCmd builds the command tree. Tests call it to get a fresh tree.
func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:   "shortener-cli",
		Short: "Maintenance commands for the URL shortener database",
		Long: `Maintenance commands for the URL shortener database.

The database is taken from --database-url, or DATABASE_URL (.env is honored).
SQLite files, Turso (libsql://) and Postgres (postgres://) URLs are supported.

Examples:
  shortener-cli migrate up
  shortener-cli migrate down --steps 1
  shortener-cli export > links.json
  shortener-cli import --file links.json`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg := config.Load()
			if opts.databaseURL == "" {
				opts.databaseURL = cfg.DatabaseURL
			}
			if opts.logLevel == "" {
				opts.logLevel = cfg.LogLevel
			}
			opts.logger = logging.NewWithWriter(cmd.ErrOrStderr(), opts.logLevel, "text")
		},
	}

	root.PersistentFlags().StringVar(&opts.databaseURL, "database-url", "", "database URL (default $DATABASE_URL)")
	root.PersistentFlags().StringVarP(&opts.logLevel, "log-level", "l", "", "log level (debug, info, warn, error)")

	root.AddCommand(newMigrateCmd(opts), newExportCmd(opts), newImportCmd(opts))
	return root
}

// connect opens the database without migrating; migrate commands manage the schema.
func (o *cliOptions) connect() (*sqldb.DB, error) {
	return sqldb.Connect(o.databaseURL)
}

// open opens the database and brings the schema up to date.
func (o *cliOptions) open() (*sqldb.DB, error) {
	return sqldb.Open(o.databaseURL)
}
