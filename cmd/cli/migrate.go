package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.connect()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.MigrateUp(); err != nil {
				return err
			}
			return printVersion(cmd, opts, db)
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.connect()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.MigrateDown(steps); err != nil {
				return err
			}
			return printVersion(cmd, opts, db)
		},
	}
	down.Flags().IntVarP(&steps, "steps", "n", 1, "number of migrations to roll back")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.connect()
			if err != nil {
				return err
			}
			defer db.Close()
			return printVersion(cmd, opts, db)
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

type versioner interface {
	MigrationVersion() (uint, bool, error)
}

func printVersion(cmd *cobra.Command, opts *cliOptions, db versioner) error {
	v, dirty, err := db.MigrationVersion()
	if err != nil {
		return err
	}
	opts.logger.Debug("schema version read", "version", v, "dirty", dirty)
	if dirty {
		fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty)\n", v)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "version %d\n", v)
	return nil
}
