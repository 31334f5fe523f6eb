package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KI0T0/teste-back-end-teddy/pkg/adapters/repository/sqldb"
	"github.com/KI0T0/teste-back-end-teddy/pkg/core/domain"
)

func newExportCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write every link, deleted ones included, as JSON to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.open()
			if err != nil {
				return err
			}
			defer db.Close()

			links, err := sqldb.NewLinkRepository(db).Dump(cmd.Context())
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(links); err != nil {
				return fmt.Errorf("encode failed: %w", err)
			}
			opts.logger.Info("exported links", "count", len(links))
			return nil
		},
	}
}

func newImportCmd(opts *cliOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load links from a JSON export",
		Long: `Load links from a JSON export.

Clicks and timestamps are preserved. Links whose code is already active in the
target are skipped. Owners that do not exist in the target are dropped and the
link becomes anonymous.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer f.Close()

			var links []domain.Link
			if err := json.NewDecoder(f).Decode(&links); err != nil {
				return fmt.Errorf("decode failed: %w", err)
			}

			db, err := opts.open()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			repo := sqldb.NewLinkRepository(db)
			users := sqldb.NewUserRepository(db)

			imported, skipped := 0, 0
			for i := range links {
				l := &links[i]
				if l.OwnerID != nil {
					owner, err := users.GetByID(ctx, *l.OwnerID)
					if err != nil {
						return err
					}
					if owner == nil {
						opts.logger.Warn("owner missing, importing as anonymous", "code", l.ShortCode, "owner_id", *l.OwnerID)
						l.OwnerID = nil
					}
				}

				err := repo.Import(ctx, l)
				switch {
				case errors.Is(err, domain.ErrDuplicateCode):
					opts.logger.Info("skipping existing code", "code", l.ShortCode)
					skipped++
				case err != nil:
					return fmt.Errorf("import %s: %w", l.ShortCode, err)
				default:
					imported++
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d links, skipped %d\n", imported, skipped)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file to import")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
