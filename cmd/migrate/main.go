package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	databasepb "cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// A tiny migration helper that applies a DDL file to a Cloud Spanner
// database (typically the emulator for local dev).
//
// Usage (emulator):
//
//	export SPANNER_EMULATOR_HOST=localhost:9010
//	go run ./cmd/migrate --database projects/test-project/instances/emulator-instance/databases/test-db
func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Fatal("migrate")
	}
}

func newRootCmd() *cobra.Command {
	var (
		db      string
		file    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply the quiz schema DDL to a Spanner database",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if db == "" {
				return errors.New("--database or SPANNER_DATABASE is required")
			}
			stmts, err := readDDLStatements(file)
			if err != nil {
				return errors.Wrap(err, "read DDL")
			}
			if len(stmts) == 0 {
				return errors.Errorf("no DDL statements found in %s", file)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			if err := applyDDL(ctx, db, stmts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d DDL statements to %s\n", len(stmts), db)
			return nil
		},
	}

	cmd.Flags().StringVar(&db, "database", os.Getenv("SPANNER_DATABASE"), "fully qualified Spanner database name")
	cmd.Flags().StringVar(&file, "file", filepath.Join("migrations", "001_initial_schema.sql"), "DDL file to apply")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "time allowed for the DDL operation")
	return cmd
}

func applyDDL(ctx context.Context, db string, stmts []string) error {
	admin, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return errors.Wrap(err, "database admin client")
	}
	defer admin.Close()

	op, err := admin.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
		Database:   db,
		Statements: stmts,
	})
	if err != nil {
		return errors.Wrap(err, "UpdateDatabaseDdl")
	}
	return errors.Wrap(op.Wait(ctx), "UpdateDatabaseDdl wait")
}

// readDDLStatements splits a DDL file on ";". Lines starting with "--" are
// dropped first so comments never become statements.
func readDDLStatements(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sql := strings.ReplaceAll(string(b), "\r\n", "\n")

	lines := strings.Split(sql, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "--") {
			continue
		}
		kept = append(kept, l)
	}

	parts := strings.Split(strings.Join(kept, "\n"), ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		stmt := strings.TrimSpace(p)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out, nil
}
