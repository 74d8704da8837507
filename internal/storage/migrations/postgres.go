package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"wybe-engine/internal/storage/postgres"
)

// RunPostgresMigrations replays the embedded schema files against the
// pool. Each file is executed as a single multi-statement batch.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool) error {
	files, err := sqlFiles(postgresFiles, "postgres")
	if err != nil {
		return err
	}

	for _, name := range files {
		data, err := fs.ReadFile(postgresFiles, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		sql := string(data)
		if strings.TrimSpace(sql) == "" {
			continue
		}
		if _, err := pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}

	return nil
}
