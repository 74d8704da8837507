package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	chstore "wybe-engine/internal/storage/clickhouse"
)

// RunClickhouseMigrations replays the embedded schema files against an
// existing connection. The ClickHouse driver does not support
// multiquery Exec, so each file is split into individual statements.
// Migration files must not contain semicolons inside string literals.
func RunClickhouseMigrations(ctx context.Context, conn *chstore.Conn) error {
	files, err := sqlFiles(clickhouseFiles, "clickhouse")
	if err != nil {
		return err
	}

	for _, name := range files {
		data, err := fs.ReadFile(clickhouseFiles, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		for _, stmt := range splitStatements(string(data)) {
			if err := conn.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("apply migration %s: %w", name, err)
			}
		}
	}

	return nil
}

// splitStatements splits SQL content into individual statements by
// semicolon, dropping -- comments and blank lines first.
func splitStatements(input string) []string {
	var filtered []string
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		filtered = append(filtered, line)
	}
	joined := strings.Join(filtered, "\n")

	var stmts []string
	for _, part := range strings.Split(joined, ";") {
		stmt := strings.TrimSpace(part)
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
