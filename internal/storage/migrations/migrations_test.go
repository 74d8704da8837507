package migrations

import (
	"embed"
	"reflect"
	"sort"
	"strings"
	"testing"
)

func TestSplitStatements(t *testing.T) {
	input := `-- schema
CREATE TABLE a (id String) ENGINE = MergeTree ORDER BY id;

-- index
CREATE TABLE b (id String) ENGINE = MergeTree ORDER BY id;
`
	got := splitStatements(input)
	want := []string{
		"CREATE TABLE a (id String) ENGINE = MergeTree ORDER BY id",
		"CREATE TABLE b (id String) ENGINE = MergeTree ORDER BY id",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitStatements = %q, want %q", got, want)
	}
}

func TestSplitStatements_CommentsOnly(t *testing.T) {
	if got := splitStatements("-- nothing here\n\n"); len(got) != 0 {
		t.Errorf("splitStatements = %q, want empty", got)
	}
}

func TestSQLFiles_OrderedAndNonEmpty(t *testing.T) {
	sets := map[string]embed.FS{
		"postgres":   postgresFiles,
		"clickhouse": clickhouseFiles,
	}
	for dir, fsys := range sets {
		files, err := sqlFiles(fsys, dir)
		if err != nil {
			t.Fatalf("sqlFiles(%s): %v", dir, err)
		}
		if len(files) == 0 {
			t.Fatalf("no embedded migrations under %s", dir)
		}
		if !sort.StringsAreSorted(files) {
			t.Errorf("%s migrations not in lexical order: %v", dir, files)
		}
		for _, name := range files {
			if !strings.HasSuffix(name, ".sql") {
				t.Errorf("unexpected migration file %s", name)
			}
		}
	}
}
