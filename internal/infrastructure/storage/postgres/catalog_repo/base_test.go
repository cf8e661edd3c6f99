package catalog_repo

import (
	"testing"

	"github.com/Masterminds/squirrel"
)

func newTestRepo() *BaseCatalogRepo[any] {
	return NewBaseCatalogRepo[any](nil, "test_table", []string{"id", "code", "name"}, func() any { return nil })
}

func TestParseOrderBy(t *testing.T) {
	repo := newTestRepo()

	tests := []struct {
		name    string
		orderBy string
		want    string
		wantErr bool
	}{
		{name: "empty defaults to name", orderBy: "", want: "name ASC"},
		{name: "plain field", orderBy: "code", want: "code ASC"},
		{name: "descending", orderBy: "-code", want: "code DESC"},
		{name: "explicit ascending", orderBy: "+name", want: "name ASC"},
		{name: "created_at always allowed", orderBy: "-created_at", want: "created_at DESC"},
		{name: "unknown column rejected", orderBy: "password", wantErr: true},
		{name: "injection rejected", orderBy: "name; DROP TABLE test_table", wantErr: true},
		{name: "bare minus rejected", orderBy: "-", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.parseOrderBy(tt.orderBy)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseOrderBy failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("want %q, got %q", tt.want, got)
			}
		})
	}
}

func TestBaseSelect_SearchSQL(t *testing.T) {
	repo := newTestRepo()

	q := repo.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.Or{
			squirrel.ILike{"name": "%thread%"},
			squirrel.ILike{"code": "%thread%"},
		})

	sql, args, err := q.ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "SELECT id, code, name FROM test_table WHERE deletion_mark = $1 AND (name ILIKE $2 OR code ILIKE $3)"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	if len(args) != 3 {
		t.Fatalf("want 3 args, got %d", len(args))
	}
}
