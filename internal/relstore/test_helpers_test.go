package relstore

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"testing"
	"time"

	"silicon-casino/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

var testSchemaNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func openStore(t *testing.T) (*Store, context.Context, func()) {
	t.Helper()
	cfg, err := config.LoadTest()
	if err != nil {
		t.Skipf("skip test db: %v", err)
	}
	dsn := cfg.TestPostgresDSN
	schema := fmt.Sprintf("test_%d", time.Now().UnixNano())

	ctx := context.Background()
	base, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("open base db: %v", err)
	}
	if !testSchemaNamePattern.MatchString(schema) {
		base.Close()
		t.Fatalf("invalid schema name: %q", schema)
	}
	if _, err := base.Exec(ctx, fmt.Sprintf("CREATE SCHEMA %s", schema)); err != nil {
		base.Close()
		t.Fatalf("create schema: %v", err)
	}
	base.Close()

	st, err := New(ctx, withSearchPath(dsn, schema))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := st.Pool.Exec(ctx, schemaDDL); err != nil {
		st.Close()
		t.Fatalf("apply schema: %v", err)
	}

	cleanup := func() {
		st.Close()
		base, err := pgxpool.New(context.Background(), dsn)
		if err == nil {
			_, _ = base.Exec(context.Background(), fmt.Sprintf("DROP SCHEMA %s CASCADE", schema))
			base.Close()
		}
	}
	return st, ctx, cleanup
}

func withSearchPath(dsn, schema string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return dsn
	}
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()
	return u.String()
}
