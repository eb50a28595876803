package repo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/pressly/goose/v3"

	"github.com/wellsheli/pobboard/migrations"
	"github.com/wellsheli/pobboard/testutil"
)

// TestMain applies all pending migrations to the test database before
// any test in this package runs, so individual tests never think about
// schema state. Without TEST_DATABASE_URL every test skips itself.
func TestMain(m *testing.M) {
	if os.Getenv("TEST_DATABASE_URL") == "" {
		os.Exit(m.Run())
	}

	// goose needs database/sql, not a pgx pool; built by hand because
	// TestMain has no *testing.T to hand to the testutil helpers.
	db := testutil.MustOpenSQLDB(os.Getenv("TEST_DATABASE_URL"))
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		log.Fatalf("TestMain: create goose provider: %v", err)
	}

	if _, err := provider.Up(context.Background()); err != nil {
		log.Fatalf("TestMain: run migrations: %v", err)
	}

	os.Exit(m.Run())
}
