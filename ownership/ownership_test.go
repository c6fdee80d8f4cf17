package ownership

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"projecthub/db"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.InitDB(":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	database.SetMaxOpenConns(1) // each sqlite :memory: connection is its own database
	if err := db.EnsureSchema(database); err != nil {
		t.Fatalf("ensuring schema: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func seed(t *testing.T, database *sql.DB, query string, args ...interface{}) {
	t.Helper()
	if _, err := database.Exec(query, args...); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func seedFixtures(t *testing.T, database *sql.DB) {
	seed(t, database, `INSERT INTO users (id, email, password) VALUES ('user-a', 'a@example.com', 'x')`)
	seed(t, database, `INSERT INTO users (id, email, password) VALUES ('user-b', 'b@example.com', 'x')`)
	seed(t, database, `INSERT INTO workspaces (id, name, user_id) VALUES ('ws-a', 'A', 'user-a')`)
	seed(t, database, `INSERT INTO workspaces (id, name, user_id) VALUES ('ws-b', 'B', 'user-b')`)
	seed(t, database, `INSERT INTO projects (id, name, workspace_id) VALUES ('proj-a', 'PA', 'ws-a')`)
	seed(t, database, `INSERT INTO projects (id, name, workspace_id) VALUES ('proj-b', 'PB', 'ws-b')`)
}

func projectChain(database *sql.DB) *Chain {
	return NewChain(database,
		Level{Table: "workspaces", ParentColumn: "user_id"},
		Level{Table: "projects", ParentColumn: "workspace_id"},
	)
}

func TestResolveOwnedChain(t *testing.T) {
	database := openTestDB(t)
	seedFixtures(t, database)

	err := projectChain(database).Resolve(context.Background(), "user-a", "ws-a", "proj-a")
	if err != nil {
		t.Fatalf("owned chain should resolve: %v", err)
	}
}

func TestResolveForeignWorkspaceCollapsesToNotFound(t *testing.T) {
	database := openTestDB(t)
	seedFixtures(t, database)

	// ws-b exists globally but belongs to user-b; the outcome must be the
	// same not-found a genuinely absent id produces.
	foreign := projectChain(database).Resolve(context.Background(), "user-a", "ws-b", "proj-b")
	absent := projectChain(database).Resolve(context.Background(), "user-a", "no-such-ws", "proj-b")

	if !IsNotFound(foreign) {
		t.Fatalf("foreign workspace: got %v, want not-found", foreign)
	}
	if !IsNotFound(absent) {
		t.Fatalf("absent workspace: got %v, want not-found", absent)
	}
	if foreign.Error() != absent.Error() {
		t.Fatalf("foreign and absent must be indistinguishable: %q vs %q", foreign, absent)
	}
}

func TestResolveStopsAtFirstMiss(t *testing.T) {
	database := openTestDB(t)
	seedFixtures(t, database)

	err := projectChain(database).Resolve(context.Background(), "user-a", "ws-b", "proj-a")

	var nf *NotFoundError
	if !IsNotFound(err) {
		t.Fatalf("got %v, want not-found", err)
	}
	if !errors.As(err, &nf) || nf.Table != "workspaces" {
		t.Fatalf("resolution should stop at the workspace level, got %v", err)
	}
}

func TestResolveProjectUnderWrongWorkspace(t *testing.T) {
	database := openTestDB(t)
	seedFixtures(t, database)

	// Both ids exist and user-a owns ws-a, but proj-b hangs off ws-b.
	err := projectChain(database).Resolve(context.Background(), "user-a", "ws-a", "proj-b")

	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Table != "projects" {
		t.Fatalf("got %v, want not-found at projects", err)
	}
}

func TestResolveIDCountMismatch(t *testing.T) {
	database := openTestDB(t)
	seedFixtures(t, database)

	err := projectChain(database).Resolve(context.Background(), "user-a", "ws-a")
	if err == nil || IsNotFound(err) {
		t.Fatalf("id count mismatch should be an internal error, got %v", err)
	}
}
