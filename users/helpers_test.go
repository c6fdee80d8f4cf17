package users

import (
	"database/sql"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"

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

func seedUser(t *testing.T, database *sql.DB, id, email, password, avatar string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	var av interface{}
	if avatar != "" {
		av = avatar
	}
	_, err = database.Exec(
		`INSERT INTO users (id, name, email, password, avatar) VALUES (?, ?, ?, ?, ?)`,
		id, "Test User", email, string(hashed), av)
	if err != nil {
		t.Fatalf("seeding user: %v", err)
	}
}

func newTestHandler(t *testing.T, avatarDir string) (*Handler, *sql.DB, *TokenManager) {
	t.Helper()
	database := openTestDB(t)
	tokens := NewTokenManager("test-secret", time.Hour)
	return NewHandler(database, tokens, avatarDir), database, tokens
}

func init() {
	gin.SetMode(gin.TestMode)
}
