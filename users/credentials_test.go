package users

import (
	"context"
	"testing"
)

func TestVerifyCredentials(t *testing.T) {
	database := openTestDB(t)
	seedUser(t, database, "user-1", "alice@example.com", "correct horse", "")

	ctx := context.Background()

	user, err := VerifyCredentials(ctx, database, "alice@example.com", "correct horse")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if user == nil || user.ID != "user-1" {
		t.Fatalf("expected user-1, got %+v", user)
	}
}

func TestVerifyCredentialsNormalizesEmailCase(t *testing.T) {
	database := openTestDB(t)
	seedUser(t, database, "user-1", "alice@example.com", "correct horse", "")

	user, err := VerifyCredentials(context.Background(), database, "Alice@Example.COM", "correct horse")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if user == nil {
		t.Fatalf("mixed-case email should still match")
	}
}

func TestVerifyCredentialsCollapsesFailures(t *testing.T) {
	database := openTestDB(t)
	seedUser(t, database, "user-1", "alice@example.com", "correct horse", "")

	ctx := context.Background()

	// Unknown email and wrong password must be indistinguishable so the
	// endpoint cannot be used for account enumeration.
	unknown, err := VerifyCredentials(ctx, database, "nobody@example.com", "whatever")
	if err != nil {
		t.Fatalf("unknown email: %v", err)
	}
	wrong, err := VerifyCredentials(ctx, database, "alice@example.com", "wrong password")
	if err != nil {
		t.Fatalf("wrong password: %v", err)
	}

	if unknown != nil || wrong != nil {
		t.Fatalf("both failures must return nil, got %v and %v", unknown, wrong)
	}
}
