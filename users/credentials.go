package users

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// VerifyCredentials checks an email/password pair against the stored hash.
// It returns nil for an unknown email and for a wrong password alike, so a
// caller can never distinguish the two cases (account enumeration). The
// bcrypt comparison is the only password check performed anywhere.
func VerifyCredentials(ctx context.Context, db *sql.DB, email, password string) (*User, error) {
	user, err := getUserByEmail(ctx, db, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil
	}

	return user, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
