package users

import (
	"context"
	"database/sql"
)

type User struct {
	ID       string
	Name     *string
	Email    string
	Password string
	Avatar   *string
}

// PublicUser is the shape exposed to clients. The password hash never
// leaves this package.
type PublicUser struct {
	ID     string  `json:"id"`
	Name   *string `json:"name"`
	Email  string  `json:"email"`
	Avatar *string `json:"avatar"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}

func (u *User) AvatarString() string {
	if u.Avatar == nil {
		return ""
	}
	return *u.Avatar
}

func getUserByID(ctx context.Context, db *sql.DB, id string) (*User, error) {
	return scanUser(db.QueryRowContext(ctx,
		`SELECT id, name, email, password, avatar FROM users WHERE id = ?`, id))
}

func getUserByEmail(ctx context.Context, db *sql.DB, email string) (*User, error) {
	return scanUser(db.QueryRowContext(ctx,
		`SELECT id, name, email, password, avatar FROM users WHERE email = ?`, email))
}

func scanUser(row *sql.Row) (*User, error) {
	var user User
	var name, avatar sql.NullString
	err := row.Scan(&user.ID, &name, &user.Email, &user.Password, &avatar)
	if err != nil {
		return nil, err
	}
	if name.Valid {
		user.Name = &name.String
	}
	if avatar.Valid {
		user.Avatar = &avatar.String
	}
	return &user, nil
}
