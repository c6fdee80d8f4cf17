// Package ownership resolves the parent chain of a nested resource path
// before any handler may touch the leaf. Every level must tie back to the
// one above it, and the outermost level must belong to the requesting user.
// A missing row and a row owned by someone else are indistinguishable to
// callers: both report not-found, so resource existence never leaks across
// tenants.
package ownership

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Level describes one step of a resource hierarchy: the table holding the
// entity and the column linking it to its parent (the user id column for
// the outermost level).
type Level struct {
	Table        string
	ParentColumn string
}

// NotFoundError reports the level at which resolution stopped.
type NotFoundError struct {
	Table string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found or not authorized", e.Table)
}

// IsNotFound reports whether err is a chain resolution miss.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Chain is a declared resource hierarchy bound to a database.
type Chain struct {
	db     *sql.DB
	levels []Level
}

func NewChain(db *sql.DB, levels ...Level) *Chain {
	return &Chain{db: db, levels: levels}
}

// Resolve walks the hierarchy outer-to-inner. ids must supply one id per
// level. Each lookup is constrained by the previous level's resolved id
// (the user id for the first level), and resolution stops at the first
// miss without touching deeper levels.
func (c *Chain) Resolve(ctx context.Context, userID string, ids ...string) error {
	if len(ids) != len(c.levels) {
		return fmt.Errorf("ownership: expected %d ids, got %d", len(c.levels), len(ids))
	}

	parentID := userID
	for i, level := range c.levels {
		query := fmt.Sprintf("SELECT 1 FROM %s WHERE id = ? AND %s = ?", level.Table, level.ParentColumn)

		var one int
		err := c.db.QueryRowContext(ctx, query, ids[i], parentID).Scan(&one)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &NotFoundError{Table: level.Table}
			}
			return fmt.Errorf("ownership: resolving %s: %w", level.Table, err)
		}

		parentID = ids[i]
	}

	return nil
}
