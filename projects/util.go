package projects

import (
	"database/sql"
	"time"
)

func nullToPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func msToTimePtr(ni sql.NullInt64) *time.Time {
	if !ni.Valid {
		return nil
	}
	t := time.UnixMilli(ni.Int64).UTC()
	return &t
}

func ptrArg(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func timeArg(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}
