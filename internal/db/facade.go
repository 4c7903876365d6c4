package db

import (
	"database/sql"
	"time"
)

// Result reports the effect of a write. A zero Result means the statement
// had no effect, either because it matched nothing or because it failed.
type Result struct {
	RowsAffected int64 `json:"rows_affected"`
	InsertedID   int64 `json:"inserted_id"`
}

// Query executes a parameterized read and scans each row with scan.
// Failures are logged and yield a nil slice; reads never propagate errors
// to the caller. An empty list renders fine, a storage error does not.
func Query[T any](d *DB, query string, scan func(*sql.Rows) (T, error), args ...any) []T {
	h := d.Handle()
	if h == nil {
		d.log.Error("query skipped, no live store handle", "query", query)
		return nil
	}

	rows, err := h.Query(query, args...)
	if err != nil {
		d.log.Error("query failed", "query", query, "err", err)
		return nil
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			d.log.Error("row scan failed", "query", query, "err", err)
			return nil
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		d.log.Error("row iteration failed", "query", query, "err", err)
		return nil
	}
	return out
}

// QuerySingle executes a parameterized read and returns the first row, or
// false when no row matched or the statement failed.
func QuerySingle[T any](d *DB, query string, scan func(*sql.Rows) (T, error), args ...any) (T, bool) {
	var zero T

	h := d.Handle()
	if h == nil {
		d.log.Error("query skipped, no live store handle", "query", query)
		return zero, false
	}

	rows, err := h.Query(query, args...)
	if err != nil {
		d.log.Error("query failed", "query", query, "err", err)
		return zero, false
	}
	defer rows.Close()

	if !rows.Next() {
		return zero, false
	}
	v, err := scan(rows)
	if err != nil {
		d.log.Error("row scan failed", "query", query, "err", err)
		return zero, false
	}
	return v, true
}

// Update executes a parameterized write. Failures are logged and reported
// as a zero-effect Result; callers check RowsAffected to surface user-facing
// errors.
func (d *DB) Update(query string, args ...any) Result {
	h := d.Handle()
	if h == nil {
		d.log.Error("update skipped, no live store handle", "query", query)
		return Result{}
	}

	res, err := h.Exec(query, args...)
	if err != nil {
		d.log.Error("update failed", "query", query, "err", err)
		return Result{}
	}

	affected, err := res.RowsAffected()
	if err != nil {
		d.log.Error("rows affected unavailable", "query", query, "err", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		d.log.Error("last insert id unavailable", "query", query, "err", err)
	}
	return Result{RowsAffected: affected, InsertedID: id}
}

// Timestamps are stored as RFC3339 UTC text.

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func parseTimePtr(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	return &t
}
