package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// conflict behaviour for insertQuery
type onConflict int

const (
	conflictUpdate onConflict = iota
	conflictIgnore
)

// insertQuery builds a named insert keyed on the id column. With
// conflictUpdate an existing row is overwritten except for the columns in
// keep; with conflictIgnore it is left alone.
func insertQuery(table string, cols []string, mode onConflict, keep ...string) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(") VALUES (:")
	b.WriteString(strings.Join(cols, ", :"))
	b.WriteString(")")

	if mode == conflictIgnore {
		b.WriteString(" ON CONFLICT (id) DO NOTHING")
		return b.String()
	}

	var sets []string
	for _, c := range cols {
		if c == "id" || contains(keep, c) {
			continue
		}
		sets = append(sets, c+" = excluded."+c)
	}
	b.WriteString(" ON CONFLICT (id) DO UPDATE SET ")
	b.WriteString(strings.Join(sets, ", "))
	return b.String()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (q *Queries) namedExec(ctx context.Context, query string, arg interface{}) error {
	_, err := sqlx.NamedExecContext(ctx, q.ext, query, arg)
	return err
}

func (q *Queries) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	var n int
	if err := q.get(ctx, &n, query, args...); err != nil {
		return 0, err
	}
	return n, nil
}

// affected reports whether a write touched at least one row
func affected(res sql.Result, op string) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to %s: %w", op, err)
	}
	return n > 0, nil
}
