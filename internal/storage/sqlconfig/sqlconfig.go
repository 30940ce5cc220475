// Package sqlconfig holds the pieces shared by every table package: the
// not-found sentinel, pagination helpers and small bob query helpers.
package sqlconfig

import (
	"database/sql"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
)

// DefaultLimit is the page size used when a filter does not set one.
const DefaultLimit = 20

// ErrNotFound is returned when a lookup by key matches no row.
var ErrNotFound = errors.New("record not found")

// NotFound converts sql.ErrNoRows into ErrNotFound and passes every other
// error through.
func NotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Cursor identifies a position in a paginated result set.
type Cursor struct {
	Position int
	Limit    int
}

// Page normalises limit and offset. A non-positive limit becomes DefaultLimit.
func Page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Trim cuts rows fetched with limit+1 down to limit and reports the cursor
// for the next page, if any.
func Trim[T any](rows []T, limit, offset int) ([]T, *Cursor) {
	if len(rows) <= limit {
		return rows, nil
	}
	return rows[:limit], &Cursor{Position: offset + limit, Limit: limit}
}

// PageMods returns the LIMIT/OFFSET mods for a page, fetching one extra row
// so Trim can detect a following page.
func PageMods(limit, offset int) []bob.Mod[*dialect.SelectQuery] {
	return []bob.Mod[*dialect.SelectQuery]{
		sm.Limit(limit + 1),
		sm.Offset(offset),
	}
}

// WhereID matches the primary key column.
func WhereID(id uuid.UUID) bob.Mod[*dialect.SelectQuery] {
	return sm.Where(psql.Quote("id").EQ(psql.Arg(id)))
}

// RequireAffected turns an UPDATE or DELETE that touched no rows into
// ErrNotFound.
func RequireAffected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
