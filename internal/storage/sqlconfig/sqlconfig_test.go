package sqlconfig

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeResult struct {
	rows int64
	err  error
}

func (f fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (f fakeResult) RowsAffected() (int64, error) { return f.rows, f.err }

func TestNotFound(t *testing.T) {
	assert.ErrorIs(t, NotFound(sql.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, NotFound(fmt.Errorf("scan: %w", sql.ErrNoRows)), ErrNotFound)

	other := errors.New("connection reset")
	assert.Equal(t, other, NotFound(other))
	assert.NoError(t, NotFound(nil))
}

func TestPage_Defaults(t *testing.T) {
	limit, offset := Page(0, -5)
	assert.Equal(t, DefaultLimit, limit)
	assert.Equal(t, 0, offset)

	limit, offset = Page(7, 14)
	assert.Equal(t, 7, limit)
	assert.Equal(t, 14, offset)
}

func TestTrim(t *testing.T) {
	rows, next := Trim([]int{1, 2, 3}, 3, 0)
	assert.Equal(t, []int{1, 2, 3}, rows)
	assert.Nil(t, next)

	rows, next = Trim([]int{1, 2, 3, 4}, 3, 6)
	assert.Equal(t, []int{1, 2, 3}, rows)
	assert.Equal(t, &Cursor{Position: 9, Limit: 3}, next)
}

func TestRequireAffected(t *testing.T) {
	assert.NoError(t, RequireAffected(fakeResult{rows: 1}, nil))
	assert.ErrorIs(t, RequireAffected(fakeResult{rows: 0}, nil), ErrNotFound)

	boom := errors.New("boom")
	assert.ErrorIs(t, RequireAffected(nil, boom), boom)
	assert.ErrorIs(t, RequireAffected(fakeResult{err: boom}, nil), boom)
}
