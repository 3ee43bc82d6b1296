package store

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := New(db, "teststore")
	require.NoError(t, err)
	return s
}

func TestNewBadName(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	defer db.Close()

	for _, name := range []string{"", "drop table x;", "with-dash", "x1"} {
		_, err := New(db, name)
		assert.ErrorIs(t, err, ErrBadName, name)
	}
}

func TestStoreReadEmpty(t *testing.T) {
	s := setupTestStore(t)

	var nothing struct{}
	assert.ErrorIs(t, s.Get("some key", &nothing), ErrNotFound)
	assert.ErrorIs(t, s.Get("some key", nil), ErrNotFound)
}

func TestStoreWriteAndRead(t *testing.T) {
	s := setupTestStore(t)

	type best struct {
		Seconds int
		At      time.Time
		Board   []int
	}
	val := best{Seconds: 42, At: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), Board: []int{9, 9, 10}}
	require.NoError(t, s.Set("best", val))

	var got best
	require.NoError(t, s.Get("best", &got))
	assert.Equal(t, val.Seconds, got.Seconds)
	assert.True(t, val.At.Equal(got.At))
	assert.Equal(t, val.Board, got.Board)

	assert.NoError(t, s.Get("best", nil))
}

func TestStoreUpdate(t *testing.T) {
	s := setupTestStore(t)

	require.NoError(t, s.Set("key", 1))
	require.NoError(t, s.Set("key", 2))

	var got int
	require.NoError(t, s.Get("key", &got))
	assert.Equal(t, 2, got)
}

func TestStoreDelete(t *testing.T) {
	s := setupTestStore(t)

	require.NoError(t, s.Delete("missing"))

	require.NoError(t, s.Set("key", 1337))
	require.NoError(t, s.Delete("key"))
	assert.ErrorIs(t, s.Get("key", nil), ErrNotFound)
}

func TestStoreCountAndKeys(t *testing.T) {
	s := setupTestStore(t)

	for i, key := range []string{"d", "b", "a", "c"} {
		require.NoError(t, s.Set(key, i))
	}

	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	require.NoError(t, s.Delete("a"))

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "d"}, keys)
}
