package cache

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(context.Background(), db))
	return NewSQLiteStore(db)
}

func TestSetAndGet(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "u1", KeyProfile, []byte(`{"name":"Ada"}`)))

	v, err := s.Get(ctx, "u1", KeyProfile)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Ada"}`, string(v))
}

func TestGet_Absent_ReturnsNilNil(t *testing.T) {
	s := setupStore(t)

	v, err := s.Get(context.Background(), "u1", "missing")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSet_Upserts(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "u1", "k", []byte("old")))
	require.NoError(t, s.Set(ctx, "u1", "k", []byte("new")))

	v, err := s.Get(ctx, "u1", "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)
}

func TestEntriesAreNamespacedByIdentity(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "u1", "k", []byte("one")))
	require.NoError(t, s.Set(ctx, "u2", "k", []byte("two")))

	v1, err := s.Get(ctx, "u1", "k")
	require.NoError(t, err)
	v2, err := s.Get(ctx, "u2", "k")
	require.NoError(t, err)
	assert.Equal(t, "one", string(v1))
	assert.Equal(t, "two", string(v2))
}

func TestSetMany_AndList(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetMany(ctx, "u1", map[string][]byte{
		KeyProfile: []byte("p"),
		KeySession: []byte("s"),
	}))

	m, err := s.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, m, 2)
	assert.Equal(t, []byte("p"), m[KeyProfile])
	assert.Equal(t, []byte("s"), m[KeySession])
}

func TestSetMany_CancelledContext_WritesNothing(t *testing.T) {
	s := setupStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.SetMany(ctx, "u1", map[string][]byte{"a": []byte("x")})
	require.Error(t, err)

	m, err := s.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestDelete_IsIdempotent(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "u1", "k", []byte("v")))
	require.NoError(t, s.Delete(ctx, "u1", "k"))
	require.NoError(t, s.Delete(ctx, "u1", "k"))

	v, err := s.Get(ctx, "u1", "k")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestClearUser_LeavesOtherIdentities(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "u1", "a", []byte("1")))
	require.NoError(t, s.Set(ctx, "u1", "b", []byte("2")))
	require.NoError(t, s.Set(ctx, DeviceNamespace, KeySession, []byte("secret")))

	require.NoError(t, s.ClearUser(ctx, "u1"))

	m, err := s.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, m)

	v, err := s.Get(ctx, DeviceNamespace, KeySession)
	require.NoError(t, err)
	assert.Equal(t, "secret", string(v))
}

func TestOpen_FileDSN_MigratesOnce(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	s, err := Open(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "u1", "k", []byte("v")))
	require.NoError(t, s.Close())

	s, err = Open(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()

	v, err := s.Get(ctx, "u1", "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(v))
}

func TestClosedDB_ReturnsErrors(t *testing.T) {
	s := setupStore(t)
	require.NoError(t, s.Close())
	ctx := context.Background()

	_, err := s.Get(ctx, "u1", "k")
	assert.Error(t, err)
	assert.Error(t, s.Set(ctx, "u1", "k", nil))
	assert.Error(t, s.Delete(ctx, "u1", "k"))
	assert.Error(t, s.ClearUser(ctx, "u1"))
	_, err = s.List(ctx, "u1")
	assert.Error(t, err)
}
