package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_LoadEmpty(t *testing.T) {
	store := setupStore(t)

	sess, ok, err := store.Load()
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, sess.Token)
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := setupStore(t)

	want := Session{Token: "abc.def.ghi", Email: "a@b.com"}
	require.NoError(t, store.Save(want))

	got, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestStore_SaveReplaces(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.Save(Session{Token: "first", Email: "one@b.com"}))
	require.NoError(t, store.Save(Session{Token: "second", Email: "two@b.com"}))

	got, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "second", got.Token)
	require.Equal(t, "two@b.com", got.Email)
}

func TestStore_Clear(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.Save(Session{Token: "t", Email: "e"}))
	require.NoError(t, store.Clear())

	_, ok, err := store.Load()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(Session{Token: "t", Email: "e"}))
	require.NoError(t, store.Close())

	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	got, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "t", got.Token)
}
