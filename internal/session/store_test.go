package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestCreateAndGet(t *testing.T) {
	store := newTestStore(t)

	sess, err := store.Create()
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Empty(t, sess.Entries)

	loaded, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, loaded.ID)
}

func TestAppendPersistsEntries(t *testing.T) {
	store := newTestStore(t)
	sess, err := store.Create()
	require.NoError(t, err)

	require.NoError(t, store.Append(sess.ID, Entry{Role: "user", Content: "météo de paris", Intent: "weather"}))
	require.NoError(t, store.Append(sess.ID, Entry{Role: "assistant", Content: "Météo à Paris..."}))

	loaded, err := store.Get(sess.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Entries, 2)
	assert.Equal(t, "user", loaded.Entries[0].Role)
	assert.Equal(t, "weather", loaded.Entries[0].Intent)
	assert.False(t, loaded.Entries[0].At.IsZero())
	assert.True(t, loaded.UpdatedAt.Equal(loaded.Entries[1].At))
}

func TestAppendToMissingSession(t *testing.T) {
	store := newTestStore(t)
	err := store.Append("no-such-id", Entry{Role: "user", Content: "bonjour"})
	require.Error(t, err)
}

func TestListOrdersByRecency(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Create()
	require.NoError(t, err)
	second, err := store.Create()
	require.NoError(t, err)

	// Touch the first session last so it sorts to the front.
	require.NoError(t, store.Append(second.ID, Entry{Role: "user", Content: "a", At: time.Now().UTC()}))
	require.NoError(t, store.Append(first.ID, Entry{Role: "user", Content: "b", At: time.Now().UTC().Add(time.Second)}))

	sessions, err := store.List()
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, first.ID, sessions[0].ID)
	assert.Equal(t, second.ID, sessions[1].ID)
}

func TestListSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	sess, err := store.Create()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0644))

	sessions, err := store.List()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, sess.ID, sessions[0].ID)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	sess, err := store.Create()
	require.NoError(t, err)

	require.NoError(t, store.Delete(sess.ID))
	_, err = store.Get(sess.ID)
	require.Error(t, err)

	// Idempotent.
	require.NoError(t, store.Delete(sess.ID))
}
