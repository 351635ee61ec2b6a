package cloud

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SaveIncrementsVersionPerUser(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	r1, err := s.Save("alice", json.RawMessage(`{"creds":1}`))
	require.NoError(t, err)
	assert.Equal(t, 1, r1.Version)

	r2, err := s.Save("alice", json.RawMessage(`{"creds":2}`))
	require.NoError(t, err)
	assert.Equal(t, 2, r2.Version)

	// Versions are per user.
	rb, err := s.Save("bob", json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Equal(t, 1, rb.Version)

	got, err := s.Load("alice")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
	assert.JSONEq(t, `{"creds":2}`, string(got.SaveData))
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestFileStore_LoadMissingUser(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Load("nobody")
	assert.ErrorIs(t, err, ErrNoSave)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewFileStore(dir)
	require.NoError(t, err)
	_, err = s.Save("alice", json.RawMessage(`{"creds":7}`))
	require.NoError(t, err)
	_, err = s.Save("alice", json.RawMessage(`{"creds":8}`))
	require.NoError(t, err)

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)
	got, err := reopened.Load("alice")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
	assert.JSONEq(t, `{"creds":8}`, string(got.SaveData))

	// The version sequence continues after a restart.
	r3, err := reopened.Save("alice", json.RawMessage(`{"creds":9}`))
	require.NoError(t, err)
	assert.Equal(t, 3, r3.Version)
}
