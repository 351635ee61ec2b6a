package save

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpbranski/clickfluencer-idle-sub002/internal/catalog"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/game"
)

func TestFileRepo_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepo(dir)
	require.NoError(t, err)

	_, found, err := repo.Load()
	require.NoError(t, err)
	assert.False(t, found)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	g := game.NewGameState(catalog.Default(), now)
	g.Creds = 42
	sys := System{
		ActiveSlot: 2,
		Slots: map[int]*Slot{
			1: {Game: game.NewGameState(catalog.Default(), now), CreatedAt: now, UpdatedAt: now},
			2: {Game: g, CreatedAt: now, UpdatedAt: now},
		},
	}
	require.NoError(t, repo.Save(sys))

	got, found, err := repo.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, got.ActiveSlot)
	require.Len(t, got.Slots, 2)
	assert.Equal(t, 42.0, got.Slots[2].Game.Creds)

	// No torn temp file left behind.
	_, err = os.Stat(filepath.Join(dir, "slots.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileRepo_CorruptFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepo(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "slots.json"), []byte("{nope"), 0o644))
	_, _, err = repo.Load()
	assert.Error(t, err)
}
