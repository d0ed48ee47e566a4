package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/chronicle/pkg/archive"
	"github.com/entrhq/chronicle/pkg/types"
)

func testArchiveConfig() archive.Config {
	return archive.Config{
		MaxCurrent:         6,
		MaxRecent:          10,
		CompactionInterval: 10,
		InjectionInterval:  10,
		MinEventLength:     20,
	}
}

func recordTurns(t *testing.T, sess *Session, n int) {
	t.Helper()
	for turn := 1; turn <= n; turn++ {
		threat := float64(turn%10) / 10
		err := sess.Archive.RecordTurn(turn, &types.TurnState{
			Threat:   threat,
			Location: "fenwick hollow",
			Scene:    "the party presses on through the hollow",
		}, &types.TurnDelta{
			SchemaVersion: types.DeltaSchemaVersion,
			Threat:        &threat,
			Events: []types.DeltaEvent{
				{Description: "the party presses deeper into the hollow"},
			},
		})
		require.NoError(t, err)
	}
}

func TestStore_CreateGetEnd(t *testing.T) {
	store := NewStore(testArchiveConfig())

	sess := store.Create("the siege of fenwick")
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "the siege of fenwick", sess.Name)
	assert.NotNil(t, sess.Archive)
	assert.Equal(t, 1, store.Count())

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	_, err = store.Get("missing")
	assert.Error(t, err)

	require.NoError(t, store.End(sess.ID))
	assert.Equal(t, 0, store.Count())
	assert.Error(t, store.End(sess.ID))
}

func TestStore_ListOrdersByActivity(t *testing.T) {
	store := NewStore(testArchiveConfig())

	first := store.Create("first")
	second := store.Create("second")

	first.UpdatedAt = time.Now().Add(time.Minute)

	list := store.List()
	require.Len(t, list, 2)
	assert.Same(t, first, list[0])
	assert.Same(t, second, list[1])
}

func TestStore_SaveAndRestore(t *testing.T) {
	store := NewStore(testArchiveConfig())
	path := filepath.Join(t.TempDir(), "saves", "siege.yaml")

	sess := store.Create("the siege of fenwick")
	recordTurns(t, sess, 25)

	require.NoError(t, store.Save(sess.ID, path))
	require.NoError(t, store.End(sess.ID))

	restored, err := store.Restore("the siege of fenwick", path)
	require.NoError(t, err)
	assert.NotEqual(t, sess.ID, restored.ID, "restore registers a fresh session")
	assert.Equal(t, 25, restored.Archive.LastTurn())
	assert.Equal(t, 2, restored.Archive.Stats().Summaries)

	// Play continues where the save left off.
	threat := 0.5
	err = restored.Archive.RecordTurn(26, nil, &types.TurnDelta{
		SchemaVersion: types.DeltaSchemaVersion,
		Threat:        &threat,
	})
	assert.NoError(t, err)
}

func TestStore_SaveUnknownSession(t *testing.T) {
	store := NewStore(testArchiveConfig())
	err := store.Save("missing", filepath.Join(t.TempDir(), "x.yaml"))
	assert.Error(t, err)
}

func TestStore_RestoreMissingFile(t *testing.T) {
	store := NewStore(testArchiveConfig())
	_, err := store.Restore("ghost", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestStore_RestoreCorruptSave(t *testing.T) {
	store := NewStore(testArchiveConfig())
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"9.0\"\nlast_turn: 3\n"), 0600))

	_, err := store.Restore("bad", path)
	require.Error(t, err)
	var corrupt *archive.CorruptArchiveError
	assert.True(t, errors.As(err, &corrupt))
}
