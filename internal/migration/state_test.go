package migration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStateMissingFileIsEmpty(t *testing.T) {
	state, err := LoadState(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	assert.False(t, state.IsDone("Protocol Manuals", "recPMAAAAAAAAAA01"))
	assert.Equal(t, 0, state.CompletedCount("Protocol Manuals"))
}

func TestMarkDonePersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	state, err := LoadState(path)
	require.NoError(t, err)
	require.NoError(t, state.MarkDone("Protocol Manuals", "recPMAAAAAAAAAA01"))
	require.NoError(t, state.MarkDone("Protocol Manuals", "recPMAAAAAAAAAA02"))
	require.NoError(t, state.MarkDone("Patient Handouts", "recPHAAAAAAAAAA01"))

	reloaded, err := LoadState(path)
	require.NoError(t, err)
	assert.True(t, reloaded.IsDone("Protocol Manuals", "recPMAAAAAAAAAA01"))
	assert.True(t, reloaded.IsDone("Protocol Manuals", "recPMAAAAAAAAAA02"))
	assert.True(t, reloaded.IsDone("Patient Handouts", "recPHAAAAAAAAAA01"))
	assert.False(t, reloaded.IsDone("Patient Handouts", "recPHAAAAAAAAAA02"))
	assert.Equal(t, 2, reloaded.CompletedCount("Protocol Manuals"))
}

func TestStateFileSortsRecordIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	state, err := LoadState(path)
	require.NoError(t, err)
	require.NoError(t, state.MarkDone("Protocol Manuals", "recPMAAAAAAAAAA03"))
	require.NoError(t, state.MarkDone("Protocol Manuals", "recPMAAAAAAAAAA01"))
	require.NoError(t, state.MarkDone("Protocol Manuals", "recPMAAAAAAAAAA02"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var file struct {
		Completed map[string][]string `json:"completed"`
	}
	require.NoError(t, json.Unmarshal(raw, &file))
	assert.Equal(t, []string{
		"recPMAAAAAAAAAA01",
		"recPMAAAAAAAAAA02",
		"recPMAAAAAAAAAA03",
	}, file.Completed["Protocol Manuals"])
}

func TestLoadStateRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadState(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse state")
}
