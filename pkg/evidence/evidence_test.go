package evidence

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-systems/specroute/pkg/bench"
	"github.com/zen-systems/specroute/pkg/config"
)

func TestStore_SaveAndLoad(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	run := &bench.Run{
		ID:        "run-1",
		Suite:     "smoke",
		Bundle:    "local-specialists",
		Strategy:  config.StrategyKeyword,
		StartedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Results: []bench.ScoredResult{
			{TestID: "smoke-math", Pass: true, RoutingCorrect: true, Efficiency: 13.2},
		},
		Summary: bench.RunSummary{Total: 1, Passed: 1, RoutingCorrect: 1},
	}

	path, err := store.Save(run)
	require.NoError(t, err)
	assert.FileExists(t, path)

	got, err := store.Load("run-1")
	require.NoError(t, err)
	assert.Equal(t, run.Suite, got.Suite)
	assert.Equal(t, run.Strategy, got.Strategy)
	require.Len(t, got.Results, 1)
	assert.InDelta(t, 13.2, got.Results[0].Efficiency, 1e-9)
	assert.True(t, got.StartedAt.Equal(run.StartedAt))
}

func TestStore_RequiresRunID(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(&bench.Run{})
	assert.Error(t, err)
	_, err = store.Save(nil)
	assert.Error(t, err)
}

func TestStore_LoadAllSortsAndSkipsCorrupt(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	_, err = store.Save(&bench.Run{ID: "newer", StartedAt: base.Add(time.Hour)})
	require.NoError(t, err)
	_, err = store.Save(&bench.Run{ID: "older", StartedAt: base})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.json"), []byte("{not json"), 0644))

	runs, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, runs, 2, "corrupt record must be skipped, not fatal")
	assert.Equal(t, "older", runs[0].ID)
	assert.Equal(t, "newer", runs[1].ID)
}

func TestStore_ListIgnoresNonRunFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	_, err = store.Save(&bench.Run{ID: "run-1"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0755))

	ids, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"run-1"}, ids)
}
