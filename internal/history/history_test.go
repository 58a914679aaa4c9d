package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun(started time.Time) *Run {
	run := NewRun(started)
	run.Finished = started.Add(time.Second)
	run.Revision = "0123456789ab"
	run.Artifacts = []Artifact{
		{Config: "node/config", Directory: "node/images/8.0.0", Version: "8.0.0", Image: "tslno/node:8.0.0"},
	}
	return run
}

func TestNewRun(t *testing.T) {
	a := NewRun(time.Now())
	b := NewRun(time.Now())

	assert.Len(t, a.ID, 36)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, a.Short(), 8)
	assert.True(t, a.OK())
}

func TestSaveAndList(t *testing.T) {
	stateDir := t.TempDir()
	started := time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)

	path, err := Save(stateDir, sampleRun(started))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(stateDir, "runs"), filepath.Dir(path))
	assert.Contains(t, filepath.Base(path), RunPrefix+"20240102-030405")

	runs, err := List(stateDir)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.True(t, got.Started.Equal(started))
	assert.Equal(t, "0123456789ab", got.Revision)
	assert.Equal(t, "tslno/node:8.0.0", got.Artifacts[0].Image)
	assert.Equal(t, path, got.Path)
}

func TestList_NewestFirst(t *testing.T) {
	stateDir := t.TempDir()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := range 3 {
		_, err := Save(stateDir, sampleRun(base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	runs, err := List(stateDir)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.True(t, runs[0].Started.After(runs[1].Started))
	assert.True(t, runs[1].Started.After(runs[2].Started))
}

func TestList_NoDirectory(t *testing.T) {
	runs, err := List(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestList_SkipsUnreadable(t *testing.T) {
	stateDir := t.TempDir()
	_, err := Save(stateDir, sampleRun(time.Now()))
	require.NoError(t, err)

	dir := filepath.Join(stateDir, "runs")
	require.NoError(t, os.WriteFile(filepath.Join(dir, RunPrefix+"garbage.yml"), []byte(": not yaml ["), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	runs, err := List(stateDir)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestGet(t *testing.T) {
	stateDir := t.TempDir()
	run := sampleRun(time.Now())
	_, err := Save(stateDir, run)
	require.NoError(t, err)

	got, err := Get(stateDir, run.Short())
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)

	_, err = Get(stateDir, "ffffffff-none")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestGet_Ambiguous(t *testing.T) {
	stateDir := t.TempDir()
	_, err := Save(stateDir, sampleRun(time.Now()))
	require.NoError(t, err)
	_, err = Save(stateDir, sampleRun(time.Now().Add(time.Second)))
	require.NoError(t, err)

	_, err = Get(stateDir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")
}

func TestCleanup_KeepsMaxRuns(t *testing.T) {
	stateDir := t.TempDir()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := range MaxRuns + 5 {
		_, err := Save(stateDir, sampleRun(base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	runs, err := List(stateDir)
	require.NoError(t, err)
	require.Len(t, runs, MaxRuns)

	// The oldest five are gone.
	oldest := runs[len(runs)-1]
	assert.True(t, oldest.Started.Equal(base.Add(5*time.Minute)))
}

func TestRun_OK(t *testing.T) {
	run := sampleRun(time.Now())
	assert.True(t, run.OK())

	run.Failures = append(run.Failures, Failure{Config: "node/config", Index: 1, Error: "missing version"})
	assert.False(t, run.OK())
}
