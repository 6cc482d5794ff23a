package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotateKeepsNewestFiles(t *testing.T) {
	dir := t.TempDir()

	names := []string{
		"fleetray_20260801_100000_PID1_a.log",
		"fleetray_20260802_100000_PID1_b.log",
		"fleetray_20260803_100000_PID1_c.log",
		"fleetray_20260804_100000_PID1_d.log",
	}
	base := time.Now().Add(-time.Hour)
	for i, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
		at := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(path, at, at))
	}
	// Unrelated files are never touched.
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("keep"), 0o600))

	require.NoError(t, rotate(dir, 2))

	assert.NoFileExists(t, filepath.Join(dir, names[0]))
	assert.NoFileExists(t, filepath.Join(dir, names[1]))
	assert.FileExists(t, filepath.Join(dir, names[2]))
	assert.FileExists(t, filepath.Join(dir, names[3]))
	assert.FileExists(t, other)
}

func TestRotateUnderLimitIsNoop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fleetray_20260801_100000_PID1_a.log")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	require.NoError(t, rotate(dir, 10))
	assert.FileExists(t, path)
}
