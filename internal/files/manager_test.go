package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shillergen/internal/config"
	"shillergen/internal/shared/testutil"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	dataDir := filepath.Join(t.TempDir(), "data")
	logger, _ := testutil.NewTestLogger(t)
	return NewManager(&config.Paths{DataDir: dataDir}).WithLogger(logger), dataDir
}

func TestManager_WriteFile(t *testing.T) {
	manager, dataDir := newTestManager(t)

	existed, err := manager.WriteFile("out.ts", []byte("first"))
	require.NoError(t, err)
	assert.False(t, existed)

	content, err := os.ReadFile(filepath.Join(dataDir, "out.ts"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(content))

	existed, err = manager.WriteFile("out.ts", []byte("2nd"))
	require.NoError(t, err)
	assert.True(t, existed)

	content, err = os.ReadFile(filepath.Join(dataDir, "out.ts"))
	require.NoError(t, err)
	assert.Equal(t, "2nd", string(content), "shorter content must fully replace the old file")
}

func TestManager_AbsolutePaths(t *testing.T) {
	manager, dataDir := newTestManager(t)

	elsewhere := filepath.Join(t.TempDir(), "nested", "gen.ts")
	_, err := manager.WriteFile(elsewhere, []byte("x"))
	require.NoError(t, err)

	assert.True(t, manager.FileExists(elsewhere))
	assert.False(t, manager.FileExists("gen.ts"))
	assert.NoDirExists(t, dataDir)
}

func TestManager_WriteFileRelativeDataDir(t *testing.T) {
	root := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(root))
	t.Cleanup(func() { os.Chdir(wd) })

	logger, _ := testutil.NewTestLogger(t)
	manager := NewManager(&config.Paths{DataDir: "data"}).WithLogger(logger)

	existed, err := manager.WriteFile("out.ts", []byte("first"))
	require.NoError(t, err)
	assert.False(t, existed)

	existed, err = manager.WriteFile("out.ts", []byte("second"))
	require.NoError(t, err)
	assert.True(t, existed, "existing file under a relative data dir must be reported")
	assert.NoDirExists(t, filepath.Join(root, "data", "data"))
}

func TestManager_WriteFailure(t *testing.T) {
	manager, dataDir := newTestManager(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "out.ts"), 0755))

	_, err := manager.WriteFile("out.ts", []byte("x"))
	assert.Error(t, err, "writing over a directory must fail")
}
