package change

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsgraph/tsgraph/internal/identity"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

func TestDetectTreatsUnknownFilesAsNew(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "app.ts"), "export class App {}")

	plan, err := Detect(root, nil)
	require.NoError(t, err)
	require.Len(t, plan.FilesToReparse, 1)
	assert.Empty(t, plan.FilesToDelete)
}

func TestDetectSkipsExcludedDirsAndGeneratedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "node_modules", "dep", "index.ts"), "export const x = 1")
	writeFile(t, filepath.Join(root, "dist", "app.js"), "console.log(1)")
	writeFile(t, filepath.Join(root, "src", "app.generated.ts"), "export const y = 1")
	writeFile(t, filepath.Join(root, "src", "app.ts"), "export class App {}")

	plan, err := Detect(root, nil)
	require.NoError(t, err)
	require.Len(t, plan.FilesToReparse, 1)
	assert.Contains(t, plan.FilesToReparse[0], "src/app.ts")
}

func TestDetectSkipsUnchangedFilesByMtimeAndSize(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "src", "app.ts")
	writeFile(t, path, "export class App {}")

	info, err := os.Stat(path)
	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)

	indexed := []IndexedFile{{
		FilePath: resolved,
		Mtime:    info.ModTime().UTC().Format("2006-01-02T15:04:05Z"),
		Size:     info.Size(),
	}}

	plan, err := Detect(root, indexed)
	require.NoError(t, err)
	assert.Empty(t, plan.FilesToReparse)
	assert.Empty(t, plan.FilesToDelete)
}

func TestDetectReparsesOnContentHashMismatchDespiteStaleMtime(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "src", "app.ts")
	writeFile(t, path, "export class App {}")
	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)

	// Simulate a stale index entry: same mtime bucket forced different by
	// construction (size differs), but a fresh content hash.
	indexed := []IndexedFile{{
		FilePath:    resolved,
		Mtime:       time.Unix(0, 0).UTC().Format("2006-01-02T15:04:05Z"),
		Size:        999,
		ContentHash: identity.ContentHash([]byte("stale content")),
	}}

	plan, err := Detect(root, indexed)
	require.NoError(t, err)
	require.Len(t, plan.FilesToReparse, 1)
}

func TestDetectFlagsMissingIndexedFilesForDeletion(t *testing.T) {
	root := t.TempDir()
	missing := filepath.Join(root, "src", "removed.ts")

	indexed := []IndexedFile{{FilePath: missing, Mtime: "2026-01-01T00:00:00Z", Size: 10}}
	plan, err := Detect(root, indexed)
	require.NoError(t, err)
	assert.Contains(t, plan.FilesToDelete, missing)
	assert.Empty(t, plan.FilesToReparse)
}
