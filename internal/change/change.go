// Package change implements the Change Detector (C8): given a project
// root and the store's indexed-file tracking info, decide which files
// need (re)parsing and which indexed files were deleted (§4.8). The
// enumeration and exclusion conventions are grounded on the teacher's
// internal/ingestion/walker.go, generalized from the teacher's JS/TS/Python
// allowlist to this project's TypeScript/JavaScript-only scope.
package change

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsgraph/tsgraph/internal/identity"
)

var supportedExtensions = map[string]bool{
	".js": true, ".jsx": true, ".mjs": true, ".cjs": true,
	".ts": true, ".tsx": true, ".mts": true, ".cts": true,
}

var excludedDirs = []string{
	".git", "node_modules", "vendor", "dist", "build", "out",
	".next", ".nuxt", "coverage", ".cache", ".parcel-cache", ".idea", ".vscode",
}

var generatedSuffixes = []string{
	".min.js", ".bundle.js", ".generated.ts", ".generated.js", ".pb.ts", ".pb.js",
}

func shouldSkipDir(name string) bool {
	for _, d := range excludedDirs {
		if name == d || strings.HasPrefix(name, d) {
			return true
		}
	}
	return false
}

func isGeneratedFile(path string) bool {
	for _, suf := range generatedSuffixes {
		if strings.HasSuffix(path, suf) {
			return true
		}
	}
	return false
}

// IndexedFile is the tracking info C10 returns for one already-indexed
// source file (§4.8 step 3).
type IndexedFile struct {
	FilePath    string
	Mtime       string
	Size        int64
	ContentHash string
}

// Plan is C8's output: the files to (re)parse and the files to delete.
type Plan struct {
	FilesToReparse []string
	FilesToDelete  []string
}

// Detect enumerates projectRoot, excludes generated files and vendor/build
// directories, and diffs against indexed per §4.8's four-step decision: unknown
// files are new, mtime/size changes trigger a content-hash check, and
// indexed files no longer present are deletes.
func Detect(projectRoot string, indexed []IndexedFile) (*Plan, error) {
	absRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("change: resolve project root: %w", err)
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, fmt.Errorf("change: resolve project root symlinks: %w", err)
	}

	current := make(map[string]os.FileInfo)
	err = filepath.WalkDir(realRoot, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if shouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !supportedExtensions[filepath.Ext(path)] || isGeneratedFile(path) {
			return nil
		}
		real, err := filepath.EvalSymlinks(path)
		if err != nil {
			return nil // unreadable symlink target; treat as absent
		}
		if !strings.HasPrefix(real, realRoot) {
			return fmt.Errorf("change: %s escapes project root via symlink", path)
		}
		info, err := os.Stat(real)
		if err != nil {
			return nil
		}
		current[real] = info
		return nil
	})
	if err != nil {
		return nil, err
	}

	byPath := make(map[string]IndexedFile, len(indexed))
	for _, f := range indexed {
		byPath[f.FilePath] = f
	}

	plan := &Plan{}
	for path := range byPath {
		if _, ok := current[path]; !ok {
			plan.FilesToDelete = append(plan.FilesToDelete, path)
		}
	}

	for path, info := range current {
		prior, ok := byPath[path]
		if !ok {
			plan.FilesToReparse = append(plan.FilesToReparse, path)
			continue
		}
		mtime := info.ModTime().UTC().Format("2006-01-02T15:04:05Z")
		if mtime == prior.Mtime && info.Size() == prior.Size {
			continue
		}
		contents, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if identity.ContentHash(contents) != prior.ContentHash {
			plan.FilesToReparse = append(plan.FilesToReparse, path)
		}
	}
	return plan, nil
}
