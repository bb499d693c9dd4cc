package purge

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// ErrRootNotFound is returned when the purge root does not exist or is not a directory.
var ErrRootNotFound = errors.New("content root not found")

// DiscoverStats tracks file discovery statistics.
type DiscoverStats struct {
	FilesMatched int // files matching a content pattern
	FilesIgnored int // matched files skipped by .gitignore
}

// loadGitIgnore compiles <root>/.gitignore. A missing file yields nil.
func loadGitIgnore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

// Discover walks root and returns the files matching any content pattern,
// in lexical order. Directories named in excluded are never entered, and
// files ignored by root's .gitignore are skipped.
func Discover(root string, patterns, excluded []string) ([]string, DiscoverStats, error) {
	var stats DiscoverStats

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, stats, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, stats, fmt.Errorf("invalid content pattern %q", p)
		}
	}

	skipDir := make(map[string]bool, len(excluded))
	for _, d := range excluded {
		skipDir[d] = true
	}
	gi := loadGitIgnore(root)

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDir[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !matchAny(patterns, rel) {
			return nil
		}
		stats.FilesMatched++

		if gi != nil && gi.MatchesPath(rel) {
			stats.FilesIgnored++
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("walk %s: %w", root, err)
	}

	return files, stats, nil
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
