package atomcss

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is the quiet period after the last file event before a rebuild.
var WatchDebounce = 100 * time.Millisecond

// Watch builds once, then rebuilds whenever a file under the content root,
// the theme file or the custom stylesheet changes. Every build outcome is
// passed to onBuild. Watch blocks until ctx is done.
func Watch(ctx context.Context, config BuildConfig, onBuild func(*BuildResult, error)) error {
	root, output, excluded, err := watchTargets(config)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addTree(watcher, root, excluded); err != nil {
		return err
	}
	for _, extra := range []string{config.ThemePath, config.CustomCSSPath} {
		if extra == "" {
			continue
		}
		if err := watcher.Add(filepath.Dir(extra)); err != nil {
			return fmt.Errorf("watch %s: %w", extra, err)
		}
	}

	onBuild(BuildContext(ctx, config))

	// Builds run on this goroutine; the debounce timer only signals.
	trigger := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-trigger:
			onBuild(BuildContext(ctx, config))

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if sameFile(event.Name, output) || event.Op == fsnotify.Chmod || excluded[filepath.Base(event.Name)] {
				continue
			}

			// New directories inside the root are watched as well.
			if event.Op&fsnotify.Create != 0 {
				if err := watchCreated(watcher, event.Name, excluded); err != nil {
					onBuild(nil, err)
				}
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(WatchDebounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onBuild(nil, fmt.Errorf("watch: %w", err))
		}
	}
}

// watchTargets resolves the content root, output path and excluded
// directory names the same way Build does.
func watchTargets(config BuildConfig) (string, string, map[string]bool, error) {
	cfg, err := loadTheme(config)
	if err != nil {
		return "", "", nil, err
	}
	root := cfg.Compilation.Root
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return "", "", nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	excluded := make(map[string]bool, len(cfg.Compilation.ExcludedDirs))
	for _, d := range cfg.Compilation.ExcludedDirs {
		excluded[d] = true
	}
	return root, cfg.Compilation.Output, excluded, nil
}

// watchCreated adds a newly created directory tree to the watcher. Other
// paths, including ones already gone again, are ignored.
func watchCreated(w *fsnotify.Watcher, path string, excluded map[string]bool) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil
	}
	return addTree(w, path, excluded)
}

// addTree watches dir and every subdirectory not named in excluded.
func addTree(w *fsnotify.Watcher, dir string, excluded map[string]bool) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && excluded[d.Name()] {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func sameFile(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
