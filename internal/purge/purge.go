// Package purge finds the class tokens a project uses and drops generated
// rules nobody references.
package purge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yacobolo/atomcss/internal/extract"
)

// ErrScanCancelled is returned alongside a partial token set when a scan is
// cancelled. The partial set must not be applied.
var ErrScanCancelled = errors.New("scan cancelled")

// ProgressFunc is called before each file of a sequential scan with the
// number of files done and the total. Returning false cancels the scan.
type ProgressFunc func(done, total int) bool

// Options configures a purge run.
type Options struct {
	Root         string
	Content      []string // glob patterns relative to Root
	ExcludedDirs []string
	Extractors   []extract.Extractor
	Safelist     []string // literal or /regex/
	Blocklist    []string // literal or /regex/

	// Concurrency above 1 scans files on that many workers.
	Concurrency int
	Progress    ProgressFunc
	Verbose     bool
}

// Result is the outcome of a purge scan.
type Result struct {
	Used      extract.Set // tokens that keep rules alive
	Extracted extract.Set // every token found, before filtering
	Files     []string
	Stats     DiscoverStats
	Warnings  []string
}

// UsedTokens discovers content files under opts.Root, extracts tokens from
// each and applies the blocklist and safelist. A missing root or any read
// failure is fatal. On cancellation the partial result is returned together
// with ErrScanCancelled.
func UsedTokens(ctx context.Context, opts Options) (*Result, error) {
	files, stats, err := Discover(opts.Root, opts.Content, opts.ExcludedDirs)
	if err != nil {
		return nil, err
	}

	if opts.Verbose {
		fmt.Printf("Scanning %d content files (%d ignored)\n", len(files), stats.FilesIgnored)
	}

	extractors := opts.Extractors
	if len(extractors) == 0 {
		extractors = []extract.Extractor{extract.New("", "_", extract.Filters{})}
	}

	res := &Result{Files: files, Stats: stats}

	var scanErr error
	if opts.Concurrency > 1 {
		res.Extracted, scanErr = scanConcurrent(ctx, files, extractors, opts.Concurrency)
	} else {
		res.Extracted, scanErr = scanSequential(ctx, files, extractors, opts.Progress)
	}
	if scanErr != nil && !errors.Is(scanErr, ErrScanCancelled) {
		return nil, scanErr
	}

	safelist, warnings := compileList("safelist", opts.Safelist)
	res.Warnings = append(res.Warnings, warnings...)
	blocklist, warnings := compileList("blocklist", opts.Blocklist)
	res.Warnings = append(res.Warnings, warnings...)

	res.Used = applyLists(res.Extracted, safelist, blocklist)
	return res, scanErr
}

func scanSequential(ctx context.Context, files []string, extractors []extract.Extractor, progress ProgressFunc) (extract.Set, error) {
	all := make(extract.Set)
	for i, f := range files {
		if ctx.Err() != nil || (progress != nil && !progress(i, len(files))) {
			return all, ErrScanCancelled
		}
		tokens, err := scanFile(f, extractors)
		if err != nil {
			return nil, err
		}
		all.Merge(tokens)
	}
	if progress != nil {
		progress(len(files), len(files))
	}
	return all, nil
}

// scanConcurrent gives each file its own token set; the sets are merged
// once every worker has finished.
func scanConcurrent(ctx context.Context, files []string, extractors []extract.Extractor, workers int) (extract.Set, error) {
	sets := make([]extract.Set, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range files {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			tokens, err := scanFile(f, extractors)
			if err != nil {
				return err
			}
			sets[i] = tokens
			return nil
		})
	}
	err := g.Wait()

	all := make(extract.Set)
	for _, s := range sets {
		all.Merge(s)
	}

	switch {
	case err == nil:
		return all, nil
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		return all, ErrScanCancelled
	default:
		return nil, err
	}
}

func scanFile(path string, extractors []extract.Extractor) (extract.Set, error) {
	// #nosec G304 - path comes from content discovery under the configured root
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	text := string(content)
	out := make(extract.Set)
	for _, e := range extractors {
		out.Merge(e.Extract(text))
	}
	return out, nil
}

// listEntry is one safelist or blocklist entry.
type listEntry struct {
	literal string
	re      *regexp.Regexp
}

func (e listEntry) matches(token string) bool {
	if e.re != nil {
		return e.re.MatchString(token)
	}
	return e.literal == token
}

// compileList parses entries written as literals or /regex/. An entry whose
// regex does not compile is kept as a literal and reported.
func compileList(name string, entries []string) ([]listEntry, []string) {
	var out []listEntry
	var warnings []string
	for _, raw := range entries {
		if len(raw) >= 2 && strings.HasPrefix(raw, "/") && strings.HasSuffix(raw, "/") {
			re, err := regexp.Compile(raw[1 : len(raw)-1])
			if err == nil {
				out = append(out, listEntry{re: re})
				continue
			}
			warnings = append(warnings, fmt.Sprintf("%s entry %q: invalid regex, treated as literal: %v", name, raw, err))
		}
		out = append(out, listEntry{literal: raw})
	}
	return out, warnings
}

// applyLists drops blocklisted tokens, then adds safelist regex matches from
// all extracted tokens and every literal safelist entry. Safelist wins over
// blocklist.
func applyLists(extracted extract.Set, safelist, blocklist []listEntry) extract.Set {
	used := make(extract.Set, len(extracted))
	for t := range extracted {
		if !blocked(t, blocklist) {
			used[t] = struct{}{}
		}
	}
	for _, e := range safelist {
		if e.re == nil {
			used.Add(e.literal)
			continue
		}
		for t := range extracted {
			if e.re.MatchString(t) {
				used[t] = struct{}{}
			}
		}
	}
	return used
}

func blocked(token string, blocklist []listEntry) bool {
	for _, e := range blocklist {
		if e.matches(token) {
			return true
		}
	}
	return false
}
