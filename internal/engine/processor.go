// Package engine drives the documentation pipeline: file discovery,
// parallel structural scanning, and introspection index construction.
package engine

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/docweave/docweave/internal/config"
	"github.com/docweave/docweave/internal/introspect"
	"github.com/docweave/docweave/internal/scanner"
)

// ProgressReporter receives pipeline progress callbacks. Implementations
// must tolerate calls from multiple goroutines during the scan phase.
type ProgressReporter interface {
	OnDiscoveryComplete(files int)
	OnScanStart(totalFiles int)
	OnFileScanned(path string)
	OnScanComplete(units, failures int)
}

// NopReporter discards all progress events.
type NopReporter struct{}

func (NopReporter) OnDiscoveryComplete(int) {}
func (NopReporter) OnScanStart(int)         {}
func (NopReporter) OnFileScanned(string)    {}
func (NopReporter) OnScanComplete(int, int) {}

// UnitFailure records one source unit the scanner rejected. Failures never
// abort the run; the unit simply contributes no symbols.
type UnitFailure struct {
	Path string
	Err  error
}

// Result is the outcome of one pipeline run.
type Result struct {
	Units    []*scanner.Unit
	Failures []UnitFailure
	Index    *introspect.Index
}

// SymbolCount returns the total number of symbols across all units.
func (r *Result) SymbolCount() int {
	n := 0
	for _, u := range r.Units {
		n += len(u.Symbols)
	}
	return n
}

// Processor runs the scan phase of the pipeline.
type Processor struct {
	cfg      *config.Config
	rootDir  string
	reporter ProgressReporter
}

// NewProcessor creates a processor for the given root directory.
func NewProcessor(cfg *config.Config, rootDir string, reporter ProgressReporter) *Processor {
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Processor{cfg: cfg, rootDir: rootDir, reporter: reporter}
}

// Run discovers source units, scans them in parallel (one scanner and one
// alias table per unit, no cross-unit state), and builds the introspection
// index from the units that scanned cleanly.
func (p *Processor) Run(ctx context.Context) (*Result, error) {
	discovery, err := NewFileDiscovery(p.rootDir, p.cfg.Paths.Sources, p.cfg.Paths.Ignore)
	if err != nil {
		return nil, fmt.Errorf("failed to compile path patterns: %w", err)
	}
	files, err := discovery.DiscoverFiles()
	if err != nil {
		return nil, fmt.Errorf("file discovery failed: %w", err)
	}
	p.reporter.OnDiscoveryComplete(len(files))
	p.reporter.OnScanStart(len(files))

	type scanned struct {
		unit *scanner.Unit
		src  []byte
	}

	var mu sync.Mutex
	units := make(map[string]scanned, len(files))
	var failures []UnitFailure

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.EffectiveConcurrency())

	for _, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			sc := scanner.New()
			sc.CaptureDefines = p.cfg.Scan.Defines
			unit, err := sc.ScanUnit(path, src)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, UnitFailure{Path: path, Err: err})
			} else {
				units[path] = scanned{unit: unit, src: src}
			}
			p.reporter.OnFileScanned(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// The index is built sequentially, in path order, so results are
	// deterministic regardless of scan scheduling.
	index := introspect.NewIndex()
	result := &Result{Index: index}
	paths := make([]string, 0, len(units))
	for path := range units {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		s := units[path]
		if err := index.AddUnit(path, s.src, s.unit.Aliases); err != nil {
			failures = append(failures, UnitFailure{Path: path, Err: err})
			continue
		}
		result.Units = append(result.Units, s.unit)
	}
	if err := index.Verify(); err != nil {
		return nil, err
	}

	sort.Slice(failures, func(i, j int) bool { return failures[i].Path < failures[j].Path })
	result.Failures = failures
	p.reporter.OnScanComplete(len(result.Units), len(failures))
	return result, nil
}
