package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/docweave/docweave/internal/config"
	"github.com/docweave/docweave/internal/engine"
	"github.com/docweave/docweave/internal/inherit"
	"github.com/docweave/docweave/internal/render"
	"github.com/docweave/docweave/internal/search"
	"github.com/docweave/docweave/internal/storage"
	"github.com/docweave/docweave/internal/watcher"
)

var (
	quietFlag bool
	watchFlag bool
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate API documentation from PHP sources",
	Long: `Generate scans the project's PHP sources and writes Markdown API
documentation.

The pipeline:
  - Discovers source files via the configured glob patterns
  - Scans each unit lexically for declarations, imports, and doc comments
  - Resolves @inheritDoc against the class hierarchy
  - Renders one page per type plus function and constant indexes
  - Builds the full-text search index and records the run in SQLite

Examples:
  # Generate documentation for the current directory
  docweave generate

  # Generate without progress output
  docweave generate --quiet

  # Regenerate whenever a source file changes
  docweave generate --watch
`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	generateCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch for file changes and regenerate")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted! Cancelling generation...")
		cancel()
	}()

	rootDir, err := projectRoot()
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := generateOnce(ctx, cfg, rootDir, quietFlag); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("generation cancelled")
		}
		return err
	}

	if !watchFlag {
		return nil
	}

	// Watch mode: regenerate on each debounced burst of source changes.
	// The watcher is paused during regeneration so output writes under the
	// project root never loop back as change events.
	w, err := watcher.New(rootDir, []string{cfg.Output.Dir, "vendor"})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Stop()

	regenerate := func(files []string) {
		if !quietFlag {
			log.Printf("Detected %d changed file(s), regenerating...", len(files))
		}
		w.Pause()
		defer w.Resume()
		if err := generateOnce(ctx, cfg, rootDir, quietFlag); err != nil && ctx.Err() == nil {
			log.Printf("Warning: regeneration failed: %v", err)
		}
	}
	if err := w.Start(ctx, regenerate); err != nil {
		return fmt.Errorf("watch mode failed: %w", err)
	}
	if !quietFlag {
		log.Println("Watching for changes (Ctrl+C to stop)...")
	}

	<-ctx.Done()
	if !quietFlag {
		log.Println("Watch mode stopped")
	}
	return nil
}

// generateOnce runs the whole pipeline: scan, resolve, render, index,
// persist.
func generateOnce(ctx context.Context, cfg *config.Config, rootDir string, quiet bool) error {
	progress := NewCLIProgressReporter(quiet)
	proc := engine.NewProcessor(cfg, rootDir, progress)
	result, err := proc.Run(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	for _, f := range result.Failures {
		log.Printf("Warning: skipping unit: %v", f.Err)
	}

	resolver, err := inherit.NewResolver(result.Index)
	if err != nil {
		return err
	}
	defer resolver.Close()

	outDir := filepath.Join(rootDir, cfg.Output.Dir)
	renderer := render.NewRenderer(result.Index, resolver, outDir)
	docs, err := renderer.Render(result.Units)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if cfg.Output.SearchIndex {
		if err := search.BuildIndex(searchIndexPath(rootDir, cfg), docs); err != nil {
			return err
		}
	}

	db, err := storage.Open(databasePath(rootDir, cfg))
	if err != nil {
		return err
	}
	defer db.Close()

	units, symbols := persistedRecords(rootDir, result)
	runID, err := storage.SaveRun(db, rootDir, units, symbols)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	if !quiet {
		fmt.Printf("✓ Documented %d symbols across %d units into %s (run %s)\n",
			result.SymbolCount(), len(result.Units), cfg.Output.Dir, runID)
	}
	return nil
}

// persistedRecords flattens a pipeline result into storage rows, with paths
// relative to the project root and constant values re-serialized through each
// unit's alias table.
func persistedRecords(rootDir string, result *engine.Result) ([]storage.UnitRecord, []storage.SymbolRecord) {
	relative := func(path string) string {
		if rel, err := filepath.Rel(rootDir, path); err == nil {
			return filepath.ToSlash(rel)
		}
		return path
	}

	var units []storage.UnitRecord
	var symbols []storage.SymbolRecord
	for _, u := range result.Units {
		units = append(units, storage.UnitRecord{
			Path:      relative(u.Path),
			Namespace: u.Namespace,
			Status:    storage.UnitStatusOK,
		})
		for _, s := range u.Symbols {
			rec := storage.SymbolRecord{
				UnitPath: relative(u.Path),
				FQN:      s.FQN,
				Kind:     string(s.Kind),
				Doc:      s.Doc,
				Line:     s.Line,
			}
			if s.Value != nil {
				rec.Value = u.Aliases.Rewrite(s.Value)
			}
			symbols = append(symbols, rec)
		}
	}
	for _, f := range result.Failures {
		units = append(units, storage.UnitRecord{
			Path:   relative(f.Path),
			Status: storage.UnitStatusFailed,
			Error:  f.Err.Error(),
		})
	}
	return units, symbols
}

func searchIndexPath(rootDir string, cfg *config.Config) string {
	return filepath.Join(rootDir, cfg.Output.Dir, "search.bleve")
}

func databasePath(rootDir string, cfg *config.Config) string {
	return filepath.Join(rootDir, cfg.Output.Dir, cfg.Output.Database)
}
