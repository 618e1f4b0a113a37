package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter implements engine.ProgressReporter with a progress bar
// for the scan phase.
type CLIProgressReporter struct {
	quiet     bool
	scanBar   *progressbar.ProgressBar
	startTime time.Time
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet:     quiet,
		startTime: time.Now(),
	}
}

func (c *CLIProgressReporter) OnDiscoveryComplete(files int) {
	if c.quiet {
		return
	}
	log.Printf("Found %d source files\n", files)
}

func (c *CLIProgressReporter) OnScanStart(totalFiles int) {
	if c.quiet {
		return
	}
	c.scanBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetDescription("Scanning sources"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

func (c *CLIProgressReporter) OnFileScanned(path string) {
	if c.quiet {
		return
	}
	if c.scanBar != nil {
		c.scanBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnScanComplete(units, failures int) {
	if c.quiet {
		return
	}
	if c.scanBar != nil {
		c.scanBar.Finish()
		c.scanBar = nil
	}
	if failures > 0 {
		fmt.Printf("✓ Scanned %d units (%d failed) in %.1fs\n", units, failures, time.Since(c.startTime).Seconds())
	} else {
		fmt.Printf("✓ Scanned %d units in %.1fs\n", units, time.Since(c.startTime).Seconds())
	}
}
