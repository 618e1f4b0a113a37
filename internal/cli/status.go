package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docweave/docweave/internal/config"
	"github.com/docweave/docweave/internal/storage"
)

var statusFailedFlag bool

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the most recent generation run",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusFailedFlag, "failed", false, "List the units that failed to scan")
}

func runStatus(cmd *cobra.Command, args []string) error {
	rootDir, err := projectRoot()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := storage.Open(databasePath(rootDir, cfg))
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := storage.LatestRun(db)
	if errors.Is(err, storage.ErrNoRuns) {
		fmt.Println("No runs recorded, run 'docweave generate' first.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("Run:      %s\n", run.ID)
	fmt.Printf("Root:     %s\n", run.Root)
	fmt.Printf("When:     %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Units:    %d ok, %d failed\n", run.Units, run.Failures)
	fmt.Printf("Symbols:  %d\n", run.Symbols)

	if !statusFailedFlag || run.Failures == 0 {
		return nil
	}

	units, err := storage.RunUnits(db, run.ID)
	if err != nil {
		return err
	}
	fmt.Println("\nFailed units:")
	for _, u := range units {
		if u.Status == storage.UnitStatusFailed {
			fmt.Printf("  %s: %s\n", u.Path, u.Error)
		}
	}
	return nil
}
