package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docweave/docweave/internal/config"
	"github.com/docweave/docweave/internal/search"
)

var searchLimitFlag int

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search generated documentation",
	Long: `Search queries the full-text index built by 'docweave generate'.

The query uses bleve query-string syntax: bare terms match summaries and
descriptions, fields can be scoped (kind:method, fqn:...), and phrases
are quoted.

Examples:
  docweave search "user repository"
  docweave search 'kind:method save'
  docweave search 'fqn:\\App\\UserService'
`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimitFlag, "limit", "n", 15, "Maximum number of results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	rootDir, err := projectRoot()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	s, err := search.Open(searchIndexPath(rootDir, cfg))
	if err != nil {
		return fmt.Errorf("no search index found, run 'docweave generate' first: %w", err)
	}
	defer s.Close()

	results, err := s.Search(strings.Join(args, " "), searchLimitFlag)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, r := range results {
		fmt.Printf("%2d. %s (%s)\n", i+1, r.FQN, r.Kind)
		if r.Summary != "" {
			fmt.Printf("    %s\n", r.Summary)
		}
		if r.Unit != "" {
			fmt.Printf("    %s\n", r.Unit)
		}
	}
	return nil
}
