package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootDirFlag string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docweave",
	Short: "docweave - API documentation generator for PHP codebases",
	Long: `docweave scans PHP sources without executing them and generates
Markdown API documentation with resolved @inheritDoc comments, an
index of constants and functions, and a full-text search index.

Configuration lives in .docweave/config.yml under the project root;
every setting can be overridden with DOCWEAVE_* environment variables.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDirFlag, "root", "", "project root (default is the working directory)")
}

// projectRoot resolves the project root from the --root flag or the working
// directory.
func projectRoot() (string, error) {
	if rootDirFlag != "" {
		return rootDirFlag, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}
