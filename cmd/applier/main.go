// Command applier logs in to the job board and applies to every posting
// whose title matches the configured keywords.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"go-jobapply-automation/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "applier",
	Short: "Apply to matching job postings on the job board",
	Long: `Opens the job board in Firefox, logs in, walks every page of the job search and
submits the application form for each new posting whose title contains one of the
configured keywords.

Flags only override values from the config file.`,
	SilenceUsage: true,
	RunE:         runApplier,
}

var (
	configPath string
	dryRun     bool
	headless   bool
	logLevel   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the YAML config file")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Fill in forms but stop before submitting")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "Run Firefox without a window")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
