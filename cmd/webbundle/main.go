package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "0.1.0"
	cfgFile   string
	verbose   bool
	quiet     bool
	optimize  bool
	outDir    string
	reloadAll bool
)

var rootCmd = &cobra.Command{
	Use:     "webbundle",
	Short:   "Plugin-driven build orchestrator for web assets",
	Long:    `webbundle builds a dependency graph from entry points, chunks it, and emits bundles through a user-configured plugin chain.`,
	Version: version,
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the configured entries into bundles",
	Long:  `Discovers (or loads) a webbundle config, constructs the dependency graph, chunks it, and emits bundles to the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: auto-discover webbundle.config.{ts,js,yaml,yml})")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "quiet output")

	buildCmd.Flags().BoolVar(&optimize, "optimize", false, "run optimizeBundle plugins over emitted bundles")
	buildCmd.Flags().StringVarP(&outDir, "out", "o", "", "override the config's outDir")
	buildCmd.Flags().BoolVar(&reloadAll, "reload", false, "force every node to rebuild regardless of mtimes")

	rootCmd.AddCommand(buildCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
