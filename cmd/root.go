package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SRINIVASINDIA/Local-guide/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "localguide",
	Short: "A grounded local guide for city slang, traffic, food, and culture",
	Long: `Local Guide answers questions about a city using only the facts in a
markdown guide document. It classifies each query, retrieves matching
facts, and composes an answer that never goes beyond the document.
Unknown topics get an honest fallback instead of a guess.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
