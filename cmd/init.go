package cmd

import (
	"github.com/spf13/cobra"

	"github.com/SRINIVASINDIA/Local-guide/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize localguide configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the guide and generates a .localguide.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
