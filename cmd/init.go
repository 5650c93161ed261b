package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pkgw/tt-weave/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .ttweave.yml through an interactive wizard",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
