package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ttweave",
	Short: "Weave literate-programming documents into navigable HTML",
	Long: `ttweave consumes the tdux special markers dumped by the TeX pass of a
literate-programming document and produces the woven HTML output: the
rendered pages, the cross-reference index data files, and the sidebar
and table-of-contents navigation assets.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".ttweave.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
