package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkgw/tt-weave/internal/progress"
	"github.com/pkgw/tt-weave/internal/weave"
)

var weaveCmd = &cobra.Command{
	Use:   "weave [input]",
	Short: "Render the woven HTML output from a specials stream",
	Long: `Reads the tdux specials stream dumped by the TeX pass and writes the
woven HTML output: rendered pages, cross-reference data files, provided
support files, and the navigation assets.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWeave,
}

func init() {
	weaveCmd.Flags().String("output", "", "override output directory")
	weaveCmd.Flags().Bool("no-xref-db", false, "skip recording the run in the xref database")
	rootCmd.AddCommand(weaveCmd)
}

func runWeave(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		cfg.Input = args[0]
	}
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		cfg.OutputDir = out
	}

	f, err := os.Open(cfg.Input)
	if err != nil {
		return fmt.Errorf("opening specials stream: %w\nRun the TeX pass first to produce it", err)
	}
	defer f.Close()

	engine := weave.NewEngine(cfg)
	engine.SetReporter(progress.NewReporter())

	if skip, _ := cmd.Flags().GetBool("no-xref-db"); !skip {
		store, db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		engine.SetStore(store)
	}

	stats, err := engine.Run(cmd.Context(), f)
	if err != nil {
		return fmt.Errorf("weaving %s: %w", cfg.Input, err)
	}

	fmt.Printf("Woven %s: %d pages, %d modules, %d named modules, %d symbols\n",
		cfg.OutputDir, stats.Pages, stats.Modules, stats.NamedModules, stats.Symbols)
	if verbose {
		fmt.Printf("  %d directives, %d provided files, %d auxiliary pages\n",
			stats.Directives, stats.ProvidedFiles, stats.AuxPages)
	}
	return nil
}
