package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var xrefCmd = &cobra.Command{
	Use:   "xref <query>",
	Short: "Look up a symbol or named module in the cross-reference store",
	Long: `Searches the most recent weave for symbols whose text starts with the
query, and for a named module with exactly that name.`,
	Args: cobra.ExactArgs(1),
	RunE: runXref,
}

func init() {
	rootCmd.AddCommand(xrefCmd)
}

func runXref(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	run, err := store.LatestRun(ctx)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("no weave recorded yet\nRun `ttweave weave` first")
	}

	query := args[0]
	found := false

	if nm, err := store.NamedModule(ctx, run.ID, query); err != nil {
		return err
	} else if nm != nil {
		found = true
		fmt.Printf("Named module <%s>\n", nm.Name)
		fmt.Printf("  defined in %v, referenced in %v\n", nm.Definers, nm.Referencers)
	}

	symbols, err := store.SymbolsMatching(ctx, run.ID, query)
	if err != nil {
		return err
	}
	for _, sym := range symbols {
		found = true
		fmt.Printf("Symbol %s\n", sym.Text)
		fmt.Printf("  defined in %d, referenced in %v\n", sym.DefiningModule, sym.ReferencingModules)
	}

	if !found {
		fmt.Printf("No matches for %q in run %s\n", query, run.ID)
	}
	return nil
}
