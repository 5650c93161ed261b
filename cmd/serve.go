package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkgw/tt-weave/internal/server"
	"github.com/pkgw/tt-weave/internal/xref"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the woven output locally",
	Long: `Starts a local HTTP server for the woven output, with a JSON API over
the cross-reference store and live reload when the output is rewoven.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "override the configured port")
	serveCmd.Flags().Bool("open", false, "open browser automatically")
	serveCmd.Flags().Bool("allow-all-cors", false, "allow all CORS origins")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.OutputDir); os.IsNotExist(err) {
		return fmt.Errorf("output directory %s not found\nRun `ttweave weave` first", cfg.OutputDir)
	}

	port := cfg.Server.Port
	if p, _ := cmd.Flags().GetInt("port"); p != 0 {
		port = p
	}
	open, _ := cmd.Flags().GetBool("open")
	allowAll, _ := cmd.Flags().GetBool("allow-all-cors")

	// The xref API is optional: serving plain output still works when no
	// weave has been recorded.
	var store *xref.Store
	if _, err := os.Stat(cfg.XrefDB); err == nil {
		s, db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		store = s
	} else {
		fmt.Println("Cross-reference API unavailable (no xref database found)")
	}

	fmt.Printf("Serving at http://localhost:%d — press Ctrl+C to stop\n", port)

	srv := server.New(server.Config{
		Port:     port,
		Dir:      cfg.OutputDir,
		AllowAll: allowAll || cfg.Server.AllowAllCORS,
		Open:     open || cfg.Server.Open,
	}, store)

	return srv.Start(cmd.Context())
}
