package cmd

import (
	"fmt"

	"github.com/pkgw/tt-weave/internal/config"
	"github.com/pkgw/tt-weave/internal/xref"
)

// loadConfig loads and validates the config, providing a user-friendly
// error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `ttweave init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openStore opens the configured cross-reference database.
func openStore(cfg *config.Config) (*xref.Store, *xref.DB, error) {
	db, err := xref.Open(cfg.XrefDB)
	if err != nil {
		return nil, nil, fmt.Errorf("opening xref database: %w", err)
	}
	return xref.NewStore(db), db, nil
}
