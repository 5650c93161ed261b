package xref

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkgw/tt-weave/internal/index"
)

// Run is one recorded weave of a document.
type Run struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Input       string    `json:"input"`
	ModuleCount int       `json:"module_count"`
	SymbolCount int       `json:"symbol_count"`
}

// Snapshot is the full cross-reference state of one weave, ready to be
// saved.
type Snapshot struct {
	Input        string
	Modules      []index.ModuleEntry
	NamedModules []index.NamedModuleEntry
	Symbols      []index.SymbolEntry
}

// Store provides persistence and lookups for weave cross-references.
type Store struct {
	db *DB
}

// NewStore creates a Store backed by the given database.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// SaveRun inserts a whole weave snapshot transactionally and returns the
// new run. A failed insert leaves no partial run behind.
func (s *Store) SaveRun(ctx context.Context, snap Snapshot) (*Run, error) {
	run := &Run{
		ID:          uuid.New().String(),
		CreatedAt:   time.Now().UTC(),
		Input:       snap.Input,
		ModuleCount: len(snap.Modules),
		SymbolCount: len(snap.Symbols),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, input, module_count, symbol_count)
		VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt, run.Input, run.ModuleCount, run.SymbolCount,
	); err != nil {
		return nil, fmt.Errorf("inserting run: %w", err)
	}

	for seq, m := range snap.Modules {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO modules (run_id, seq, module_id, description)
			VALUES (?, ?, ?, ?)`,
			run.ID, seq, m.ID, m.Description,
		); err != nil {
			return nil, fmt.Errorf("inserting module %d: %w", m.ID, err)
		}
	}

	for _, nm := range snap.NamedModules {
		definers, err := json.Marshal(nm.Definers)
		if err != nil {
			return nil, fmt.Errorf("marshalling definers for %q: %w", nm.Name, err)
		}
		referencers, err := json.Marshal(nm.Referencers)
		if err != nil {
			return nil, fmt.Errorf("marshalling referencers for %q: %w", nm.Name, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO named_modules (run_id, name, module_id, definers, referencers)
			VALUES (?, ?, ?, ?, ?)`,
			run.ID, nm.Name, nm.ID, string(definers), string(referencers),
		); err != nil {
			return nil, fmt.Errorf("inserting named module %q: %w", nm.Name, err)
		}
	}

	for _, sym := range snap.Symbols {
		referencers, err := json.Marshal(sym.ReferencingModules)
		if err != nil {
			return nil, fmt.Errorf("marshalling referencers for %q: %w", sym.Text, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO symbols (run_id, text, defining_module, referencers)
			VALUES (?, ?, ?, ?)`,
			run.ID, sym.Text, sym.DefiningModule, string(referencers),
		); err != nil {
			return nil, fmt.Errorf("inserting symbol %q: %w", sym.Text, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing run: %w", err)
	}
	return run, nil
}

// LatestRun returns the most recent run, or nil if none exist.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, input, module_count, symbol_count
		FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`)

	var r Run
	err := row.Scan(&r.ID, &r.CreatedAt, &r.Input, &r.ModuleCount, &r.SymbolCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest run: %w", err)
	}
	return &r, nil
}

// Modules returns the major-module entries of a run in document order.
func (s *Store) Modules(ctx context.Context, runID string) ([]index.ModuleEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT module_id, description FROM modules
		WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying modules: %w", err)
	}
	defer rows.Close()

	var out []index.ModuleEntry
	for rows.Next() {
		var m index.ModuleEntry
		if err := rows.Scan(&m.ID, &m.Description); err != nil {
			return nil, fmt.Errorf("scanning module: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// NamedModule looks up one named module of a run.
func (s *Store) NamedModule(ctx context.Context, runID, name string) (*index.NamedModuleEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, module_id, definers, referencers FROM named_modules
		WHERE run_id = ? AND name = ?`, runID, name)

	var (
		nm                    index.NamedModuleEntry
		definers, referencers string
	)
	err := row.Scan(&nm.Name, &nm.ID, &definers, &referencers)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying named module %q: %w", name, err)
	}
	if err := json.Unmarshal([]byte(definers), &nm.Definers); err != nil {
		return nil, fmt.Errorf("decoding definers for %q: %w", name, err)
	}
	if err := json.Unmarshal([]byte(referencers), &nm.Referencers); err != nil {
		return nil, fmt.Errorf("decoding referencers for %q: %w", name, err)
	}
	return &nm, nil
}

// SymbolsMatching returns the symbols of a run whose text starts with
// prefix, alphabetically. An empty prefix returns every symbol.
func (s *Store) SymbolsMatching(ctx context.Context, runID, prefix string) ([]index.SymbolEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT text, defining_module, referencers FROM symbols
		WHERE run_id = ? AND text LIKE ? ESCAPE '\'
		ORDER BY text`, runID, escapeLike(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("querying symbols: %w", err)
	}
	defer rows.Close()

	var out []index.SymbolEntry
	for rows.Next() {
		var (
			sym         index.SymbolEntry
			referencers string
		)
		if err := rows.Scan(&sym.Text, &sym.DefiningModule, &referencers); err != nil {
			return nil, fmt.Errorf("scanning symbol: %w", err)
		}
		if err := json.Unmarshal([]byte(referencers), &sym.ReferencingModules); err != nil {
			return nil, fmt.Errorf("decoding referencers for %q: %w", sym.Text, err)
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

// escapeLike escapes LIKE metacharacters in a user-supplied prefix.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '%' || c == '_' || c == '\\' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}
