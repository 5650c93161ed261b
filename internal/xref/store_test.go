package xref

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/pkgw/tt-weave/internal/index"
)

func testSnapshot() Snapshot {
	return Snapshot{
		Input: "build/document.specials",
		Modules: []index.ModuleEntry{
			{ID: 1, Description: "Introduction"},
			{ID: 2, Description: "Setup"},
			{ID: 3, Description: "Cleanup"},
		},
		NamedModules: []index.NamedModuleEntry{
			{Name: "Main program", ID: 1, Definers: []int{1, 3}, Referencers: []int{2}},
		},
		Symbols: []index.SymbolEntry{
			{Text: "buf_size", DefiningModule: 2, ReferencingModules: []int{1, 3}},
			{Text: "buf_ptr", DefiningModule: 2, ReferencingModules: nil},
			{Text: "max_lines", DefiningModule: 3, ReferencingModules: []int{1}},
		},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db)
}

func TestSaveAndLatestRun(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if run, err := store.LatestRun(ctx); err != nil || run != nil {
		t.Fatalf("empty store: run = %v, err = %v", run, err)
	}

	saved, err := store.SaveRun(ctx, testSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	if saved.ModuleCount != 3 || saved.SymbolCount != 3 {
		t.Errorf("counts = (%d, %d)", saved.ModuleCount, saved.SymbolCount)
	}

	latest, err := store.LatestRun(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if latest == nil || latest.ID != saved.ID {
		t.Errorf("latest = %+v, want id %s", latest, saved.ID)
	}
}

func TestLatestRunPicksNewest(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.SaveRun(ctx, testSnapshot()); err != nil {
		t.Fatal(err)
	}
	// created_at has sub-millisecond resolution but not guaranteed
	// ordering at full speed; space the runs out.
	time.Sleep(5 * time.Millisecond)
	second, err := store.SaveRun(ctx, Snapshot{Input: "second.specials"})
	if err != nil {
		t.Fatal(err)
	}

	latest, err := store.LatestRun(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if latest.ID != second.ID {
		t.Errorf("latest = %s, want %s", latest.ID, second.ID)
	}
}

func TestModulesKeepDocumentOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	run, err := store.SaveRun(ctx, testSnapshot())
	if err != nil {
		t.Fatal(err)
	}

	modules, err := store.Modules(ctx, run.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := testSnapshot().Modules
	if !reflect.DeepEqual(modules, want) {
		t.Errorf("modules = %+v, want %+v", modules, want)
	}
}

func TestNamedModuleRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	run, err := store.SaveRun(ctx, testSnapshot())
	if err != nil {
		t.Fatal(err)
	}

	nm, err := store.NamedModule(ctx, run.ID, "Main program")
	if err != nil {
		t.Fatal(err)
	}
	if nm == nil {
		t.Fatal("named module not found")
	}
	if nm.ID != 1 || !reflect.DeepEqual(nm.Definers, []int{1, 3}) || !reflect.DeepEqual(nm.Referencers, []int{2}) {
		t.Errorf("named module = %+v", nm)
	}

	missing, err := store.NamedModule(ctx, run.ID, "No such module")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Errorf("lookup of unknown name returned %+v", missing)
	}
}

func TestSymbolsMatching(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	run, err := store.SaveRun(ctx, testSnapshot())
	if err != nil {
		t.Fatal(err)
	}

	syms, err := store.SymbolsMatching(ctx, run.ID, "buf")
	if err != nil {
		t.Fatal(err)
	}
	if len(syms) != 2 {
		t.Fatalf("got %d symbols: %+v", len(syms), syms)
	}
	// Alphabetical order.
	if syms[0].Text != "buf_ptr" || syms[1].Text != "buf_size" {
		t.Errorf("order = %q, %q", syms[0].Text, syms[1].Text)
	}
	if syms[1].DefiningModule != 2 || !reflect.DeepEqual(syms[1].ReferencingModules, []int{1, 3}) {
		t.Errorf("buf_size = %+v", syms[1])
	}

	all, err := store.SymbolsMatching(ctx, run.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("empty prefix returned %d symbols", len(all))
	}
}

func TestSymbolsMatchingEscapesLike(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	run, err := store.SaveRun(ctx, Snapshot{
		Symbols: []index.SymbolEntry{
			{Text: "buf_size", DefiningModule: 1},
			{Text: "bufXsize", DefiningModule: 2},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	// The underscore must match literally, not as a wildcard.
	syms, err := store.SymbolsMatching(ctx, run.ID, "buf_")
	if err != nil {
		t.Fatal(err)
	}
	if len(syms) != 1 || syms[0].Text != "buf_size" {
		t.Errorf("got %+v", syms)
	}
}

func TestOpenCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "xref.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := NewStore(db)
	if _, err := store.SaveRun(context.Background(), testSnapshot()); err != nil {
		t.Fatal(err)
	}
}
