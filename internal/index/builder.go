package index

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DuplicateOpenError reports a second Open for a kind whose sink is still
// open.
type DuplicateOpenError struct {
	Kind Kind
}

func (e *DuplicateOpenError) Error() string {
	return fmt.Sprintf("index sink for %s already open", e.Kind)
}

// Builder accumulates the three cross-reference tables and writes each one
// through its own sink. Callers own the Builder and pass it explicitly;
// there is no package-level state. The lifecycle per kind is
// Open → Record* → Close: the sink file is created at Open, the table is
// serialized into it at Close, and after Close the table is frozen.
//
// Any sink or record error is fatal to the enclosing run — partial
// cross-reference data cannot be trusted, so there is no retry path.
type Builder struct {
	dir string

	sinks  map[Kind]io.WriteCloser
	frozen map[Kind]bool

	majors      []ModuleEntry
	named       map[string]*NamedModuleEntry
	namedOrder  []string
	symbols     map[string]*SymbolEntry
	symbolOrder []string
}

// NewBuilder returns a Builder whose sinks are files under dir.
func NewBuilder(dir string) *Builder {
	return &Builder{
		dir:     dir,
		sinks:   make(map[Kind]io.WriteCloser),
		frozen:  make(map[Kind]bool),
		named:   make(map[string]*NamedModuleEntry),
		symbols: make(map[string]*SymbolEntry),
	}
}

// Open acquires the output sink for one index kind. Opening a kind twice
// without an intervening Close fails with DuplicateOpenError; reopening a
// closed kind fails because its table is frozen.
func (b *Builder) Open(kind Kind) error {
	if _, ok := b.sinks[kind]; ok {
		return &DuplicateOpenError{Kind: kind}
	}
	if b.frozen[kind] {
		return fmt.Errorf("index %s already finalized", kind)
	}
	f, err := os.Create(filepath.Join(b.dir, kind.Filename()))
	if err != nil {
		return fmt.Errorf("opening %s sink: %w", kind, err)
	}
	b.sinks[kind] = f
	return nil
}

// ensureOpen guards every record call.
func (b *Builder) ensureOpen(kind Kind) error {
	if _, ok := b.sinks[kind]; !ok {
		return fmt.Errorf("index %s not open", kind)
	}
	return nil
}

// RecordMajorModule appends one major-module entry. Entries keep call
// order; ids are trusted to be monotonic because the document processor
// emits them in document order.
func (b *Builder) RecordMajorModule(id int, description string) error {
	if err := b.ensureOpen(MajorModules); err != nil {
		return err
	}
	b.majors = append(b.majors, ModuleEntry{ID: id, Description: Escape(description)})
	return nil
}

// RecordNamedModule appends one named-module entry. Names are write-once:
// the engine aggregates all definition/reference events for a name before
// recording it.
func (b *Builder) RecordNamedModule(name string, id int, definers, referencers []int) error {
	if err := b.ensureOpen(NamedModules); err != nil {
		return err
	}
	key := Escape(name)
	if _, ok := b.named[key]; ok {
		return fmt.Errorf("named module %q recorded twice", name)
	}
	b.named[key] = &NamedModuleEntry{
		Name:        key,
		ID:          id,
		Definers:    append([]int(nil), definers...),
		Referencers: append([]int(nil), referencers...),
	}
	b.namedOrder = append(b.namedOrder, key)
	return nil
}

// RecordSymbol appends or overwrites the entry for a symbol. Symbol text
// is escaped before storage. A redefinition silently replaces the earlier
// entry (last write wins) while keeping the symbol's original position in
// the serialized output.
func (b *Builder) RecordSymbol(text string, definingModule int, referencers []int) error {
	if err := b.ensureOpen(Symbols); err != nil {
		return err
	}
	key := Escape(text)
	if _, ok := b.symbols[key]; !ok {
		b.symbolOrder = append(b.symbolOrder, key)
	}
	b.symbols[key] = &SymbolEntry{
		Text:               key,
		DefiningModule:     definingModule,
		ReferencingModules: append([]int(nil), referencers...),
	}
	return nil
}

// Close serializes the kind's table into its sink and releases it. Each
// sink is closed exactly once; after Close the table is frozen.
func (b *Builder) Close(kind Kind) error {
	sink, ok := b.sinks[kind]
	if !ok {
		return fmt.Errorf("index %s not open", kind)
	}
	delete(b.sinks, kind)
	b.frozen[kind] = true

	if err := b.serialize(kind, sink); err != nil {
		sink.Close()
		return fmt.Errorf("serializing %s index: %w", kind, err)
	}
	if err := sink.Close(); err != nil {
		return fmt.Errorf("closing %s sink: %w", kind, err)
	}
	return nil
}

// CloseAll closes every still-open sink. Deferred by callers so sinks are
// released even when recording fails partway; the first error wins.
func (b *Builder) CloseAll() error {
	var firstErr error
	for _, kind := range []Kind{MajorModules, NamedModules, Symbols} {
		if _, ok := b.sinks[kind]; !ok {
			continue
		}
		if err := b.Close(kind); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// serialize writes one table as a script file defining a single global
// binding.
func (b *Builder) serialize(kind Kind, w io.Writer) error {
	switch kind {
	case MajorModules:
		if _, err := fmt.Fprintf(w, "const %s = [\n", kind.Binding()); err != nil {
			return err
		}
		for _, e := range b.majors {
			if _, err := fmt.Fprintf(w, "  {id: %d, d: \"%s\"},\n", e.ID, e.Description); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintln(w, "];")
		return err

	case NamedModules:
		if _, err := fmt.Fprintf(w, "const %s = {\n", kind.Binding()); err != nil {
			return err
		}
		for _, name := range b.namedOrder {
			e := b.named[name]
			if _, err := fmt.Fprintf(w, "  \"%s\": {id: %d, def: %s, ref: %s},\n",
				name, e.ID, idList(e.Definers), idList(e.Referencers)); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintln(w, "};")
		return err

	case Symbols:
		if _, err := fmt.Fprintf(w, "const %s = {\n", kind.Binding()); err != nil {
			return err
		}
		for _, text := range b.symbolOrder {
			e := b.symbols[text]
			if _, err := fmt.Fprintf(w, "  \"%s\": {def: %d, ref: %s},\n",
				text, e.DefiningModule, idList(e.ReferencingModules)); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintln(w, "};")
		return err
	}
	return fmt.Errorf("unknown index kind %d", int(kind))
}

// MajorModuleEntries returns the recorded major-module entries in record
// order.
func (b *Builder) MajorModuleEntries() []ModuleEntry {
	return append([]ModuleEntry(nil), b.majors...)
}

// NamedModuleEntries returns the recorded named-module entries in record
// order.
func (b *Builder) NamedModuleEntries() []NamedModuleEntry {
	out := make([]NamedModuleEntry, 0, len(b.namedOrder))
	for _, name := range b.namedOrder {
		out = append(out, *b.named[name])
	}
	return out
}

// SymbolEntries returns the recorded symbol entries in first-seen order.
func (b *Builder) SymbolEntries() []SymbolEntry {
	out := make([]SymbolEntry, 0, len(b.symbolOrder))
	for _, text := range b.symbolOrder {
		out = append(out, *b.symbols[text])
	}
	return out
}
