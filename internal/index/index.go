// Package index accumulates the three cross-reference tables of a woven
// document — major modules, named modules, and symbols — and serializes
// each one to a self-contained script file that the browser-side
// navigation code loads before it runs.
package index

import (
	"fmt"
	"strings"
)

// Kind selects one of the three cross-reference indexes.
type Kind int

const (
	MajorModules Kind = iota
	NamedModules
	Symbols
)

// String returns the kind's name for error messages.
func (k Kind) String() string {
	switch k {
	case MajorModules:
		return "major-modules"
	case NamedModules:
		return "named-modules"
	case Symbols:
		return "symbols"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Filename returns the deterministic output artifact name for the kind.
func (k Kind) Filename() string {
	switch k {
	case MajorModules:
		return "ttw-major-modules.js"
	case NamedModules:
		return "ttw-named-modules.js"
	case Symbols:
		return "ttw-symbols.js"
	}
	return ""
}

// Binding returns the global name the serialized artifact defines.
func (k Kind) Binding() string {
	switch k {
	case MajorModules:
		return "ttWeaveMajorModules"
	case NamedModules:
		return "ttWeaveNamedModules"
	case Symbols:
		return "ttWeaveSymbols"
	}
	return ""
}

// ModuleEntry is one row of the major-module index. The id is assigned by
// the document processor in document order and is not validated here.
type ModuleEntry struct {
	ID          int
	Description string
}

// NamedModuleEntry records where a named module is defined and referenced.
// Definers and Referencers are append-only lists of module ids in document
// order.
type NamedModuleEntry struct {
	Name        string
	ID          int
	Definers    []int
	Referencers []int
}

// SymbolEntry records where a symbol is defined and referenced.
type SymbolEntry struct {
	Text               string
	DefiningModule     int
	ReferencingModules []int
}

// Escape prepares text for embedding inside a double-quoted script string
// literal. Applied once, at record time.
func Escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Unescape reverses Escape. Round-tripping recovers the original text.
func Unescape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			case '"':
				b.WriteByte('"')
				i++
				continue
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// idList renders an ordered id list as a script array literal.
func idList(ids []int) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, id := range ids {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", id)
	}
	b.WriteByte(']')
	return b.String()
}
