package marker

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Writer emits specials-stream directives. It is the class-side half of
// the protocol, used to produce fixture streams and by tooling that
// post-processes a TeX run.
type Writer struct {
	w io.Writer
}

// NewWriter returns a Writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write emits one directive.
func (w *Writer) Write(sp Special) error {
	_, err := fmt.Fprintln(w.w, sp.String())
	return err
}

func (w *Writer) kind(k Kind, payload string) error {
	return w.Write(Special{Kind: k, Payload: payload})
}

// RegisterTemplate emits a registerTemplate directive.
func (w *Writer) RegisterTemplate(name string) error {
	return w.kind(KindRegisterTemplate, name)
}

// SetTemplate emits a setTemplate directive.
func (w *Writer) SetTemplate(name string) error {
	return w.kind(KindSetTemplate, name)
}

// SetOutputPath emits a setOutputPath directive.
func (w *Writer) SetOutputPath(path string) error {
	return w.kind(KindSetOutputPath, path)
}

// Emit emits an emit directive.
func (w *Writer) Emit() error {
	return w.kind(KindEmit, "")
}

// SetVariable emits a setTemplateVariable directive.
func (w *Writer) SetVariable(name, value string) error {
	return w.kind(KindSetTemplateVariable, name+" "+value)
}

// ProvideFile emits a provideFile directive.
func (w *Writer) ProvideFile(source, dest string) error {
	return w.kind(KindProvideFile, source+" "+dest)
}

// StartTag emits a startTag directive with the given attributes.
func (w *Writer) StartTag(tag string, attrs ...Attr) error {
	var b strings.Builder
	b.WriteString(tag)
	for _, a := range attrs {
		b.WriteString(" ")
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(escapeAttr(a.Value))
		b.WriteString(`"`)
	}
	return w.kind(KindStartTag, b.String())
}

// EndTag emits an endTag directive.
func (w *Writer) EndTag(tag string) error {
	return w.kind(KindEndTag, tag)
}

// Direct emits a direct-text directive.
func (w *Writer) Direct(text string) error {
	return w.kind(KindDirect, text)
}

// MajorModule emits a majorModule cross-reference event.
func (w *Writer) MajorModule(id int, description string) error {
	return w.kind(KindMajorModule, strconv.Itoa(id)+" "+description)
}

// NamedModuleDef emits a named-module definition event.
func (w *Writer) NamedModuleDef(id int, name string) error {
	return w.kind(KindNamedModuleDef, strconv.Itoa(id)+" "+name)
}

// NamedModuleRef emits a named-module reference event.
func (w *Writer) NamedModuleRef(id int, name string) error {
	return w.kind(KindNamedModuleRef, strconv.Itoa(id)+" "+name)
}

// SymbolDef emits a symbol definition event.
func (w *Writer) SymbolDef(id int, text string) error {
	return w.kind(KindSymbolDef, strconv.Itoa(id)+" "+text)
}

// SymbolRef emits a symbol reference event.
func (w *Writer) SymbolRef(id int, text string) error {
	return w.kind(KindSymbolRef, strconv.Itoa(id)+" "+text)
}
