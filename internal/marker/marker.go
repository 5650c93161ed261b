// Package marker implements the tdux special protocol: the textual
// directives that the tdux LaTeX class embeds in \special markers during
// the TeX pass. The dumped specials stream is the weave engine's input,
// one directive per line, each of the form "tdux:kind payload".
package marker

import (
	"fmt"
	"strconv"
	"strings"
)

// Prefix introduces every tdux directive.
const Prefix = "tdux:"

// Kind identifies one directive in the special protocol.
type Kind string

const (
	// Template and output control.
	KindRegisterTemplate    Kind = "registerTemplate"
	KindSetTemplate         Kind = "setTemplate"
	KindSetOutputPath       Kind = "setOutputPath"
	KindEmit                Kind = "emit"
	KindSetTemplateVariable Kind = "setTemplateVariable"
	KindProvideFile         Kind = "provideFile"

	// Content markup.
	KindStartTag Kind = "startTag"
	KindEndTag   Kind = "endTag"
	KindDirect   Kind = "direct"

	// Cross-reference events, emitted in document order so module ids
	// arrive monotonically.
	KindMajorModule    Kind = "majorModule"
	KindNamedModuleDef Kind = "namedModuleDef"
	KindNamedModuleRef Kind = "namedModuleRef"
	KindSymbolDef      Kind = "symbolDef"
	KindSymbolRef      Kind = "symbolRef"
)

// knownKinds is the set of directives Parse accepts.
var knownKinds = map[Kind]bool{
	KindRegisterTemplate:    true,
	KindSetTemplate:         true,
	KindSetOutputPath:       true,
	KindEmit:                true,
	KindSetTemplateVariable: true,
	KindProvideFile:         true,
	KindStartTag:            true,
	KindEndTag:              true,
	KindDirect:              true,
	KindMajorModule:         true,
	KindNamedModuleDef:      true,
	KindNamedModuleRef:      true,
	KindSymbolDef:           true,
	KindSymbolRef:           true,
}

// Special is one parsed directive. Payload is the raw text after the kind
// word; its structure depends on the kind and is decoded by the accessor
// methods.
type Special struct {
	Kind    Kind
	Payload string
}

// Parse decodes a single specials-stream line. Unknown kinds are an error:
// the stream is machine-generated, so anything unrecognized means a
// class/engine version mismatch and the run must stop.
func Parse(line string) (Special, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, Prefix) {
		return Special{}, fmt.Errorf("not a tdux special: %q", line)
	}
	rest := line[len(Prefix):]

	kindStr, payload, _ := strings.Cut(rest, " ")
	kind := Kind(kindStr)
	if !knownKinds[kind] {
		return Special{}, fmt.Errorf("unknown special kind %q", kindStr)
	}
	return Special{Kind: kind, Payload: strings.TrimSpace(payload)}, nil
}

// String renders the directive back to its stream form.
func (s Special) String() string {
	if s.Payload == "" {
		return Prefix + string(s.Kind)
	}
	return Prefix + string(s.Kind) + " " + s.Payload
}

// Arg returns the payload as a single argument (registerTemplate,
// setTemplate, setOutputPath, endTag, direct, setTemplateVariable value
// lookups go through more specific accessors).
func (s Special) Arg() string {
	return s.Payload
}

// Args2 splits the payload into exactly two space-separated arguments
// (provideFile source dest). The second argument may not contain spaces.
func (s Special) Args2() (string, string, error) {
	a, b, ok := strings.Cut(s.Payload, " ")
	if !ok || a == "" || b == "" {
		return "", "", fmt.Errorf("%s: want two arguments, got %q", s.Kind, s.Payload)
	}
	return a, strings.TrimSpace(b), nil
}

// NameAndRest splits the payload into a leading name and the remaining
// freeform text (setTemplateVariable name value...).
func (s Special) NameAndRest() (string, string, error) {
	name, rest, ok := strings.Cut(s.Payload, " ")
	if !ok || name == "" {
		return "", "", fmt.Errorf("%s: want a name followed by text, got %q", s.Kind, s.Payload)
	}
	return name, rest, nil
}

// IDAndText splits the payload into a leading integer id and the remaining
// freeform text. This is the shape of every cross-reference event: the id
// of the module being defined (or doing the referencing), then a module
// description, module name, or symbol text.
func (s Special) IDAndText() (int, string, error) {
	idStr, rest, _ := strings.Cut(s.Payload, " ")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, "", fmt.Errorf("%s: bad module id %q", s.Kind, idStr)
	}
	return id, rest, nil
}

// Attr is one HTML attribute on a startTag directive.
type Attr struct {
	Name  string
	Value string
}

// TagAndAttrs decodes a startTag payload: a tag name followed by zero or
// more name="value" attributes. Double quotes inside a value are escaped
// as \" by the emitting side.
func (s Special) TagAndAttrs() (string, []Attr, error) {
	tag, rest, _ := strings.Cut(s.Payload, " ")
	if tag == "" {
		return "", nil, fmt.Errorf("%s: missing tag name", s.Kind)
	}

	var attrs []Attr
	rest = strings.TrimSpace(rest)
	for rest != "" {
		eq := strings.Index(rest, `="`)
		if eq <= 0 {
			return "", nil, fmt.Errorf("%s <%s>: malformed attribute list %q", s.Kind, tag, rest)
		}
		name := rest[:eq]
		rest = rest[eq+2:]

		var val strings.Builder
		closed := false
		for i := 0; i < len(rest); i++ {
			c := rest[i]
			if c == '\\' && i+1 < len(rest) && rest[i+1] == '"' {
				val.WriteByte('"')
				i++
				continue
			}
			if c == '"' {
				rest = strings.TrimSpace(rest[i+1:])
				closed = true
				break
			}
			val.WriteByte(c)
		}
		if !closed {
			return "", nil, fmt.Errorf("%s <%s>: unterminated attribute value for %q", s.Kind, tag, name)
		}
		attrs = append(attrs, Attr{Name: name, Value: val.String()})
	}
	return tag, attrs, nil
}

// escapeAttr prepares an attribute value for embedding in a startTag
// payload.
func escapeAttr(v string) string {
	return strings.ReplaceAll(v, `"`, `\"`)
}
