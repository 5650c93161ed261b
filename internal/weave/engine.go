// Package weave renders a woven document: it consumes the tdux specials
// stream dumped by the TeX pass, applies templates and markup directives,
// copies provided support files, and emits the HTML output together with
// the three cross-reference data files and the navigation assets.
package weave

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkgw/tt-weave/internal/config"
	"github.com/pkgw/tt-weave/internal/index"
	"github.com/pkgw/tt-weave/internal/marker"
	"github.com/pkgw/tt-weave/internal/nav"
	"github.com/pkgw/tt-weave/internal/progress"
	"github.com/pkgw/tt-weave/internal/xref"
)

// Stats summarizes one weave run.
type Stats struct {
	Directives    int
	Pages         int
	AuxPages      int
	Modules       int
	NamedModules  int
	Symbols       int
	ProvidedFiles int
}

// Engine holds the per-run state of one weave. Any directive or sink
// error aborts the run: document-level cross-referencing is all or
// nothing, so there is no partial-output mode.
type Engine struct {
	cfg   *config.Config
	store *xref.Store
	rep   progress.Reporter

	templates map[string]*template.Template
	tmplName  string
	outPath   string
	vars      map[string]string
	content   strings.Builder

	pending []pendingPage

	majors      []index.ModuleEntry
	named       map[string]*index.NamedModuleEntry
	namedOrder  []string
	symbols     map[string]*index.SymbolEntry
	symbolOrder []string

	provided int
}

// pendingPage is one emitted page, buffered until the end of the run so
// every page can carry the complete contents listing.
type pendingPage struct {
	tmpl    string
	path    string
	title   string
	content string
}

// NewEngine creates an engine for one run.
func NewEngine(cfg *config.Config) *Engine {
	return &Engine{
		cfg:       cfg,
		rep:       progress.Silent{},
		templates: make(map[string]*template.Template),
		vars:      make(map[string]string),
		named:     make(map[string]*index.NamedModuleEntry),
		symbols:   make(map[string]*index.SymbolEntry),
	}
}

// SetStore attaches a cross-reference store; the finished tables are
// mirrored into it at the end of the run.
func (e *Engine) SetStore(store *xref.Store) {
	e.store = store
}

// SetReporter attaches a progress reporter.
func (e *Engine) SetReporter(rep progress.Reporter) {
	e.rep = rep
}

// Run processes a whole specials stream and writes the output tree.
func (e *Engine) Run(ctx context.Context, r io.Reader) (*Stats, error) {
	var specials []marker.Special
	sc := marker.NewScanner(r)
	for sc.Scan() {
		specials = append(specials, sc.Special())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading specials stream: %w", err)
	}

	e.rep.Start(len(specials))
	for i, sp := range specials {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := e.apply(sp); err != nil {
			return nil, fmt.Errorf("directive %d (%s): %w", i+1, sp.Kind, err)
		}
		e.rep.Update(i+1, string(sp.Kind))
	}
	e.rep.Finish()

	stats, err := e.finalize(ctx)
	if err != nil {
		return nil, err
	}
	stats.Directives = len(specials)
	return stats, nil
}

// apply dispatches one directive.
func (e *Engine) apply(sp marker.Special) error {
	switch sp.Kind {
	case marker.KindRegisterTemplate:
		return e.registerTemplate(sp.Arg())

	case marker.KindSetTemplate:
		name := sp.Arg()
		if name != defaultTemplateName {
			if _, ok := e.templates[name]; !ok {
				return fmt.Errorf("template %q not registered", name)
			}
		}
		e.tmplName = name
		return nil

	case marker.KindSetOutputPath:
		path, err := safeRelPath(sp.Arg())
		if err != nil {
			return err
		}
		e.outPath = path
		return nil

	case marker.KindEmit:
		return e.emit()

	case marker.KindSetTemplateVariable:
		name, value, err := sp.NameAndRest()
		if err != nil {
			return err
		}
		e.vars[name] = value
		return nil

	case marker.KindProvideFile:
		src, dest, err := sp.Args2()
		if err != nil {
			return err
		}
		return e.provideFile(src, dest)

	case marker.KindStartTag:
		tag, attrs, err := sp.TagAndAttrs()
		if err != nil {
			return err
		}
		e.content.WriteString("<" + tag)
		for _, a := range attrs {
			e.content.WriteString(fmt.Sprintf(" %s=\"%s\"", a.Name, template.HTMLEscapeString(a.Value)))
		}
		e.content.WriteString(">")
		return nil

	case marker.KindEndTag:
		e.content.WriteString("</" + sp.Arg() + ">")
		return nil

	case marker.KindDirect:
		e.content.WriteString(sp.Payload)
		return nil

	case marker.KindMajorModule:
		id, desc, err := sp.IDAndText()
		if err != nil {
			return err
		}
		e.majors = append(e.majors, index.ModuleEntry{ID: id, Description: desc})
		// Materialize the anchor the contents modal links to.
		e.content.WriteString(fmt.Sprintf(`<span class="ttw-module-anchor" id="m%d"></span>`, id))
		return nil

	case marker.KindNamedModuleDef, marker.KindNamedModuleRef:
		id, name, err := sp.IDAndText()
		if err != nil {
			return err
		}
		nm, ok := e.named[name]
		if !ok {
			nm = &index.NamedModuleEntry{Name: name}
			e.named[name] = nm
			e.namedOrder = append(e.namedOrder, name)
		}
		if sp.Kind == marker.KindNamedModuleDef {
			if len(nm.Definers) == 0 {
				nm.ID = id
			}
			nm.Definers = append(nm.Definers, id)
		} else {
			nm.Referencers = append(nm.Referencers, id)
		}
		return nil

	case marker.KindSymbolDef, marker.KindSymbolRef:
		id, text, err := sp.IDAndText()
		if err != nil {
			return err
		}
		sym, ok := e.symbols[text]
		if !ok {
			sym = &index.SymbolEntry{Text: text}
			e.symbols[text] = sym
			e.symbolOrder = append(e.symbolOrder, text)
		}
		if sp.Kind == marker.KindSymbolDef {
			// A redefinition wins; earlier references are kept.
			sym.DefiningModule = id
		} else {
			sym.ReferencingModules = append(sym.ReferencingModules, id)
		}
		return nil
	}
	return fmt.Errorf("unhandled special kind %q", sp.Kind)
}

// registerTemplate loads a template file from the templates dir.
func (e *Engine) registerTemplate(name string) error {
	if name == "" {
		return fmt.Errorf("registerTemplate: missing name")
	}
	t, err := template.New(name).ParseFiles(filepath.Join(e.cfg.TemplatesDir, name))
	if err != nil {
		return fmt.Errorf("loading template %q: %w", name, err)
	}
	e.templates[name] = t.Lookup(name)
	return nil
}

// emit buffers the accumulated content as one page and resets the
// accumulator. Pages render at the end of the run, once the contents
// listing is complete.
func (e *Engine) emit() error {
	if e.outPath == "" {
		return fmt.Errorf("emit before setOutputPath")
	}
	title := e.vars["title"]
	if title == "" {
		title = e.cfg.Title
	}
	e.pending = append(e.pending, pendingPage{
		tmpl:    e.tmplName,
		path:    e.outPath,
		title:   title,
		content: e.content.String(),
	})
	e.content.Reset()
	return nil
}

// provideFile copies one support file from the assets dir into the output
// tree, subject to the include/exclude glob filter. A filtered file is
// skipped silently.
func (e *Engine) provideFile(src, dest string) error {
	srcRel, err := safeRelPath(src)
	if err != nil {
		return err
	}
	destRel, err := safeRelPath(dest)
	if err != nil {
		return err
	}

	if !MatchesInclude(srcRel, e.cfg.Include) || MatchesExclude(srcRel, e.cfg.Exclude) {
		return nil
	}

	data, err := os.ReadFile(filepath.Join(e.cfg.AssetsDir, filepath.FromSlash(srcRel)))
	if err != nil {
		return fmt.Errorf("reading provided file: %w", err)
	}

	outPath := filepath.Join(e.cfg.OutputDir, filepath.FromSlash(destRel))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("writing provided file: %w", err)
	}
	e.provided++
	return nil
}

// finalize writes the index data files, the navigation assets, and every
// buffered page.
func (e *Engine) finalize(ctx context.Context) (*Stats, error) {
	if err := os.MkdirAll(e.cfg.OutputDir, 0o755); err != nil {
		return nil, err
	}

	if err := e.writeIndexes(); err != nil {
		return nil, err
	}

	if err := os.WriteFile(filepath.Join(e.cfg.OutputDir, "ttweave.css"), []byte(cssContent), 0o644); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(e.cfg.OutputDir, "ttweave.js"), []byte(jsContent), 0o644); err != nil {
		return nil, err
	}

	data := e.basePageData()

	tmpl, err := template.New(defaultTemplateName).Parse(defaultTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing built-in template: %w", err)
	}

	for _, p := range e.pending {
		t := tmpl
		if p.tmpl != "" && p.tmpl != defaultTemplateName {
			t = e.templates[p.tmpl]
		}
		pd := data
		pd.Title = p.title
		pd.Content = template.HTML(p.content)

		outPath := filepath.Join(e.cfg.OutputDir, filepath.FromSlash(p.path))
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return nil, err
		}
		f, err := os.Create(outPath)
		if err != nil {
			return nil, fmt.Errorf("creating page %s: %w", p.path, err)
		}
		if err := t.Execute(f, pd); err != nil {
			f.Close()
			return nil, fmt.Errorf("rendering page %s: %w", p.path, err)
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
	}

	auxPages, err := e.renderPages(tmpl, data)
	if err != nil {
		return nil, err
	}

	if e.store != nil {
		if _, err := e.store.SaveRun(ctx, xref.Snapshot{
			Input:        e.cfg.Input,
			Modules:      e.majors,
			NamedModules: e.namedEntries(),
			Symbols:      e.symbolEntries(),
		}); err != nil {
			return nil, fmt.Errorf("recording run: %w", err)
		}
	}

	return &Stats{
		Pages:         len(e.pending),
		AuxPages:      auxPages,
		Modules:       len(e.majors),
		NamedModules:  len(e.named),
		Symbols:       len(e.symbols),
		ProvidedFiles: e.provided,
	}, nil
}

// writeIndexes serializes the three cross-reference tables through an
// index.Builder. CloseAll is deferred so the sinks are released even if a
// record call fails partway.
func (e *Engine) writeIndexes() (err error) {
	b := index.NewBuilder(e.cfg.OutputDir)
	defer func() {
		if cerr := b.CloseAll(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for _, kind := range []index.Kind{index.MajorModules, index.NamedModules, index.Symbols} {
		if err := b.Open(kind); err != nil {
			return err
		}
	}

	for _, m := range e.majors {
		if err := b.RecordMajorModule(m.ID, m.Description); err != nil {
			return err
		}
	}
	for _, name := range e.namedOrder {
		nm := e.named[name]
		if err := b.RecordNamedModule(nm.Name, nm.ID, nm.Definers, nm.Referencers); err != nil {
			return err
		}
	}
	for _, text := range e.symbolOrder {
		sym := e.symbols[text]
		if err := b.RecordSymbol(sym.Text, sym.DefiningModule, sym.ReferencingModules); err != nil {
			return err
		}
	}

	for _, kind := range []index.Kind{index.MajorModules, index.NamedModules, index.Symbols} {
		if err := b.Close(kind); err != nil {
			return err
		}
	}
	return nil
}

// basePageData computes the template data shared by every page. The
// initial sidebar presentation and the static contents listing come from
// the same nav controllers the browser script mirrors, so the server-side
// render can never drift from the client-side behavior.
func (e *Engine) basePageData() pageData {
	panel := &panelProbe{}
	link := &linkProbe{}
	nav.NewSidebar(panel, []nav.Link{link}, staticStorage{value: e.cfg.Sidebar.Initial}, nav.SidebarConfig{
		PanelWidth: e.cfg.Sidebar.Width,
		CollapsePx: e.cfg.Sidebar.CollapsePx,
	})

	list := &htmlList{}
	modal := nav.NewContentsModal(noopModal{}, noopScroll{}, list, e.cfg.ContentsKey)
	modal.OnIndexLoaded(e.majors)

	sidebarClass := "hidden"
	if panel.visible {
		sidebarClass = "visible"
	}

	return pageData{
		ProjectTitle: e.cfg.Title,
		ContentsHTML: template.HTML(list.HTML()),
		SidebarClass: sidebarClass,
		LinkTabIndex: link.tabIndex,
		SidebarWidth: e.cfg.Sidebar.Width,
		CollapsePx:   e.cfg.Sidebar.CollapsePx,
		ContentsKey:  e.cfg.ContentsKey,
		Vars:         e.vars,
	}
}

// namedEntries returns the aggregated named-module table in first-seen
// order.
func (e *Engine) namedEntries() []index.NamedModuleEntry {
	out := make([]index.NamedModuleEntry, 0, len(e.namedOrder))
	for _, name := range e.namedOrder {
		out = append(out, *e.named[name])
	}
	return out
}

// symbolEntries returns the aggregated symbol table in first-seen order.
func (e *Engine) symbolEntries() []index.SymbolEntry {
	out := make([]index.SymbolEntry, 0, len(e.symbolOrder))
	for _, text := range e.symbolOrder {
		out = append(out, *e.symbols[text])
	}
	return out
}

// safeRelPath normalizes a stream-supplied path and rejects anything that
// would escape the output tree.
func safeRelPath(p string) (string, error) {
	p = filepath.ToSlash(p)
	if p == "" {
		return "", fmt.Errorf("empty path")
	}
	if strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("absolute path %q not allowed", p)
	}
	clean := filepath.ToSlash(filepath.Clean(p))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("path %q escapes the output tree", p)
	}
	return clean, nil
}

// panelProbe records what the sidebar controller sets on its panel.
type panelProbe struct {
	visible bool
	width   int
}

func (p *panelProbe) SetVisible(v bool) { p.visible = v }
func (p *panelProbe) SetWidth(px int)   { p.width = px }

// linkProbe records the tab index the controller assigns.
type linkProbe struct {
	tabIndex int
}

func (l *linkProbe) SetTabIndex(i int) { l.tabIndex = i }

// staticStorage feeds the configured initial visibility to the controller.
type staticStorage struct {
	value string
}

func (s staticStorage) Get(string) (string, error) { return s.value, nil }
func (s staticStorage) Set(string, string) error   { return nil }

// htmlList renders contents items as list markup for the static fallback.
type htmlList struct {
	b strings.Builder
}

func (l *htmlList) Clear() { l.b.Reset() }

func (l *htmlList) Append(href, text string) {
	fmt.Fprintf(&l.b, "<li><a href=\"%s\">%s</a></li>\n", href, template.HTMLEscapeString(text))
}

func (l *htmlList) HTML() string { return l.b.String() }

type noopModal struct{}

func (noopModal) ComputedDisplay() string { return "none" }
func (noopModal) SetDisplay(string)       {}

type noopScroll struct{}

func (noopScroll) Overflow() string   { return "" }
func (noopScroll) SetOverflow(string) {}
