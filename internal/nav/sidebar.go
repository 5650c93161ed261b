package nav

import "time"

// SidebarConfig sizes the sidebar's gesture and resize thresholds.
type SidebarConfig struct {
	ViewportWidth float64 // px; bounds the left-edge swipe zone
	PanelWidth    int     // px; current sidebar width
	CollapsePx    int     // px; a release below this width hides the panel
}

// Sidebar drives the three-state visibility model of the navigation
// panel. All transitions are synchronous handlers invoked by the hosting
// event loop; the controller is not safe for concurrent use and does not
// need to be.
type Sidebar struct {
	panel Panel
	links []Link
	store Storage
	cfg   SidebarConfig

	state State
	width int // live width while resizing

	touchActive bool
	touchStartX float64
	touchStart  time.Time

	dragActive bool
}

// NewSidebar builds the controller and applies the visibility persisted in
// store (defaulting to hidden). The initial application is not itself a
// transition, so nothing is written back.
func NewSidebar(panel Panel, links []Link, store Storage, cfg SidebarConfig) *Sidebar {
	s := &Sidebar{
		panel: panel,
		links: links,
		store: store,
		cfg:   cfg,
		width: cfg.PanelWidth,
	}

	initial := Hidden
	if v, err := store.Get(StorageKey); err == nil && Visibility(v) == Visible {
		initial = Visible
	}
	s.apply(initial)
	return s
}

// State reports the current state.
func (s *Sidebar) State() State {
	return s.state
}

// Toggle flips Hidden and Visible. Activations during a resize are
// ignored.
func (s *Sidebar) Toggle() {
	switch s.state {
	case StateHidden:
		s.transition(Visible)
	case StateVisible:
		s.transition(Hidden)
	}
}

// TouchStart begins gesture tracking.
func (s *Sidebar) TouchStart(x float64, at time.Time) {
	if s.state == StateResizing {
		return
	}
	s.touchActive = true
	s.touchStartX = x
	s.touchStart = at
}

// TouchEnd finishes gesture tracking and recognizes a swipe: elapsed time
// under 250ms and horizontal displacement of at least 150px. An opening
// swipe must start within the left quarter of the viewport; a closing
// swipe must start within the panel region. Anything ambiguous is a no-op.
func (s *Sidebar) TouchEnd(x float64, at time.Time) {
	if !s.touchActive {
		return
	}
	s.touchActive = false

	if at.Sub(s.touchStart) >= swipeMaxDuration {
		return
	}
	if x-s.touchStartX < swipeMinDistance {
		return
	}

	switch s.state {
	case StateHidden:
		if s.touchStartX <= edgeZoneFraction*s.cfg.ViewportWidth {
			s.transition(Visible)
		}
	case StateVisible:
		if s.touchStartX <= float64(s.cfg.PanelWidth) {
			s.transition(Hidden)
		}
	}
}

// BeginDrag starts a pointer drag of the panel edge.
func (s *Sidebar) BeginDrag() {
	if s.state == StateResizing {
		return
	}
	s.dragActive = true
}

// EndDrag releases a pointer drag at horizontal position x: below the
// collapse threshold the panel hides, otherwise it shows.
func (s *Sidebar) EndDrag(x float64) {
	if !s.dragActive {
		return
	}
	s.dragActive = false

	if x < float64(s.cfg.CollapsePx) {
		if s.state == StateVisible {
			s.transition(Hidden)
		}
	} else if s.state == StateHidden {
		s.transition(Visible)
	}
}

// ResizeStart enters the transient resizing state on pointer-down over
// the resize handle.
func (s *Sidebar) ResizeStart() {
	if s.state == StateResizing {
		return
	}
	s.state = StateResizing
	s.width = s.cfg.PanelWidth
}

// ResizeTo tracks the pointer while resizing.
func (s *Sidebar) ResizeTo(x float64) {
	if s.state != StateResizing {
		return
	}
	w := int(x)
	if w < 0 {
		w = 0
	}
	if w > int(s.cfg.ViewportWidth) {
		w = int(s.cfg.ViewportWidth)
	}
	s.width = w
}

// ResizeEnd leaves the resizing state on pointer-up. The last computed
// width decides the outcome: below the collapse threshold the panel
// hides, otherwise the chosen width is persisted to the panel's style and
// the panel shows.
func (s *Sidebar) ResizeEnd() {
	if s.state != StateResizing {
		return
	}
	if s.width < s.cfg.CollapsePx {
		s.transition(Hidden)
		return
	}
	s.cfg.PanelWidth = s.width
	s.panel.SetWidth(s.width)
	s.transition(Visible)
}

// transition applies a visibility change and persists it. Storage errors
// are swallowed: persistence is best effort.
func (s *Sidebar) transition(v Visibility) {
	s.apply(v)
	_ = s.store.Set(StorageKey, string(v))
}

// apply mirrors visibility onto the panel and the links' tab order. Link
// focusability must always match panel visibility, so this is the single
// place both are set.
func (s *Sidebar) apply(v Visibility) {
	if v == Visible {
		s.state = StateVisible
		s.panel.SetVisible(true)
		for _, l := range s.links {
			l.SetTabIndex(0)
		}
		return
	}
	s.state = StateHidden
	s.panel.SetVisible(false)
	for _, l := range s.links {
		l.SetTabIndex(-1)
	}
}
