package nav

import (
	"errors"
	"testing"
	"time"
)

type fakePanel struct {
	visible bool
	width   int
}

func (p *fakePanel) SetVisible(v bool) { p.visible = v }
func (p *fakePanel) SetWidth(px int)   { p.width = px }

type fakeLink struct {
	tabIndex int
}

func (l *fakeLink) SetTabIndex(i int) { l.tabIndex = i }

type fakeStorage struct {
	values  map[string]string
	sets    int
	failAll bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{values: map[string]string{}}
}

func (s *fakeStorage) Get(key string) (string, error) {
	if s.failAll {
		return "", errors.New("storage unavailable")
	}
	v, ok := s.values[key]
	if !ok {
		return "", errors.New("no such key")
	}
	return v, nil
}

func (s *fakeStorage) Set(key, value string) error {
	s.sets++
	if s.failAll {
		return errors.New("storage unavailable")
	}
	s.values[key] = value
	return nil
}

func testConfig() SidebarConfig {
	return SidebarConfig{ViewportWidth: 800, PanelWidth: 300, CollapsePx: 100}
}

func newTestSidebar(store Storage) (*Sidebar, *fakePanel, []*fakeLink) {
	panel := &fakePanel{}
	links := []*fakeLink{{}, {}, {}}
	iface := make([]Link, len(links))
	for i, l := range links {
		iface[i] = l
	}
	return NewSidebar(panel, iface, store, testConfig()), panel, links
}

func TestInitialStateDefaultsHidden(t *testing.T) {
	s, panel, links := newTestSidebar(newFakeStorage())
	if s.State() != StateHidden {
		t.Errorf("state = %v, want hidden", s.State())
	}
	if panel.visible {
		t.Error("panel should start hidden")
	}
	for i, l := range links {
		if l.tabIndex != -1 {
			t.Errorf("link %d tabIndex = %d, want -1", i, l.tabIndex)
		}
	}
}

func TestInitialStateFromStorage(t *testing.T) {
	store := newFakeStorage()
	store.values[StorageKey] = string(Visible)

	s, panel, links := newTestSidebar(store)
	if s.State() != StateVisible {
		t.Errorf("state = %v, want visible", s.State())
	}
	if !panel.visible {
		t.Error("panel should start visible")
	}
	for i, l := range links {
		if l.tabIndex != 0 {
			t.Errorf("link %d tabIndex = %d, want 0", i, l.tabIndex)
		}
	}
	if store.sets != 0 {
		t.Errorf("initial application wrote to storage %d times", store.sets)
	}
}

func TestToggleMirrorsLinksAndPersists(t *testing.T) {
	store := newFakeStorage()
	s, panel, links := newTestSidebar(store)

	s.Toggle()
	if s.State() != StateVisible || !panel.visible {
		t.Fatalf("after toggle: state %v, panel %v", s.State(), panel.visible)
	}
	for i, l := range links {
		if l.tabIndex != 0 {
			t.Errorf("link %d tabIndex = %d after show", i, l.tabIndex)
		}
	}
	if store.values[StorageKey] != string(Visible) {
		t.Errorf("persisted %q", store.values[StorageKey])
	}

	s.Toggle()
	if s.State() != StateHidden || panel.visible {
		t.Fatalf("after second toggle: state %v, panel %v", s.State(), panel.visible)
	}
	for i, l := range links {
		if l.tabIndex != -1 {
			t.Errorf("link %d tabIndex = %d after hide", i, l.tabIndex)
		}
	}
	if store.values[StorageKey] != string(Hidden) {
		t.Errorf("persisted %q", store.values[StorageKey])
	}
}

func TestToggleSurvivesStorageFailure(t *testing.T) {
	store := newFakeStorage()
	store.failAll = true

	s, panel, _ := newTestSidebar(store)
	s.Toggle()
	if s.State() != StateVisible || !panel.visible {
		t.Errorf("visibility must apply even when persistence fails: state %v", s.State())
	}
}

func TestSwipeOpens(t *testing.T) {
	s, _, _ := newTestSidebar(newFakeStorage())

	t0 := time.Now()
	s.TouchStart(50, t0)
	s.TouchEnd(210, t0.Add(200*time.Millisecond))
	if s.State() != StateVisible {
		t.Errorf("fast 160px swipe from the edge zone should open; state = %v", s.State())
	}
}

func TestSlowSwipeIgnored(t *testing.T) {
	s, _, _ := newTestSidebar(newFakeStorage())

	t0 := time.Now()
	s.TouchStart(50, t0)
	s.TouchEnd(210, t0.Add(300*time.Millisecond))
	if s.State() != StateHidden {
		t.Errorf("300ms swipe must not transition; state = %v", s.State())
	}
}

func TestShortSwipeIgnored(t *testing.T) {
	s, _, _ := newTestSidebar(newFakeStorage())

	t0 := time.Now()
	s.TouchStart(50, t0)
	s.TouchEnd(190, t0.Add(100*time.Millisecond))
	if s.State() != StateHidden {
		t.Errorf("140px swipe must not transition; state = %v", s.State())
	}
}

func TestSwipeOutsideEdgeZoneIgnored(t *testing.T) {
	s, _, _ := newTestSidebar(newFakeStorage())

	// Edge zone is the left quarter: 200px of an 800px viewport.
	t0 := time.Now()
	s.TouchStart(300, t0)
	s.TouchEnd(500, t0.Add(100*time.Millisecond))
	if s.State() != StateHidden {
		t.Errorf("swipe starting at x=300 must not open; state = %v", s.State())
	}
}

func TestSwipeCloses(t *testing.T) {
	store := newFakeStorage()
	store.values[StorageKey] = string(Visible)
	s, _, _ := newTestSidebar(store)

	t0 := time.Now()
	s.TouchStart(40, t0)
	s.TouchEnd(220, t0.Add(150*time.Millisecond))
	if s.State() != StateHidden {
		t.Errorf("swipe starting inside the panel should close; state = %v", s.State())
	}
}

func TestTouchEndWithoutStart(t *testing.T) {
	s, _, _ := newTestSidebar(newFakeStorage())
	s.TouchEnd(400, time.Now())
	if s.State() != StateHidden {
		t.Errorf("stray touch end transitioned to %v", s.State())
	}
}

func TestDragOpensAndCloses(t *testing.T) {
	s, _, _ := newTestSidebar(newFakeStorage())

	s.BeginDrag()
	s.EndDrag(250)
	if s.State() != StateVisible {
		t.Fatalf("drag release at 250px should open; state = %v", s.State())
	}

	s.BeginDrag()
	s.EndDrag(40)
	if s.State() != StateHidden {
		t.Errorf("drag release at 40px should close; state = %v", s.State())
	}
}

func TestResizeAboveThreshold(t *testing.T) {
	store := newFakeStorage()
	store.values[StorageKey] = string(Visible)
	s, panel, _ := newTestSidebar(store)

	s.ResizeStart()
	if s.State() != StateResizing {
		t.Fatalf("state = %v, want resizing", s.State())
	}
	s.ResizeTo(250)
	s.ResizeEnd()
	if s.State() != StateVisible {
		t.Errorf("state = %v, want visible", s.State())
	}
	if panel.width != 250 {
		t.Errorf("panel width = %d, want 250", panel.width)
	}
}

func TestResizeBelowThresholdCollapses(t *testing.T) {
	store := newFakeStorage()
	store.values[StorageKey] = string(Visible)
	s, panel, _ := newTestSidebar(store)

	s.ResizeStart()
	s.ResizeTo(60)
	s.ResizeEnd()
	if s.State() != StateHidden {
		t.Errorf("state = %v, want hidden", s.State())
	}
	if panel.visible {
		t.Error("panel should be hidden")
	}
}

func TestResizeClampsToViewport(t *testing.T) {
	store := newFakeStorage()
	store.values[StorageKey] = string(Visible)
	s, panel, _ := newTestSidebar(store)

	s.ResizeStart()
	s.ResizeTo(5000)
	s.ResizeEnd()
	if panel.width != 800 {
		t.Errorf("panel width = %d, want clamped to 800", panel.width)
	}

	s.ResizeStart()
	s.ResizeTo(-20)
	s.ResizeEnd()
	if s.State() != StateHidden {
		t.Errorf("negative position should collapse; state = %v", s.State())
	}
}

func TestToggleIgnoredWhileResizing(t *testing.T) {
	s, _, _ := newTestSidebar(newFakeStorage())

	s.ResizeStart()
	s.Toggle()
	if s.State() != StateResizing {
		t.Errorf("toggle escaped resizing state: %v", s.State())
	}
}
