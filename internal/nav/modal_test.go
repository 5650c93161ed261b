package nav

import (
	"testing"

	"github.com/pkgw/tt-weave/internal/index"
)

type fakeModalView struct {
	display string
}

func (v *fakeModalView) ComputedDisplay() string { return v.display }
func (v *fakeModalView) SetDisplay(d string)     { v.display = d }

type fakeScroll struct {
	overflow string
}

func (s *fakeScroll) Overflow() string     { return s.overflow }
func (s *fakeScroll) SetOverflow(v string) { s.overflow = v }

type fakeItemList struct {
	hrefs  []string
	texts  []string
	clears int
}

func (l *fakeItemList) Clear() {
	l.clears++
	l.hrefs = nil
	l.texts = nil
}

func (l *fakeItemList) Append(href, text string) {
	l.hrefs = append(l.hrefs, href)
	l.texts = append(l.texts, text)
}

func newTestModal() (*ContentsModal, *fakeModalView, *fakeScroll, *fakeItemList) {
	view := &fakeModalView{display: "none"}
	scroll := &fakeScroll{overflow: "auto"}
	list := &fakeItemList{}
	return NewContentsModal(view, scroll, list, ""), view, scroll, list
}

func TestToggleTwiceRestores(t *testing.T) {
	m, view, scroll, _ := newTestModal()

	m.Toggle()
	if view.display != "flex" {
		t.Errorf("display = %q after open, want flex", view.display)
	}
	if scroll.overflow != "hidden" {
		t.Errorf("overflow = %q after open, want hidden", scroll.overflow)
	}
	if !m.IsOpen() {
		t.Error("IsOpen should report true")
	}

	m.Toggle()
	if view.display != "none" {
		t.Errorf("display = %q after close, want none", view.display)
	}
	if scroll.overflow != "auto" {
		t.Errorf("overflow = %q after close, want the saved value", scroll.overflow)
	}
	if m.IsOpen() {
		t.Error("IsOpen should report false")
	}
}

func TestToggleTracksExternalChanges(t *testing.T) {
	m, view, _, _ := newTestModal()

	// Outside code opened the modal; the controller must still close it,
	// because the computed display is the source of truth.
	view.display = "flex"
	m.Toggle()
	if view.display != "none" {
		t.Errorf("display = %q, want none", view.display)
	}
}

func TestOnIndexLoaded(t *testing.T) {
	m, _, _, list := newTestModal()

	m.OnIndexLoaded([]index.ModuleEntry{
		{ID: 1, Description: "Intro"},
		{ID: 2, Description: "Setup"},
	})

	if list.clears != 1 {
		t.Errorf("Clear called %d times, want 1", list.clears)
	}
	wantHrefs := []string{"#m1", "#m2"}
	wantTexts := []string{"1. Intro", "2. Setup"}
	if len(list.hrefs) != 2 {
		t.Fatalf("got %d items", len(list.hrefs))
	}
	for i := range wantHrefs {
		if list.hrefs[i] != wantHrefs[i] || list.texts[i] != wantTexts[i] {
			t.Errorf("item %d = (%q, %q), want (%q, %q)",
				i, list.hrefs[i], list.texts[i], wantHrefs[i], wantTexts[i])
		}
	}
}

func TestItemActivatedClosesOnlyWhenOpen(t *testing.T) {
	m, view, scroll, _ := newTestModal()

	m.ItemActivated()
	if view.display != "none" {
		t.Errorf("display = %q, want unchanged", view.display)
	}

	m.Toggle()
	m.ItemActivated()
	if view.display != "none" {
		t.Errorf("display = %q after activation, want none", view.display)
	}
	if scroll.overflow != "auto" {
		t.Errorf("overflow = %q, want restored", scroll.overflow)
	}
}

func TestHandleKey(t *testing.T) {
	m, view, _, _ := newTestModal()

	m.HandleKey("x", false)
	if view.display != "none" {
		t.Error("wrong key must be ignored")
	}

	m.HandleKey("c", true)
	if view.display != "none" {
		t.Error("captured input must eat the shortcut")
	}

	m.HandleKey("c", false)
	if view.display != "flex" {
		t.Errorf("display = %q, want flex", view.display)
	}
}

func TestCustomShortcutKey(t *testing.T) {
	view := &fakeModalView{display: "none"}
	m := NewContentsModal(view, &fakeScroll{}, &fakeItemList{}, "t")

	m.HandleKey("c", false)
	if view.display != "none" {
		t.Error("default key must not apply when overridden")
	}
	m.HandleKey("t", false)
	if view.display != "flex" {
		t.Errorf("display = %q, want flex", view.display)
	}
}
