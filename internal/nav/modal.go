package nav

import (
	"fmt"

	"github.com/pkgw/tt-weave/internal/index"
)

// DefaultContentsKey is the keyboard shortcut that toggles the contents
// modal when no other input capture is active.
const DefaultContentsKey = "c"

// ContentsModal drives the table-of-contents overlay. The open/closed
// decision always inspects the view's computed display rather than an
// internal flag: the rendered state is the source of truth, so the
// controller stays consistent even if outside code touched the view, and
// rapid repeated toggles are safe.
type ContentsModal struct {
	view   ModalView
	scroll ScrollLocker
	list   ItemList
	key    string

	prevOverflow string
}

// NewContentsModal builds the controller. shortcutKey may be empty, in
// which case the default applies.
func NewContentsModal(view ModalView, scroll ScrollLocker, list ItemList, shortcutKey string) *ContentsModal {
	if shortcutKey == "" {
		shortcutKey = DefaultContentsKey
	}
	return &ContentsModal{view: view, scroll: scroll, list: list, key: shortcutKey}
}

// Toggle flips the modal. Opening freezes background scrolling, saving
// the prior overflow value; closing restores it.
func (m *ContentsModal) Toggle() {
	if m.view.ComputedDisplay() == "none" {
		m.prevOverflow = m.scroll.Overflow()
		m.scroll.SetOverflow("hidden")
		m.view.SetDisplay("flex")
		return
	}
	m.view.SetDisplay("none")
	m.scroll.SetOverflow(m.prevOverflow)
}

// IsOpen reports whether the modal is currently rendered.
func (m *ContentsModal) IsOpen() bool {
	return m.view.ComputedDisplay() != "none"
}

// OnIndexLoaded consumes the major-module index once its script has
// loaded. It replaces the placeholder with one item per entry, in record
// order: text "<id>. <description>", linked to the module's anchor.
func (m *ContentsModal) OnIndexLoaded(entries []index.ModuleEntry) {
	m.list.Clear()
	for _, e := range entries {
		m.list.Append(fmt.Sprintf("#m%d", e.ID), fmt.Sprintf("%d. %s", e.ID, e.Description))
	}
}

// ItemActivated closes the modal after a contents item is followed.
func (m *ContentsModal) ItemActivated() {
	if m.IsOpen() {
		m.Toggle()
	}
}

// HandleKey toggles the modal on the configured shortcut, unless some
// other input capture (a focused text field, an open prompt) is active.
func (m *ContentsModal) HandleKey(key string, inputCaptured bool) {
	if inputCaptured || key != m.key {
		return
	}
	m.Toggle()
}
