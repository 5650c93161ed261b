// Package nav implements the navigation logic of a woven document: a
// collapsible sidebar with persisted visibility, touch and drag gestures,
// and a table-of-contents modal populated from the major-module index.
//
// The controllers hold no references to global state. Every collaborator —
// the panel, the links, the storage, the modal view — is injected through
// the constructor, so the same state machines run under tests and mirror
// the embedded browser script shipped with the generated output.
package nav

import "time"

// Visibility is the persisted sidebar choice.
type Visibility string

const (
	Hidden  Visibility = "hidden"
	Visible Visibility = "visible"
)

// State is the sidebar's full state, including the transient resize state.
type State int

const (
	StateHidden State = iota
	StateVisible
	StateResizing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateHidden:
		return "hidden"
	case StateVisible:
		return "visible"
	case StateResizing:
		return "resizing"
	}
	return "unknown"
}

// StorageKey is the client-side key under which sidebar visibility is
// persisted.
const StorageKey = "ttweave-sidebar"

// Gesture recognition policy: a swipe counts only when it is fast and
// long, and opening swipes must originate near the left edge.
const (
	swipeMaxDuration = 250 * time.Millisecond
	swipeMinDistance = 150.0
	edgeZoneFraction = 0.25
)

// Panel is the sidebar element as seen by the controller.
type Panel interface {
	SetVisible(bool)
	SetWidth(px int)
}

// Link is one navigation link whose keyboard focusability must mirror
// panel visibility.
type Link interface {
	SetTabIndex(int)
}

// Storage is the durable client-side key-value store. Failures are
// tolerated: visibility still applies for the current session.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// ModalView is the contents modal element. ComputedDisplay reports the
// rendered display value, which is the source of truth for toggling.
type ModalView interface {
	ComputedDisplay() string
	SetDisplay(value string)
}

// ScrollLocker freezes and restores background scrolling while the modal
// is open.
type ScrollLocker interface {
	Overflow() string
	SetOverflow(value string)
}

// ItemList is the modal's list element. Clear removes the loading
// placeholder along with any previous items.
type ItemList interface {
	Clear()
	Append(href, text string)
}
