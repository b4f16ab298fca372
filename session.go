package main

import (
	"fmt"

	"github.com/clutch3d/clutch/pkg/structure"
)

// SessionState is the interaction state of the editor pane. It lives
// entirely in the UI layer; the resolver knows nothing about it.
type SessionState int

const (
	// Idle: nothing selected.
	Idle SessionState = iota
	// Selected: a placed brick is highlighted.
	Selected
	// Moving: a clone of the selection follows the cursor until placed
	// or cancelled.
	Moving
)

func (s SessionState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selected:
		return "selected"
	case Moving:
		return "moving"
	default:
		return "unknown"
	}
}

// Session is the selection/clone/placement state machine.
//
//	Idle --select--> Selected --clone--> Moving --place--> Selected
//	any  --cancel--> Idle
type Session struct {
	state    SessionState
	selected structure.ID
	active   structure.ID
}

// NewSession creates an idle session.
func NewSession() *Session {
	return &Session{}
}

// State returns the current state.
func (s *Session) State() SessionState {
	return s.state
}

// SelectedID returns the currently selected brick id, or the empty string.
func (s *Session) SelectedID() structure.ID {
	return s.selected
}

// ActiveID returns the id of the brick being moved, or the empty string.
func (s *Session) ActiveID() structure.ID {
	return s.active
}

// Select highlights a brick. Selecting while a placement is in flight is
// rejected; the placement must be committed or cancelled first.
func (s *Session) Select(id structure.ID) error {
	if s.state == Moving {
		return fmt.Errorf("cannot select while placing brick %s", s.active)
	}
	if id == "" || id.IsEmpty() {
		return fmt.Errorf("invalid selection id %q", id)
	}
	s.state = Selected
	s.selected = id
	return nil
}

// Clone begins placement of a copy of the selected brick.
func (s *Session) Clone() error {
	if s.state != Selected {
		return fmt.Errorf("nothing selected to clone")
	}
	s.state = Moving
	s.active = s.selected
	return nil
}

// Place commits the in-flight brick and selects it.
func (s *Session) Place() error {
	if s.state != Moving {
		return fmt.Errorf("no placement in progress")
	}
	s.state = Selected
	s.selected = s.active
	s.active = ""
	return nil
}

// Cancel drops any selection or in-flight placement and returns to Idle.
func (s *Session) Cancel() {
	s.state = Idle
	s.selected = ""
	s.active = ""
}
