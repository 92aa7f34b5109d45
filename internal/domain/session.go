package domain

import "fmt"

// SessionState is the state of an EditSession.
type SessionState int

const (
	StateIdle SessionState = iota
	StateLoaded
	StateEditingSection
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoaded:
		return "loaded"
	case StateEditingSection:
		return "editing_section"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// EditOp selects what an EditCommand does.
type EditOp int

const (
	EditAddOrModify EditOp = iota
	EditRemove
	EditExit
)

// EditCommand is applied to the focused section of an EditSession.
type EditCommand struct {
	Op    EditOp
	Key   string
	Value string
}

func AddOrModify(key, value string) EditCommand {
	return EditCommand{Op: EditAddOrModify, Key: key, Value: value}
}

func Remove(key string) EditCommand {
	return EditCommand{Op: EditRemove, Key: key}
}

func Exit() EditCommand {
	return EditCommand{Op: EditExit}
}

// EditStatus reports the outcome of a command that did not fail.
type EditStatus string

const (
	StatusApplied  EditStatus = "applied"
	StatusRemoved  EditStatus = "removed"
	StatusNotFound EditStatus = "not_found"
	StatusExited   EditStatus = "exited"
)

// EditSession focuses one section of one unit at a time and applies edits
// immediately; nothing is buffered.
type EditSession struct {
	state SessionState
	unit  *Unit
	focus string
}

func NewEditSession() *EditSession {
	return &EditSession{state: StateIdle}
}

func (s *EditSession) State() SessionState { return s.state }

// Unit returns the loaded unit, or nil when idle.
func (s *EditSession) Unit() *Unit { return s.unit }

// FocusedSection returns the section being edited, or "" when none is focused.
func (s *EditSession) FocusedSection() string { return s.focus }

// Load moves Idle -> Loaded.
func (s *EditSession) Load(u *Unit) error {
	if u == nil {
		return &OpError{Op: "session.load", Kind: KindInvalidState, Err: fmt.Errorf("%w: nil unit", ErrInvalidState)}
	}
	if s.state != StateIdle {
		return s.stateErr("session.load")
	}
	s.unit = u
	s.focus = ""
	s.state = StateLoaded
	return nil
}

// FocusSection moves Loaded or EditingSection -> EditingSection, creating the
// section if it does not exist yet. A previous focus is left implicitly.
func (s *EditSession) FocusSection(name string) error {
	if s.state == StateIdle {
		return s.stateErr("session.focus")
	}
	if err := s.unit.EnsureSection(name); err != nil {
		return err
	}
	s.focus = name
	s.state = StateEditingSection
	return nil
}

// Apply runs cmd against the focused section. Missing keys are reported as
// StatusNotFound; only invalid keys and wrong-state calls are errors.
func (s *EditSession) Apply(cmd EditCommand) (EditStatus, error) {
	if s.state != StateEditingSection {
		return "", s.stateErr("session.apply")
	}

	switch cmd.Op {
	case EditAddOrModify:
		if err := s.unit.SetOption(s.focus, cmd.Key, cmd.Value); err != nil {
			return "", err
		}
		return StatusApplied, nil
	case EditRemove:
		if s.unit.RemoveOption(s.focus, cmd.Key) {
			return StatusRemoved, nil
		}
		return StatusNotFound, nil
	case EditExit:
		s.focus = ""
		s.state = StateLoaded
		return StatusExited, nil
	default:
		return "", &OpError{Op: "session.apply", Kind: KindInvalidState, Err: fmt.Errorf("%w: unknown edit op %d", ErrInvalidState, cmd.Op)}
	}
}

// Close returns to Idle and hands back the unit that was being edited.
func (s *EditSession) Close() *Unit {
	u := s.unit
	s.unit = nil
	s.focus = ""
	s.state = StateIdle
	return u
}

func (s *EditSession) stateErr(op string) error {
	return &OpError{Op: op, Kind: KindInvalidState, Err: fmt.Errorf("%w: %s", ErrInvalidState, s.state)}
}
