package domain

import (
	"errors"
	"fmt"
	"strings"
)

// UnitType is the kind of systemd unit; it doubles as the file extension.
type UnitType string

const (
	UnitService UnitType = "service"
	UnitTimer   UnitType = "timer"
	UnitSocket  UnitType = "socket"
)

// UnitTypes lists the supported unit types in menu order.
var UnitTypes = []UnitType{UnitService, UnitTimer, UnitSocket}

// ParseUnitType maps a file extension or user answer ("service", ".timer") to a UnitType.
func ParseUnitType(s string) (UnitType, bool) {
	s = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	for _, t := range UnitTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Option is a single Key=Value line of a section.
type Option struct {
	Key   string
	Value string
}

type section struct {
	name  string
	opts  []Option
	index map[string]int
}

// Unit is the in-memory model of a unit file: ordered sections holding
// ordered, unique keys.
//
// Section order is the order in which a section was first created; option
// order is insertion order and overwriting a key keeps its position. Options
// with empty values are kept here but never rendered.
type Unit struct {
	Name string
	Type UnitType

	sections []*section
	byName   map[string]*section
}

// NewUnit returns an empty unit.
func NewUnit(name string, typ UnitType) *Unit {
	return &Unit{
		Name:   name,
		Type:   typ,
		byName: map[string]*section{},
	}
}

// SetOption creates the section if needed and sets or overwrites key.
func (u *Unit) SetOption(sectionName, key, value string) error {
	if err := validateKey(key); err != nil {
		return &OpError{Op: "unit.set_option", Kind: KindInvalidKey, Err: err}
	}

	s, err := u.ensure(sectionName)
	if err != nil {
		return &OpError{Op: "unit.set_option", Kind: KindInvalidKey, Err: err}
	}

	if i, ok := s.index[key]; ok {
		s.opts[i].Value = value
		return nil
	}
	s.index[key] = len(s.opts)
	s.opts = append(s.opts, Option{Key: key, Value: value})
	return nil
}

// RemoveOption deletes key from section and reports whether anything was removed.
func (u *Unit) RemoveOption(sectionName, key string) bool {
	s, ok := u.lookup(sectionName)
	if !ok {
		return false
	}
	i, ok := s.index[key]
	if !ok {
		return false
	}

	s.opts = append(s.opts[:i], s.opts[i+1:]...)
	delete(s.index, key)
	for j := i; j < len(s.opts); j++ {
		s.index[s.opts[j].Key] = j
	}
	return true
}

// Options returns a copy of the section's options in insertion order.
func (u *Unit) Options(sectionName string) []Option {
	s, ok := u.lookup(sectionName)
	if !ok {
		return []Option{}
	}
	out := make([]Option, len(s.opts))
	copy(out, s.opts)
	return out
}

// Option returns the value stored for key, if any.
func (u *Unit) Option(sectionName, key string) (string, bool) {
	s, ok := u.lookup(sectionName)
	if !ok {
		return "", false
	}
	i, ok := s.index[key]
	if !ok {
		return "", false
	}
	return s.opts[i].Value, true
}

// SectionNames returns the names of the sections holding at least one
// option, in creation order.
func (u *Unit) SectionNames() []string {
	out := make([]string, 0, len(u.sections))
	for _, s := range u.sections {
		if len(s.opts) > 0 {
			out = append(out, s.name)
		}
	}
	return out
}

// AllSectionNames is SectionNames including sections that exist but are
// still empty, such as one just focused in the editor.
func (u *Unit) AllSectionNames() []string {
	out := make([]string, 0, len(u.sections))
	for _, s := range u.sections {
		out = append(out, s.name)
	}
	return out
}

// HasSection reports whether the section exists, even if it has no options.
func (u *Unit) HasSection(name string) bool {
	_, ok := u.lookup(name)
	return ok
}

// EnsureSection creates an empty section so it can be edited before it has options.
func (u *Unit) EnsureSection(name string) error {
	if _, err := u.ensure(name); err != nil {
		return &OpError{Op: "unit.ensure_section", Kind: KindInvalidKey, Err: err}
	}
	return nil
}

// Clone returns a deep copy; mutations of either side are not shared.
func (u *Unit) Clone() *Unit {
	out := NewUnit(u.Name, u.Type)
	for _, s := range u.sections {
		cp := &section{
			name:  s.name,
			opts:  make([]Option, len(s.opts)),
			index: make(map[string]int, len(s.index)),
		}
		copy(cp.opts, s.opts)
		for k, v := range s.index {
			cp.index[k] = v
		}
		out.sections = append(out.sections, cp)
		out.byName[cp.name] = cp
	}
	return out
}

// FileName is the on-disk name of the unit, e.g. "backup.service".
func (u *Unit) FileName() string {
	return u.Name + "." + string(u.Type)
}

// Validate checks the unit is ready to be persisted.
func (u *Unit) Validate() error {
	name := strings.TrimSpace(u.Name)
	switch {
	case name == "":
		return &OpError{Op: "unit.validate", Kind: KindInvalidConfig, Err: errors.New("unit name is required")}
	case strings.ContainsAny(name, "/\\") || name != u.Name:
		return &OpError{Op: "unit.validate", Kind: KindInvalidConfig, Err: fmt.Errorf("invalid unit name %q", u.Name)}
	}
	if _, ok := ParseUnitType(string(u.Type)); !ok {
		return &OpError{Op: "unit.validate", Kind: KindInvalidConfig, Err: fmt.Errorf("unsupported unit type %q", u.Type)}
	}
	return nil
}

func (u *Unit) lookup(name string) (*section, bool) {
	if u.byName == nil {
		return nil, false
	}
	s, ok := u.byName[name]
	return s, ok
}

func (u *Unit) ensure(name string) (*section, error) {
	if s, ok := u.lookup(name); ok {
		return s, nil
	}
	if err := validateSection(name); err != nil {
		return nil, err
	}
	if u.byName == nil {
		u.byName = map[string]*section{}
	}
	s := &section{name: name, index: map[string]int{}}
	u.sections = append(u.sections, s)
	u.byName[name] = s
	return s, nil
}

func validateKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: key is empty", ErrInvalidKey)
	case strings.ContainsAny(key, "=\n\r"):
		return fmt.Errorf("%w: %q contains a separator or newline", ErrInvalidKey, key)
	case strings.TrimSpace(key) != key:
		return fmt.Errorf("%w: %q has leading or trailing whitespace", ErrInvalidKey, key)
	case strings.ContainsAny(key[:1], "#;["):
		return fmt.Errorf("%w: %q would be read back as a comment or section header", ErrInvalidKey, key)
	}
	return nil
}

func validateSection(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: section name is empty", ErrInvalidKey)
	case strings.ContainsAny(name, "[]\n\r"):
		return fmt.Errorf("%w: section %q contains a bracket or newline", ErrInvalidKey, name)
	case strings.TrimSpace(name) != name:
		return fmt.Errorf("%w: section %q has leading or trailing whitespace", ErrInvalidKey, name)
	}
	return nil
}
