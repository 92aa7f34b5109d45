package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aalvaropc/unitforge/internal/domain"
	"github.com/aalvaropc/unitforge/internal/ports"
)

type LoadForEdit struct {
	source ports.UnitSource
}

func NewLoadForEdit(source ports.UnitSource) *LoadForEdit {
	return &LoadForEdit{source: source}
}

// Execute reads the unit at path and opens an edit session on it.
func (uc *LoadForEdit) Execute(path string) (*domain.EditSession, error) {
	u, err := uc.source.LoadUnit(path)
	if err != nil {
		return nil, err
	}

	s := domain.NewEditSession()
	if err := s.Load(u); err != nil {
		return nil, err
	}
	return s, nil
}

// Assignment is one scripted edit in Section.Key=Value form.
// Unset assignments carry no value and remove the key.
type Assignment struct {
	Section string
	Key     string
	Value   string
	Unset   bool
}

// ParseAssignment parses "Section.Key=Value".
func ParseAssignment(s string) (Assignment, error) {
	ref, value, ok := strings.Cut(s, "=")
	if !ok {
		return Assignment{}, invalidAssignment(s, errors.New("expected Section.Key=Value"))
	}
	a, err := parseRef(ref)
	if err != nil {
		return Assignment{}, invalidAssignment(s, err)
	}
	a.Value = strings.TrimSpace(value)
	if err := CheckValue(a.Key, a.Value); err != nil {
		return Assignment{}, err
	}
	return a, nil
}

// CheckValue rejects values that would spill onto more than one line of the
// unit file. The model itself accepts any value.
func CheckValue(key, value string) error {
	if strings.ContainsAny(value, "\r\n") {
		return &domain.OpError{
			Op:   "usecase.value",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("%s must be a single line", key),
		}
	}
	return nil
}

// ParseUnset parses "Section.Key".
func ParseUnset(s string) (Assignment, error) {
	a, err := parseRef(s)
	if err != nil {
		return Assignment{}, invalidAssignment(s, err)
	}
	a.Unset = true
	return a, nil
}

func parseRef(ref string) (Assignment, error) {
	section, key, ok := strings.Cut(strings.TrimSpace(ref), ".")
	section = strings.TrimSpace(section)
	key = strings.TrimSpace(key)
	if !ok || section == "" || key == "" {
		return Assignment{}, errors.New("expected Section.Key")
	}
	return Assignment{Section: section, Key: key}, nil
}

func invalidAssignment(s string, err error) error {
	return &domain.OpError{
		Op:   "usecase.assignment",
		Kind: domain.KindInvalidKey,
		Err:  fmt.Errorf("%w: %q: %w", domain.ErrInvalidKey, s, err),
	}
}

// AssignmentResult pairs an assignment with the status the session reported.
type AssignmentResult struct {
	Assignment Assignment
	Status     domain.EditStatus
}

// ApplyAssignments drives s through every assignment in order, focusing the
// target section for each one. The session is left in the Loaded state.
// Processing stops at the first hard error.
func ApplyAssignments(s *domain.EditSession, assignments []Assignment) ([]AssignmentResult, error) {
	results := make([]AssignmentResult, 0, len(assignments))
	for _, a := range assignments {
		if err := s.FocusSection(a.Section); err != nil {
			return results, err
		}

		cmd := domain.AddOrModify(a.Key, a.Value)
		if a.Unset {
			cmd = domain.Remove(a.Key)
		}

		st, err := s.Apply(cmd)
		if err != nil {
			return results, err
		}
		results = append(results, AssignmentResult{Assignment: a, Status: st})

		if _, err := s.Apply(domain.Exit()); err != nil {
			return results, err
		}
	}
	return results, nil
}
