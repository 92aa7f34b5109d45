package unitfile

import (
	"fmt"
	"strings"

	"github.com/coreos/go-systemd/v22/unit"

	"github.com/aalvaropc/unitforge/internal/domain"
)

// ToOptions flattens the renderable part of u into go-systemd options.
func ToOptions(u *domain.Unit) []*unit.UnitOption {
	var opts []*unit.UnitOption
	for _, name := range u.SectionNames() {
		for _, o := range u.Options(name) {
			if o.Value == "" {
				continue
			}
			opts = append(opts, unit.NewUnitOption(name, o.Key, o.Value))
		}
	}
	return opts
}

// FromOptions builds a unit from go-systemd options. Repeated keys keep the
// last value, like Parse does.
func FromOptions(opts []*unit.UnitOption) (*domain.Unit, error) {
	u := domain.NewUnit("", "")
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := u.SetOption(o.Section, o.Name, o.Value); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// FindingKind classifies a disagreement between this package and go-systemd.
type FindingKind string

const (
	FindingMissing    FindingKind = "missing"    // systemd sees it, the model does not
	FindingExtra      FindingKind = "extra"      // the model has it, systemd does not
	FindingMismatch   FindingKind = "mismatch"   // both have it with different values
	FindingRepeated   FindingKind = "repeated"   // systemd keeps every occurrence, the model only the last
	FindingUnreadable FindingKind = "unreadable" // go-systemd's reader refused the text
)

// Finding is a single disagreement reported by Verify.
type Finding struct {
	Kind    FindingKind
	Section string
	Key     string
	Want    string
	Got     string
	Count   int
}

// Warning reports findings that say nothing about the file itself, only
// about go-systemd's reader.
func (f Finding) Warning() bool { return f.Kind == FindingUnreadable }

func (f Finding) String() string {
	switch f.Kind {
	case FindingMissing:
		return fmt.Sprintf("[%s] %s: read by systemd as %q but dropped here", f.Section, f.Key, f.Want)
	case FindingExtra:
		return fmt.Sprintf("[%s] %s: not seen by systemd", f.Section, f.Key)
	case FindingRepeated:
		return fmt.Sprintf("[%s] %s: set %d times; systemd keeps each one, only %q is kept here", f.Section, f.Key, f.Count, f.Got)
	case FindingUnreadable:
		return fmt.Sprintf("systemd reader could not compare: %s", f.Want)
	default:
		return fmt.Sprintf("[%s] %s: systemd reads %q, model has %q", f.Section, f.Key, f.Want, f.Got)
	}
}

type optionRef struct{ section, key string }

// Verify deserializes text with go-systemd's reader and compares the result
// with Parse(text). When the reader refuses the text, the only finding is a
// FindingUnreadable warning.
func Verify(text string) []Finding {
	opts, err := unit.Deserialize(strings.NewReader(text))
	if err != nil {
		return []Finding{{Kind: FindingUnreadable, Want: err.Error()}}
	}

	ours := Parse(text)
	sd := domain.NewUnit("", "")

	var findings []Finding
	var order []optionRef
	counts := map[optionRef]int{}
	for _, o := range opts {
		if o == nil {
			continue
		}
		ref := optionRef{o.Section, o.Name}
		if counts[ref] == 0 {
			order = append(order, ref)
		}
		counts[ref]++
		if err := sd.SetOption(o.Section, o.Name, o.Value); err != nil {
			findings = append(findings, Finding{Kind: FindingMissing, Section: o.Section, Key: o.Name, Want: o.Value})
		}
	}

	for _, ref := range order {
		want, ok := sd.Option(ref.section, ref.key)
		if !ok {
			continue
		}
		got, has := ours.Option(ref.section, ref.key)
		switch {
		case !has:
			findings = append(findings, Finding{Kind: FindingMissing, Section: ref.section, Key: ref.key, Want: want})
		case got != want:
			findings = append(findings, Finding{Kind: FindingMismatch, Section: ref.section, Key: ref.key, Want: want, Got: got})
		}
		if n := counts[ref]; n > 1 && has {
			findings = append(findings, Finding{Kind: FindingRepeated, Section: ref.section, Key: ref.key, Got: got, Count: n})
		}
	}

	for _, sec := range ours.SectionNames() {
		for _, o := range ours.Options(sec) {
			if _, ok := sd.Option(sec, o.Key); !ok {
				findings = append(findings, Finding{Kind: FindingExtra, Section: sec, Key: o.Key, Got: o.Value})
			}
		}
	}
	return findings
}
