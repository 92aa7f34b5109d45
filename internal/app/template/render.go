package template

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aalvaropc/unitforge/internal/domain"
)

// RenderString replaces {{VAR}} placeholders with vars values.
// It returns an error if a variable is missing or a placeholder is malformed.
func RenderString(input string, vars map[string]string) (string, error) {
	if input == "" || !strings.Contains(input, "{{") {
		return input, nil
	}

	var out strings.Builder
	rest := input
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			out.WriteString(rest)
			return out.String(), nil
		}

		out.WriteString(rest[:start])
		rest = rest[start+2:]

		end := strings.Index(rest, "}}")
		if end == -1 {
			return "", &domain.OpError{
				Op:   "template.render",
				Kind: domain.KindInvalidConfig,
				Err:  errors.New("unclosed template expression"),
			}
		}

		key := strings.TrimSpace(rest[:end])
		if key == "" {
			return "", &domain.OpError{
				Op:   "template.render",
				Kind: domain.KindInvalidConfig,
				Err:  errors.New("empty template expression"),
			}
		}

		value, ok := vars[key]
		if !ok {
			return "", &domain.OpError{
				Op:   "template.render",
				Kind: domain.KindInvalidConfig,
				Err:  fmt.Errorf("missing variable %q", key),
			}
		}

		out.WriteString(value)
		rest = rest[end+2:]
	}
}

// RenderUnit expands placeholders in every option value of u in place.
// Nothing is modified if any value fails to render.
func RenderUnit(u *domain.Unit, vars map[string]string) error {
	type change struct{ section, key, value string }
	var changes []change

	for _, sec := range u.SectionNames() {
		for _, o := range u.Options(sec) {
			v, err := RenderString(o.Value, vars)
			if err != nil {
				return fmt.Errorf("[%s] %s: %w", sec, o.Key, err)
			}
			if v != o.Value {
				changes = append(changes, change{sec, o.Key, v})
			}
		}
	}

	for _, c := range changes {
		if err := u.SetOption(c.section, c.key, c.value); err != nil {
			return err
		}
	}
	return nil
}
