package unitfile

import (
	"io"
	"strings"

	"github.com/aalvaropc/unitforge/internal/domain"
)

// SkipReason explains why a line did not make it into the model.
type SkipReason string

const (
	SkipOrphan     SkipReason = "assignment before any section"
	SkipMalformed  SkipReason = "not a section header or assignment"
	SkipBadHeader  SkipReason = "invalid section header"
	SkipInvalidKey SkipReason = "invalid option key"
)

// SkippedLine is a non-blank, non-comment line the parser ignored.
type SkippedLine struct {
	Line   int // 1-based
	Text   string
	Reason SkipReason
}

// Outcome is the result of a parse: the model plus what was ignored.
type Outcome struct {
	Unit    *domain.Unit
	Skipped []SkippedLine
}

// Parse builds a unit from text. Name and Type are left unset; callers derive
// them from the file name.
func Parse(text string) *domain.Unit {
	return ParseDetailed(text).Unit
}

// ParseReader reads r fully and parses it. Only read errors are returned.
func ParseReader(r io.Reader) (*domain.Unit, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(b)), nil
}

// ParseDetailed is Parse plus a report of the lines that were skipped.
func ParseDetailed(text string) Outcome {
	u := domain.NewUnit("", "")
	out := Outcome{Unit: u}

	current := ""
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || isComment(line) {
			continue
		}

		if name, ok := sectionHeader(line); ok {
			if err := u.EnsureSection(name); err != nil {
				out.Skipped = append(out.Skipped, SkippedLine{Line: i + 1, Text: line, Reason: SkipBadHeader})
				current = ""
				continue
			}
			current = name
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		switch {
		case !ok:
			out.Skipped = append(out.Skipped, SkippedLine{Line: i + 1, Text: line, Reason: SkipMalformed})
		case current == "":
			out.Skipped = append(out.Skipped, SkippedLine{Line: i + 1, Text: line, Reason: SkipOrphan})
		default:
			if err := u.SetOption(current, strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
				out.Skipped = append(out.Skipped, SkippedLine{Line: i + 1, Text: line, Reason: SkipInvalidKey})
			}
		}
	}

	return out
}

func isComment(line string) bool {
	return strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";")
}

func sectionHeader(line string) (string, bool) {
	if len(line) < 2 || line[0] != '[' || line[len(line)-1] != ']' {
		return "", false
	}
	return strings.TrimSpace(line[1 : len(line)-1]), true
}
