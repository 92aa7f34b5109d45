package usecase

import (
	"bytes"
	"fmt"
	"os"

	"github.com/aalvaropc/unitforge/internal/domain"
	"github.com/aalvaropc/unitforge/internal/unitfile"
)

// CheckReport describes how a unit file on disk relates to its canonical form.
type CheckReport struct {
	Path      string
	Unit      *domain.Unit
	Skipped   []unitfile.SkippedLine
	Findings  []unitfile.Finding
	Canonical string
	Changed   bool
}

// OK reports whether the file parsed cleanly and systemd reads it the same
// way. Warnings do not count.
func (r CheckReport) OK() bool {
	if len(r.Skipped) > 0 {
		return false
	}
	for _, f := range r.Findings {
		if !f.Warning() {
			return false
		}
	}
	return true
}

type CheckUnit struct {
	readFile func(string) ([]byte, error)
}

func NewCheckUnit() *CheckUnit {
	return &CheckUnit{readFile: os.ReadFile}
}

// Execute parses the file at path, lists the lines the parser ignored and
// cross-checks the file against systemd's own deserializer.
func (uc *CheckUnit) Execute(path string) (CheckReport, error) {
	b, err := uc.readFile(path)
	if err != nil {
		return CheckReport{}, &domain.OpError{
			Op:   "usecase.check",
			Kind: domain.KindSourceUnreadable,
			Path: path,
			Err:  fmt.Errorf("%w: %w", domain.ErrSourceUnreadable, err),
		}
	}

	out := unitfile.ParseDetailed(string(b))
	canonical := unitfile.RenderFile(out.Unit)

	findings := unitfile.Verify(string(b))

	return CheckReport{
		Path:      path,
		Unit:      out.Unit,
		Skipped:   out.Skipped,
		Findings:  findings,
		Canonical: string(canonical),
		Changed:   !bytes.Equal(bytes.TrimSpace(b), bytes.TrimSpace(canonical)),
	}, nil
}
