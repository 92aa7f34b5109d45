package unitfile

import (
	"io"
	"strings"

	"github.com/coreos/go-systemd/v22/unit"

	"github.com/aalvaropc/unitforge/internal/domain"
)

// RenderFile serializes u with go-systemd. Empty values are suppressed and
// sections left without lines are not emitted. The result ends with a newline
// and is nil for a unit with nothing to write.
func RenderFile(u *domain.Unit) []byte {
	opts := ToOptions(u)
	if len(opts) == 0 {
		return nil
	}
	b, err := io.ReadAll(unit.Serialize(opts))
	if err != nil {
		return nil
	}
	return b
}

// Render returns the unit in canonical file format without the trailing newline.
func Render(u *domain.Unit) string {
	return strings.TrimRight(string(RenderFile(u)), " \t\r\n")
}
