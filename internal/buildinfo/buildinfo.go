package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String is the one-line version banner.
func String() string {
	return fmt.Sprintf("unitforge %s (commit=%s, date=%s)", Version, Commit, Date)
}
