// Package unitfile reads and writes the systemd unit file text format.
//
// Parsing is permissive: lines that cannot be attached to a section are
// skipped, never rejected. Rendering is canonical and deterministic, so
// Render(Parse(Render(u))) == Render(u).
package unitfile
