// Package domain contains the core model for unitforge: units, templates and
// the edit session that mutates them.
//
// The domain is persistence-agnostic: it does not read or write files, parse
// YAML or talk to systemd. The unitfile package and the infra adapters map
// into/from these types.
package domain
