package tui

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aalvaropc/unitforge/internal/domain"
)

var reLine = regexp.MustCompile(`(?i)\bline\s+(\d+)\b`)

func userMessage(err error) string {
	if err == nil {
		return ""
	}

	var oe *domain.OpError
	if errors.As(err, &oe) {
		switch oe.Kind {

		case domain.KindNotFound:
			if strings.Contains(oe.Op, "workspacefinder.findroot") {
				return "Workspace not found"
			}
			if strings.Contains(oe.Op, "unitfs.list") {
				return "Directory not found: " + oe.Path
			}
			return "Not found"

		case domain.KindInvalidKey:
			return "Invalid key: it must be single-line, unpadded, free of '=' and not start with '#', ';' or '['"

		case domain.KindUnknownTemplate:
			return "Unknown template"

		case domain.KindSourceUnreadable:
			switch {
			case errors.Is(err, os.ErrNotExist):
				return "File not found: " + oe.Path
			case errors.Is(err, os.ErrPermission):
				return "Permission denied reading " + oe.Path
			}
			return "Cannot read " + oe.Path

		case domain.KindDestinationUnwritable:
			switch {
			case errors.Is(err, os.ErrPermission):
				return "Permission denied writing " + oe.Path + ". Run with sudo or change the output dir (o)"
			case errors.Is(err, os.ErrExist):
				return "File already exists: " + oe.Path
			case errors.Is(err, os.ErrNotExist):
				return "Directory does not exist for " + oe.Path
			}
			return "Cannot write " + oe.Path

		case domain.KindInvalidState:
			return "Create or load a unit first"

		case domain.KindInvalidConfig:
			if oe.Op == "unit.validate" && oe.Err != nil {
				return "Invalid unit: " + oe.Err.Error()
			}
			if oe.Op == "usecase.value" && oe.Err != nil {
				return "Invalid value: " + oe.Err.Error()
			}

			base := "config"
			if strings.TrimSpace(oe.Path) != "" {
				base = filepath.Base(oe.Path)
			}

			line := extractLine(err.Error())
			if line != "" {
				return "Invalid YAML at " + base + " line " + line
			}

			if looksLikeYAMLProblem(err.Error()) {
				return "Invalid YAML at " + base
			}
			return "Invalid config"

		default:
			return "Unexpected error (see logs)"
		}
	}

	if looksLikeYAMLProblem(err.Error()) {
		line := extractLine(err.Error())
		if line != "" {
			return "Invalid YAML line " + line
		}
		return "Invalid YAML"
	}

	return "Unexpected error (see logs)"
}

func looksLikeYAMLProblem(s string) bool {
	ls := strings.ToLower(s)
	return strings.Contains(ls, "yaml:") || strings.Contains(ls, "did not find expected") || strings.Contains(ls, "cannot unmarshal")
}

func extractLine(s string) string {
	m := reLine.FindStringSubmatch(s)
	if len(m) == 2 {
		return m[1]
	}
	return ""
}
