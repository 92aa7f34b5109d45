package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/unitforge/internal/catalog"
	"github.com/aalvaropc/unitforge/internal/domain"
	"github.com/aalvaropc/unitforge/internal/infra/logger"
	"github.com/aalvaropc/unitforge/internal/infra/unitfs"
	"github.com/aalvaropc/unitforge/internal/infra/workspacefinder"
	"github.com/aalvaropc/unitforge/internal/infra/yamltemplate"
)

// workspaceCtx carries what every command needs. root is empty when no
// workspace was found; defaults apply in that case.
type workspaceCtx struct {
	root string
	cfg  domain.Config

	catalog *catalog.Catalog
	store   *unitfs.Store

	// brokenTemplates are template files that could not be loaded.
	brokenTemplates []error
}

func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		if strings.TrimSpace(workspaceFlag) != "" || !domain.IsKind(err, domain.KindNotFound) {
			return nil, err
		}
		root = ""
	}

	ws := &workspaceCtx{
		root:  root,
		cfg:   domain.DefaultConfig(),
		store: unitfs.NewStore(),
	}

	if root == "" {
		ws.catalog = catalog.New()
		return ws, nil
	}

	cfg, err := workspacefinder.LoadConfig(root)
	if err != nil {
		return nil, err
	}
	ws.cfg = cfg

	loader := yamltemplate.NewLoader()
	defs, err := loader.LoadTemplates(cfg.Paths.TemplatesDir)
	if err != nil {
		return nil, err
	}
	ws.brokenTemplates = loader.Skipped()
	ws.catalog = catalog.New(defs...)
	return ws, nil
}

func (ws *workspaceCtx) logSkippedTemplates() {
	for _, id := range ws.catalog.Skipped() {
		logger.L().Warn("catalog.template.skipped", "id", id, "reason", "duplicate or empty id")
	}
	for _, err := range ws.brokenTemplates {
		logger.L().Warn("catalog.template.skipped", "reason", "load failed", "err", err)
	}
}

// warnBrokenTemplates tells the user which template files were left out.
func (ws *workspaceCtx) warnBrokenTemplates(w io.Writer) {
	for _, err := range ws.brokenTemplates {
		fmt.Fprintf(w, "warning: template skipped: %v\n", err)
	}
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	return workspacefinder.NewFinder().FindRoot(wd)
}

// resolveUnitPath accepts a path or a bare unit file name. Bare names that do
// not exist in the current directory are looked up in the output dir.
func resolveUnitPath(ws *workspaceCtx, arg string) (string, error) {
	in := strings.TrimSpace(arg)
	if in == "" {
		return "", fmt.Errorf("unit file is required")
	}

	if looksLikePath(in) || fileExists(in) {
		return filepath.Clean(in), nil
	}

	p := filepath.Join(ws.cfg.Paths.OutputDir, in)
	if fileExists(p) {
		return p, nil
	}
	return filepath.Clean(in), nil
}

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.Contains(s, string(filepath.Separator))
}

func hasYAMLExt(s string) bool {
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".yaml" || ext == ".yml"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
