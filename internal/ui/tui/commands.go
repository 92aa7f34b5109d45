package tui

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalvaropc/unitforge/internal/domain"
	"github.com/aalvaropc/unitforge/internal/infra/logger"
	"github.com/aalvaropc/unitforge/internal/infra/workspacefinder"
	"github.com/aalvaropc/unitforge/internal/usecase"
)

func cmdRefreshWorkspace(deps Deps) tea.Cmd {
	return func() tea.Msg {
		wd, err := os.Getwd()
		if err != nil {
			return workspaceRefreshedMsg{found: false, err: fmt.Errorf("getwd: %w", err)}
		}
		if deps.WorkspaceLocator == nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: errors.New("WorkspaceLocator is nil")}
		}

		root, findErr := deps.WorkspaceLocator.FindRoot(wd)
		if findErr != nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: findErr}
		}

		cfg, cfgErr := workspacefinder.LoadConfig(root)
		if cfgErr != nil {
			return workspaceRefreshedMsg{cwd: wd, found: true, root: root, err: cfgErr}
		}
		return workspaceRefreshedMsg{cwd: wd, found: true, root: root, cfg: &cfg}
	}
}

func cmdInitWorkspaceHere(deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		if deps.WorkspaceInitializer == nil {
			return initWorkspaceDoneMsg{root: root, err: errors.New("WorkspaceInitializer is nil")}
		}

		err := usecase.NewInitWorkspace(deps.WorkspaceInitializer).Execute(root, false)
		return initWorkspaceDoneMsg{root: root, err: err}
	}
}

func cmdListUnits(deps Deps, dir string) tea.Cmd {
	return func() tea.Msg {
		if deps.Lister == nil {
			return unitsListedMsg{dir: dir}
		}
		refs, err := deps.Lister.ListUnits(dir)
		return unitsListedMsg{dir: dir, refs: refs, err: err}
	}
}

func cmdLoadUnit(deps Deps, path string) tea.Cmd {
	return func() tea.Msg {
		if deps.Source == nil {
			return unitLoadedMsg{path: path, err: errors.New("UnitSource is nil")}
		}

		s, err := usecase.NewLoadForEdit(deps.Source).Execute(path)
		if err != nil {
			deps.log().Warn("unit.load.failed", "path", path, "err", err)
			return unitLoadedMsg{path: path, err: err}
		}
		logger.WithUnit(deps.log(), s.Unit()).Info("unit.load.ok", "path", path, "sections", len(s.Unit().SectionNames()))
		return unitLoadedMsg{path: path, session: s}
	}
}

// cmdSaveUnit writes u, which must not be shared with the model.
func cmdSaveUnit(deps Deps, dir string, u *domain.Unit) tea.Cmd {
	return func() tea.Msg {
		if deps.Sink == nil {
			return unitSavedMsg{err: errors.New("UnitSink is nil")}
		}
		path, err := usecase.NewSaveUnit(deps.Sink).Execute(dir, u)
		return unitSavedMsg{path: path, err: err}
	}
}
