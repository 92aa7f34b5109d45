package tui

import "github.com/aalvaropc/unitforge/internal/domain"

type workspaceRefreshedMsg struct {
	cwd   string
	found bool
	root  string
	cfg   *domain.Config
	err   error
}

type initWorkspaceDoneMsg struct {
	root string
	err  error
}

type unitsListedMsg struct {
	dir  string
	refs []domain.UnitRef
	err  error
}

type unitLoadedMsg struct {
	path    string
	session *domain.EditSession
	err     error
}

type unitSavedMsg struct {
	path string
	err  error
}
