package tui

import (
	"io"
	"log/slog"

	"github.com/aalvaropc/unitforge/internal/domain"
	"github.com/aalvaropc/unitforge/internal/ports"
)

type Deps struct {
	WorkspaceLocator     ports.WorkspaceLocator
	WorkspaceInitializer ports.WorkspaceInitializer

	Catalog ports.TemplateCatalog
	Source  ports.UnitSource
	Sink    ports.UnitSink
	Lister  ports.UnitLister
	Config  domain.Config

	Logger *slog.Logger
	Debug  bool
}

func (d Deps) log() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return d.Logger
}
