package ports

import "github.com/aalvaropc/unitforge/internal/domain"

type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) error
}
