package ports

import "github.com/aalvaropc/unitforge/internal/domain"

// UnitSource loads a unit from a source (e.g., filesystem).
type UnitSource interface {
	LoadUnit(path string) (*domain.Unit, error)
}

// UnitSink persists a rendered unit and returns where it was written.
type UnitSink interface {
	WriteUnit(dir string, u *domain.Unit) (path string, err error)
}

// UnitLister enumerates unit files in a directory.
type UnitLister interface {
	ListUnits(dir string) ([]domain.UnitRef, error)
}
