package ports

import "github.com/aalvaropc/unitforge/internal/domain"

// TemplateCatalog lists templates and creates units from them.
type TemplateCatalog interface {
	List() []domain.TemplateSummary
	Instantiate(id string) (*domain.Unit, error)
}

// TemplateLoader reads user-defined templates from a directory. Files that
// cannot be loaded are left out and reported by Skipped.
type TemplateLoader interface {
	LoadTemplates(dir string) ([]domain.TemplateDefinition, error)
	Skipped() []error
}
