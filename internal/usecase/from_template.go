package usecase

import (
	"strings"

	"github.com/aalvaropc/unitforge/internal/app/template"
	"github.com/aalvaropc/unitforge/internal/domain"
	"github.com/aalvaropc/unitforge/internal/ports"
)

type FromTemplate struct {
	catalog ports.TemplateCatalog
}

func NewFromTemplate(catalog ports.TemplateCatalog) *FromTemplate {
	return &FromTemplate{catalog: catalog}
}

// Execute instantiates template id, names the unit and expands the
// {{name}} and {{type}} placeholders a user template may carry.
func (uc *FromTemplate) Execute(id, name string) (*domain.Unit, error) {
	u, err := uc.catalog.Instantiate(id)
	if err != nil {
		return nil, err
	}

	u.Name = strings.TrimSpace(name)
	if err := u.Validate(); err != nil {
		return nil, err
	}

	vars := map[string]string{
		"name": u.Name,
		"type": string(u.Type),
	}
	if err := template.RenderUnit(u, vars); err != nil {
		return nil, err
	}
	return u, nil
}
