// Package catalog holds the templates a new unit can start from.
package catalog

import (
	"fmt"

	"github.com/aalvaropc/unitforge/internal/domain"
	"github.com/aalvaropc/unitforge/internal/ports"
)

// Catalog is an ordered, read-only set of template definitions.
type Catalog struct {
	defs  []domain.TemplateDefinition
	byID  map[string]int
	dupes []string
}

var _ ports.TemplateCatalog = (*Catalog)(nil)

// New returns the built-in templates followed by extra ones. Extras whose ID
// is already taken are ignored and reported by Skipped.
func New(extra ...domain.TemplateDefinition) *Catalog {
	c := &Catalog{byID: map[string]int{}}
	for _, d := range builtin {
		c.add(d)
	}
	for _, d := range extra {
		c.add(d)
	}
	return c
}

func (c *Catalog) add(d domain.TemplateDefinition) {
	if _, ok := c.byID[d.ID]; ok || d.ID == "" {
		c.dupes = append(c.dupes, d.ID)
		return
	}
	c.byID[d.ID] = len(c.defs)
	c.defs = append(c.defs, clone(d))
}

func clone(d domain.TemplateDefinition) domain.TemplateDefinition {
	out := d
	out.Sections = make([]domain.SectionSeed, len(d.Sections))
	for i, s := range d.Sections {
		out.Sections[i] = domain.SectionSeed{
			Name:    s.Name,
			Options: append([]domain.Option(nil), s.Options...),
		}
	}
	return out
}

// List returns template summaries in catalog order.
func (c *Catalog) List() []domain.TemplateSummary {
	out := make([]domain.TemplateSummary, 0, len(c.defs))
	for _, d := range c.defs {
		out = append(out, d.Summary())
	}
	return out
}

// Get returns a copy of the definition for id.
func (c *Catalog) Get(id string) (domain.TemplateDefinition, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.TemplateDefinition{}, false
	}
	return clone(c.defs[i]), true
}

// Instantiate returns a new unit seeded from template id. Every call returns
// an independent copy.
func (c *Catalog) Instantiate(id string) (*domain.Unit, error) {
	d, ok := c.Get(id)
	if !ok {
		return nil, &domain.OpError{
			Op:   "catalog.instantiate",
			Kind: domain.KindUnknownTemplate,
			Err:  fmt.Errorf("%w %q", domain.ErrUnknownTemplate, id),
		}
	}
	return d.NewUnit()
}

// Skipped lists the IDs of extra templates that were rejected as duplicates or empty.
func (c *Catalog) Skipped() []string {
	out := make([]string, len(c.dupes))
	copy(out, c.dupes)
	return out
}
