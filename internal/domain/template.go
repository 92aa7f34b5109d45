package domain

// SectionSeed is one section of a template, options in render order.
type SectionSeed struct {
	Name    string
	Options []Option
}

// TemplateDefinition is a predefined starting configuration for a new unit.
// Definitions are treated as read-only; instantiation copies every value.
type TemplateDefinition struct {
	ID          string
	DisplayName string
	Type        UnitType
	Sections    []SectionSeed
}

// TemplateSummary is what listings show about a template.
type TemplateSummary struct {
	ID          string
	DisplayName string
	Type        UnitType
}

func (t TemplateDefinition) Summary() TemplateSummary {
	return TemplateSummary{ID: t.ID, DisplayName: t.DisplayName, Type: t.Type}
}

// NewUnit builds a fresh, unnamed unit seeded from the template.
func (t TemplateDefinition) NewUnit() (*Unit, error) {
	u := NewUnit("", t.Type)
	for _, s := range t.Sections {
		if err := u.EnsureSection(s.Name); err != nil {
			return nil, err
		}
		for _, o := range s.Options {
			if err := u.SetOption(s.Name, o.Key, o.Value); err != nil {
				return nil, err
			}
		}
	}
	return u, nil
}
