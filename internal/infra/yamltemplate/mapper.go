package yamltemplate

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/unitforge/internal/domain"
	"gopkg.in/yaml.v3"
)

func mapTemplate(path string, yt yamlTemplate) (domain.TemplateDefinition, error) {
	id := strings.TrimSpace(yt.ID)
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	typ, ok := domain.ParseUnitType(yt.Type)
	if !ok {
		return domain.TemplateDefinition{}, invalidField(path, "type", fmt.Sprintf("unsupported unit type %q", yt.Type))
	}

	name := strings.TrimSpace(yt.Name)
	if name == "" {
		name = id
	}

	def := domain.TemplateDefinition{
		ID:          id,
		DisplayName: name,
		Type:        typ,
	}

	root := &yt.Sections
	if root.Kind == 0 {
		return domain.TemplateDefinition{}, invalidField(path, "sections", "at least one section is required")
	}
	if root.Kind != yaml.MappingNode {
		return domain.TemplateDefinition{}, invalidField(path, "sections", "must be a mapping of section name to options")
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		secName := root.Content[i].Value
		body := root.Content[i+1]
		field := "sections." + secName

		seed := domain.SectionSeed{Name: secName}
		switch body.Kind {
		case yaml.MappingNode:
		case yaml.ScalarNode:
			if body.Tag != "!!null" {
				return domain.TemplateDefinition{}, invalidField(path, field, "must be a mapping of key to value")
			}
		default:
			return domain.TemplateDefinition{}, invalidField(path, field, "must be a mapping of key to value")
		}

		for j := 0; j+1 < len(body.Content); j += 2 {
			k, v := body.Content[j], body.Content[j+1]
			if v.Kind != yaml.ScalarNode {
				return domain.TemplateDefinition{}, invalidField(path, field+"."+k.Value, "value must be a scalar")
			}
			value := strings.TrimSpace(v.Value)
			if strings.ContainsAny(value, "\r\n") {
				return domain.TemplateDefinition{}, invalidField(path, field+"."+k.Value, "value must be a single line")
			}
			seed.Options = append(seed.Options, domain.Option{Key: k.Value, Value: value})
		}
		def.Sections = append(def.Sections, seed)
	}

	// Surface bad keys now rather than at instantiation time.
	if _, err := def.NewUnit(); err != nil {
		return domain.TemplateDefinition{}, invalidField(path, "sections", err.Error())
	}

	return def, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "yamltemplate.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
