package yamltemplate

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aalvaropc/unitforge/internal/domain"
	"github.com/aalvaropc/unitforge/internal/ports"
	"gopkg.in/yaml.v3"
)

// Loader reads user templates. Files that fail to load are skipped and kept
// in Skipped until the next LoadTemplates call.
type Loader struct {
	skipped []error
}

func NewLoader() *Loader {
	return &Loader{}
}

var _ ports.TemplateLoader = (*Loader)(nil)

// LoadTemplates reads every *.yaml / *.yml file in dir, sorted by file name.
// A missing directory yields no templates. Only an unreadable directory is an
// error; broken files are recorded in Skipped.
func (l *Loader) LoadTemplates(dir string) ([]domain.TemplateDefinition, error) {
	l.skipped = nil

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &domain.OpError{
			Op:   "yamltemplate.list",
			Kind: domain.KindSourceUnreadable,
			Path: dir,
			Err:  err,
		}
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		low := strings.ToLower(e.Name())
		if strings.HasSuffix(low, ".yaml") || strings.HasSuffix(low, ".yml") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	defs := make([]domain.TemplateDefinition, 0, len(paths))
	for _, p := range paths {
		d, err := l.LoadTemplate(p)
		if err != nil {
			l.skipped = append(l.skipped, err)
			continue
		}
		defs = append(defs, d)
	}
	return defs, nil
}

// Skipped returns the errors of the files the last LoadTemplates call left out.
func (l *Loader) Skipped() []error {
	return l.skipped
}

func (l *Loader) LoadTemplate(path string) (domain.TemplateDefinition, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.TemplateDefinition{}, &domain.OpError{
			Op:   "yamltemplate.load",
			Kind: domain.KindSourceUnreadable,
			Path: path,
			Err:  err,
		}
	}

	var yt yamlTemplate
	if err := yaml.Unmarshal(b, &yt); err != nil {
		return domain.TemplateDefinition{}, &domain.OpError{
			Op:   "yamltemplate.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return mapTemplate(path, yt)
}
