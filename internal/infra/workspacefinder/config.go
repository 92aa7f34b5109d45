package workspacefinder

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aalvaropc/unitforge/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads unitforge.yaml from the workspace root and applies defaults.
// Relative paths in the file are resolved against root.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, ConfigFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	// Apply parsed values on top of defaults.
	if y.Unitforge.Defaults.User != "" {
		cfg.Defaults.User = y.Unitforge.Defaults.User
	}
	if y.Unitforge.Defaults.Type != "" {
		t, ok := domain.ParseUnitType(y.Unitforge.Defaults.Type)
		if !ok {
			return cfg, &domain.OpError{
				Op:   "workspacefinder.loadconfig",
				Kind: domain.KindInvalidConfig,
				Path: path,
				Err:  fmt.Errorf("defaults.type: unsupported unit type %q", y.Unitforge.Defaults.Type),
			}
		}
		cfg.Defaults.Type = t
	}
	if y.Unitforge.Paths.OutputDir != "" {
		cfg.Paths.OutputDir = resolve(root, y.Unitforge.Paths.OutputDir)
	}
	if y.Unitforge.Paths.TemplatesDir != "" {
		cfg.Paths.TemplatesDir = y.Unitforge.Paths.TemplatesDir
	}
	cfg.Paths.TemplatesDir = resolve(root, cfg.Paths.TemplatesDir)

	return cfg, nil
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

type yamlConfig struct {
	Unitforge struct {
		Defaults struct {
			User string `yaml:"user"`
			Type string `yaml:"type"`
		} `yaml:"defaults"`

		Paths struct {
			OutputDir    string `yaml:"output_dir"`
			TemplatesDir string `yaml:"templates_dir"`
		} `yaml:"paths"`
	} `yaml:"unitforge"`
}
