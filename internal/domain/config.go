package domain

// Config represents the unitforge configuration loaded from unitforge.yaml.
type Config struct {
	Defaults DefaultsConfig
	Paths    PathsConfig
}

type DefaultsConfig struct {
	User string
	Type UnitType
}

type PathsConfig struct {
	OutputDir    string
	TemplatesDir string
}

// WorkspaceSpec describes where a workspace is scaffolded.
type WorkspaceSpec struct {
	Root string
}

// UnitRef is a lightweight reference to a unit file on disk.
type UnitRef struct {
	Name string
	Type UnitType
	Path string
}

// DefaultConfig provides sane defaults if unitforge.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Defaults: DefaultsConfig{
			User: "root",
			Type: UnitService,
		},
		Paths: PathsConfig{
			OutputDir:    "/etc/systemd/system",
			TemplatesDir: "templates",
		},
	}
}
