package config

// Rewatchfile represents the structure of the rewatch.yaml configuration file.
type Rewatchfile struct {
	Version      string            `yaml:"version"`
	Input        []string          `yaml:"input"`
	Cmd          []string          `yaml:"cmd"`
	Output       string            `yaml:"output"`
	Dest         string            `yaml:"dest"`
	WorkingDir   string            `yaml:"workingDir"`
	Environment  map[string]string `yaml:"environment"`
	Debounce     string            `yaml:"debounce"`
	SelfBuild    bool              `yaml:"selfBuild"`
	CheckVersion *bool             `yaml:"checkVersion"`
	Targets      []TargetDTO       `yaml:"targets"`
}

// TargetDTO represents one output target in the configuration.
type TargetDTO struct {
	Dest        string            `yaml:"dest"`
	Environment map[string]string `yaml:"environment"`
}
