package config

// Scribefile represents the structure of the scribe.yaml configuration file.
type Scribefile struct {
	Version     string            `yaml:"version"`
	Environment map[string]string `yaml:"environment"`
	EnvFile     string            `yaml:"env_file"`
	Unset       []string          `yaml:"unset"`
	Toolchain   ToolchainDTO      `yaml:"toolchain"`
	Records     string            `yaml:"records"`
	Projects    []ProjectDTO      `yaml:"projects"`
}

// ToolchainDTO names the external programs used by builds.
type ToolchainDTO struct {
	Generator    string `yaml:"generator"`
	Typesetter   string `yaml:"typesetter"`
	Indexer      string `yaml:"indexer"`
	IndexStyle   string `yaml:"index_style"`
	OutputMarker string `yaml:"output_marker"`
}

// ProjectDTO represents a project definition in the configuration.
type ProjectDTO struct {
	Slug              string     `yaml:"slug"`
	DocumentationType string     `yaml:"documentation_type"`
	Comments          bool       `yaml:"comments"`
	Language          string     `yaml:"language"`
	DocsDir           string     `yaml:"docs_dir"`
	OutputDir         string     `yaml:"output_dir"`
	Formats           FormatsDTO `yaml:"formats"`
	HTMLOnly          bool       `yaml:"html_only"`
	Versions          []string   `yaml:"versions"`
}

// FormatsDTO toggles the optional output formats.
type FormatsDTO struct {
	PDF  bool `yaml:"pdf"`
	EPUB bool `yaml:"epub"`
}
