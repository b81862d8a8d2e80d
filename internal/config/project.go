package config

// ProjectConfig holds per-project configuration for a single target
// directory. This allows customizing run behavior per project without
// repeating flags.
type ProjectConfig struct {
	// Tool overrides the mutation tool adapter for this project.
	// If empty, the tool is detected from the project layout.
	Tool string `yaml:"tool,omitempty"`

	// Runner overrides the test-runner command the tool invokes.
	Runner string `yaml:"runner,omitempty"`

	// SourceDir overrides the directory of source files under mutation,
	// relative to the project root.
	SourceDir string `yaml:"sourceDir,omitempty"`

	// TestsDir overrides the directory holding the test suite, relative
	// to the project root.
	TestsDir string `yaml:"testsDir,omitempty"`

	// IgnorePatterns are path patterns to skip during analysis.
	// Patterns are matched against the relative path using glob syntax.
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`
}

// File represents the structure of the .mutbench configuration file.
type File struct {
	// Projects maps target directory paths to their per-project
	// configurations. Keys are paths as passed on the command line
	// (e.g., "services/billing").
	Projects map[string]ProjectConfig `yaml:"projects,omitempty"`

	// Defaults contains default project configuration applied to all
	// targets unless overridden in the project-specific configuration.
	Defaults ProjectConfig `yaml:"defaults,omitempty"`
}

// GetProjectConfig returns the configuration for a specific target path.
// It merges the project-specific configuration with defaults.
func (cf *File) GetProjectConfig(target string) ProjectConfig {
	// Start with defaults
	result := cf.Defaults

	// Override with project-specific configuration if present
	if projectConfig, ok := cf.Projects[target]; ok {
		if projectConfig.Tool != "" {
			result.Tool = projectConfig.Tool
		}
		if projectConfig.Runner != "" {
			result.Runner = projectConfig.Runner
		}
		if projectConfig.SourceDir != "" {
			result.SourceDir = projectConfig.SourceDir
		}
		if projectConfig.TestsDir != "" {
			result.TestsDir = projectConfig.TestsDir
		}
		if len(projectConfig.IgnorePatterns) > 0 {
			result.IgnorePatterns = projectConfig.IgnorePatterns
		}
	}

	return result
}
