package source

import (
	"os"
	"path/filepath"
)

// Project describes what kind of codebase a target directory contains.
// The detection drives tool-adapter selection and default runner commands.
type Project struct {
	// Language is the primary language of the project.
	Language string

	// TestFramework is the conventional test runner for the project kind.
	TestFramework string

	// TestCommand is the default command line for running the test suite.
	TestCommand []string
}

// projectMarker ties a marker file to the project kind it indicates.
type projectMarker struct {
	file      string
	language  string
	framework string
	command   []string
}

// projectMarkers are checked in order; the first match wins. Go and Rust
// markers come first because their presence is unambiguous, while
// package.json also appears in polyglot repositories.
var projectMarkers = []projectMarker{
	{"go.mod", LangGo, "go test", []string{"go", "test", "./..."}},
	{"Cargo.toml", LangRust, "cargo test", []string{"cargo", "test"}},
	{"pyproject.toml", LangPython, "pytest", []string{"python", "-m", "pytest", "--tb=no", "-q"}},
	{"pytest.ini", LangPython, "pytest", []string{"python", "-m", "pytest", "--tb=no", "-q"}},
	{"setup.py", LangPython, "pytest", []string{"python", "-m", "pytest", "--tb=no", "-q"}},
	{"package.json", LangJavaScript, "jest", []string{"npx", "jest"}},
	{"Gemfile", LangRuby, "rspec", []string{"bundle", "exec", "rspec"}},
}

// DetectProject inspects marker files in root to classify the project.
// The boolean reports whether any marker was found.
func DetectProject(root string) (Project, bool) {
	for _, marker := range projectMarkers {
		if _, err := os.Stat(filepath.Join(root, marker.file)); err == nil {
			return Project{
				Language:      marker.language,
				TestFramework: marker.framework,
				TestCommand:   marker.command,
			}, true
		}
	}
	return Project{}, false
}
