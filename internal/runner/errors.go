package runner

import "errors"

// Subprocess execution errors.
//
// Design decision: We define specific error values rather than wrapping all
// errors generically. This allows callers to handle different failure modes
// appropriately (e.g., print install instructions when the tool is missing,
// but surface the transcript when the tool itself failed).
var (
	// ErrEmptyCommand is returned when Run is called with no argv.
	ErrEmptyCommand = errors.New("no command to run")

	// ErrToolNotFound is returned when the tool binary is not on PATH.
	// Callers should show the tool's install instructions.
	ErrToolNotFound = errors.New("mutation tool not found in PATH")

	// ErrOutsideWorkspace is returned when the requested working directory
	// escapes the configured workspace root.
	ErrOutsideWorkspace = errors.New("working directory is outside the workspace")
)

// installInstructions maps known tool binaries to how to install them.
// Shown alongside ErrToolNotFound so a missing tool is actionable.
var installInstructions = map[string]string{
	"mutmut":     "pip install mutmut",
	"gremlins":   "go install github.com/go-gremlins/gremlins/cmd/gremlins@latest",
	"cosmic-ray": "pip install cosmic-ray",
}

// InstallHint returns installation instructions for a known tool binary.
// Unknown tools get an empty string.
func InstallHint(tool string) string {
	return installInstructions[tool]
}
