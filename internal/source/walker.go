package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Default traversal bounds. These keep a walk over a large repository from
// reading generated trees or loading huge files into memory.
const (
	// DefaultMaxFiles is the maximum number of files a walk returns.
	DefaultMaxFiles = 500

	// DefaultMaxFileSize is the largest file (in bytes) a walk will load.
	DefaultMaxFileSize = 1 << 20 // 1MB
)

// defaultIgnoreDirs are directory names skipped at any depth.
var defaultIgnoreDirs = []string{
	".git", ".hg", ".svn",
	"vendor", "node_modules", "testdata",
	".mutmut-cache", "__pycache__", ".venv", "venv",
	"reports",
}

// File is one discovered source file.
type File struct {
	// Path is the absolute path of the file.
	Path string

	// RelPath is the path relative to the walk root, with forward slashes.
	RelPath string

	// Language is the detected language ("go", "python", ...), empty when
	// the extension is unknown.
	Language string

	// Content is the file body. Only set when the walk loads content.
	Content []byte
}

// Walker traverses a project tree collecting source files.
// It respects extension filters, ignore patterns, and file-count and
// file-size bounds.
type Walker struct {
	// extensions are the file extensions to collect, with leading dot.
	// Empty means every known source extension.
	extensions []string

	// ignorePatterns are relative-path glob patterns to skip,
	// e.g. "generated/*" or "*_gen.go".
	ignorePatterns []string

	// maxFiles limits the total number of files returned.
	maxFiles int

	// maxFileSize limits the size of files whose content is loaded.
	maxFileSize int64

	// loadContent controls whether file bodies are read into memory.
	loadContent bool

	// skipTests controls whether conventional test files are skipped
	// (the suggester proposes mutations for code under test, not for the
	// tests themselves).
	skipTests bool
}

// WalkerOption configures a Walker.
type WalkerOption func(*Walker)

// WithExtensions restricts the walk to the given extensions (".go", ".py").
func WithExtensions(exts []string) WalkerOption {
	return func(w *Walker) {
		if len(exts) > 0 {
			w.extensions = exts
		}
	}
}

// WithIgnorePatterns adds relative-path glob patterns to skip.
func WithIgnorePatterns(patterns []string) WalkerOption {
	return func(w *Walker) {
		w.ignorePatterns = append(w.ignorePatterns, patterns...)
	}
}

// WithMaxFiles sets the maximum number of files to return.
func WithMaxFiles(n int) WalkerOption {
	return func(w *Walker) {
		if n > 0 {
			w.maxFiles = n
		}
	}
}

// WithMaxFileSize sets the largest file size whose content is loaded.
func WithMaxFileSize(size int64) WalkerOption {
	return func(w *Walker) {
		if size > 0 {
			w.maxFileSize = size
		}
	}
}

// WithContent enables loading file bodies into memory.
func WithContent(load bool) WalkerOption {
	return func(w *Walker) {
		w.loadContent = load
	}
}

// WithSkipTests controls whether conventional test files are skipped.
func WithSkipTests(skip bool) WalkerOption {
	return func(w *Walker) {
		w.skipTests = skip
	}
}

// NewWalker creates a Walker with default bounds.
func NewWalker(opts ...WalkerOption) *Walker {
	w := &Walker{
		maxFiles:    DefaultMaxFiles,
		maxFileSize: DefaultMaxFileSize,
		loadContent: true,
		skipTests:   true,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Walk traverses root and returns the collected source files, ordered by
// relative path. The walk stops early once maxFiles is reached.
func (w *Walker) Walk(root string) ([]File, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	var files []File
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path != absRoot && w.shouldSkipDir(d.Name(), rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if len(files) >= w.maxFiles {
			return filepath.SkipAll
		}

		if !w.shouldCollect(rel, d.Name()) {
			return nil
		}

		f := File{
			Path:     path,
			RelPath:  rel,
			Language: DetectLanguage(path),
		}

		if w.loadContent {
			fi, statErr := d.Info()
			if statErr != nil {
				return statErr
			}
			if fi.Size() > w.maxFileSize {
				return nil
			}
			content, readErr := os.ReadFile(path) //nolint:gosec // Paths come from the walked tree
			if readErr != nil {
				return readErr
			}
			f.Content = content
		}

		files = append(files, f)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk failed: %w", err)
	}

	return files, nil
}

// shouldSkipDir reports whether a directory is excluded from the walk.
func (w *Walker) shouldSkipDir(name, rel string) bool {
	for _, ignored := range defaultIgnoreDirs {
		if name == ignored {
			return true
		}
	}
	// Hidden directories are never source trees we analyze.
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, pattern := range w.ignorePatterns {
		if matchPattern(pattern, rel) {
			return true
		}
	}
	return false
}

// shouldCollect reports whether a file passes the extension, test-file, and
// ignore-pattern filters.
func (w *Walker) shouldCollect(rel, name string) bool {
	ext := filepath.Ext(name)
	if len(w.extensions) > 0 {
		found := false
		for _, allowed := range w.extensions {
			if ext == allowed {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	} else if DetectLanguage(name) == "" {
		return false
	}

	if w.skipTests && isTestFile(name) {
		return false
	}

	for _, pattern := range w.ignorePatterns {
		if matchPattern(pattern, rel) {
			return false
		}
	}

	return true
}

// isTestFile reports whether a file follows a test-file naming convention.
func isTestFile(name string) bool {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.HasSuffix(base, "_test") ||
		strings.HasPrefix(name, "test_") ||
		strings.HasSuffix(base, ".test") ||
		strings.HasSuffix(base, ".spec")
}

// matchPattern checks if a relative path matches a glob pattern.
// The pattern matches the full relative path or its base name.
func matchPattern(pattern, rel string) bool {
	if matched, err := filepath.Match(pattern, rel); err == nil && matched {
		return true
	}
	if matched, err := filepath.Match(pattern, filepath.Base(rel)); err == nil && matched {
		return true
	}
	return false
}
