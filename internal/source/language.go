package source

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Supported language identifiers.
const (
	LangGo         = "go"
	LangPython     = "python"
	LangRust       = "rust"
	LangJavaScript = "javascript"
	LangTypeScript = "typescript"
	LangJava       = "java"
	LangRuby       = "ruby"
	LangC          = "c"
	LangCPP        = "cpp"
)

// extensionLanguages maps file extensions to language identifiers.
var extensionLanguages = map[string]string{
	".go":   LangGo,
	".py":   LangPython,
	".rs":   LangRust,
	".js":   LangJavaScript,
	".jsx":  LangJavaScript,
	".mjs":  LangJavaScript,
	".ts":   LangTypeScript,
	".tsx":  LangTypeScript,
	".java": LangJava,
	".rb":   LangRuby,
	".c":    LangC,
	".h":    LangC,
	".cc":   LangCPP,
	".cpp":  LangCPP,
	".hpp":  LangCPP,
}

// DetectLanguage returns the language identifier for a file path based on
// its extension. Unknown extensions yield the empty string.
func DetectLanguage(path string) string {
	return extensionLanguages[strings.ToLower(filepath.Ext(path))]
}

// DetectLanguageWithContent detects the language by extension, falling back
// to the shebang line for extensionless scripts.
func DetectLanguageWithContent(path string, content []byte) string {
	if lang := DetectLanguage(path); lang != "" {
		return lang
	}

	if !bytes.HasPrefix(content, []byte("#!")) {
		return ""
	}
	line := content
	if idx := bytes.IndexByte(content, '\n'); idx >= 0 {
		line = content[:idx]
	}

	shebang := string(line)
	switch {
	case strings.Contains(shebang, "python"):
		return LangPython
	case strings.Contains(shebang, "ruby"):
		return LangRuby
	case strings.Contains(shebang, "node"):
		return LangJavaScript
	default:
		return ""
	}
}

// KnownExtensions returns the extensions the walker collects by default.
func KnownExtensions() []string {
	exts := make([]string, 0, len(extensionLanguages))
	for ext := range extensionLanguages {
		exts = append(exts, ext)
	}
	return exts
}
