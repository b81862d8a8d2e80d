package log

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
)

// PathHandler wraps an slog.Handler to relativize path-valued attributes.
// It intercepts log records and rewrites absolute paths under the
// configured root to their relative form before passing them to the
// underlying handler.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, tint)
//  3. Log lines stay byte-identical across machines and CI workspaces,
//     which keeps them diffable and greppable
type PathHandler struct {
	// handler is the underlying slog handler that receives rewritten records.
	handler slog.Handler

	// root is the workspace root paths are made relative to.
	root string
}

// NewPathHandler creates a new PathHandler wrapping the given handler.
// Path-valued attributes under root will be relativized before being
// passed to the underlying handler.
// If handler is nil, the returned PathHandler will use slog.Default().Handler().
func NewPathHandler(handler slog.Handler, root string) *PathHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &PathHandler{handler: handler, root: filepath.Clean(root)}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *PathHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle rewrites the record's attributes and passes it to the underlying handler.
func (h *PathHandler) Handle(ctx context.Context, r slog.Record) error {
	rewritten := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		rewritten.AddAttrs(h.rewriteAttr(a))
		return true
	})

	return h.handler.Handle(ctx, rewritten)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are rewritten before being added.
func (h *PathHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	rewritten := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		rewritten[i] = h.rewriteAttr(a)
	}
	return &PathHandler{handler: h.handler.WithAttrs(rewritten), root: h.root}
}

// WithGroup returns a new handler with the given group name.
func (h *PathHandler) WithGroup(name string) slog.Handler {
	return &PathHandler{handler: h.handler.WithGroup(name), root: h.root}
}

// rewriteAttr rewrites a single attribute, recursively handling groups.
func (h *PathHandler) rewriteAttr(a slog.Attr) slog.Attr {
	// Handle groups recursively
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		rewritten := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			rewritten[i] = h.rewriteAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(rewritten...)}
	}

	if a.Value.Kind() == slog.KindString {
		if rel, ok := h.relativize(a.Value.String()); ok {
			return slog.String(a.Key, rel)
		}
	}

	return a
}

// relativize reports the relative form of an absolute path under the root.
// Values that are not paths under the root pass through unchanged.
func (h *PathHandler) relativize(value string) (string, bool) {
	if h.root == "" || !filepath.IsAbs(value) {
		return "", false
	}

	cleaned := filepath.Clean(value)
	if cleaned != h.root && !strings.HasPrefix(cleaned, h.root+string(filepath.Separator)) {
		return "", false
	}

	rel, err := filepath.Rel(h.root, cleaned)
	if err != nil {
		return "", false
	}
	return rel, true
}
