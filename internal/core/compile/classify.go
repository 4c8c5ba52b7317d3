// Package compile turns a rooted canvas subgraph into one executable,
// sandboxed HTML document. Resolution is purely in-memory and per-compile:
// there is no bundling and no on-disk artifact.
package compile

import (
	"strings"

	"github.com/canvasgraph/canvasgraph/internal/core/graph"
)

// ModuleClass is the compilation role a node plays, inferred purely from the
// trailing extension of its title. No content sniffing.
type ModuleClass string

const (
	ClassStyle        ModuleClass = "style"
	ClassMarkup       ModuleClass = "markup"
	ClassScript       ModuleClass = "script"
	ClassUnclassified ModuleClass = "unclassified"
)

// Classify maps a node to its compilation role. Only Code and Text nodes
// carry compilable text; everything else (images, folders, chats, previews)
// is unclassified and ignored by the compiler, which is non-fatal.
func Classify(n *graph.Node) ModuleClass {
	if n == nil {
		return ClassUnclassified
	}
	switch n.Kind {
	case graph.KindCode, graph.KindText:
	default:
		return ClassUnclassified
	}
	title := strings.ToLower(n.Title)
	switch {
	case strings.HasSuffix(title, ".css"):
		return ClassStyle
	case strings.HasSuffix(title, ".html"):
		return ClassMarkup
	default:
		return ClassScript
	}
}

// stripExt removes the trailing extension from a filename, if present.
func stripExt(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}

// sanitizeIdent derives a JavaScript identifier from a filename: extension
// stripped, every non-identifier character replaced with '_'.
func sanitizeIdent(name string) string {
	base := stripExt(name)
	var b strings.Builder
	for i, r := range base {
		ok := r == '_' || r == '$' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9' && i > 0)
		if ok {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
