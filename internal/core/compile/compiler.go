package compile

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/canvasgraph/canvasgraph/internal/core/graph"
	"github.com/canvasgraph/canvasgraph/internal/core/path"
	"github.com/canvasgraph/canvasgraph/internal/core/resolve"
	"github.com/canvasgraph/canvasgraph/internal/infrastructure/metrics"
)

// Compiler assembles a preview node's wired subgraph into one executable
// document. The compiler never fails for a malformed graph: a missing root,
// an empty closure, or a broken module all degrade to a still-valid
// document.
// PRINCIPLES:
// - SRP: Assembly only; traversal is delegated to resolve, paths to path
// - Failure isolation: one bad module never blocks the document
type Compiler struct {
	transformer Transformer
}

// NewCompiler creates a compiler with the default script transformer.
func NewCompiler() *Compiler {
	return &Compiler{transformer: NewTransformer()}
}

// NewCompilerWith creates a compiler using a custom transformer.
func NewCompilerWith(t Transformer) *Compiler {
	return &Compiler{transformer: t}
}

// Compile derives the document for the given preview node. forceReload only
// changes a trailing fingerprint comment, so an otherwise-identical
// recompile is still detectable as new by the caller.
func (c *Compiler) Compile(canvas *graph.Canvas, previewID string, forceReload bool) string {
	metrics.IncCompiles()

	deps := resolve.NewResolver(canvas)
	paths := path.NewResolver(canvas)

	root, ok := deps.SingleSource(previewID, graph.RoleDOM)
	if !ok {
		return withFingerprint(placeholderDocument, forceReload)
	}

	closure := deps.Closure(root)
	modules := append([]*graph.Node{root}, closure...)

	table := newRegistry()
	var styles []styleSource
	for _, m := range modules {
		switch Classify(m) {
		case ClassStyle:
			styles = append(styles, styleSource{title: m.Title, css: m.Text()})
		case ClassScript:
			executable := c.compileModule(m, deps, paths)
			table.register(m.Title, paths.PathOf(m), moduleHandle(executable))
		default:
			if m.Kind == graph.KindPackageSearch {
				table.registerPackage(m.Title, m.Text())
			}
			// Markup deps and other unclassified content are ignored; the
			// root's markup is handled below and anything else has nothing
			// to execute.
		}
	}

	var body string
	switch Classify(root) {
	case ClassMarkup:
		body = rewriteMarkupRoot(root.Text(), table)
	case ClassScript:
		body = scriptRootBody(root.Title)
	default:
		body = ""
	}

	doc := assembleDocument(body, styleBlock(styles), table.importMap(), renderTelemetryShim(previewID))
	return withFingerprint(doc, forceReload)
}

// compileModule injects synthetic imports for wired dependencies the module
// text does not already reference, then runs the transform. A transform
// failure is isolated: the module is replaced with a one-line stub whose
// only effect is to emit the failure text on the error telemetry channel.
func (c *Compiler) compileModule(m *graph.Node, deps *resolve.Resolver, paths *path.Resolver) string {
	text := m.Text()

	var injected []string
	for _, src := range deps.AllSources(m.ID, graph.RoleImports) {
		importable := Classify(src) == ClassScript || src.Kind == graph.KindPackageSearch
		if !importable {
			continue
		}
		ident := sanitizeIdent(src.Title)
		if strings.Contains(text, src.Title) ||
			strings.Contains(text, paths.PathOf(src)) ||
			strings.Contains(text, ident) {
			continue
		}
		injected = append(injected, fmt.Sprintf("import %s from %q;", ident, src.Title))
	}
	if len(injected) > 0 {
		text = strings.Join(injected, "\n") + "\n" + text
	}

	executable, err := c.transformer.Transform(m.Title, text)
	if err != nil {
		metrics.IncTransformFailures()
		return errorStub(err)
	}
	return executable
}

// errorStub is the replacement module for a failed transform.
func errorStub(err error) string {
	text, _ := json.Marshal("Compile failed: " + err.Error())
	return fmt.Sprintf("console.error(%s);", text)
}

func withFingerprint(doc string, forceReload bool) string {
	if !forceReload {
		return doc
	}
	return doc + "\n<!-- reload:" + uuid.NewString() + " -->"
}
