package compile

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderDocument is returned when the preview has no wired document
// source. Never an error: an unwired preview is a normal editing state.
const placeholderDocument = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Preview</title></head>
<body style="font-family: system-ui, sans-serif; color: #666; display: flex; align-items: center; justify-content: center; height: 100vh; margin: 0;">
  <div style="text-align: center;">
    <p style="font-size: 2rem; margin: 0;">&#8693;</p>
    <p>Connect a source node to this preview's document input to see it here.</p>
  </div>
</body>
</html>`

var (
	stylesheetLinkRe = regexp.MustCompile(`(?i)<link\b[^>]*rel\s*=\s*["']?stylesheet["']?[^>]*>`)
	scriptSrcRe      = regexp.MustCompile(`(?i)<script\b([^>]*)\bsrc\s*=\s*["']([^"']+)["']([^>]*)>`)
	typeAttrRe       = regexp.MustCompile(`(?i)\btype\s*=\s*["'][^"']*["']\s*`)
	headCloseRe      = regexp.MustCompile(`(?i)</head>`)
	bodyCloseRe      = regexp.MustCompile(`(?i)</body>`)
)

// rewriteMarkupRoot prepares a markup-kind root for in-memory execution:
// pre-existing stylesheet links are stripped (styles arrive as one compiled
// block) and every script-src whose referenced filename resolves in the
// table is retargeted at the in-memory module with module-execution
// semantics, preserving the tag's other attributes.
func rewriteMarkupRoot(markup string, table *registry) string {
	markup = stylesheetLinkRe.ReplaceAllString(markup, "")
	return scriptSrcRe.ReplaceAllStringFunc(markup, func(tag string) string {
		m := scriptSrcRe.FindStringSubmatch(tag)
		handle, ok := table.lookup(m[2])
		if !ok {
			return tag
		}
		rest := typeAttrRe.ReplaceAllString(m[1]+m[3], "")
		rest = strings.TrimRight(rest, " ")
		return fmt.Sprintf(`<script type="module" src="%s"%s>`, handle, rest)
	})
}

// scriptRootBody synthesizes a mount point and entry script for a
// script-kind root: the entry imports the root's executable module and, if
// its default export is renderable, mounts it with the UI runtime.
func scriptRootBody(rootSpecifier string) string {
	return fmt.Sprintf(`<div id="root"></div>
<script type="module">
import * as entry from %q;
const exported = entry.default !== undefined ? entry.default : entry;
if (typeof exported === "function" || (exported && exported.$$typeof)) {
  const { createElement } = await import(%q);
  const { createRoot } = await import(%q);
  const element = typeof exported === "function" ? createElement(exported) : exported;
  createRoot(document.getElementById("root")).render(element);
}
</script>`, rootSpecifier, reactSpecifier, reactDOMSpecifier)
}

// assembleDocument injects the compiled stylesheet block, the import map,
// and the telemetry shim into the root markup, producing one self-contained
// document string.
func assembleDocument(markup, styleBlock, importMap, shim string) string {
	head := importMap + "\n" + shim
	if styleBlock != "" {
		head = styleBlock + "\n" + head
	}

	// Literal splice: replacement text is user content and must not be
	// subject to regexp group expansion.
	if loc := headCloseRe.FindStringIndex(markup); loc != nil {
		return markup[:loc[0]] + head + "\n" + markup[loc[0]:]
	}
	if loc := bodyCloseRe.FindStringIndex(markup); loc != nil {
		// No head section; inject before the body closes.
		return markup[:loc[0]] + head + "\n" + markup[loc[0]:]
	}
	// Fragment markup: wrap it into a complete document.
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8">
%s
</head>
<body>
%s
</body>
</html>`, head, markup)
}

// styleBlock concatenates style-kind contents, each preceded by a provenance
// comment naming its source node.
func styleBlock(styles []styleSource) string {
	if len(styles) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<style>\n")
	for _, s := range styles {
		fmt.Fprintf(&b, "/* %s */\n%s\n", s.title, s.css)
	}
	b.WriteString("</style>")
	return b.String()
}

type styleSource struct {
	title string
	css   string
}
