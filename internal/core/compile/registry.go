package compile

import (
	"encoding/base64"
	"encoding/json"
	"sort"
	"strings"
)

// UI-runtime specifiers are pre-provisioned in every resolution table so
// modules can depend on the rendering runtime without it being a graph node.
const (
	reactSpecifier    = "react"
	reactDOMSpecifier = "react-dom/client"
	reactHandle       = "https://esm.sh/react@18.3.1"
	reactDOMHandle    = "https://esm.sh/react-dom@18.3.1/client"
)

// registry is the resolution table: every reference spelling a consumer
// could plausibly use, mapped to the executable module handle.
// PRINCIPLES:
// - KISS: A flat map; registration order never matters, first write wins
type registry struct {
	entries map[string]string
}

func newRegistry() *registry {
	return &registry{entries: map[string]string{
		reactSpecifier:    reactHandle,
		reactDOMSpecifier: reactDOMHandle,
	}}
}

// moduleHandle encodes executable module text as an inline data-URL handle.
func moduleHandle(executable string) string {
	return "data:text/javascript;base64," + base64.StdEncoding.EncodeToString([]byte(executable))
}

// register records the handle under every spelling derived from the module's
// filename and virtual path: bare, "./"-prefixed, "/"-prefixed, and each of
// those without extension. Downstream references are free text, so the
// compiler cannot know which convention the author used.
func (r *registry) register(filename, virtualPath, handle string) {
	for _, base := range spellingBases(filename, virtualPath) {
		for _, spelling := range []string{base, "./" + base, "/" + base} {
			if _, taken := r.entries[spelling]; !taken {
				r.entries[spelling] = handle
			}
		}
	}
}

func spellingBases(filename, virtualPath string) []string {
	bases := []string{filename, stripExt(filename)}
	if virtualPath != "" && virtualPath != filename {
		bases = append(bases, virtualPath, stripExt(virtualPath))
	}
	// Dedup while preserving order (extension-less names may collide).
	seen := make(map[string]bool, len(bases))
	out := bases[:0]
	for _, b := range bases {
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	return out
}

// registerPackage maps a package node's title (and query, when different)
// onto the hosted module CDN, so script modules can import packages that
// exist on the canvas without them carrying source text.
func (r *registry) registerPackage(title, query string) {
	name := strings.TrimSpace(query)
	if name == "" {
		name = strings.TrimSpace(title)
	}
	if name == "" {
		return
	}
	handle := "https://esm.sh/" + name
	for _, spelling := range []string{title, name} {
		if spelling == "" {
			continue
		}
		if _, taken := r.entries[spelling]; !taken {
			r.entries[spelling] = handle
		}
	}
}

// lookup resolves a reference spelling to its handle.
func (r *registry) lookup(spelling string) (string, bool) {
	handle, ok := r.entries[spelling]
	if ok {
		return handle, true
	}
	// A reference may carry a prefix the author typed but the table stored
	// bare, or vice versa; try the trimmed form before giving up.
	trimmed := strings.TrimPrefix(strings.TrimPrefix(spelling, "./"), "/")
	handle, ok = r.entries[trimmed]
	return handle, ok
}

// importMap renders the table as an import-map script block with
// deterministic key order.
func (r *registry) importMap() string {
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(`<script type="importmap">{"imports":{`)
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		key, _ := json.Marshal(k)
		val, _ := json.Marshal(r.entries[k])
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteString(`}}</script>`)
	return b.String()
}
