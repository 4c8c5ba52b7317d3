// Package graph provides node payload definitions
package graph

// ContentKind tags a payload variant.
type ContentKind string

const (
	ContentScript   ContentKind = "script"
	ContentQuery    ContentKind = "query"
	ContentMarkdown ContentKind = "markdown"
	ContentImage    ContentKind = "image"
)

// Content is the closed set of node payload variants. Modeling payloads as a
// tagged union instead of one untyped string means each consumer only accepts
// the shapes it understands.
// PRINCIPLES:
// - ISP: Simple interface with ≤3 methods
// - OCP: New payload shapes are new types, not new string conventions
type Content interface {
	Kind() ContentKind
	Text() string
	AllowedOn(kind NodeKind) bool
}

// ScriptContent is source text carried by Code nodes.
type ScriptContent struct {
	Source string `json:"source"`
}

func (c ScriptContent) Kind() ContentKind { return ContentScript }
func (c ScriptContent) Text() string      { return c.Source }
func (c ScriptContent) AllowedOn(kind NodeKind) bool {
	return kind == KindCode
}

// QueryContent is the search string carried by PackageSearch nodes.
type QueryContent struct {
	Query string `json:"query"`
}

func (c QueryContent) Kind() ContentKind { return ContentQuery }
func (c QueryContent) Text() string      { return c.Query }
func (c QueryContent) AllowedOn(kind NodeKind) bool {
	return kind == KindPackageSearch
}

// MarkdownContent is the markdown body carried by Text and AiChat nodes.
type MarkdownContent struct {
	Markdown string `json:"markdown"`
}

func (c MarkdownContent) Kind() ContentKind { return ContentMarkdown }
func (c MarkdownContent) Text() string      { return c.Markdown }
func (c MarkdownContent) AllowedOn(kind NodeKind) bool {
	return kind == KindText || kind == KindAiChat || kind == KindTerminal
}

// ImageContent is a base64/data-URL encoded image carried by Image nodes.
type ImageContent struct {
	Encoded string `json:"encoded"`
}

func (c ImageContent) Kind() ContentKind { return ContentImage }
func (c ImageContent) Text() string      { return c.Encoded }
func (c ImageContent) AllowedOn(kind NodeKind) bool {
	return kind == KindImage
}

// NewContent builds the payload variant matching a node kind from raw text.
// Kinds with no payload (Preview, Folder) return nil.
func NewContent(kind NodeKind, text string) Content {
	switch kind {
	case KindCode:
		return ScriptContent{Source: text}
	case KindPackageSearch:
		return QueryContent{Query: text}
	case KindText, KindAiChat, KindTerminal:
		return MarkdownContent{Markdown: text}
	case KindImage:
		return ImageContent{Encoded: text}
	default:
		return nil
	}
}
