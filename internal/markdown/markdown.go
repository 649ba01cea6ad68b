package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	stripmd "github.com/writeas/go-strip-markdown"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Renderer converts markdown text to sanitized HTML.
//
// The blog treats markdown-to-HTML conversion as a plain text transform: bytes
// in, HTML string out. Sanitization is always on because explainer sources are
// third-party license/attribution texts.
type Renderer struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// NewRenderer constructs a Renderer with GFM extensions enabled.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// Render converts markdown to sanitized HTML.
func (r *Renderer) Render(source []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return string(r.sanitizer.SanitizeBytes(buf.Bytes())), nil
}

// Excerpt derives a plain-text excerpt from a markdown body: markdown syntax
// stripped, whitespace collapsed, cut at the closest word boundary under
// maxLen runes with a trailing ellipsis.
func Excerpt(body []byte, maxLen int) string {
	text := stripmd.Strip(string(body))
	text = strings.Join(strings.Fields(text), " ")
	if maxLen <= 0 || len([]rune(text)) <= maxLen {
		return text
	}

	runes := []rune(text)
	cut := maxLen
	for cut > 0 && runes[cut-1] != ' ' {
		cut--
	}
	if cut == 0 {
		cut = maxLen
	}
	return strings.TrimSpace(string(runes[:cut])) + "…"
}
