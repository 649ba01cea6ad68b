package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_BasicMarkdown(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render([]byte("# Heading\n\nSome **bold** text.\n"))
	require.NoError(t, err)
	require.Contains(t, out, "<h1")
	require.Contains(t, out, "<strong>bold</strong>")
}

func TestRender_SanitizesScripts(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render([]byte("Hello<script>alert(1)</script>\n"))
	require.NoError(t, err)
	require.NotContains(t, out, "<script>")
}

func TestRender_KeepsLinks(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render([]byte("[CC BY 4.0](https://creativecommons.org/licenses/by/4.0/)\n"))
	require.NoError(t, err)
	require.Contains(t, out, `href="https://creativecommons.org/licenses/by/4.0/"`)
}

func TestExtractLinks(t *testing.T) {
	fragment := `<p>Icon by <a href="https://example.com/artist">Artist</a>, licensed
under <a href="https://example.com/license">MIT</a>. <a>no href</a></p>`

	links, err := ExtractLinks(fragment)
	require.NoError(t, err)
	require.Equal(t, []string{"https://example.com/artist", "https://example.com/license"}, links)
}

func TestExcerpt_StripsMarkdownAndTruncates(t *testing.T) {
	body := []byte("## Intro\n\nThis is *formatted* text with a [link](https://example.com) and more words following it.\n")

	got := Excerpt(body, 30)
	require.NotContains(t, got, "*")
	require.NotContains(t, got, "](")
	require.True(t, strings.HasSuffix(got, "…"), "expected ellipsis, got %q", got)
	require.LessOrEqual(t, len([]rune(got)), 31)
}

func TestExcerpt_ShortBodyUnchanged(t *testing.T) {
	got := Excerpt([]byte("Short body."), 200)
	require.Equal(t, "Short body.", got)
}
