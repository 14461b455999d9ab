package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"plain text":                        "plain text",
		"Tom & Jerry":                       "Tom & Jerry",
		"<b>bold</b> move":                  "bold move",
		`hola<script>alert("x")</script>`:   "hola",
		`<a href="javascript:x()">link</a>`: "link",
	}
	for in, want := range cases {
		assert.Equal(t, want, Sanitize(in), in)
	}
}

func TestSanitizeDecodesEncodedMarkup(t *testing.T) {
	cases := []string{
		"&lt;script&gt;alert(1)&lt;/script&gt;",
		"<b>hola</b> &lt;img src=x onerror=alert(1)&gt;",
		"&amp;lt;img src=x onerror=alert(1)&amp;gt;",
		"&#60;iframe src=x&#62;&#60;/iframe&#62;",
	}
	for _, in := range cases {
		out := Sanitize(in)
		assert.NotContains(t, out, "<img", in)
		assert.NotContains(t, out, "<script", in)
		assert.NotContains(t, out, "<iframe", in)
		assert.NotContains(t, out, "onerror", in)
	}
	assert.Equal(t, "hola", strings.TrimSpace(Sanitize("<b>hola</b> &lt;img src=x onerror=alert(1)&gt;")))
	assert.Equal(t, "a < b y c > d", Sanitize("a < b y c > d"))
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("# Hoy\n\n**gracias** por <script>alert(1)</script> todo")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<strong>gracias</strong>")
	assert.False(t, strings.Contains(out, "<script>"))

	empty, err := RenderMarkdown("   ")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
