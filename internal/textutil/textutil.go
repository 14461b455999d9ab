// Package textutil cleans and renders the free text users write in the journal.
package textutil

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	strict   = bluemonday.StrictPolicy()
	ugc      = bluemonday.UGCPolicy()
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
)

// maxSanitizePasses bounds the decode loop for nested entity encodings.
const maxSanitizePasses = 8

// Sanitize strips every HTML tag from s and returns plain text, so "&"
// round-trips unchanged. Entities are decoded and the policy applied again
// until the text is stable, which strips tags hidden behind encodings such
// as "&lt;script&gt;".
func Sanitize(s string) string {
	if !strings.ContainsAny(s, "<>&") {
		return s
	}
	current := s
	for i := 0; i < maxSanitizePasses; i++ {
		next := html.UnescapeString(strict.Sanitize(current))
		if next == current {
			return next
		}
		current = next
	}
	// Still changing: keep the escaped form, which cannot render as markup.
	return strict.Sanitize(current)
}

// RenderMarkdown converts journal markdown to HTML that is safe to embed.
func RenderMarkdown(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(s), &buf); err != nil {
		return "", err
	}
	return ugc.Sanitize(buf.String()), nil
}
