// ABOUTME: Markdown-to-HTML rendering for section content served to web clients
// ABOUTME: Section content is markdown-ish; goldmark handles the conversion

package httpapi

import (
	"bytes"

	"github.com/yuin/goldmark"

	"github.com/krishimitra/sahayak/internal/answer"
)

var md = goldmark.New()

// renderSectionHTML converts one section's content to HTML.
func renderSectionHTML(sec answer.Section) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(sec.Content), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
