// Package markdown renders operator-authored text to safe HTML and strips
// markup from user-supplied text.
package markdown

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

type MarkdownService interface {
	ToHTML(markdown string) (string, error)
	Sanitize(htmlContent string) string
	ToHTMLSanitized(markdown string) (string, error)
}

type markdownServiceImpl struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewMarkdownService renders GFM for emails. Links and basic formatting
// survive sanitizing; scripts and inline handlers do not.
func NewMarkdownService() MarkdownService {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Table,
			extension.Strikethrough,
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithXHTML(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("style").OnElements("td", "th", "table")

	return &markdownServiceImpl{
		md:     md,
		policy: policy,
	}
}

func (s *markdownServiceImpl) ToHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}
	return buf.String(), nil
}

func (s *markdownServiceImpl) Sanitize(htmlContent string) string {
	return s.policy.Sanitize(htmlContent)
}

func (s *markdownServiceImpl) ToHTMLSanitized(markdown string) (string, error) {
	out, err := s.ToHTML(markdown)
	if err != nil {
		return "", err
	}
	return s.Sanitize(out), nil
}

// PlainTextSanitizer removes every tag, keeping text content. Payer names and
// descriptions go through it before reaching the gateway.
type PlainTextSanitizer struct {
	policy *bluemonday.Policy
}

func NewPlainTextSanitizer() *PlainTextSanitizer {
	return &PlainTextSanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize strips markup and collapses whitespace. bluemonday escapes the
// text it keeps, so entities are decoded back for non-HTML consumers.
func (s *PlainTextSanitizer) Sanitize(in string) string {
	stripped := html.UnescapeString(s.policy.Sanitize(in))
	return strings.Join(strings.Fields(stripped), " ")
}
