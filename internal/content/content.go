// Package content renders the static prose sections of the page.
package content

import (
	_ "embed"
	"html/template"
	"sync"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

//go:embed about.md
var aboutMarkdown []byte

var (
	aboutOnce sync.Once
	aboutHTML template.HTML
)

// Render converts markdown to HTML. Raw HTML in the source is skipped.
func Render(md []byte) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.SkipHTML | html.HrefTargetBlank,
	})
	return template.HTML(markdown.ToHTML(md, p, r))
}

// About returns the rendered About section.
func About() template.HTML {
	aboutOnce.Do(func() {
		aboutHTML = Render(aboutMarkdown)
	})
	return aboutHTML
}
