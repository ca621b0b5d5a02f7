// Package render turns stored post content into HTML.
package render

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

const (
	ContentMarkdown = "markdown"
	ContentHTML     = "html"

	LayoutFullWidth    = "full-width"
	LayoutSidebarLeft  = "sidebar-left"
	LayoutSidebarRight = "sidebar-right"
	LayoutBlank        = "blank"

	MetaContentType    = "content_type"
	MetaLayout         = "layout"
	MetaSidebarContent = "sidebar_content"
)

var policy = bluemonday.UGCPolicy()

// Markdown converts md to sanitized HTML. Single newlines become <br>.
func Markdown(md string) string {
	if md == "" {
		return ""
	}

	extensions := parser.CommonExtensions | parser.HardLineBreak | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})

	return policy.Sanitize(string(markdown.ToHTML([]byte(md), p, renderer)))
}

// Content renders content according to contentType. Trusted HTML is passed
// through unchanged, any other HTML goes through the same policy as markdown.
func Content(content, contentType string, trusted bool) string {
	if contentType != ContentHTML {
		return Markdown(content)
	}
	if trusted {
		return content
	}
	return policy.Sanitize(content)
}

// Page is a rendered static page.
type Page struct {
	ContentHTML string `json:"contentHtml"`
	SidebarHTML string `json:"sidebarHtml,omitempty"`
	Layout      string `json:"layout"`
}

// Blank pages are served as bare HTML without any surrounding layout.
func (p Page) Blank() bool {
	return p.Layout == LayoutBlank
}

// RenderPage renders a page body and its sidebar using the page metadata.
// trusted is true only for content written by administrators.
func RenderPage(content string, meta map[string]string, trusted bool) Page {
	contentType := meta[MetaContentType]
	if contentType != ContentHTML {
		contentType = ContentMarkdown
	}

	page := Page{
		ContentHTML: Content(content, contentType, trusted),
		Layout:      normalizeLayout(meta[MetaLayout]),
	}

	if sidebar := meta[MetaSidebarContent]; sidebar != "" {
		page.SidebarHTML = Content(sidebar, contentType, trusted)
	}

	return page
}

func normalizeLayout(layout string) string {
	switch layout {
	case LayoutFullWidth, LayoutSidebarLeft, LayoutSidebarRight, LayoutBlank:
		return layout
	}
	return LayoutFullWidth
}
