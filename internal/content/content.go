// ABOUTME: Content processing for terminal preview of merged feeds
// ABOUTME: Detects HTML, converts to Markdown, and assembles the digest document

package content

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/harper/refeed/internal/feed"
)

// htmlTagPattern matches common HTML tags
var htmlTagPattern = regexp.MustCompile(`<\s*(p|div|span|a|br|img|h[1-6]|ul|ol|li|table|tr|td|th|strong|em|b|i|code|pre|blockquote)[^>]*>`)

// IsHTML checks if content appears to be HTML
func IsHTML(content string) bool {
	if strings.Contains(content, "<!DOCTYPE") || strings.Contains(content, "<html") {
		return true
	}
	return htmlTagPattern.MatchString(content)
}

// ToMarkdown converts HTML content to Markdown. Non-HTML content is
// returned unchanged.
func ToMarkdown(content string) string {
	if content == "" || !IsHTML(content) {
		return content
	}

	markdown, err := htmltomarkdown.ConvertString(content)
	if err != nil {
		// If conversion fails, return original content
		return content
	}
	return strings.TrimSpace(markdown)
}

// Digest renders a merged feed as one Markdown document for terminal
// display: channel header, then each item with its provenance, date,
// link, and converted body.
func Digest(m *feed.Merged) string {
	var b strings.Builder

	b.WriteString("# " + m.Title + "\n\n")
	if m.Description != "" {
		b.WriteString(m.Description + "\n\n")
	}

	for _, item := range m.Items {
		title := item.Title
		if title == "" {
			title = "Untitled"
		}
		b.WriteString("## " + title + "\n\n")

		if item.SourceFeedTitle != "" {
			b.WriteString("Source: " + item.SourceFeedTitle + "\n\n")
		}
		if item.Creator != "" {
			b.WriteString("Author: " + item.Creator + "\n\n")
		}
		if item.PubDate != "" {
			b.WriteString("Published: " + item.PubDate + "\n\n")
		} else if item.ISODate != "" {
			b.WriteString("Published: " + item.ISODate + "\n\n")
		}
		if item.Link != "" {
			b.WriteString("<" + item.Link + ">\n\n")
		}

		body := item.Content
		if body == "" {
			body = item.ContentSnippet
		}
		if body != "" {
			b.WriteString(ToMarkdown(body) + "\n\n")
		}

		b.WriteString("---\n\n")
	}

	return strings.TrimSuffix(b.String(), "---\n\n")
}
