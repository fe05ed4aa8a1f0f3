// ABOUTME: Hand-built RSS 2.0 serializer for the merged feed
// ABOUTME: Explicit element assembly; generic object-to-XML mapping mis-renders attributed elements

package render

import (
	"strings"
	"time"

	"github.com/harper/refeed/internal/feed"
)

// Generator is the fixed channel generator literal.
const Generator = "refeed (https://github.com/harper/refeed)"

// RSS renders the merged feed as an RSS 2.0 document with the content
// and dc namespaces declared. If assembly fails on malformed data, it
// degrades to a minimal channel render instead of failing the request.
func RSS(m *feed.Merged, requestURL string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = minimalRSS(m, requestURL)
		}
	}()
	return buildRSS(m, requestURL)
}

func buildRSS(m *feed.Merged, requestURL string) string {
	var b strings.Builder

	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:dc="http://purl.org/dc/elements/1.1/">` + "\n")
	b.WriteString("  <channel>\n")
	writeElement(&b, "    ", "title", EscapeXML(m.Title))
	writeElement(&b, "    ", "description", EscapeXML(m.Description))
	writeElement(&b, "    ", "link", EscapeXML(requestURL))
	writeElement(&b, "    ", "lastBuildDate", time.Now().UTC().Format(time.RFC1123Z))
	writeElement(&b, "    ", "generator", EscapeXML(Generator))

	for _, item := range m.Items {
		writeItem(&b, item)
	}

	b.WriteString("  </channel>\n")
	b.WriteString("</rss>\n")
	return b.String()
}

func writeItem(b *strings.Builder, item feed.Item) {
	b.WriteString("    <item>\n")

	// Title is always emitted, as an empty element when absent, so
	// consumers see a uniform item shape.
	if item.Title == "" {
		b.WriteString("      <title/>\n")
	} else {
		writeElement(b, "      ", "title", EscapeXML(item.Title))
	}

	if item.Link != "" {
		writeElement(b, "      ", "link", EscapeXML(item.Link))
	}

	guid := item.GUID.Text()
	if guid == "" {
		guid = item.Link
	}
	writeElement(b, "      ", "guid", EscapeXML(guid))

	pubDate := item.PubDate
	if pubDate == "" {
		pubDate = item.ISODate
	}
	if pubDate != "" {
		writeElement(b, "      ", "pubDate", EscapeXML(pubDate))
	}

	if item.Creator != "" {
		writeElement(b, "      ", "dc:creator", cdata(item.Creator))
	}

	// Full content goes through CDATA unescaped; escaping it would
	// strip meaningful punctuation on the way out. The snippet path is
	// escaped text, control-stripped first.
	if item.Content != "" {
		writeElement(b, "      ", "content:encoded", cdata(item.Content))
	} else if item.ContentSnippet != "" {
		writeElement(b, "      ", "description", EscapeXML(StripControl(item.ContentSnippet)))
	}

	for _, cat := range item.Categories {
		if text := cat.Text(); text != "" {
			writeElement(b, "      ", "category", EscapeXML(text))
		}
	}

	if item.SourceFeedTitle != "" && item.SourceFeedURL != "" {
		b.WriteString(`      <source url="` + EscapeXML(item.SourceFeedURL) + `">` +
			EscapeXML(item.SourceFeedTitle) + "</source>\n")
	}

	b.WriteString("    </item>\n")
}

func writeElement(b *strings.Builder, indent, name, value string) {
	b.WriteString(indent)
	b.WriteString("<")
	b.WriteString(name)
	b.WriteString(">")
	b.WriteString(value)
	b.WriteString("</")
	b.WriteString(name)
	b.WriteString(">\n")
}

// minimalRSS is the last-resort render: channel metadata only, reduced
// to alphanumerics and basic punctuation, no items.
func minimalRSS(m *feed.Merged, requestURL string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<rss version="2.0">` + "\n")
	b.WriteString("  <channel>\n")
	writeElement(&b, "    ", "title", safeText(m.Title))
	writeElement(&b, "    ", "description", safeText(m.Description))
	writeElement(&b, "    ", "link", safeText(requestURL))
	b.WriteString("  </channel>\n")
	b.WriteString("</rss>\n")
	return b.String()
}
