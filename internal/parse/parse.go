// ABOUTME: RSS/Atom parsing using gofeed, mapped into the normalized feed model
// ABOUTME: Keeps the original date text verbatim and stamps provenance on every item

package parse

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/harper/refeed/internal/feed"
)

// Parser wraps a configured gofeed parser. gofeed already performs the
// content:encoded -> Content and dc:* extension mapping; this layer
// finishes the job (dc:creator -> Creator, GUID fallback, snippet
// extraction) and attaches source provenance.
type Parser struct {
	inner *gofeed.Parser
}

// New builds a parser that sends userAgent on every request it makes.
func New(userAgent string) *Parser {
	p := gofeed.NewParser()
	p.UserAgent = userAgent
	return &Parser{inner: p}
}

// ParseURL fetches and parses url as an RSS or Atom feed.
func (p *Parser) ParseURL(ctx context.Context, url string) (*feed.Feed, error) {
	parsed, err := p.inner.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, err
	}
	return Normalize(parsed, url), nil
}

// ParseString parses feed data already in hand.
func (p *Parser) ParseString(data, sourceURL string) (*feed.Feed, error) {
	parsed, err := p.inner.ParseString(data)
	if err != nil {
		return nil, err
	}
	return Normalize(parsed, sourceURL), nil
}

// Normalize maps a parsed gofeed document into the common model.
// sourceURL is the URL actually fetched, which may differ from the
// feed's self-declared link.
func Normalize(parsed *gofeed.Feed, sourceURL string) *feed.Feed {
	f := &feed.Feed{
		Title:       parsed.Title,
		Description: parsed.Description,
		Link:        parsed.Link,
		FeedURL:     sourceURL,
		Items:       make([]feed.Item, 0, len(parsed.Items)),
	}

	for _, entry := range parsed.Items {
		item := feed.Item{
			Title:           entry.Title,
			Link:            entry.Link,
			PubDate:         entry.Published,
			Content:         entry.Content,
			ContentSnippet:  Snippet(entry.Description),
			SourceFeedTitle: parsed.Title,
			SourceFeedURL:   sourceURL,
		}

		if item.PubDate == "" {
			item.PubDate = entry.Updated
		}
		if entry.PublishedParsed != nil {
			item.ISODate = entry.PublishedParsed.UTC().Format(time.RFC3339)
		} else if entry.UpdatedParsed != nil {
			item.ISODate = entry.UpdatedParsed.UTC().Format(time.RFC3339)
		}

		// Atom entries often carry the body in the description slot;
		// keep it as content when content:encoded is absent and the
		// description actually holds markup.
		if item.Content == "" && entry.Description != item.ContentSnippet {
			item.Content = entry.Description
		}

		item.Creator = creator(entry)

		guid := entry.GUID
		if guid == "" {
			guid = entry.Link
		}
		if guid != "" {
			item.GUID = feed.NewValue(guid)
		}

		for _, cat := range entry.Categories {
			item.Categories = append(item.Categories, feed.NewValue(cat))
		}

		f.Items = append(f.Items, item)
	}

	return f
}

// creator resolves dc:creator first, then the item author.
func creator(entry *gofeed.Item) string {
	if entry.DublinCoreExt != nil && len(entry.DublinCoreExt.Creator) > 0 {
		return entry.DublinCoreExt.Creator[0]
	}
	if entry.Author != nil && entry.Author.Name != "" {
		return entry.Author.Name
	}
	if len(entry.Authors) > 0 && entry.Authors[0] != nil {
		return entry.Authors[0].Name
	}
	return ""
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Snippet reduces an HTML description to single-line plain text.
func Snippet(description string) string {
	if description == "" {
		return ""
	}
	text := tagPattern.ReplaceAllString(description, "")
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.TrimSpace(text)
}
