// ABOUTME: JSON Feed 1.1 serializer for the merged feed
// ABOUTME: Mirrors the import mapping; categories reduce to text the same way as the XML path

package render

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/harper/refeed/internal/feed"
	"github.com/harper/refeed/internal/jsonfeed"
)

// JSONFeed renders the merged feed as a pretty-printed JSON Feed 1.1
// document. requestURL becomes both home_page_url and feed_url.
func JSONFeed(m *feed.Merged, requestURL string) (string, error) {
	doc := jsonfeed.Document{
		Version:     jsonfeed.Version,
		Title:       m.Title,
		HomePageURL: requestURL,
		FeedURL:     requestURL,
		Description: m.Description,
		Items:       make([]jsonfeed.Item, 0, len(m.Items)),
	}

	for _, item := range m.Items {
		wire := jsonfeed.Item{
			ID:          itemID(item),
			URL:         item.Link,
			Title:       item.Title,
			ContentHTML: item.Content,
			ContentText: item.ContentSnippet,
		}

		if item.ISODate != "" {
			wire.DatePublished = item.ISODate
		} else if item.PubDate != "" {
			wire.DatePublished = item.PubDate
		}
		if item.Creator != "" {
			wire.Authors = []jsonfeed.Author{{Name: item.Creator}}
		}
		for _, cat := range item.Categories {
			if text := cat.Text(); text != "" {
				wire.Tags = append(wire.Tags, feed.NewValue(text))
			}
		}

		doc.Items = append(doc.Items, wire)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON feed: %w", err)
	}
	return string(out), nil
}

// itemID resolves the required item id: guid text, then link, then a
// generated identifier so the document always validates.
func itemID(item feed.Item) feed.Value {
	if text := item.GUID.Text(); text != "" {
		return feed.NewValue(text)
	}
	if item.Link != "" {
		return feed.NewValue(item.Link)
	}
	return feed.NewValue(uuid.New().String())
}
