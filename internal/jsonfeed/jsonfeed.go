// ABOUTME: JSON Feed 1.x wire types and decoding into the normalized feed model
// ABOUTME: Detection keys off the version URL containing jsonfeed.org

package jsonfeed

import (
	"encoding/json"
	"strings"

	"github.com/harper/refeed/internal/feed"
)

// Version is the JSON Feed version URL emitted by the renderer.
const Version = "https://jsonfeed.org/version/1.1"

// Document is the JSON Feed wire shape (the subset this tool consumes).
type Document struct {
	Version     string   `json:"version"`
	Title       string   `json:"title"`
	HomePageURL string   `json:"home_page_url,omitempty"`
	FeedURL     string   `json:"feed_url,omitempty"`
	Description string   `json:"description,omitempty"`
	Authors     []Author `json:"authors,omitempty"`
	Items       []Item   `json:"items"`
}

// Author is a JSON Feed author object.
type Author struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Item is a JSON Feed item. ID and Tags decode through feed.Value since
// nonconforming publishers emit attributed objects where the schema
// says string.
type Item struct {
	ID            feed.Value   `json:"id"`
	URL           string       `json:"url,omitempty"`
	ExternalURL   string       `json:"external_url,omitempty"`
	Title         string       `json:"title,omitempty"`
	ContentHTML   string       `json:"content_html,omitempty"`
	ContentText   string       `json:"content_text,omitempty"`
	Summary       string       `json:"summary,omitempty"`
	DatePublished string       `json:"date_published,omitempty"`
	Author        *Author      `json:"author,omitempty"`
	Authors       []Author     `json:"authors,omitempty"`
	Tags          []feed.Value `json:"tags,omitempty"`
}

// IsJSONFeed reports whether a decoded document declares a jsonfeed.org
// version. A JSON body without it is simply not a JSON Feed, which the
// caller treats as fall-through rather than failure.
func IsJSONFeed(doc *Document) bool {
	return doc != nil && strings.Contains(doc.Version, "jsonfeed.org")
}

// Sniff decodes body as a JSON Feed document without normalizing it.
// Returns nil (and no error) when the body is valid JSON but not a
// JSON Feed.
func Sniff(body []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	if !IsJSONFeed(&doc) {
		return nil, nil
	}
	return &doc, nil
}

// Normalize maps a JSON Feed document into the common model, stamping
// provenance from the document title and the URL actually fetched.
func Normalize(doc *Document, sourceURL string) *feed.Feed {
	f := &feed.Feed{
		Title:       doc.Title,
		Description: doc.Description,
		Link:        doc.HomePageURL,
		FeedURL:     sourceURL,
		Items:       make([]feed.Item, 0, len(doc.Items)),
	}

	for _, wire := range doc.Items {
		item := feed.Item{
			Title:           wire.Title,
			Link:            wire.URL,
			Content:         wire.ContentHTML,
			ContentSnippet:  wire.ContentText,
			GUID:            wire.ID,
			Categories:      wire.Tags,
			SourceFeedTitle: doc.Title,
			SourceFeedURL:   sourceURL,
		}

		if item.Link == "" {
			item.Link = wire.ExternalURL
		}
		if item.ContentSnippet == "" {
			item.ContentSnippet = wire.Summary
		}
		if wire.DatePublished != "" {
			item.PubDate = wire.DatePublished
			item.ISODate = wire.DatePublished
		}
		if wire.Author != nil {
			item.Creator = wire.Author.Name
		} else if len(wire.Authors) > 0 {
			item.Creator = wire.Authors[0].Name
		}
		if item.GUID.IsZero() && item.Link != "" {
			item.GUID = feed.NewValue(item.Link)
		}

		f.Items = append(f.Items, item)
	}

	return f
}
