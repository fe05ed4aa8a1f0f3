// ABOUTME: Feed discovery by scanning HTML for link rel="alternate" elements
// ABOUTME: Pure extraction; the fetch layer decides whether to follow what is found

package discover

import (
	"bytes"
	"errors"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoFeedFound is returned when the HTML carries no alternate feed link.
var ErrNoFeedFound = errors.New("no feed link found in HTML")

// feedContentTypes are the media types accepted on an alternate link.
var feedContentTypes = []string{
	"application/rss+xml",
	"application/atom+xml",
	"application/feed+json",
	"application/json",
}

// Find scans htmlBody for <link rel="alternate"> elements pointing at a
// feed media type and returns the first match resolved against baseURL.
// rel and type matching is case-insensitive; the parser handles single-
// and double-quoted attributes alike.
func Find(htmlBody []byte, baseURL *url.URL) (string, error) {
	doc, err := html.Parse(bytes.NewReader(htmlBody))
	if err != nil {
		return "", err
	}

	var found string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "link" {
			var rel, linkType, href string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "rel":
					rel = attr.Val
				case "type":
					linkType = attr.Val
				case "href":
					href = attr.Val
				}
			}
			if strings.EqualFold(rel, "alternate") && isFeedType(linkType) && href != "" {
				if resolved, err := Resolve(href, baseURL); err == nil {
					found = resolved
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if found == "" {
		return "", ErrNoFeedFound
	}
	return found, nil
}

// Resolve resolves href against baseURL: absolute URLs pass through,
// protocol-relative ones inherit the scheme, root-relative ones inherit
// scheme+host, and anything else resolves against the base's directory.
func Resolve(href string, baseURL *url.URL) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(ref).String(), nil
}

func isFeedType(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	for _, want := range feedContentTypes {
		if contentType == want {
			return true
		}
	}
	return false
}
