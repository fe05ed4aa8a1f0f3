// ABOUTME: Common feed and item model shared by the fetch, merge, and render pipeline
// ABOUTME: Every upstream format (RSS, Atom, JSON Feed) normalizes into these types

package feed

// Item is the normalized shape of a single feed entry. String fields use
// "" for absent; PubDate keeps the source's original date text verbatim
// so re-serialization round-trips it, while ISODate carries the parsed
// RFC 3339 form used for sorting.
type Item struct {
	Title          string
	Link           string
	PubDate        string
	ISODate        string
	Content        string // HTML body, re-emitted inside CDATA unescaped
	ContentSnippet string // plain-text summary, used when Content is empty
	Creator        string
	GUID           Value
	Categories     []Value

	// Provenance, stamped by the normalizer, never by the source document.
	SourceFeedTitle string
	SourceFeedURL   string
}

// Feed is one normalized source feed.
type Feed struct {
	Title       string
	Description string
	Link        string
	FeedURL     string
	Items       []Item
}

// FetchResult is the resolved outcome of fetching one source URL.
// At most one of Feed/Err is set; both empty means the source parsed
// into an item-less feed, which is not an error.
type FetchResult struct {
	Feed *Feed
	Err  string
	URL  string
}

// Failed reports whether this result is a failure outcome.
func (r FetchResult) Failed() bool {
	return r.Err != ""
}

// Merged is the combined output of the merge engine: failure placeholder
// items first, then real items ordered newest-first, capped at MaxItems.
type Merged struct {
	Title       string
	Description string
	Link        string
	Items       []Item
}

// MaxItems caps the merged item list. Truncation happens after ordering,
// so failure placeholders are never evicted by real items.
const MaxItems = 100
