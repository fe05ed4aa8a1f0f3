// ABOUTME: Tests for the merge engine
// ABOUTME: Verifies ordering, failure placement, truncation, and description assembly

package merge

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/refeed/internal/feed"
	"github.com/harper/refeed/internal/render"
)

func sourceFeed(title string, items ...feed.Item) feed.FetchResult {
	return feed.FetchResult{
		Feed: &feed.Feed{Title: title, Items: items},
		URL:  "https://example.com/" + strings.ToLower(title),
	}
}

func datedItem(title, iso string) feed.Item {
	return feed.Item{Title: title, ISODate: iso}
}

func TestMergeOrdersByDateDescending(t *testing.T) {
	feed1 := sourceFeed("Feed1",
		datedItem("oct27", "2025-10-27T00:00:00Z"),
		datedItem("oct28", "2025-10-28T00:00:00Z"),
	)
	feed2 := sourceFeed("Feed2",
		datedItem("oct29", "2025-10-29T00:00:00Z"),
	)

	merged := Merge([]feed.FetchResult{feed1, feed2}, "https://merge.example/feed")

	require.Len(t, merged.Items, 3)
	assert.Equal(t, "oct29", merged.Items[0].Title)
	assert.Equal(t, "oct28", merged.Items[1].Title)
	assert.Equal(t, "oct27", merged.Items[2].Title)
}

func TestMergeFailurePrecedesRealItems(t *testing.T) {
	failure := feed.FetchResult{Err: "Failed to fetch feed", URL: "https://bad.example/feed"}
	ok := sourceFeed("Good", datedItem("real", "2025-10-29T00:00:00Z"))

	merged := Merge([]feed.FetchResult{failure, ok}, "https://merge.example/feed")

	require.Len(t, merged.Items, 2)
	assert.True(t, strings.HasPrefix(merged.Items[0].GUID.Text(), "error-"),
		"failure item guid should start with error-, got %q", merged.Items[0].GUID.Text())
	assert.Equal(t, "⚠️ Failed to load feed: https://bad.example/feed", merged.Items[0].Title)
	assert.Equal(t, "https://bad.example/feed", merged.Items[0].Link)
	assert.Contains(t, merged.Items[0].Content, "Failed to fetch feed")
	assert.Equal(t, "real", merged.Items[1].Title)
}

func TestMergeFailureContentIsEscaped(t *testing.T) {
	failure := feed.FetchResult{Err: `read <tcp> "reset"`, URL: "https://bad.example/?a=1&b=2"}

	merged := Merge([]feed.FetchResult{failure}, "")

	content := merged.Items[0].Content
	assert.NotContains(t, content, "<tcp>")
	assert.Contains(t, content, "&lt;tcp&gt;")
	assert.Contains(t, content, "&amp;b=2")
}

func TestMergeStableForEqualTimestamps(t *testing.T) {
	ts := "2025-10-28T12:00:00Z"
	feed1 := sourceFeed("First", datedItem("a", ts), datedItem("b", ts))
	feed2 := sourceFeed("Second", datedItem("c", ts))

	merged := Merge([]feed.FetchResult{feed1, feed2}, "")

	require.Len(t, merged.Items, 3)
	assert.Equal(t, "a", merged.Items[0].Title)
	assert.Equal(t, "b", merged.Items[1].Title)
	assert.Equal(t, "c", merged.Items[2].Title)
}

func TestMergeDatelessItemsSink(t *testing.T) {
	src := sourceFeed("Feed",
		feed.Item{Title: "undated"},
		datedItem("dated", "2025-10-29T00:00:00Z"),
	)

	merged := Merge([]feed.FetchResult{src}, "")

	require.Len(t, merged.Items, 2)
	assert.Equal(t, "dated", merged.Items[0].Title)
	assert.Equal(t, "undated", merged.Items[1].Title)
}

func TestMergeFallsBackToPubDate(t *testing.T) {
	src := sourceFeed("Feed",
		feed.Item{Title: "older", PubDate: "Mon, 27 Oct 2025 00:00:00 +0000"},
		feed.Item{Title: "newer", PubDate: "Wed, 29 Oct 2025 00:00:00 +0000"},
	)

	merged := Merge([]feed.FetchResult{src}, "")

	require.Len(t, merged.Items, 2)
	assert.Equal(t, "newer", merged.Items[0].Title)
}

func TestMergeTruncatesAfterOrdering(t *testing.T) {
	items := make([]feed.Item, 120)
	for i := range items {
		items[i] = datedItem(fmt.Sprintf("item-%d", i), time.Date(2025, 1, 1, 0, 0, i, 0, time.UTC).Format(time.RFC3339))
	}
	failure := feed.FetchResult{Err: "boom", URL: "https://bad.example/feed"}

	merged := Merge([]feed.FetchResult{sourceFeed("Big", items...), failure}, "")

	require.Len(t, merged.Items, feed.MaxItems)
	// The failure item survives truncation because ordering puts it first.
	assert.True(t, strings.HasPrefix(merged.Items[0].GUID.Text(), "error-"))
}

func TestMergeDescription(t *testing.T) {
	ok1 := sourceFeed("Alpha", datedItem("a", "2025-10-29T00:00:00Z"))
	ok2 := sourceFeed("Beta", datedItem("b", "2025-10-28T00:00:00Z"))
	failure := feed.FetchResult{Err: "boom", URL: "https://bad.example/feed"}

	merged := Merge([]feed.FetchResult{ok1, ok2, failure}, "")

	assert.Equal(t, "Combined feed from Alpha, Beta (1 feed(s) failed to load)", merged.Description)
}

func TestMergeEmptyFeedIsNotAnError(t *testing.T) {
	empty := feed.FetchResult{URL: "https://quiet.example/feed"}
	ok := sourceFeed("Loud", datedItem("a", "2025-10-29T00:00:00Z"))

	merged := Merge([]feed.FetchResult{empty, ok}, "")

	require.Len(t, merged.Items, 1)
	assert.Equal(t, "a", merged.Items[0].Title)
}

func TestMergeLinkIsRequestURL(t *testing.T) {
	merged := Merge(nil, "https://merge.example/feed?url=a")
	assert.Equal(t, "https://merge.example/feed?url=a", merged.Link)
}

func TestMergeRenderRoundTrip(t *testing.T) {
	content := "<p>It’s a “full” body — markup intact</p>"
	src := sourceFeed("Blog", feed.Item{
		Title:   "Round Trip",
		Link:    "https://example.com/round-trip",
		ISODate: "2025-10-29T00:00:00Z",
		Content: content,
	})

	merged := Merge([]feed.FetchResult{src}, "https://merge.example/feed")
	out := render.RSS(merged, merged.Link)

	assert.Contains(t, out, "<title>Round Trip</title>")
	assert.Contains(t, out, "<link>https://example.com/round-trip</link>")
	assert.Contains(t, out, "<![CDATA["+content+"]]>",
		"content must survive byte-identical inside CDATA")
}
