// ABOUTME: Fan-in of per-source fetch results into one ordered merged feed
// ABOUTME: Failures become visible placeholder items; they never abort the merge

package merge

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harper/refeed/internal/feed"
	"github.com/harper/refeed/internal/render"
)

// MergedTitle is the channel title of every merged feed.
const MergedTitle = "Combined RSS Feed"

// now is swappable for deterministic tests.
var now = time.Now

// Merge combines resolved per-source outcomes into one feed. Inputs are
// already settled: a FetchResult is either a feed or an error message,
// never a pending or thrown state. Failure placeholders go first in
// input order, then real items sorted newest-first (stable, so sources
// with equal timestamps keep their input order), then truncation to
// feed.MaxItems.
func Merge(results []feed.FetchResult, requestURL string) *feed.Merged {
	var failures []feed.Item
	var items []feed.Item
	var sourceTitles []string

	ts := now()

	for _, res := range results {
		if res.Failed() {
			failures = append(failures, failureItem(res, ts))
			continue
		}
		if res.Feed == nil {
			continue
		}
		if res.Feed.Title != "" {
			sourceTitles = append(sourceTitles, res.Feed.Title)
		}
		items = append(items, res.Feed.Items...)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return itemTime(items[i]).After(itemTime(items[j]))
	})

	merged := append(failures, items...)
	if len(merged) > feed.MaxItems {
		merged = merged[:feed.MaxItems]
	}

	return &feed.Merged{
		Title:       MergedTitle,
		Description: description(sourceTitles, len(failures)),
		Link:        requestURL,
		Items:       merged,
	}
}

// failureItem synthesizes the placeholder entry for a failed source.
// The content fragment is escaped here even though the RSS renderer
// CDATA-wraps content: a later reader reasoning about CDATA bypasses
// must never find raw URL or error text injected into markup.
func failureItem(res feed.FetchResult, ts time.Time) feed.Item {
	stamp := ts.UTC()
	return feed.Item{
		Title:   "⚠️ Failed to load feed: " + res.URL,
		Link:    res.URL,
		PubDate: stamp.Format(time.RFC1123Z),
		ISODate: stamp.Format(time.RFC3339),
		Content: fmt.Sprintf("<p>The feed at <code>%s</code> could not be loaded: %s</p>",
			render.EscapeXML(res.URL), render.EscapeXML(res.Err)),
		GUID: feed.NewValue(fmt.Sprintf("error-%s-%d", res.URL, stamp.UnixMilli())),
	}
}

// itemTime orders an item: ISODate when present, else parsed PubDate,
// else epoch 0 so dateless items sink below every dated one.
func itemTime(item feed.Item) time.Time {
	if item.ISODate != "" {
		if t, err := time.Parse(time.RFC3339, item.ISODate); err == nil {
			return t
		}
	}
	if item.PubDate != "" {
		for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC3339, time.RFC822Z, time.RFC822} {
			if t, err := time.Parse(layout, item.PubDate); err == nil {
				return t
			}
		}
	}
	return time.Unix(0, 0)
}

func description(sourceTitles []string, failed int) string {
	desc := "Combined feed from " + strings.Join(sourceTitles, ", ")
	if failed > 0 {
		desc += fmt.Sprintf(" (%d feed(s) failed to load)", failed)
	}
	return desc
}
