package domain

import "encoding/json"

// RawRecord is one item exactly as the feed delivered it.
// It is the feed client's output before normalisation.
type RawRecord struct {
	// Offset is the item's absolute position in the feed enumeration.
	Offset int

	// Content is the verbatim JSON of the item.
	Content json.RawMessage
}

// FeedPage is one bounded page fetched from the feed.
type FeedPage struct {
	// Records holds the page's items in feed order.
	Records []RawRecord

	// Total is the feed's reported record count, nil when not reported.
	Total *int
}
