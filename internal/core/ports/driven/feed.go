package driven

import (
	"context"

	"github.com/custodia-labs/cvemirror/internal/core/domain"
)

// FeedClient fetches pages of raw records from the remote feed.
type FeedClient interface {
	// FetchPage returns up to pageSize records starting at offset.
	// Transport failures and non-success statuses are returned as
	// *domain.TransportError. An empty page is not an error.
	// Implementations do not retry.
	FetchPage(ctx context.Context, offset, pageSize int) (*domain.FeedPage, error)
}
