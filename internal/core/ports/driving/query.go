package driving

import (
	"context"
	"encoding/json"

	"github.com/custodia-labs/cvemirror/internal/core/domain"
)

// QueryService reads the mirror.
type QueryService interface {
	// Query validates raw parameters and returns one page of matches.
	Query(ctx context.Context, params domain.QueryParams) (*domain.QueryResult, error)

	// Search runs an already validated query.
	Search(ctx context.Context, q domain.Query) (*domain.QueryResult, error)

	// GetRaw returns a record's raw payload verbatim.
	// Returns domain.ErrNotFound if the ID is unknown.
	GetRaw(ctx context.Context, id string) (json.RawMessage, error)
}
