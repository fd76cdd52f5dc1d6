package driven

import "github.com/custodia-labs/cvemirror/internal/core/domain"

// Normaliser maps one raw feed record into a Record.
// Implementations are pure: no I/O, no shared state.
type Normaliser interface {
	// Normalise returns *domain.NormalizationError when the record is unusable.
	// Optional fields that cannot be extracted degrade to nil.
	Normalise(raw domain.RawRecord) (domain.Record, error)
}
