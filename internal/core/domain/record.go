package domain

import "encoding/json"

// Record is one mirrored CVE. ID is the upsert conflict key; every other
// field is replaced wholesale when the same ID is ingested again.
type Record struct {
	// ID is the CVE identifier, e.g. "CVE-2024-0001".
	ID string

	// PublishedDate is the feed's publication timestamp, verbatim.
	PublishedDate *string

	// LastModifiedDate is the feed's last modification timestamp, verbatim.
	LastModifiedDate *string

	// Description is every description value joined with newlines.
	Description *string

	// ScoreV2 is the CVSS v2 base score.
	ScoreV2 *float64

	// ScoreV3 is the CVSS v3.1 base score, falling back to v3.0.
	ScoreV3 *float64

	// Raw is the complete feed item, byte-for-byte.
	Raw json.RawMessage
}

// EffectiveScore returns ScoreV3 when present, else ScoreV2, else nil.
func (r *Record) EffectiveScore() *float64 {
	return effectiveScore(r.ScoreV3, r.ScoreV2)
}

// Summary returns the record without its raw payload.
func (r *Record) Summary() RecordSummary {
	return RecordSummary{
		ID:               r.ID,
		PublishedDate:    r.PublishedDate,
		LastModifiedDate: r.LastModifiedDate,
		Description:      r.Description,
		BaseScoreV2:      r.ScoreV2,
		BaseScoreV3:      r.ScoreV3,
	}
}

// RecordSummary is the row shape returned by queries.
type RecordSummary struct {
	ID               string   `json:"id" db:"id"`
	PublishedDate    *string  `json:"publishedDate" db:"publishedDate"`
	LastModifiedDate *string  `json:"lastModifiedDate" db:"lastModifiedDate"`
	Description      *string  `json:"description" db:"description"`
	BaseScoreV2      *float64 `json:"baseScoreV2" db:"baseScoreV2"`
	BaseScoreV3      *float64 `json:"baseScoreV3" db:"baseScoreV3"`
}

// EffectiveScore returns BaseScoreV3 when present, else BaseScoreV2, else nil.
func (s *RecordSummary) EffectiveScore() *float64 {
	return effectiveScore(s.BaseScoreV3, s.BaseScoreV2)
}

func effectiveScore(v3, v2 *float64) *float64 {
	if v3 != nil {
		return v3
	}
	return v2
}
