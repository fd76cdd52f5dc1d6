package domain

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Page size bounds for queries.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxPage is the highest page whose offset fits in an int at any limit.
	MaxPage = math.MaxInt/MaxPageSize + 1
)

// SortField is a whitelisted sort column.
type SortField string

// Sortable columns.
const (
	SortPublishedDate    SortField = "publishedDate"
	SortLastModifiedDate SortField = "lastModifiedDate"
)

// IsValid returns true if the sort field is whitelisted.
func (f SortField) IsValid() bool {
	return f == SortPublishedDate || f == SortLastModifiedDate
}

// SortOrder is a sort direction.
type SortOrder string

// Sort directions.
const (
	OrderAsc  SortOrder = "ASC"
	OrderDesc SortOrder = "DESC"
)

// QueryParams holds query parameters exactly as received from a caller.
// Empty strings mean "not provided".
type QueryParams struct {
	ID               string
	Year             string
	MinScore         string
	MaxScore         string
	LastModifiedDays string
	Page             string
	Limit            string
	SortBy           string
	Order            string
}

// QueryFilter is the validated, AND-combined filter set.
// Nil fields are not applied.
type QueryFilter struct {
	ID               string
	Year             *int
	MinScore         *float64
	MaxScore         *float64
	LastModifiedDays *int
}

// QueryOptions holds sort and pagination.
type QueryOptions struct {
	Page   int
	Limit  int
	SortBy SortField
	Order  SortOrder
}

// Offset returns the number of rows skipped before the page.
// Options are expected to be normalised; anything else yields 0.
func (o QueryOptions) Offset() int {
	if o.Page < 1 || o.Page > MaxPage || o.Limit < 1 || o.Limit > MaxPageSize {
		return 0
	}
	return (o.Page - 1) * o.Limit
}

// Query is a validated query over the mirror.
type Query struct {
	Filter  QueryFilter
	Options QueryOptions
}

// QueryResult is one page of matching records.
type QueryResult struct {
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
	Results []RecordSummary `json:"results"`
}

// ParseQuery validates raw parameters. It never fails: unparsable filter
// values are dropped and sort/page values fall back to their defaults.
func ParseQuery(p QueryParams) Query {
	q := Query{
		Filter: QueryFilter{ID: p.ID},
		Options: QueryOptions{
			Page:   atoiOr(p.Page, 1),
			Limit:  atoiOr(p.Limit, 0),
			SortBy: SortField(strings.TrimSpace(p.SortBy)),
		},
	}

	if strings.EqualFold(strings.TrimSpace(p.Order), "asc") {
		q.Options.Order = OrderAsc
	} else {
		q.Options.Order = OrderDesc
	}

	if year, err := strconv.Atoi(strings.TrimSpace(p.Year)); err == nil && year >= 0 && year <= 9999 {
		q.Filter.Year = &year
	}
	q.Filter.MinScore = parseScore(p.MinScore)
	q.Filter.MaxScore = parseScore(p.MaxScore)
	if days, err := strconv.Atoi(strings.TrimSpace(p.LastModifiedDays)); err == nil && days >= 0 {
		q.Filter.LastModifiedDays = &days
	}

	q.Options = q.Options.Normalise()
	return q
}

// Normalise clamps the page to [1, MaxPage] and the limit to [1, MaxPageSize], and
// replaces unknown sort fields and directions with the defaults.
// A zero limit means DefaultPageSize.
func (o QueryOptions) Normalise() QueryOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Page > MaxPage {
		o.Page = MaxPage
	}
	if o.Limit == 0 {
		o.Limit = DefaultPageSize
	}
	if o.Limit < 1 {
		o.Limit = 1
	}
	if o.Limit > MaxPageSize {
		o.Limit = MaxPageSize
	}
	if !o.SortBy.IsValid() {
		o.SortBy = SortPublishedDate
	}
	if o.Order != OrderAsc {
		o.Order = OrderDesc
	}
	return o
}

// Cutoff returns the earliest lastModifiedDate admitted by the
// LastModifiedDays filter at instant now, truncated to whole seconds.
func (f QueryFilter) Cutoff(now time.Time) (time.Time, bool) {
	if f.LastModifiedDays == nil {
		return time.Time{}, false
	}
	return now.UTC().AddDate(0, 0, -*f.LastModifiedDays).Truncate(time.Second), true
}

// Matches evaluates the filter against one row at instant now.
// It is the in-process twin of the SQL predicate built by the sqlite store.
func (f QueryFilter) Matches(s *RecordSummary, now time.Time) bool {
	if f.ID != "" && s.ID != f.ID {
		return false
	}
	if f.Year != nil {
		published, ok := ParseTimestamp(s.PublishedDate)
		if !ok || published.Year() != *f.Year {
			return false
		}
	}
	if f.MinScore != nil || f.MaxScore != nil {
		score := s.EffectiveScore()
		if score == nil {
			return false
		}
		if f.MinScore != nil && *score < *f.MinScore {
			return false
		}
		if f.MaxScore != nil && *score > *f.MaxScore {
			return false
		}
	}
	if cutoff, ok := f.Cutoff(now); ok {
		modified, ok := ParseTimestamp(s.LastModifiedDate)
		if !ok || modified.Truncate(time.Second).Before(cutoff) {
			return false
		}
	}
	return true
}

// SortSummaries orders rows by the sort column, then by ID, in the given
// direction. Missing dates sort before present ones in ascending order.
func SortSummaries(rows []RecordSummary, opts QueryOptions) {
	key := func(s *RecordSummary) *string {
		if opts.SortBy == SortLastModifiedDate {
			return s.LastModifiedDate
		}
		return s.PublishedDate
	}
	sort.SliceStable(rows, func(i, j int) bool {
		c := compareNullable(key(&rows[i]), key(&rows[j]))
		if c == 0 {
			c = strings.Compare(rows[i].ID, rows[j].ID)
		}
		if opts.Order == OrderAsc {
			return c < 0
		}
		return c > 0
	})
}

var timestampLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses the ISO 8601 forms SQLite's date functions accept.
// Timestamps without a zone are read as UTC.
func ParseTimestamp(s *string) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, *s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func compareNullable(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return strings.Compare(*a, *b)
	}
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}

func parseScore(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
