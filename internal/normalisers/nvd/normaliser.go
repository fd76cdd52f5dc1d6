package nvd

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/custodia-labs/cvemirror/internal/core/domain"
	"github.com/custodia-labs/cvemirror/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// CVSS metric keys in order of preference.
var (
	v3MetricKeys = []string{"cvssMetricV31", "cvssMetricV30", "cvssMetricV3"}
	v2MetricKeys = []string{"cvssMetricV2"}
)

// Normaliser handles NVD vulnerability items. It is stateless.
type Normaliser struct{}

// New creates a new NVD normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// object is a JSON object decoded one level deep.
type object map[string]json.RawMessage

// Normalise converts one vulnerabilities[] item to a Record.
func (n *Normaliser) Normalise(raw domain.RawRecord) (domain.Record, error) {
	var item object
	if err := json.Unmarshal(raw.Content, &item); err != nil {
		return domain.Record{}, &domain.NormalizationError{Offset: raw.Offset, Reason: "decode item", Err: err}
	}

	cve := decodeObject(item["cve"])
	id := strings.TrimSpace(decodeString(cve["id"]))
	if id == "" {
		return domain.Record{}, &domain.NormalizationError{Offset: raw.Offset, Reason: "missing cve.id"}
	}

	metrics := decodeObject(cve["metrics"])
	if metrics == nil {
		metrics = decodeObject(item["metrics"])
	}

	return domain.Record{
		ID:               id,
		PublishedDate:    optionalString(cve["published"]),
		LastModifiedDate: optionalString(cve["lastModified"]),
		Description:      joinDescriptions(cve["descriptions"]),
		ScoreV3:          baseScore(metrics, v3MetricKeys),
		ScoreV2:          baseScore(metrics, v2MetricKeys),
		Raw:              raw.Content,
	}, nil
}

// joinDescriptions joins every description value with newlines.
// Returns nil when the list is absent or empty.
func joinDescriptions(data json.RawMessage) *string {
	var list []object
	if err := json.Unmarshal(data, &list); err != nil || len(list) == 0 {
		return nil
	}
	values := make([]string, 0, len(list))
	for _, d := range list {
		values = append(values, decodeString(d["value"]))
	}
	joined := strings.Join(values, "\n")
	return &joined
}

// baseScore returns cvssData.baseScore of the first entry under the first
// key that yields a usable score.
func baseScore(metrics object, keys []string) *float64 {
	for _, key := range keys {
		var entries []object
		if err := json.Unmarshal(metrics[key], &entries); err != nil || len(entries) == 0 {
			continue
		}
		data := decodeObject(entries[0]["cvssData"])
		if score := decodeScore(data["baseScore"]); score != nil {
			return score
		}
	}
	return nil
}

// decodeScore accepts a JSON number or a numeric string.
func decodeScore(data json.RawMessage) *float64 {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		s := decodeString(data)
		if s == "" {
			return nil
		}
		if v, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return nil
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil
	}
	return &v
}

func decodeObject(data json.RawMessage) object {
	var obj object
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	return obj
}

// decodeString returns the value of a JSON string, or "" for anything else.
func decodeString(data json.RawMessage) string {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ""
	}
	return s
}

func optionalString(data json.RawMessage) *string {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	return s
}
