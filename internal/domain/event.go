package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// RainfallQueryEvent records one successful rainfall query for downstream
// consumers.
type RainfallQueryEvent struct {
	ID          string        `json:"id"`
	QueryKey    string        `json:"query_key"`
	Mode        Mode          `json:"mode"`
	Range       DateRange     `json:"range"`
	Coordinate  GeoCoordinate `json:"coordinate"`
	Rows        int           `json:"rows"`
	Available   int           `json:"available"`
	Annual      Amount        `json:"annual_mm"`
	PlaceName   string        `json:"place_name,omitempty"`
	ElapsedMS   int64         `json:"elapsed_ms"`
	ProcessedAt time.Time     `json:"processed_at"`
}

// NewRainfallQueryEvent summarizes a query and its table.
func NewRainfallQueryEvent(id string, q ResolvedQuery, t Table, place Place, elapsed time.Duration) RainfallQueryEvent {
	return RainfallQueryEvent{
		ID:          id,
		QueryKey:    QueryKey(q),
		Mode:        q.Mode(),
		Range:       q.Range,
		Coordinate:  q.Coordinate,
		Rows:        len(t.Rows),
		Available:   t.Available(),
		Annual:      t.Annual,
		PlaceName:   place.Name,
		ElapsedMS:   elapsed.Milliseconds(),
		ProcessedAt: clock.Now(),
	}
}

// QueryKey is a deterministic hash of what was asked, so repeated queries for
// the same range and point share a partition key.
func QueryKey(q ResolvedQuery) string {
	input := fmt.Sprintf("%s|%s|%s|%.3f|%.3f", q.Mode(), q.Range.Start, q.Range.End,
		q.Coordinate.Latitude, q.Coordinate.Longitude)
	hash := sha256.Sum256([]byte(input))
	return string(q.Mode()) + "-" + hex.EncodeToString(hash[:8])
}
