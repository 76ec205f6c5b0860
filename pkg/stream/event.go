// Package stream owns one HTTP request/response cycle observed as a
// live SSE stream: the connection lifecycle state machine, the ordered
// append-only event log, and the classification of each parsed payload.
package stream

import (
	"time"

	"github.com/papercomputeco/strobe/pkg/jsonvalue"
)

// Category is the semantic tag attached to every stream event.
type Category string

const (
	CategoryConnection Category = "connection"
	CategoryData       Category = "data"
	CategoryError      Category = "error"
	CategoryInfo       Category = "info"
)

// Event is one immutable entry in a connection attempt's log. Events are
// created only by the Controller as payloads arrive and are never
// mutated afterwards.
type Event struct {
	// ID is unique and monotonically increasing for the life of the
	// controller, so events order correctly across display surfaces.
	ID int64

	// Timestamp is the arrival time of the payload.
	Timestamp time.Time

	// Raw is the trimmed payload text.
	Raw string

	// Parsed carries the structured form of Raw when it is valid JSON
	// and payload parsing is enabled. Absent otherwise; absence is not
	// an error.
	Parsed *jsonvalue.Value

	// Category is the semantic tag assigned on creation.
	Category Category
}

// Formatted returns the 2-space-indented serialization of the parsed
// payload, or the raw text when no parsed form is present.
func (e Event) Formatted() string {
	if e.Parsed == nil {
		return e.Raw
	}
	return e.Parsed.JSON(jsonvalue.Indent)
}
