// Package export serializes one connection attempt's configuration and
// event history into a portable JSON artifact.
package export

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/papercomputeco/strobe/pkg/stream"
)

// Document is the export artifact for one attempt.
type Document struct {
	Timestamp time.Time     `json:"timestamp"`
	URL       string        `json:"url"`
	Method    string        `json:"method"`
	Headers   []HeaderEntry `json:"headers"`
	Body      *string       `json:"body"`
	Events    []EventRecord `json:"events"`
}

// HeaderEntry is one filtered header pair.
type HeaderEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// EventRecord is one event in arrival order.
type EventRecord struct {
	Time      time.Time `json:"time"`
	Type      string    `json:"type"`
	Raw       string    `json:"raw"`
	Formatted string    `json:"formatted,omitempty"`
}

// Build assembles the artifact from an attempt's config and its event
// log. Body is null for GET; the header list carries only the entries
// that would actually be sent.
func Build(cfg stream.Config, events []stream.Event) Document {
	method := cfg.Method
	if method == "" {
		method = http.MethodGet
	}

	doc := Document{
		Timestamp: time.Now(),
		URL:       cfg.URL,
		Method:    method,
		Headers:   []HeaderEntry{},
		Events:    []EventRecord{},
	}

	for _, h := range cfg.SendHeaders() {
		doc.Headers = append(doc.Headers, HeaderEntry{Key: h.Key, Value: h.Value})
	}

	if method == http.MethodPost {
		body := cfg.Body
		doc.Body = &body
	}

	for _, ev := range events {
		record := EventRecord{
			Time: ev.Timestamp,
			Type: string(ev.Category),
			Raw:  ev.Raw,
		}
		if ev.Parsed != nil {
			record.Formatted = ev.Formatted()
		}
		doc.Events = append(doc.Events, record)
	}

	return doc
}

// Write serializes the document with 2-space indentation to path.
func (d Document) Write(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	return nil
}
