package stream

import (
	"fmt"
	"net/http"
	"strings"
)

// Header is one entry of the ordered request header list. Duplicate keys
// are allowed and sent in order.
type Header struct {
	Key   string
	Value string
}

// Config describes one connection attempt.
type Config struct {
	// URL is the target endpoint.
	URL string

	// Method is GET or POST. Empty defaults to GET.
	Method string

	// Headers is the ordered header list. Entries with a blank key or
	// value are excluded at send time.
	Headers []Header

	// Body is the request body text, ignored for GET.
	Body string

	// ParseJSON enables structural parsing of received payloads.
	ParseJSON bool
}

// method returns the effective HTTP method.
func (c Config) method() string {
	if c.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(c.Method)
}

// validate rejects configs the controller cannot send.
func (c Config) validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}

	switch c.method() {
	case http.MethodGet, http.MethodPost:
		return nil
	default:
		return fmt.Errorf("unsupported method %q (GET and POST are supported)", c.Method)
	}
}

// SendHeaders returns the header entries that survive the blank key and
// blank value filter, preserving order and duplicates.
func (c Config) SendHeaders() []Header {
	out := make([]Header, 0, len(c.Headers))
	for _, h := range c.Headers {
		if strings.TrimSpace(h.Key) == "" || strings.TrimSpace(h.Value) == "" {
			continue
		}
		out = append(out, h)
	}
	return out
}
