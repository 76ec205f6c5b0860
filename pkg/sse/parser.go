// Package sse provides a minimal, purpose-built SSE (Server-Sent Events)
// decoder for the strobe stream engine. It turns a sequence of
// arbitrarily-sized text chunks into complete event payloads, without
// requiring the full response body up front.
//
// The decoder intentionally models only "data:" lines and the blank-line
// event boundary. Named "event:", "id:" and "retry:" fields carry nothing
// for JSON-RPC-over-SSE traffic and are skipped.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

import "strings"

// dataPrefix is the literal line prefix that contributes to a payload.
const dataPrefix = "data: "

// Parser assembles SSE payloads incrementally. Feed it chunks in arrival
// order; it emits each payload exactly once, regardless of how the
// underlying byte stream was chunked.
//
// A Parser is owned by a single connection attempt and is not safe for
// concurrent use.
type Parser struct {
	// buffer holds the unconsumed trailing fragment of the most recent
	// chunk. It never contains a "\n"-terminated line: every line that
	// completes within a chunk is consumed by that Feed call.
	buffer string

	// pending accumulates the bodies of "data:" lines for the event
	// currently being assembled, each followed by "\n".
	pending strings.Builder
}

// NewParser returns a Parser with empty state.
func NewParser() *Parser {
	return &Parser{}
}

// Feed appends chunk to the parser's buffer and consumes every complete
// line in it, returning the payloads terminated within this chunk in
// order. Zero or more payloads may be returned.
func (p *Parser) Feed(chunk string) []string {
	p.buffer += chunk

	if !strings.Contains(p.buffer, "\n") {
		return nil
	}

	lines := strings.Split(p.buffer, "\n")

	// The final fragment may be an incomplete line; it goes back into the
	// buffer and is excluded from processing.
	p.buffer = lines[len(lines)-1]
	lines = lines[:len(lines)-1]

	var payloads []string
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, dataPrefix):
			p.pending.WriteString(strings.TrimPrefix(line, dataPrefix))
			p.pending.WriteString("\n")

		case line == "":
			// A blank line terminates the current event. Consecutive blank
			// lines with nothing accumulated produce no payload.
			if payload := strings.TrimSpace(p.pending.String()); payload != "" {
				payloads = append(payloads, payload)
			}
			p.pending.Reset()

		default:
			// "event:", "id:", "retry:" and comment lines are skipped.
		}
	}

	return payloads
}

// Flush returns any payload still being assembled when the stream ends
// without a terminating blank line (e.g. the peer closed the socket
// mid-event). The second return reports whether a payload was recovered.
// Flush also clears all parser state.
func (p *Parser) Flush() (string, bool) {
	payload := strings.TrimSpace(p.pending.String())
	p.Reset()

	if payload == "" {
		return "", false
	}
	return payload, true
}

// Reset clears the buffer and any partially assembled event, preparing
// the parser for a fresh connection attempt.
func (p *Parser) Reset() {
	p.buffer = ""
	p.pending.Reset()
}
