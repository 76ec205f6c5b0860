// Package jsonrpc provides canonical JSON-RPC 2.0 request skeletons for
// probing MCP-style endpoints, stamped with session-scoped request ids.
package jsonrpc

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/papercomputeco/strobe/pkg/jsonvalue"
)

// ProtocolVersion is the MCP protocol revision advertised by the
// initialize template.
const ProtocolVersion = "2025-03-26"

// Session issues monotonically increasing request ids. The counter is
// shared across every template rendered by the session for its whole
// lifetime and is never reset; two sessions never interfere with each
// other.
type Session struct {
	ids atomic.Int64
}

// NewSession returns a Session whose first rendered id is 1.
func NewSession() *Session {
	return &Session{}
}

// NextID returns the next request id, incrementing the counter.
func (s *Session) NextID() int64 {
	return s.ids.Add(1)
}

// Render looks up the named template, stamps it with the session's next
// id, and returns the 2-space-indented serialization.
func (s *Session) Render(name string) (string, error) {
	t, ok := Lookup(name)
	if !ok {
		return "", fmt.Errorf("unknown template %q (available: %s)",
			name, strings.Join(Names(), ", "))
	}

	return t.Build(s.NextID()).JSON(jsonvalue.Indent), nil
}
