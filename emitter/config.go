package emitter

import "time"

// Config is the emitter server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8525")
	ListenAddr string

	// Interval is the delay between emitted events.
	Interval time.Duration

	// Count is the number of events to emit before closing the stream.
	// Zero means emit until the client disconnects.
	Count int
}
