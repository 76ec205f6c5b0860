package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/papercomputeco/strobe/pkg/jsonvalue"
	"github.com/papercomputeco/strobe/pkg/sse"
)

// State is the lifecycle position of the current (or most recent)
// connection attempt.
type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateStreaming
	StateClosed
	StateAborted
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	case StateClosed:
		return "closed"
	case StateAborted:
		return "aborted"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// running reports whether the state names an active attempt.
func (s State) running() bool {
	return s == StateConnecting || s == StateStreaming
}

// readBufferSize is the chunk size for response body reads.
const readBufferSize = 4 * 1024

// Controller drives one connection attempt at a time: it issues the
// HTTP request, feeds response chunks through the SSE parser, and
// appends one classified Event per payload to an ordered, append-only
// log. Events are also delivered on the channel returned by Start,
// which closes when the attempt reaches a terminal state.
//
// The caller must drain the channel until it closes; the single run
// goroutine is the only writer to the log and parser state, so no
// locking guards them beyond the snapshot copy in Log.
type Controller struct {
	client *http.Client
	logger *slog.Logger

	seq atomic.Int64

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	ch     chan Event
	log    []Event
}

// Option configures a Controller.
type Option func(*Controller)

// WithHTTPClient overrides the HTTP client. The default client carries
// no timeout: a silent stream stays open until the peer closes it or
// Stop is called.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Controller) {
		c.client = client
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController returns an idle Controller.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		client: &http.Client{},
		logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)})),
		state:  StateIdle,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Log returns a snapshot of the current attempt's event log in arrival
// order.
func (c *Controller) Log() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Event, len(c.log))
	copy(out, c.log)
	return out
}

// Start begins a new connection attempt and returns the channel
// carrying its events. While an attempt is active, Start is a no-op
// and returns the active attempt's channel; the attempt continues
// unaffected. The previous attempt's log is replaced by a fresh, empty
// one.
func (c *Controller) Start(ctx context.Context, cfg Config) <-chan Event {
	c.mu.Lock()
	if c.state.running() {
		ch := c.ch
		c.mu.Unlock()
		return ch
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.state = StateConnecting
	c.cancel = cancel
	c.log = nil
	c.ch = make(chan Event, 64)
	ch := c.ch
	c.mu.Unlock()

	c.logger.Debug("starting connection attempt",
		"url", cfg.URL,
		"method", cfg.method(),
	)

	go func() {
		// Every terminal path releases the child context, not just Stop;
		// otherwise each completed attempt stays registered with the
		// caller's context until that context ends.
		defer cancel()
		c.run(runCtx, cfg, ch)
	}()

	return ch
}

// Stop cancels the in-flight request and read loop. The attempt
// transitions to Aborted with exactly one terminal info event. Stop is
// idempotent and a no-op when nothing is running.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.running() || c.cancel == nil {
		return
	}
	c.cancel()
}

// run is the single writer for one attempt. It owns the parser state
// and the log until it reaches a terminal state and closes ch.
func (c *Controller) run(ctx context.Context, cfg Config, ch chan Event) {
	defer close(ch)

	if err := cfg.validate(); err != nil {
		c.terminate(ch, StateErrored, CategoryError, "Error: "+err.Error())
		return
	}

	resp, err := c.connect(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			c.terminate(ch, StateAborted, CategoryInfo, "Stream aborted by user")
			return
		}
		c.terminate(ch, StateErrored, CategoryError, "Error: "+err.Error())
		return
	}
	defer resp.Body.Close()

	c.setState(StateStreaming)
	c.emit(ch, CategoryConnection, "Connected to "+cfg.URL, false)
	c.emit(ch, CategoryConnection, fmt.Sprintf("Status: %d %s",
		resp.StatusCode, statusText(resp)), false)

	c.readLoop(ctx, cfg, ch, resp.Body)
}

// connect issues the request and checks establishment. A non-success
// status is an establishment failure, not a stream.
func (c *Controller) connect(ctx context.Context, cfg Config) (*http.Response, error) {
	var body io.Reader
	if cfg.method() == http.MethodPost {
		body = strings.NewReader(cfg.Body)
	}

	req, err := http.NewRequestWithContext(ctx, cfg.method(), cfg.URL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for _, h := range cfg.SendHeaders() {
		req.Header.Add(h.Key, h.Value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		resp.Body.Close()
		return nil, fmt.Errorf("status %d %s", resp.StatusCode, statusText(resp))
	}

	return resp, nil
}

// readLoop awaits response chunks until end of stream, cancellation, or
// a transport error. Cancellation is observed at the top of the loop:
// an in-flight read may deliver at most one more chunk after Stop, and
// that residue is processed, not treated as an error.
func (c *Controller) readLoop(ctx context.Context, cfg Config, ch chan Event, body io.Reader) {
	parser := sse.NewParser()
	decoder := &sse.ChunkDecoder{}
	buf := make([]byte, readBufferSize)

	for {
		if ctx.Err() != nil {
			c.terminate(ch, StateAborted, CategoryInfo, "Stream aborted by user")
			return
		}

		n, err := body.Read(buf)
		if n > 0 {
			for _, payload := range parser.Feed(decoder.Decode(buf[:n])) {
				c.emit(ch, Classify(payload), payload, cfg.ParseJSON)
			}
		}

		if err == nil {
			continue
		}

		switch {
		case errors.Is(err, io.EOF):
			// Clean end of stream: recover a payload whose terminating
			// blank line never arrived.
			parser.Feed(decoder.Flush())
			if payload, ok := parser.Flush(); ok {
				c.emit(ch, Classify(payload), payload, cfg.ParseJSON)
			}
			c.terminate(ch, StateClosed, CategoryInfo, "Stream closed by server")

		case ctx.Err() != nil:
			c.terminate(ch, StateAborted, CategoryInfo, "Stream aborted by user")

		default:
			c.terminate(ch, StateErrored, CategoryError, "Error: "+err.Error())
		}
		return
	}
}

// emit appends one event to the log and delivers it on ch.
func (c *Controller) emit(ch chan Event, category Category, raw string, parseJSON bool) {
	ev := Event{
		ID:        c.seq.Add(1),
		Timestamp: time.Now(),
		Raw:       raw,
		Category:  category,
	}

	if parseJSON && category == CategoryData {
		// Parse failure is not an error; the event simply carries no
		// structured form.
		if v, err := jsonvalue.Parse(raw); err == nil {
			ev.Parsed = &v
		}
	}

	c.mu.Lock()
	c.log = append(c.log, ev)
	c.mu.Unlock()

	ch <- ev
}

// terminate moves to a terminal state and appends the single terminal
// event for the attempt.
func (c *Controller) terminate(ch chan Event, state State, category Category, message string) {
	c.emit(ch, category, message, false)

	c.mu.Lock()
	c.state = state
	c.cancel = nil
	c.mu.Unlock()

	c.logger.Debug("attempt finished", "state", state.String())
}

func (c *Controller) setState(state State) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

// statusText prefers the status line text the server sent, falling back
// to the canonical text for the code.
func statusText(resp *http.Response) string {
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status,
		fmt.Sprintf("%d", resp.StatusCode))); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
