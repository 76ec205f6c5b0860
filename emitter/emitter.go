// Package emitter provides a local SSE event source for exercising
// stream clients without a real upstream. It serves JSON-RPC
// notifications as server-sent events at a configurable cadence.
package emitter

import (
	"fmt"
	"io"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/strobe/pkg/jsonvalue"
)

// Emitter is a small SSE server. Each GET /events connection gets its
// own stream of JSON-RPC progress notifications; POST /rpc answers a
// single request with a one-event response stream.
type Emitter struct {
	config Config
	logger *zap.Logger
	server *fiber.App
}

// New creates a new Emitter.
func New(config Config, logger *zap.Logger) *Emitter {
	if config.Interval <= 0 {
		config.Interval = time.Second
	}

	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
		StreamRequestBody:     true,
	})

	e := &Emitter{
		config: config,
		logger: logger,
		server: app,
	}

	app.Get("/events", e.handleEvents)
	app.Post("/rpc", e.handleRPC)

	return e
}

// Run starts the emitter server on the configured listening address.
func (e *Emitter) Run() error {
	e.logger.Info("starting emitter server",
		zap.String("listen", e.config.ListenAddr),
		zap.Duration("interval", e.config.Interval),
		zap.Int("count", e.config.Count),
	)

	return e.server.Listen(e.config.ListenAddr)
}

// RunWithListener starts the emitter server using the provided listener.
func (e *Emitter) RunWithListener(listener net.Listener) error {
	e.logger.Info("starting emitter server",
		zap.String("listen", listener.Addr().String()),
	)

	return e.server.Listener(listener)
}

// Close shuts down the emitter server.
func (e *Emitter) Close() error {
	return e.server.Shutdown()
}

func (e *Emitter) handleEvents(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")

	// io.Pipe instead of SetBodyStreamWriter: pw.Write blocks until
	// fasthttp's chunked writer consumes the data, which flushes to the
	// socket after every chunk. The client sees each event as it is
	// emitted rather than a buffered burst at stream end.
	pr, pw := io.Pipe()
	go e.writeEvents(pw)

	c.Context().Response.SetBodyStream(pr, -1)

	return nil
}

func (e *Emitter) writeEvents(pw *io.PipeWriter) {
	defer pw.Close()

	for i := 1; e.config.Count == 0 || i <= e.config.Count; i++ {
		payload := notification(i)
		if _, err := fmt.Fprintf(pw, "data: %s\n\n", payload.Compact()); err != nil {
			// Client went away; pipe writes fail once the reader closes.
			e.logger.Debug("stream closed by client", zap.Error(err))
			return
		}

		if e.config.Count == 0 || i < e.config.Count {
			time.Sleep(e.config.Interval)
		}
	}

	e.logger.Debug("stream complete", zap.Int("events", e.config.Count))
}

func (e *Emitter) handleRPC(c *fiber.Ctx) error {
	req, err := jsonvalue.Parse(string(c.Body()))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("invalid JSON-RPC request: %v", err),
		})
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")

	resp := response(req)

	pr, pw := io.Pipe()
	go func() {
		defer pw.Close()
		fmt.Fprintf(pw, "data: %s\n\n", resp.Compact())
	}()

	c.Context().Response.SetBodyStream(pr, -1)

	return nil
}

// notification builds the i-th progress notification. Notifications
// carry no id per JSON-RPC 2.0.
func notification(i int) jsonvalue.Value {
	return jsonvalue.Object(
		jsonvalue.M("jsonrpc", jsonvalue.String("2.0")),
		jsonvalue.M("method", jsonvalue.String("notifications/progress")),
		jsonvalue.M("params", jsonvalue.Object(
			jsonvalue.M("sequence", jsonvalue.Int(int64(i))),
			jsonvalue.M("message", jsonvalue.String(fmt.Sprintf("event %d", i))),
			jsonvalue.M("timestamp", jsonvalue.String(time.Now().UTC().Format(time.RFC3339Nano))),
		)),
	)
}

// response echoes a request back as a JSON-RPC result, preserving the
// caller's id when present.
func response(req jsonvalue.Value) jsonvalue.Value {
	id := jsonvalue.Null()
	if v, ok := req.Get("id"); ok {
		id = v
	}

	method := "unknown"
	if v, ok := req.Get("method"); ok && v.Kind() == jsonvalue.KindString {
		method = v.StringValue()
	}

	return jsonvalue.Object(
		jsonvalue.M("jsonrpc", jsonvalue.String("2.0")),
		jsonvalue.M("id", id),
		jsonvalue.M("result", jsonvalue.Object(
			jsonvalue.M("ok", jsonvalue.Bool(true)),
			jsonvalue.M("method", jsonvalue.String(method)),
		)),
	)
}
