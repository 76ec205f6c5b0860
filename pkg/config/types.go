package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/papercomputeco/strobe/pkg/stream"
)

// Config represents the persistent strobe configuration stored as
// config.toml in the .strobe/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version int           `toml:"version"`
	Request RequestConfig `toml:"request"`
	Display DisplayConfig `toml:"display"`
	Emitter EmitterConfig `toml:"emitter"`
	History HistoryConfig `toml:"history"`
}

// RequestConfig holds the last-used request shape: target, method,
// ordered headers (duplicates allowed), and body text.
type RequestConfig struct {
	URL     string        `toml:"url,omitempty"`
	Method  string        `toml:"method,omitempty"`
	Headers []HeaderEntry `toml:"headers,omitempty"`
	Body    string        `toml:"body,omitempty"`
}

// HeaderEntry is one key/value pair of the persisted header list.
type HeaderEntry struct {
	Key   string `toml:"key"`
	Value string `toml:"value"`
}

// DisplayConfig holds event rendering preferences.
type DisplayConfig struct {
	FormatJSON     bool `toml:"format_json"`
	ShowTimestamps bool `toml:"show_timestamps"`
	AutoScroll     bool `toml:"auto_scroll"`
}

// EmitterConfig holds settings for the local test event source run by
// "strobe serve".
type EmitterConfig struct {
	Listen   string `toml:"listen,omitempty"`
	Interval string `toml:"interval,omitempty"`
	Count    int    `toml:"count,omitempty"`
}

// HistoryConfig holds session history settings.
type HistoryConfig struct {
	Enabled bool `toml:"enabled"`
}

// StreamHeaders converts the persisted header list into the ordered
// form the stream controller sends.
func (r RequestConfig) StreamHeaders() []stream.Header {
	headers := make([]stream.Header, 0, len(r.Headers))
	for _, h := range r.Headers {
		headers = append(headers, stream.Header{Key: h.Key, Value: h.Value})
	}
	return headers
}

// configKeyInfo maps a user-facing dotted key name to a getter and
// setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure. The
// header list is managed through the stream command flags, not through
// a dotted key.
var configKeys = map[string]configKeyInfo{
	"request.url": {
		get: func(c *Config) string { return c.Request.URL },
		set: func(c *Config, v string) error { c.Request.URL = v; return nil },
	},
	"request.method": {
		get: func(c *Config) string { return c.Request.Method },
		set: func(c *Config, v string) error {
			method := strings.ToUpper(v)
			if method != "GET" && method != "POST" {
				return fmt.Errorf("method must be GET or POST, got %q", v)
			}
			c.Request.Method = method
			return nil
		},
	},
	"request.body": {
		get: func(c *Config) string { return c.Request.Body },
		set: func(c *Config, v string) error { c.Request.Body = v; return nil },
	},
	"display.format_json": {
		get: func(c *Config) string { return strconv.FormatBool(c.Display.FormatJSON) },
		set: func(c *Config, v string) error { return setBool(&c.Display.FormatJSON, v) },
	},
	"display.show_timestamps": {
		get: func(c *Config) string { return strconv.FormatBool(c.Display.ShowTimestamps) },
		set: func(c *Config, v string) error { return setBool(&c.Display.ShowTimestamps, v) },
	},
	"display.auto_scroll": {
		get: func(c *Config) string { return strconv.FormatBool(c.Display.AutoScroll) },
		set: func(c *Config, v string) error { return setBool(&c.Display.AutoScroll, v) },
	},
	"emitter.listen": {
		get: func(c *Config) string { return c.Emitter.Listen },
		set: func(c *Config, v string) error { c.Emitter.Listen = v; return nil },
	},
	"emitter.interval": {
		get: func(c *Config) string { return c.Emitter.Interval },
		set: func(c *Config, v string) error { c.Emitter.Interval = v; return nil },
	},
	"emitter.count": {
		get: func(c *Config) string { return strconv.Itoa(c.Emitter.Count) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("emitter.count must be an integer: %w", err)
			}
			c.Emitter.Count = n
			return nil
		},
	},
	"history.enabled": {
		get: func(c *Config) string { return strconv.FormatBool(c.History.Enabled) },
		set: func(c *Config, v string) error { return setBool(&c.History.Enabled, v) },
	},
}

func setBool(target *bool, v string) error {
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("expected true or false, got %q", v)
	}
	*target = parsed
	return nil
}
