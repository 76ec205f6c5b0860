package config

// Default values for the emitter test source.
const (
	DefaultEmitterListen   = ":8525"
	DefaultEmitterInterval = "1s"
)

// NewDefaultConfig returns a fully-populated Config with sane defaults.
// Callers always receive usable values even when no config file exists.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Request: RequestConfig{
			Method: "GET",
			Headers: []HeaderEntry{
				{Key: "Accept", Value: "text/event-stream"},
			},
		},
		Display: DisplayConfig{
			FormatJSON:     true,
			ShowTimestamps: true,
			AutoScroll:     true,
		},
		Emitter: EmitterConfig{
			Listen:   DefaultEmitterListen,
			Interval: DefaultEmitterInterval,
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}
