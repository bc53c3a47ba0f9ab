// Package config holds the recorder's validated configuration snapshot.
//
// Validation happens at construction time and fails fast with a
// configuration-kind error naming the invalid field. A validated Config
// never fails afterwards.
package config

import (
	"fmt"
	"log/slog"

	"github.com/randalmurphal/fiberscope/pkg/fiberscope/errors"
)

// LogLevel is the verbosity hint read by log sinks.
type LogLevel string

const (
	LevelDebug   LogLevel = "debug"
	LevelInfo    LogLevel = "info"
	LevelWarning LogLevel = "warning"
	LevelError   LogLevel = "error"
)

// Valid reports whether l is a recognized level.
func (l LogLevel) Valid() bool {
	switch l {
	case LevelDebug, LevelInfo, LevelWarning, LevelError:
		return true
	}
	return false
}

// Slog maps the level to its slog equivalent.
func (l LogLevel) Slog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarning:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DefaultBufferSize is the stream capacity used when none is configured.
const DefaultBufferSize = 1000

// Config is the recorder configuration snapshot. The zero value is not
// valid; start from Default.
type Config struct {
	// BufferSize is the capacity of streams constructed from this
	// snapshot. Must be positive.
	BufferSize int

	// LogLevel is the verbosity hint for log sinks.
	LogLevel LogLevel

	// EnableSampling turns on probabilistic event dropping.
	EnableSampling bool

	// SamplingRate is the keep probability in [0, 1]. Only validated
	// when sampling is enabled.
	SamplingRate float64

	// EnablePerformanceMonitoring turns on the metrics and span
	// bridges.
	EnablePerformanceMonitoring bool

	// EnableVerboseErrorReporting includes failure detail in
	// task-failed payloads.
	EnableVerboseErrorReporting bool
}

// Default returns the stock configuration: a 1000-event buffer, info
// verbosity, everything else off.
func Default() Config {
	return Config{
		BufferSize: DefaultBufferSize,
		LogLevel:   LevelInfo,
	}
}

// Validate checks every field and returns a configuration-kind error
// naming the first invalid one.
func (c Config) Validate() error {
	if c.BufferSize <= 0 {
		return errors.Configuration("buffer_size", fmt.Sprintf("must be positive, got %d", c.BufferSize))
	}
	if !c.LogLevel.Valid() {
		return errors.Configuration("log_level", fmt.Sprintf("must be one of debug, info, warning, error; got %q", c.LogLevel))
	}
	if c.EnableSampling && (c.SamplingRate < 0 || c.SamplingRate > 1) {
		return errors.Configuration("sampling_rate", fmt.Sprintf("must be in [0.0, 1.0], got %g", c.SamplingRate))
	}
	return nil
}

// Map keys for the record projection.
const (
	keyBufferSize   = "buffer_size"
	keyLogLevel     = "log_level"
	keySampling     = "enable_sampling"
	keySamplingRate = "sampling_rate"
	keyPerfMon      = "enable_performance_monitoring"
	keyVerboseErr   = "enable_verbose_error_reporting"
)

// ToMap projects the config onto its record form. FromMap(ToMap(c))
// round-trips unchanged for any valid c.
func (c Config) ToMap() map[string]any {
	return map[string]any{
		keyBufferSize:   c.BufferSize,
		keyLogLevel:     string(c.LogLevel),
		keySampling:     c.EnableSampling,
		keySamplingRate: c.SamplingRate,
		keyPerfMon:      c.EnablePerformanceMonitoring,
		keyVerboseErr:   c.EnableVerboseErrorReporting,
	}
}

// FromMap builds a Config from its record form, starting at Default for
// absent keys. Unknown keys and wrongly typed values fail with a
// configuration-kind error naming the field.
func FromMap(m map[string]any) (Config, error) {
	c := Default()
	for key, v := range m {
		switch key {
		case keyBufferSize:
			n, ok := asInt(v)
			if !ok {
				return Config{}, errors.Configuration(keyBufferSize, fmt.Sprintf("must be an integer, got %T", v))
			}
			c.BufferSize = n
		case keyLogLevel:
			s, ok := v.(string)
			if !ok {
				return Config{}, errors.Configuration(keyLogLevel, fmt.Sprintf("must be a string, got %T", v))
			}
			c.LogLevel = LogLevel(s)
		case keySampling:
			b, ok := v.(bool)
			if !ok {
				return Config{}, errors.Configuration(keySampling, fmt.Sprintf("must be a boolean, got %T", v))
			}
			c.EnableSampling = b
		case keySamplingRate:
			f, ok := asFloat(v)
			if !ok {
				return Config{}, errors.Configuration(keySamplingRate, fmt.Sprintf("must be a number, got %T", v))
			}
			c.SamplingRate = f
		case keyPerfMon:
			b, ok := v.(bool)
			if !ok {
				return Config{}, errors.Configuration(keyPerfMon, fmt.Sprintf("must be a boolean, got %T", v))
			}
			c.EnablePerformanceMonitoring = b
		case keyVerboseErr:
			b, ok := v.(bool)
			if !ok {
				return Config{}, errors.Configuration(keyVerboseErr, fmt.Sprintf("must be a boolean, got %T", v))
			}
			c.EnableVerboseErrorReporting = b
		default:
			return Config{}, errors.Configuration(key, "unrecognized option")
		}
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// asInt accepts the integer shapes YAML and JSON decoders produce.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
