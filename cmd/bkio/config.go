package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/hupe1980/bkio"
	"github.com/hupe1980/bkio/codec"
)

var errInvalidConfig = errors.New("invalid config")

// Config is the CLI configuration. Keys missing from the TOML file keep
// their defaults.
type Config struct {
	Compress  bool   `toml:"compress"`
	Workers   int    `toml:"workers"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	JSONCodec string `toml:"json_codec"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Compress:  true,
		Workers:   runtime.GOMAXPROCS(0),
		LogLevel:  "warn",
		LogFormat: "text",
		JSONCodec: codec.Default.Name(),
	}
}

// LoadConfig reads path over the defaults. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: %w: unknown keys %s", path, errInvalidConfig, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Merge returns c with the fields of flags whose flag name changed reports
// as set.
func (c Config) Merge(flags Config, changed func(name string) bool) Config {
	if changed("compress") {
		c.Compress = flags.Compress
	}
	if changed("workers") {
		c.Workers = flags.Workers
	}
	if changed("log-level") {
		c.LogLevel = flags.LogLevel
	}
	if changed("log-format") {
		c.LogFormat = flags.LogFormat
	}
	if changed("json-codec") {
		c.JSONCodec = flags.JSONCodec
	}
	return c
}

// Validate checks value ranges and names.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive, got %d", errInvalidConfig, c.Workers)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("%w: log format %q", errInvalidConfig, c.LogFormat)
	}
	if !slices.Contains(codec.Names, c.JSONCodec) {
		return fmt.Errorf("%w: json codec %q, want one of %s", errInvalidConfig, c.JSONCodec, strings.Join(codec.Names, ", "))
	}
	return nil
}

// Logger builds the logger writing to w.
func (c Config) Logger(w io.Writer) (*bkio.Logger, error) {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	if c.LogFormat == "json" {
		return bkio.NewJSONLogger(w, level), nil
	}
	return bkio.NewTextLogger(w, level), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", errInvalidConfig, s)
	}
	return level, nil
}
