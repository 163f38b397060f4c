// Package config loads CLI configuration from CUE files.
//
// A config file is a plain CUE struct unified with the embedded #Config
// definition, so unknown fields, out-of-range values and unknown enum
// values are rejected before anything runs:
//
//	workers:    4
//	max_passes: 10000
//	log_level:  "debug"
//	journal:    "inet.db"
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/inet/internal/engine"
)

//go:embed schema.cue
var schemaCUE string

// Config is the decoded configuration.
type Config struct {
	Workers   int    `json:"workers"`
	MaxPasses int    `json:"max_passes"`
	LogLevel  string `json:"log_level"`
	Journal   string `json:"journal"`
	Format    string `json:"format"`
}

// Default returns the configuration used when no file is given: the schema
// defaults.
func Default() Config {
	cfg, err := Parse(nil, "default.cue")
	if err != nil {
		// The embedded schema is fixed at build time.
		panic(fmt.Sprintf("config: embedded schema: %v", err))
	}
	return cfg
}

// Load reads and validates the CUE file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data, path)
}

// Parse validates CUE source against the schema and decodes it. filename is
// used in error positions only.
func Parse(data []byte, filename string) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("compile config schema: %w", err)
	}

	file := ctx.CompileBytes(data, cue.Filename(filename))
	if err := file.Err(); err != nil {
		return Config{}, &Error{Path: filename, Detail: cueerrors.Details(err, nil)}
	}

	v := schema.LookupPath(cue.ParsePath("#Config")).Unify(file)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Config{}, &Error{Path: filename, Detail: cueerrors.Details(err, nil)}
	}

	var cfg Config
	if err := v.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", filename, err)
	}
	return cfg, nil
}

// Error reports a config file that does not satisfy the schema.
type Error struct {
	Path   string
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Path, e.Detail)
}

// EngineOptions converts the reduction settings into engine options.
func (c Config) EngineOptions() []engine.Option {
	opts := []engine.Option{engine.WithMaxPasses(c.MaxPasses)}
	if c.Workers > 0 {
		opts = append(opts, engine.WithWorkers(c.Workers))
	}
	return opts
}

// SlogLevel maps log_level onto a slog level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
