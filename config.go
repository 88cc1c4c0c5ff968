// Copyright 2026 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package shaper

import (
	"os"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/src-d/go-errors.v1"
	"gopkg.in/yaml.v2"
)

const (
	envDetailedErrors         = "SHAPER_DETAILED_ERRORS"
	envUseRelationalNulls     = "SHAPER_USE_RELATIONAL_NULLS"
	envOptimizedNullExpansion = "SHAPER_OPTIMIZED_NULL_EXPANSION"
	envCommandCacheSize       = "SHAPER_COMMAND_CACHE_SIZE"
	envConcurrencyDetection   = "SHAPER_CONCURRENCY_DETECTION"
	envMaxRetryCount          = "SHAPER_MAX_RETRY_COUNT"
	envRetryDelay             = "SHAPER_RETRY_DELAY"
	envBufferResults          = "SHAPER_BUFFER_RESULTS"
	envDebug                  = "SHAPER_DEBUG"
)

var (
	// ErrInvalidEnvVar is returned when an environment variable cannot be
	// parsed into its configuration field.
	ErrInvalidEnvVar = errors.NewKind("cannot parse env var %s=%s")

	// ErrInvalidConfig is returned when a configuration file cannot be read
	// or decoded.
	ErrInvalidConfig = errors.NewKind("invalid configuration %s")
)

// Config for the Engine.
type Config struct {
	// DetailedErrors names the entity and property of a column that fails
	// to be buffered.
	DetailedErrors bool `yaml:"detailed_errors"`
	// UseRelationalNulls keeps the store comparison semantics for nulls.
	UseRelationalNulls bool `yaml:"use_relational_nulls"`
	// OptimizedNullExpansion allows the shorter null expansion where null
	// and false are equivalent.
	OptimizedNullExpansion bool `yaml:"optimized_null_expansion"`
	// CommandCacheSize is the number of command templates kept.
	CommandCacheSize int `yaml:"command_cache_size"`
	// ConcurrencyDetection makes overlapping operations of a session fail.
	ConcurrencyDetection bool `yaml:"concurrency_detection"`
	// MaxRetryCount is the number of retries of a transient failure while
	// opening a reader. Zero disables retries.
	MaxRetryCount int           `yaml:"max_retry_count"`
	RetryDelay    time.Duration `yaml:"retry_delay"`
	// BufferResults drains every result set into memory when the command
	// is executed.
	BufferResults bool `yaml:"buffer_results"`
	// Debug logs analysis and verifies the nullability of buffered columns.
	Debug bool `yaml:"debug"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		CommandCacheSize:     1000,
		ConcurrencyDetection: true,
		RetryDelay:           time.Second,
	}
}

// LoadConfig reads the YAML configuration file at path over the defaults
// and applies the SHAPER_* environment variables on top of it.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, ErrInvalidConfig.Wrap(err, path)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseConfig decodes a YAML configuration over the defaults. Unknown
// fields are an error.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, ErrInvalidConfig.Wrap(err, "document")
	}
	return cfg, nil
}

// ApplyEnv overrides the fields whose environment variable is set, looking
// them up with lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	bools := []struct {
		key   string
		field *bool
	}{
		{envDetailedErrors, &c.DetailedErrors},
		{envUseRelationalNulls, &c.UseRelationalNulls},
		{envOptimizedNullExpansion, &c.OptimizedNullExpansion},
		{envConcurrencyDetection, &c.ConcurrencyDetection},
		{envBufferResults, &c.BufferResults},
		{envDebug, &c.Debug},
	}
	for _, b := range bools {
		if e, ok := lookup(b.key); ok && e != "" {
			v, err := cast.ToBoolE(e)
			if err != nil {
				return ErrInvalidEnvVar.Wrap(err, b.key, e)
			}
			*b.field = v
		}
	}

	ints := []struct {
		key   string
		field *int
	}{
		{envCommandCacheSize, &c.CommandCacheSize},
		{envMaxRetryCount, &c.MaxRetryCount},
	}
	for _, i := range ints {
		if e, ok := lookup(i.key); ok && e != "" {
			v, err := cast.ToIntE(e)
			if err != nil {
				return ErrInvalidEnvVar.Wrap(err, i.key, e)
			}
			*i.field = v
		}
	}

	if e, ok := lookup(envRetryDelay); ok && e != "" {
		v, err := cast.ToDurationE(e)
		if err != nil {
			return ErrInvalidEnvVar.Wrap(err, envRetryDelay, e)
		}
		c.RetryDelay = v
	}
	return nil
}
