/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	ebxerrors "dirpx.dev/ebx/errors"
)

// File is the on-disk YAML configuration.
//
//	reservedActions: [describe, new, edit, delete, export]
//	logLevel: debug
//	actionFiles:
//	  - actions/site.yaml
type File struct {
	// ReservedActions replaces the default reserved names when set.
	ReservedActions []string `yaml:"reservedActions,omitempty"`
	// LogLevel is one of debug, info, warn, error. Empty means info.
	LogLevel string `yaml:"logLevel,omitempty"`
	// ActionFiles lists the descriptor files "ebx actions validate" checks
	// when it is given no arguments. The broker itself never reads them.
	ActionFiles []string `yaml:"actionFiles,omitempty"`
}

// Load reads and parses the YAML configuration file at path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses YAML configuration bytes.
func Parse(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, ebxerrors.Wrap(ebxerrors.KindInvalidArgument, "config.Parse", "invalid YAML", err)
	}
	if _, err := ParseLevel(f.LogLevel); err != nil {
		return File{}, err
	}
	for _, n := range f.ReservedActions {
		if strings.TrimSpace(n) == "" {
			return File{}, ebxerrors.New(ebxerrors.KindInvalidArgument, "config.Parse", "reserved action names cannot be empty")
		}
	}
	return f, nil
}

// Options converts f into functional options.
func (f File) Options() []Option {
	var opts []Option
	if f.ReservedActions != nil {
		opts = append(opts, WithReservedActions(f.ReservedActions))
	}
	if f.LogLevel != "" {
		lvl, _ := ParseLevel(f.LogLevel)
		opts = append(opts, WithLogger(NewLogger(lvl)))
	}
	return opts
}

// ParseLevel maps a case-insensitive level name to a slog.Level.
// Empty maps to info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, ebxerrors.Newf(ebxerrors.KindInvalidArgument, "config.ParseLevel", "unknown log level %q", s)
	}
}

// NewLogger returns a JSON logger on stderr at lvl.
// Debug loggers include source locations.
func NewLogger(lvl slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	}))
}
