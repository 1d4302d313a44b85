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
	"log/slog"
	"slices"

	"dirpx.dev/ebx/apis"
)

// DefaultReservedActions are the action names that collide with built-in
// request verbs and can never be defined by a namespace.
var DefaultReservedActions = []string{"describe", "new", "edit", "delete"}

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		ReservedActions: slices.Clone(DefaultReservedActions),
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithReservedActions replaces the reserved action names.
// A nil slice resets to the defaults; an empty non-nil slice reserves nothing.
func WithReservedActions(names []string) Option {
	return func(c *apis.Config) {
		if names == nil {
			c.ReservedActions = slices.Clone(DefaultReservedActions)
			return
		}
		c.ReservedActions = slices.Clone(names)
	}
}

// WithExtraReservedActions appends to the reserved action names.
func WithExtraReservedActions(names ...string) Option {
	return func(c *apis.Config) {
		for _, n := range names {
			if n != "" && !slices.Contains(c.ReservedActions, n) {
				c.ReservedActions = append(c.ReservedActions, n)
			}
		}
	}
}

// WithCapabilities appends capability matchers to the built-in table.
func WithCapabilities(m ...apis.Matcher) Option {
	return func(c *apis.Config) {
		c.Capabilities = append(c.Capabilities, m...)
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *apis.Config) {
		c.Logger = l
	}
}
