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

package apis

import "log/slog"

// Config carries the knobs used to build registries and dispatchers.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// ReservedActions are action names no namespace may define.
	ReservedActions []string

	// Capabilities lists extra capability matchers consulted after the
	// built-in table when computing a provider's capability set.
	Capabilities []Matcher

	// Logger receives structured logs. Nil means slog.Default().
	Logger *slog.Logger
}

// Log returns the configured logger or slog.Default().
func (c Config) Log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Matcher recognizes one capability on a provider.
// Implementations use type assertions; they must not use reflection.
type Matcher interface {
	// Capability is the tag this matcher recognizes.
	Capability() Capability
	// Matches reports whether p implements the capability.
	Matches(p Provider) bool
}
