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

// Package capability computes the set of capabilities a provider implements.
//
// The set is the root capability, plus every built-in capability interface
// the provider satisfies (checked with plain type assertions), plus any
// extra matchers supplied by the caller, plus any tags the provider declares
// through apis.CapabilityDeclarer. No reflection is involved.
package capability

import (
	"slices"

	"dirpx.dev/ebx/apis"
)

// Set is a sorted, deduplicated list of capabilities.
type Set []apis.Capability

// Has reports whether c is in s.
func (s Set) Has(c apis.Capability) bool {
	_, ok := slices.BinarySearch(s, c)
	return ok
}

// Without returns a copy of s without c.
func (s Set) Without(c apis.Capability) Set {
	out := make(Set, 0, len(s))
	for _, x := range s {
		if x != c {
			out = append(out, x)
		}
	}
	return out
}

// Matcher returns an apis.Matcher recognizing providers that implement T.
func Matcher[T any](c apis.Capability) apis.Matcher {
	return assertMatcher[T]{c: c}
}

// assertMatcher recognizes a capability with a type assertion to T.
type assertMatcher[T any] struct {
	c apis.Capability
}

// Ensure assertMatcher implements apis.Matcher.
var _ apis.Matcher = assertMatcher[apis.Provider]{}

func (m assertMatcher[T]) Capability() apis.Capability { return m.c }

func (m assertMatcher[T]) Matches(p apis.Provider) bool {
	_, ok := any(p).(T)
	return ok
}

// Builtin returns the matchers for every capability interface declared in apis.
func Builtin() []apis.Matcher {
	return []apis.Matcher{
		Matcher[apis.CoreProvider](apis.CapCore),
		Matcher[apis.ReferenceParser](apis.CapReferenceParser),
		Matcher[apis.Creatable](apis.CapCreatable),
		Matcher[apis.Resolvable](apis.CapResolvable),
		Matcher[apis.CollectionResolvable](apis.CapCollectionResolvable),
		Matcher[apis.Updatable](apis.CapUpdatable),
		Matcher[apis.Deletable](apis.CapDeletable),
		Matcher[apis.Inputable](apis.CapInputable),
		Matcher[apis.Outputable](apis.CapOutputable),
		Matcher[apis.BrowseSearchable](apis.CapBrowseSearchable),
		Matcher[apis.ActionsExecutable](apis.CapActionsExecutable),
		Matcher[apis.ActionsDefineable](apis.CapActionsDefineable),
		Matcher[apis.Taggable](apis.CapTaggable),
		Matcher[apis.PropertyProvideable](apis.CapPropertyProvideable),
		Matcher[apis.RequestInterceptor](apis.CapRequestInterceptor),
		Matcher[apis.Describeable](apis.CapDescribeable),
	}
}

// Table is an immutable, ordered list of matchers.
// It is safe for concurrent use.
type Table struct {
	matchers []apis.Matcher
}

// New builds a Table from the built-in matchers followed by extra.
// Nil matchers are ignored.
func New(extra ...apis.Matcher) *Table {
	b := Builtin()
	out := make([]apis.Matcher, 0, len(b)+len(extra))
	out = append(out, b...)
	for _, m := range extra {
		if m != nil {
			out = append(out, m)
		}
	}
	return &Table{matchers: out}
}

// defaultTable serves Of.
var defaultTable = New()

// Of computes the capability set of p with the built-in table.
func Of(p apis.Provider) Set {
	return defaultTable.Of(p)
}

// Of computes the capability set of p. The root capability is always present.
// A nil provider yields an empty set.
func (t *Table) Of(p apis.Provider) Set {
	if p == nil {
		return nil
	}
	seen := map[apis.Capability]struct{}{apis.CapProvider: {}}
	for _, m := range t.matchers {
		if m.Matches(p) {
			seen[m.Capability()] = struct{}{}
		}
	}
	if d, ok := p.(apis.CapabilityDeclarer); ok {
		for _, c := range d.Capabilities() {
			if c != "" {
				seen[c] = struct{}{}
			}
		}
	}
	out := make(Set, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}
