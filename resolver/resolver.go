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

package resolver

import (
	"dirpx.dev/ebx/apis"
)

// Lookup is the read side a resolver consults.
type Lookup interface {
	Lookup(ns apis.Namespace, c apis.Capability) (apis.Provider, bool)
}

// New constructs an apis.Resolver that tries the given capabilities in order
// against lookup. Empty capabilities are ignored. The returned resolver is
// safe for concurrent use provided lookup is.
func New(lookup Lookup, caps ...apis.Capability) apis.Resolver {
	out := make([]apis.Capability, 0, len(caps))
	for _, c := range caps {
		if c != "" {
			out = append(out, c)
		}
	}
	return chain{lookup: lookup, caps: out}
}

// Root constructs the root resolver: CapCore first, then CapProvider.
func Root(lookup Lookup) apis.Resolver {
	return New(lookup, apis.CapCore, apis.CapProvider)
}

// chain is an immutable, order-preserving resolver over a set of capabilities.
type chain struct {
	lookup Lookup
	caps   []apis.Capability
}

// Resolve runs capabilities in order until one is registered for ns.
func (r chain) Resolve(ns apis.Namespace) (apis.Provider, apis.Capability, bool) {
	if r.lookup == nil {
		return nil, "", false
	}
	for _, c := range r.caps {
		if p, ok := r.lookup.Lookup(ns, c); ok {
			return p, c, true
		}
	}
	return nil, "", false
}
