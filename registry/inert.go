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

package registry

import (
	"dirpx.dev/ebx/apis"
)

// Inert is the root stand-in left behind by Registry.Unregister. It keeps a
// namespace resolvable while declaring nothing beyond its namespace.
type Inert struct {
	ns apis.Namespace
}

// NewInert returns the stand-in root for ns.
func NewInert(ns apis.Namespace) Inert { return Inert{ns: ns} }

// Namespace implements apis.Provider.
func (i Inert) Namespace() apis.Namespace { return i.ns }

// IsInert reports whether p is a stand-in root.
func IsInert(p apis.Provider) bool {
	_, ok := p.(Inert)
	return ok
}

// As looks up (ns, c) and asserts the provider to T.
func As[T any](r apis.Registry, ns apis.Namespace, c apis.Capability) (T, bool) {
	var zero T
	p, ok := r.Lookup(ns, c)
	if !ok {
		return zero, false
	}
	t, ok := any(p).(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// Parser returns the reference parser of ns, which is the default parser
// unless a provider supplied its own.
func Parser(r apis.Registry, ns apis.Namespace) (apis.ReferenceParser, bool) {
	return As[apis.ReferenceParser](r, ns, apis.CapReferenceParser)
}
