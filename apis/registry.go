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

// Registry is the capability-indexed provider registry.
// Lookups must be safe for concurrent use without locking.
type Registry interface {
	// Register installs p under every capability it implements.
	Register(p Provider) ([]Install, error)
	// Unregister removes p's capabilities, keeping an inert root in place.
	Unregister(p Provider) error
	// UnregisterNamespace removes every mapping of ns.
	UnregisterNamespace(ns Namespace) error
	// UnregisterCapability removes a single non-root mapping.
	UnregisterCapability(ns Namespace, c Capability) error
	// Lookup returns the provider registered for (ns, c).
	Lookup(ns Namespace, c Capability) (Provider, bool)
	// LookupRoot returns the most specific root provider for ns.
	LookupRoot(ns Namespace) (Provider, bool)
	// Namespaces returns the namespaces with at least one mapping.
	Namespaces() []Namespace
	// Entries returns a snapshot for diagnostics (sorted by namespace, capability).
	Entries() []Entry
	// Count returns the number of mappings.
	Count() int
	// Reset clears all mappings.
	Reset()
}

// Entry is a single (namespace, capability) mapping in a Registry snapshot.
type Entry struct {
	// Namespace of the mapping.
	Namespace Namespace
	// Capability of the mapping.
	Capability Capability
	// Provider installed for the pair.
	Provider Provider
}

// Install reports the result of installing one capability.
type Install struct {
	// Capability that was installed.
	Capability Capability
	// Replaced is true when an existing mapping was overwritten.
	Replaced bool
}
