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
	"cmp"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"dirpx.dev/ebx/apis"
	"dirpx.dev/ebx/capability"
	ebxerrors "dirpx.dev/ebx/errors"
	"dirpx.dev/ebx/reference"
	"dirpx.dev/ebx/resolver"
)

// New constructs a Registry whose capability sets are computed with the
// built-in table extended by cfg.Capabilities.
func New(cfg apis.Config) *Registry {
	r := &Registry{
		caps: capability.New(cfg.Capabilities...),
		log:  cfg.Log().With("component", "registry"),
		w:    make(map[key]apis.Provider),
	}
	r.root = resolver.Root(r)
	r.snap.Store(&snapshot{entries: map[key]apis.Provider{}})
	return r
}

// Ensure Registry implements apis.Registry.
var _ apis.Registry = (*Registry)(nil)

// Registry is a copy-on-write (namespace, capability) -> provider map.
//
// Writers serialize on mu and mutate the private write map w. After every
// successful mutation a full copy of w is published through snap. Readers
// only load snap, so lookups never lock and never see a half-applied write.
type Registry struct {
	// caps computes capability sets.
	caps *capability.Table
	// log receives install/removal events.
	log *slog.Logger
	// root resolves CapCore then CapProvider.
	root apis.Resolver

	// mu serializes writers so we never publish partially-built snapshots.
	mu sync.Mutex
	// w is the write-side map, guarded by mu.
	w map[key]apis.Provider

	// snap is the published read-side snapshot.
	snap atomic.Pointer[snapshot]
}

// key is the composite registry key.
type key struct {
	ns apis.Namespace
	c  apis.Capability
}

// snapshot is immutable once published; never mutate its fields.
type snapshot struct {
	// entries is a full copy of the write map at publish time.
	entries map[key]apis.Provider
	// namespaces is the sorted distinct set of namespaces in entries.
	namespaces []apis.Namespace
}

// Register installs p under every capability in its capability set and,
// when p does not parse references and the namespace has no parser yet,
// installs the default parser. Overwrites are reported, not rejected.
func (r *Registry) Register(p apis.Provider) ([]apis.Install, error) {
	const op = "registry.Register"
	if p == nil {
		return nil, ebxerrors.New(ebxerrors.KindInvalidArgument, op, "provider cannot be nil")
	}
	ns := p.Namespace()
	if err := reference.ValidateNamespace(ns); err != nil {
		return nil, err
	}
	set := r.caps.Of(p)

	r.mu.Lock()
	defer r.mu.Unlock()

	installs := r.install(ns, set, p)
	r.publish()

	r.log.Debug("registered provider", "namespace", ns, "capabilities", set)
	return installs, nil
}

// Unregister removes every non-root capability p declares. The root mapping
// is never deleted here: if a root provider is still present it is replaced
// by an Inert stand-in, so the namespace keeps resolving a root until
// UnregisterNamespace is called.
func (r *Registry) Unregister(p apis.Provider) error {
	const op = "registry.Unregister"
	if p == nil {
		return ebxerrors.New(ebxerrors.KindInvalidArgument, op, "provider cannot be nil")
	}
	ns := p.Namespace()
	if err := reference.ValidateNamespace(ns); err != nil {
		return err
	}
	// the root is replaced by an inert one below, never removed
	set := r.caps.Of(p).Without(apis.CapProvider)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for _, c := range set {
		if r.remove(key{ns: ns, c: c}) {
			removed++
		}
	}
	if _, ok := r.w[key{ns: ns, c: apis.CapProvider}]; ok {
		r.install(ns, capability.Set{apis.CapProvider}, NewInert(ns))
	}
	r.publish()

	r.log.Debug("unregistered provider", "namespace", ns, "removed", removed)
	return nil
}

// UnregisterNamespace removes every mapping of ns regardless of capability.
func (r *Registry) UnregisterNamespace(ns apis.Namespace) error {
	if ns == "" {
		return ebxerrors.New(ebxerrors.KindInvalidArgument, "registry.UnregisterNamespace", "namespace cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for k := range r.w {
		if k.ns == ns && r.remove(k) {
			removed++
		}
	}
	if removed > 0 {
		r.publish()
	}

	r.log.Debug("unregistered namespace", "namespace", ns, "removed", removed)
	return nil
}

// UnregisterCapability removes the (ns, c) mapping. The root capability
// cannot be removed on its own. Removing the reference parser of a namespace
// that still has a root reinstalls the default parser.
func (r *Registry) UnregisterCapability(ns apis.Namespace, c apis.Capability) error {
	const op = "registry.UnregisterCapability"
	if ns == "" {
		return ebxerrors.New(ebxerrors.KindInvalidArgument, op, "namespace cannot be empty")
	}
	if c == "" {
		return ebxerrors.New(ebxerrors.KindInvalidArgument, op, "capability cannot be empty")
	}
	if c == apis.CapProvider {
		return ebxerrors.New(ebxerrors.KindInvalidArgument, op,
			"cannot separately unregister the root provider capability, use UnregisterNamespace instead")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.remove(key{ns: ns, c: c}) {
		return nil
	}
	if c == apis.CapReferenceParser {
		if _, ok := r.w[key{ns: ns, c: apis.CapProvider}]; ok {
			r.put(ns, apis.CapReferenceParser, reference.NewDefaultParser(ns))
		}
	}
	r.publish()
	return nil
}

// Seed installs entries verbatim, typically copied from another registry's
// Entries, and publishes once. Entries with an empty namespace, empty
// capability or nil provider are skipped and counted in the returned number.
func (r *Registry) Seed(entries []apis.Entry) (skipped int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		if e.Namespace == "" || e.Capability == "" || e.Provider == nil {
			skipped++
			continue
		}
		r.put(e.Namespace, e.Capability, e.Provider)
	}
	r.publish()
	if skipped > 0 {
		r.log.Warn("skipped invalid entries while seeding", "skipped", skipped)
	}
	return skipped
}

// Lookup returns the provider registered for (ns, c). It never locks.
func (r *Registry) Lookup(ns apis.Namespace, c apis.Capability) (apis.Provider, bool) {
	p, ok := r.snap.Load().entries[key{ns: ns, c: c}]
	return p, ok
}

// LookupRoot returns the core provider of ns, falling back to the generic root.
func (r *Registry) LookupRoot(ns apis.Namespace) (apis.Provider, bool) {
	p, _, ok := r.root.Resolve(ns)
	return p, ok
}

// LookupByReference resolves the root provider for the namespace of a
// reference string such as "/site/123".
func (r *Registry) LookupByReference(ref string) (apis.Provider, bool) {
	ns, err := reference.Prefix(ref)
	if err != nil {
		return nil, false
	}
	return r.LookupRoot(ns)
}

// Namespaces returns the sorted namespaces present in the current snapshot.
func (r *Registry) Namespaces() []apis.Namespace {
	return slices.Clone(r.snap.Load().namespaces)
}

// Entries returns every mapping of the current snapshot, sorted by
// namespace then capability.
func (r *Registry) Entries() []apis.Entry {
	s := r.snap.Load()
	out := make([]apis.Entry, 0, len(s.entries))
	for k, p := range s.entries {
		out = append(out, apis.Entry{Namespace: k.ns, Capability: k.c, Provider: p})
	}
	slices.SortFunc(out, func(a, b apis.Entry) int {
		return cmp.Or(cmp.Compare(a.Namespace, b.Namespace), cmp.Compare(a.Capability, b.Capability))
	})
	return out
}

// Count returns the number of mappings in the current snapshot.
func (r *Registry) Count() int {
	return len(r.snap.Load().entries)
}

// Reset clears every mapping.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.w = make(map[key]apis.Provider)
	r.publish()
}

// install puts p under every capability of set and adds the default parser
// when set has none and ns has none. Callers must hold mu.
func (r *Registry) install(ns apis.Namespace, set capability.Set, p apis.Provider) []apis.Install {
	installs := make([]apis.Install, 0, len(set)+1)
	for _, c := range set {
		installs = append(installs, r.put(ns, c, p))
	}
	if !set.Has(apis.CapReferenceParser) {
		if _, ok := r.w[key{ns: ns, c: apis.CapReferenceParser}]; !ok {
			installs = append(installs, r.put(ns, apis.CapReferenceParser, reference.NewDefaultParser(ns)))
		}
	}
	return installs
}

// put is the only place the write map is inserted into. Callers must hold mu.
func (r *Registry) put(ns apis.Namespace, c apis.Capability, p apis.Provider) apis.Install {
	k := key{ns: ns, c: c}
	_, replaced := r.w[k]
	r.w[k] = p
	if replaced {
		installsTotal.WithLabelValues(resultReplaced).Inc()
		r.log.Debug("capability mapping replaced", "namespace", ns, "capability", c)
	} else {
		installsTotal.WithLabelValues(resultFresh).Inc()
	}
	return apis.Install{Capability: c, Replaced: replaced}
}

// remove is the only place the write map is deleted from. Callers must hold mu.
func (r *Registry) remove(k key) bool {
	if _, ok := r.w[k]; !ok {
		return false
	}
	delete(r.w, k)
	removalsTotal.Inc()
	return true
}

// publish copies the write map into a new snapshot and swaps it in
// atomically. Callers must hold mu.
func (r *Registry) publish() {
	entries := make(map[key]apis.Provider, len(r.w))
	seen := make(map[apis.Namespace]struct{})
	for k, p := range r.w {
		entries[k] = p
		seen[k.ns] = struct{}{}
	}
	namespaces := make([]apis.Namespace, 0, len(seen))
	for ns := range seen {
		namespaces = append(namespaces, ns)
	}
	slices.Sort(namespaces)

	r.snap.Store(&snapshot{entries: entries, namespaces: namespaces})
	publishesTotal.Inc()
}
