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

// Package actions stores the custom action descriptors each namespace
// exposes. Descriptors are metadata: they shape responses and are never an
// authorization gate, so a namespace may carry actions without a provider.
package actions

import (
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/go-playground/validator/v10"

	"dirpx.dev/ebx/apis"
	ebxerrors "dirpx.dev/ebx/errors"
	"dirpx.dev/ebx/reference"
)

// validate is shared; validator instances cache struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// table is the published namespace -> name -> descriptor view.
type table map[apis.Namespace]map[string]apis.CustomAction

// New constructs an action Registry that rejects cfg.ReservedActions.
func New(cfg apis.Config) *Registry {
	r := &Registry{
		reserved: make(map[string]struct{}, len(cfg.ReservedActions)),
		log:      cfg.Log().With("component", "actions"),
		w:        make(table),
	}
	for _, n := range cfg.ReservedActions {
		r.reserved[n] = struct{}{}
	}
	r.snap.Store(&table{})
	return r
}

// Ensure Registry implements apis.ActionRegistry.
var _ apis.ActionRegistry = (*Registry)(nil)

// Registry is a copy-on-write store of custom action descriptors.
// Writes are all-or-nothing per call and replace a namespace's full set.
type Registry struct {
	reserved map[string]struct{}
	log      *slog.Logger

	mu   sync.Mutex
	w    table
	snap atomic.Pointer[table]
}

// SetActions replaces the action set of ns. Every descriptor is checked
// before anything is installed; one bad descriptor rejects the whole batch
// and leaves the previous set in place.
func (r *Registry) SetActions(ns apis.Namespace, actions map[string]apis.CustomAction) error {
	set, err := r.prepare(ns, actions)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.install(ns, set)
	r.publish()

	r.log.Debug("actions set", "namespace", ns, "actions", slices.Sorted(maps.Keys(set)))
	return nil
}

// GetAction returns the descriptor of name in ns.
func (r *Registry) GetAction(ns apis.Namespace, name string) (apis.CustomAction, bool) {
	a, ok := (*r.snap.Load())[ns][name]
	return a, ok
}

// Actions returns a copy of the action set of ns, or nil when it has none.
func (r *Registry) Actions(ns apis.Namespace) map[string]apis.CustomAction {
	return maps.Clone((*r.snap.Load())[ns])
}

// Namespaces returns the sorted namespaces that have actions.
func (r *Registry) Namespaces() []apis.Namespace {
	return slices.Sorted(maps.Keys(*r.snap.Load()))
}

// RemoveActions removes names from the action set of ns, or the whole set
// when names is empty. It is idempotent.
func (r *Registry) RemoveActions(ns apis.Namespace, names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.w[ns]
	if !ok {
		return
	}
	if len(names) == 0 {
		delete(r.w, ns)
	} else {
		// published inner maps are shared, so edit a copy
		next := maps.Clone(cur)
		for _, n := range names {
			delete(next, n)
		}
		if len(next) == len(cur) {
			return
		}
		r.install(ns, next)
	}
	r.publish()
	r.log.Debug("actions removed", "namespace", ns, "names", names)
}

// Reset clears every namespace.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.w = make(table)
	r.publish()
}

// Reserved reports whether name can never be defined.
func (r *Registry) Reserved(name string) bool {
	_, ok := r.reserved[name]
	return ok
}

// prepare validates actions for ns and returns the normalized set.
func (r *Registry) prepare(ns apis.Namespace, actions map[string]apis.CustomAction) (map[string]apis.CustomAction, error) {
	const op = "actions.SetActions"
	if err := reference.ValidateNamespace(ns); err != nil {
		return nil, err
	}
	out := make(map[string]apis.CustomAction, len(actions))
	// sorted so the reported failure is deterministic
	for _, key := range slices.Sorted(maps.Keys(actions)) {
		a := actions[key]
		if a.Name == "" {
			a.Name = key
		}
		if a.Name != key {
			return nil, ebxerrors.Newf(ebxerrors.KindInvalidArgument, op,
				"action keyed %q is named %q", key, a.Name).WithContext("namespace", ns)
		}
		if r.Reserved(a.Name) {
			return nil, ebxerrors.Newf(ebxerrors.KindInvalidArgument, op,
				"action name %q is reserved and cannot be used", a.Name).WithContext("namespace", ns)
		}
		if a.Namespace == "" {
			a.Namespace = ns
		}
		if a.Namespace != ns {
			return nil, ebxerrors.Newf(ebxerrors.KindInvalidArgument, op,
				"action %q belongs to namespace %q", a.Name, a.Namespace).WithContext("namespace", ns)
		}
		if a.View == "" {
			a.View = apis.ViewShow
		}
		if err := validate.Struct(a); err != nil {
			return nil, ebxerrors.Wrap(ebxerrors.KindInvalidArgument, op,
				"invalid action "+a.Name, err).WithContext("namespace", ns)
		}
		out[key] = a
	}
	return out, nil
}

// install replaces the set of ns; an empty set clears it. Callers must hold mu.
func (r *Registry) install(ns apis.Namespace, set map[string]apis.CustomAction) {
	if len(set) == 0 {
		delete(r.w, ns)
		return
	}
	r.w[ns] = set
}

// publish swaps in a copy of the write table. Inner maps are never mutated
// after install, so they are shared. Callers must hold mu.
func (r *Registry) publish() {
	t := maps.Clone(r.w)
	if t == nil {
		t = table{}
	}
	r.snap.Store(&t)
}
