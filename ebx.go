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

package ebx

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"dirpx.dev/ebx/apis"
	"dirpx.dev/ebx/builder"
	"dirpx.dev/ebx/config"
	"dirpx.dev/ebx/dispatch"
	ebxerrors "dirpx.dev/ebx/errors"
	"dirpx.dev/ebx/reference"
	"dirpx.dev/ebx/registry"
)

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("ebx: builder returned nil registry")
	// ErrNilActionRegistry is returned when a builder returns a nil action registry.
	ErrNilActionRegistry = errors.New("ebx: builder returned nil action registry")
)

// Broker owns a provider registry, an action registry and a dispatcher.
// Create one with New, share it by pointer, and call Shutdown when done.
// All methods are safe for concurrent use.
type Broker struct {
	// buildMu is held exclusively by lifecycle changes (reconfigure,
	// builder swap, shutdown) and shared by registry mutations, so no
	// mutation lands in a registry that is being migrated or reset.
	// Lookups and dispatch never take it.
	buildMu sync.RWMutex
	// st is the published state.
	st atomic.Pointer[state]
}

// state is an immutable snapshot published atomically via st.Store; never
// mutate fields of a published state.
type state struct {
	cfg    apis.Config
	bld    apis.Builder
	reg    apis.Registry
	act    apis.ActionRegistry
	dsp    *dispatch.Dispatcher
	closed bool
}

// New constructs a running Broker configured by opts.
func New(opts ...config.Option) *Broker {
	b := &Broker{}
	b.st.Store(build(config.NewConfig(opts...), builder.New(), nil))
	b.st.Load().cfg.Log().Info("broker started")
	return b
}

// build assembles a state, migrating registries from old when non-nil.
// It panics if bld returns nil registries.
func build(cfg apis.Config, bld apis.Builder, old *state) *state {
	var preg apis.Registry
	var pact apis.ActionRegistry
	if old != nil {
		preg, pact = old.reg, old.act
	}
	reg := bld.BuildRegistry(cfg, preg)
	if reg == nil {
		panic(ErrNilRegistry)
	}
	act := bld.BuildActionRegistry(cfg, pact)
	if act == nil {
		panic(ErrNilActionRegistry)
	}
	return &state{
		cfg: cfg,
		bld: bld,
		reg: reg,
		act: act,
		dsp: dispatch.New(act, cfg),
	}
}

// load returns the running state or a KindUnavailable error after Shutdown.
func (b *Broker) load(op string) (*state, error) {
	s := b.st.Load()
	if s.closed {
		return nil, ebxerrors.New(ebxerrors.KindUnavailable, op, "broker is shut down")
	}
	return s, nil
}

// Config returns the active configuration.
func (b *Broker) Config() apis.Config {
	return b.st.Load().cfg
}

// Registry returns the active provider registry.
func (b *Broker) Registry() apis.Registry {
	return b.st.Load().reg
}

// Actions returns the active action registry. Changes made directly on it
// may be lost to a concurrent Reconfigure; prefer SetActions and
// RemoveActions.
func (b *Broker) Actions() apis.ActionRegistry {
	return b.st.Load().act
}

// Dispatcher returns the active action dispatcher.
func (b *Broker) Dispatcher() *dispatch.Dispatcher {
	return b.st.Load().dsp
}

// Reconfigure rebuilds both registries for cfg with the active builder,
// migrating their contents.
func (b *Broker) Reconfigure(cfg apis.Config) error {
	b.buildMu.Lock()
	defer b.buildMu.Unlock()

	old, err := b.load("ebx.Reconfigure")
	if err != nil {
		return err
	}
	b.st.Store(build(cfg, old.bld, old))
	return nil
}

// SetBuilder swaps the builder and rebuilds both registries with it,
// migrating their contents. A nil builder is ignored.
func (b *Broker) SetBuilder(bld apis.Builder) error {
	if bld == nil {
		return nil
	}

	b.buildMu.Lock()
	defer b.buildMu.Unlock()

	old, err := b.load("ebx.SetBuilder")
	if err != nil {
		return err
	}
	b.st.Store(build(old.cfg, bld, old))
	return nil
}

// Register installs p in the provider registry. If p defines its own
// actions they replace the namespace's set first, so a provider with an
// invalid action set is rejected before any capability becomes visible.
// A provider defining no actions leaves the set alone.
func (b *Broker) Register(p apis.Provider) ([]apis.Install, error) {
	const op = "ebx.Register"
	b.buildMu.RLock()
	defer b.buildMu.RUnlock()

	s, err := b.load(op)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ebxerrors.New(ebxerrors.KindInvalidArgument, op, "provider cannot be nil")
	}
	if d, ok := p.(apis.ActionsDefineable); ok {
		if defs := d.DefineActions(); len(defs) > 0 {
			if err := s.act.SetActions(p.Namespace(), actionSet(defs)); err != nil {
				return nil, err
			}
		}
	}
	return s.reg.Register(p)
}

// Unregister removes p's capabilities, leaving an inert root, and drops
// the actions p defines. Other actions of the namespace are kept.
func (b *Broker) Unregister(p apis.Provider) error {
	b.buildMu.RLock()
	defer b.buildMu.RUnlock()

	s, err := b.load("ebx.Unregister")
	if err != nil {
		return err
	}
	if err := s.reg.Unregister(p); err != nil {
		return err
	}
	if d, ok := p.(apis.ActionsDefineable); ok {
		if defs := d.DefineActions(); len(defs) > 0 {
			names := make([]string, 0, len(defs))
			for _, a := range defs {
				names = append(names, a.Name)
			}
			s.act.RemoveActions(p.Namespace(), names...)
		}
	}
	return nil
}

// SetActions replaces the action set of ns. See actions.Registry.SetActions.
func (b *Broker) SetActions(ns apis.Namespace, set map[string]apis.CustomAction) error {
	b.buildMu.RLock()
	defer b.buildMu.RUnlock()

	s, err := b.load("ebx.SetActions")
	if err != nil {
		return err
	}
	return s.act.SetActions(ns, set)
}

// RemoveActions removes names from the action set of ns, or all of it when
// names is empty.
func (b *Broker) RemoveActions(ns apis.Namespace, names ...string) error {
	b.buildMu.RLock()
	defer b.buildMu.RUnlock()

	s, err := b.load("ebx.RemoveActions")
	if err != nil {
		return err
	}
	s.act.RemoveActions(ns, names...)
	return nil
}

// UnregisterNamespace removes every mapping of ns. Action descriptors of
// ns are kept; use RemoveActions to drop them.
func (b *Broker) UnregisterNamespace(ns apis.Namespace) error {
	b.buildMu.RLock()
	defer b.buildMu.RUnlock()

	s, err := b.load("ebx.UnregisterNamespace")
	if err != nil {
		return err
	}
	return s.reg.UnregisterNamespace(ns)
}

// ParseReference parses ref with the parser registered for its namespace.
func (b *Broker) ParseReference(ref string) (apis.Reference, error) {
	const op = "ebx.ParseReference"
	s, err := b.load(op)
	if err != nil {
		return apis.Reference{}, err
	}
	ns, err := reference.Prefix(ref)
	if err != nil {
		return apis.Reference{}, err
	}
	p, ok := registry.Parser(s.reg, ns)
	if !ok {
		return apis.Reference{}, ebxerrors.Newf(ebxerrors.KindNotFound, op, "no provider for namespace %q", ns)
	}
	return p.ParseReference(ref)
}

// ExecuteAction resolves the action capability of ref's namespace and
// dispatches action to it. See dispatch.Dispatcher.Execute for outcomes.
func (b *Broker) ExecuteAction(ctx context.Context, ref apis.Reference, action string, params map[string]any, out io.Writer) (*dispatch.Result, error) {
	const op = "ebx.ExecuteAction"
	s, err := b.load(op)
	if err != nil {
		return nil, err
	}
	if ref.IsZero() {
		return nil, ebxerrors.New(ebxerrors.KindInvalidArgument, op, "reference cannot be empty")
	}
	p, ok := s.reg.Lookup(ref.Namespace, apis.CapActionsExecutable)
	if !ok {
		if _, ok := s.reg.LookupRoot(ref.Namespace); ok {
			return nil, ebxerrors.Newf(ebxerrors.KindUnsupported, op,
				"namespace %q does not execute custom actions", ref.Namespace).WithContext("action", action)
		}
		return nil, ebxerrors.Newf(ebxerrors.KindNotFound, op, "no provider for namespace %q", ref.Namespace)
	}
	return s.dsp.Execute(ctx, p, ref, action, params, out)
}

// Shutdown clears both registries and stops the broker. Later calls to
// mutating or dispatching methods fail with KindUnavailable. Shutdown is
// idempotent.
func (b *Broker) Shutdown(ctx context.Context) error {
	b.buildMu.Lock()
	defer b.buildMu.Unlock()

	old := b.st.Load()
	if old.closed {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	old.reg.Reset()
	old.act.Reset()

	next := *old
	next.closed = true
	b.st.Store(&next)

	old.cfg.Log().Info("broker shut down")
	return nil
}

// actionSet keys defs by name. Later duplicates win.
func actionSet(defs []apis.CustomAction) map[string]apis.CustomAction {
	out := make(map[string]apis.CustomAction, len(defs))
	for _, a := range defs {
		out[a.Name] = a
	}
	return out
}
