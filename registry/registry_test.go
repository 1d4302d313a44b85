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

package registry_test

import (
	"context"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/ebx/apis"
	"dirpx.dev/ebx/capability"
	"dirpx.dev/ebx/config"
	ebxerrors "dirpx.dev/ebx/errors"
	"dirpx.dev/ebx/reference"
	"dirpx.dev/ebx/registry"
)

// plain implements only the root capability.
type plain struct{ ns apis.Namespace }

func (p *plain) Namespace() apis.Namespace { return p.ns }

// core is a root provider that also reports existence.
type core struct{ plain }

func (c *core) EntityExists(context.Context, string) bool { return true }

// executor is a core provider with custom actions.
type executor struct{ core }

func (e *executor) ExecuteAction(context.Context, apis.Reference, string, map[string]any, io.Writer) (*apis.ActionReturn, error) {
	return nil, nil
}

// parsing brings its own reference parser.
type parsing struct{ plain }

func (p *parsing) ParseReference(string) (apis.Reference, error) {
	return apis.Reference{Namespace: p.ns, ID: "fixed"}, nil
}

// tagged declares a custom capability.
type tagged struct{ plain }

func (t *tagged) Capabilities() []apis.Capability { return []apis.Capability{"audit"} }

func newRegistry() *registry.Registry {
	return registry.New(config.DefaultConfig())
}

func TestRegister_LookupEveryCapability(t *testing.T) {
	reg := newRegistry()
	p := &executor{core{plain{"alpha"}}}

	installs, err := reg.Register(p)
	require.NoError(t, err)

	for _, c := range capability.Of(p) {
		got, ok := reg.Lookup("alpha", c)
		require.Truef(t, ok, "lookup %s", c)
		assert.Same(t, p, got)
	}
	_, ok := reg.Lookup("alpha", apis.CapDeletable)
	assert.False(t, ok)
	_, ok = reg.Lookup("beta", apis.CapProvider)
	assert.False(t, ok)

	// every capability plus the default parser, all fresh
	assert.Len(t, installs, len(capability.Of(p))+1)
	for _, in := range installs {
		assert.False(t, in.Replaced, in.Capability)
	}
}

func TestRegister_ReportsReplacement(t *testing.T) {
	reg := newRegistry()
	_, err := reg.Register(&plain{"alpha"})
	require.NoError(t, err)

	second := &core{plain{"alpha"}}
	installs, err := reg.Register(second)
	require.NoError(t, err)

	byCap := map[apis.Capability]bool{}
	for _, in := range installs {
		byCap[in.Capability] = in.Replaced
	}
	assert.True(t, byCap[apis.CapProvider])
	assert.False(t, byCap[apis.CapCore])
	_, hasParser := byCap[apis.CapReferenceParser]
	assert.False(t, hasParser, "existing default parser must not be reinstalled")

	got, ok := reg.Lookup("alpha", apis.CapProvider)
	require.True(t, ok)
	assert.Same(t, second, got)
}

func TestRegister_InvalidArguments(t *testing.T) {
	reg := newRegistry()

	_, err := reg.Register(nil)
	assert.True(t, ebxerrors.IsKind(err, ebxerrors.KindInvalidArgument))

	_, err = reg.Register(&plain{""})
	assert.ErrorIs(t, err, ebxerrors.InvalidArgument)

	_, err = reg.Register(&plain{"a/b"})
	assert.ErrorIs(t, err, ebxerrors.InvalidArgument)

	assert.Zero(t, reg.Count())
}

func TestRegister_DefaultParser(t *testing.T) {
	reg := newRegistry()
	_, err := reg.Register(&plain{"site"})
	require.NoError(t, err)

	p, ok := registry.Parser(reg, "site")
	require.True(t, ok)
	assert.True(t, reference.IsDefault(p))

	ref, err := p.ParseReference("/site/123/pages")
	require.NoError(t, err)
	assert.Equal(t, apis.Reference{Namespace: "site", ID: "123", Segments: []string{"pages"}}, ref)
}

func TestRegister_OwnParserWins(t *testing.T) {
	reg := newRegistry()
	own := &parsing{plain{"site"}}
	_, err := reg.Register(own)
	require.NoError(t, err)

	p, ok := registry.Parser(reg, "site")
	require.True(t, ok)
	assert.Same(t, own, p)

	// a later non-parsing provider keeps the existing parser
	_, err = reg.Register(&plain{"site"})
	require.NoError(t, err)
	p, ok = registry.Parser(reg, "site")
	require.True(t, ok)
	assert.Same(t, own, p)
}

func TestRegister_DeclaredCapability(t *testing.T) {
	reg := newRegistry()
	p := &tagged{plain{"alpha"}}
	_, err := reg.Register(p)
	require.NoError(t, err)

	got, ok := reg.Lookup("alpha", "audit")
	require.True(t, ok)
	assert.Same(t, p, got)
}

func TestRegister_ExtraMatcher(t *testing.T) {
	type auditor interface {
		apis.Provider
		Capabilities() []apis.Capability
	}
	reg := registry.New(config.NewConfig(config.WithCapabilities(capability.Matcher[auditor]("declaring"))))
	_, err := reg.Register(&tagged{plain{"alpha"}})
	require.NoError(t, err)

	_, ok := reg.Lookup("alpha", "declaring")
	assert.True(t, ok)
}

func TestUnregisterNamespace(t *testing.T) {
	reg := newRegistry()
	p := &executor{core{plain{"alpha"}}}
	_, err := reg.Register(p)
	require.NoError(t, err)
	_, err = reg.Register(&plain{"beta"})
	require.NoError(t, err)

	require.NoError(t, reg.UnregisterNamespace("alpha"))

	for _, c := range append(capability.Of(p), apis.CapReferenceParser) {
		_, ok := reg.Lookup("alpha", c)
		assert.Falsef(t, ok, "lookup %s after namespace removal", c)
	}
	_, ok := reg.LookupRoot("alpha")
	assert.False(t, ok)
	assert.Equal(t, []apis.Namespace{"beta"}, reg.Namespaces())

	// idempotent
	require.NoError(t, reg.UnregisterNamespace("alpha"))
	assert.ErrorIs(t, reg.UnregisterNamespace(""), ebxerrors.InvalidArgument)
}

func TestUnregister_LeavesInertRoot(t *testing.T) {
	reg := newRegistry()
	p := &executor{core{plain{"alpha"}}}
	_, err := reg.Register(p)
	require.NoError(t, err)

	require.NoError(t, reg.Unregister(p))

	root, ok := reg.LookupRoot("alpha")
	require.True(t, ok, "root must survive unregister")
	assert.True(t, registry.IsInert(root))
	assert.Equal(t, apis.Namespace("alpha"), root.Namespace())

	for _, c := range []apis.Capability{apis.CapCore, apis.CapActionsExecutable} {
		_, ok := reg.Lookup("alpha", c)
		assert.Falsef(t, ok, "lookup %s after unregister", c)
	}
	parser, ok := registry.Parser(reg, "alpha")
	require.True(t, ok)
	assert.True(t, reference.IsDefault(parser))

	assert.Contains(t, reg.Namespaces(), apis.Namespace("alpha"))

	require.NoError(t, reg.UnregisterNamespace("alpha"))
	_, ok = reg.LookupRoot("alpha")
	assert.False(t, ok)
}

func TestUnregister_ReinstallsDefaultParser(t *testing.T) {
	reg := newRegistry()
	own := &parsing{plain{"site"}}
	_, err := reg.Register(own)
	require.NoError(t, err)

	require.NoError(t, reg.Unregister(own))

	p, ok := registry.Parser(reg, "site")
	require.True(t, ok)
	assert.True(t, reference.IsDefault(p))
}

func TestUnregister_UnknownNamespaceIsNoop(t *testing.T) {
	reg := newRegistry()
	require.NoError(t, reg.Unregister(&core{plain{"ghost"}}))
	assert.Zero(t, reg.Count())
	assert.Error(t, reg.Unregister(nil))
}

func TestUnregisterCapability(t *testing.T) {
	reg := newRegistry()
	_, err := reg.Register(&executor{core{plain{"alpha"}}})
	require.NoError(t, err)

	err = reg.UnregisterCapability("alpha", apis.CapProvider)
	require.Error(t, err)
	assert.Equal(t, ebxerrors.KindInvalidArgument, ebxerrors.KindOf(err))
	_, ok := reg.LookupRoot("alpha")
	assert.True(t, ok)

	require.NoError(t, reg.UnregisterCapability("alpha", apis.CapActionsExecutable))
	_, ok = reg.Lookup("alpha", apis.CapActionsExecutable)
	assert.False(t, ok)

	require.NoError(t, reg.UnregisterCapability("alpha", apis.CapReferenceParser))
	_, ok = registry.Parser(reg, "alpha")
	assert.True(t, ok, "parser is reinstalled while the namespace has a root")

	assert.ErrorIs(t, reg.UnregisterCapability("", apis.CapCore), ebxerrors.InvalidArgument)
	assert.ErrorIs(t, reg.UnregisterCapability("alpha", ""), ebxerrors.InvalidArgument)
	require.NoError(t, reg.UnregisterCapability("nobody", apis.CapCore))
}

func TestLookupRoot_PrefersCore(t *testing.T) {
	reg := newRegistry()
	root := &plain{"alpha"}
	_, err := reg.Register(root)
	require.NoError(t, err)

	got, ok := reg.LookupRoot("alpha")
	require.True(t, ok)
	assert.Same(t, root, got)

	c := &core{plain{"alpha"}}
	_, err = reg.Register(c)
	require.NoError(t, err)
	got, ok = reg.LookupRoot("alpha")
	require.True(t, ok)
	assert.Same(t, c, got)

	got, ok = reg.LookupByReference("/alpha/7")
	require.True(t, ok)
	assert.Same(t, c, got)
	_, ok = reg.LookupByReference("alpha/7")
	assert.False(t, ok)
}

func TestAs(t *testing.T) {
	reg := newRegistry()
	p := &executor{core{plain{"alpha"}}}
	_, err := reg.Register(p)
	require.NoError(t, err)

	ex, ok := registry.As[apis.ActionsExecutable](reg, "alpha", apis.CapActionsExecutable)
	require.True(t, ok)
	assert.Same(t, p, ex)

	_, ok = registry.As[apis.Deletable](reg, "alpha", apis.CapProvider)
	assert.False(t, ok)
	_, ok = registry.As[apis.Provider](reg, "beta", apis.CapProvider)
	assert.False(t, ok)
}

func TestEntriesSnapshotSurvivesReset(t *testing.T) {
	reg := newRegistry()
	_, err := reg.Register(&plain{"b"})
	require.NoError(t, err)
	_, err = reg.Register(&plain{"a"})
	require.NoError(t, err)

	snap := reg.Entries()
	names := reg.Namespaces()
	reg.Reset()

	assert.Zero(t, reg.Count())
	assert.Empty(t, reg.Namespaces())
	require.Len(t, snap, 4)
	assert.Equal(t, apis.Namespace("a"), snap[0].Namespace)
	assert.Equal(t, apis.CapProvider, snap[0].Capability)
	assert.Equal(t, apis.CapReferenceParser, snap[1].Capability)
	assert.Equal(t, []apis.Namespace{"a", "b"}, names)

	names[0] = "mutated"
	assert.Empty(t, reg.Namespaces())
}

func TestMetrics(t *testing.T) {
	reg := newRegistry()
	before := testutil.ToFloat64(registry.PublishesTotal())

	_, err := reg.Register(&plain{"alpha"})
	require.NoError(t, err)
	require.NoError(t, reg.UnregisterNamespace("alpha"))
	require.NoError(t, reg.UnregisterNamespace("alpha"))

	assert.Equal(t, before+2, testutil.ToFloat64(registry.PublishesTotal()))
}

var _ apis.Registry = registry.New(config.DefaultConfig())
