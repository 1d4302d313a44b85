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

package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/ebx/apis"
	"dirpx.dev/ebx/builder"
	"dirpx.dev/ebx/config"
	"dirpx.dev/ebx/registry"
)

type rootOnly struct{ ns apis.Namespace }

func (r rootOnly) Namespace() apis.Namespace { return r.ns }

// TestBuildRegistry_Basic asserts that BuildRegistry returns a working
// registry when there is nothing to migrate.
func TestBuildRegistry_Basic(t *testing.T) {
	b := builder.New()

	reg := b.BuildRegistry(config.DefaultConfig(), nil)
	require.NotNil(t, reg)

	_, err := reg.Register(rootOnly{"alpha"})
	require.NoError(t, err)
	got, ok := reg.LookupRoot("alpha")
	require.True(t, ok)
	assert.Equal(t, rootOnly{"alpha"}, got)
}

// TestBuildRegistry_Migrates asserts that entries of prev, including inert
// roots, are carried over unchanged.
func TestBuildRegistry_Migrates(t *testing.T) {
	b := builder.New()
	prev := b.BuildRegistry(config.DefaultConfig(), nil)

	_, err := prev.Register(rootOnly{"alpha"})
	require.NoError(t, err)
	_, err = prev.Register(rootOnly{"beta"})
	require.NoError(t, err)
	require.NoError(t, prev.Unregister(rootOnly{"beta"}))

	next := b.BuildRegistry(config.DefaultConfig(), prev)
	assert.Equal(t, prev.Entries(), next.Entries())

	root, ok := next.LookupRoot("beta")
	require.True(t, ok)
	assert.True(t, registry.IsInert(root))

	// independent after migration
	require.NoError(t, next.UnregisterNamespace("alpha"))
	_, ok = prev.LookupRoot("alpha")
	assert.True(t, ok)
}

func TestBuildActionRegistry_Migrates(t *testing.T) {
	b := builder.New()
	prev := b.BuildActionRegistry(config.DefaultConfig(), nil)
	require.NoError(t, prev.SetActions("alpha", map[string]apis.CustomAction{"export": {}}))
	require.NoError(t, prev.SetActions("gamma", map[string]apis.CustomAction{"export": {}, "lock": {}}))
	require.NoError(t, prev.SetActions("beta", map[string]apis.CustomAction{"lock": {View: apis.ViewEdit}}))

	next := b.BuildActionRegistry(config.NewConfig(config.WithExtraReservedActions("export")), prev)

	_, ok := next.GetAction("alpha", "export")
	assert.False(t, ok, "newly reserved names are dropped")
	a, ok := next.GetAction("beta", "lock")
	require.True(t, ok)
	assert.Equal(t, apis.ViewEdit, a.View)
	_, ok = next.GetAction("gamma", "export")
	assert.False(t, ok)
	_, ok = next.GetAction("gamma", "lock")
	assert.True(t, ok, "valid siblings of a dropped action are kept")
	assert.Equal(t, []apis.Namespace{"beta", "gamma"}, next.Namespaces())
}
