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

package capability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"dirpx.dev/ebx/apis"
	"dirpx.dev/ebx/capability"
)

type root struct{}

func (root) Namespace() apis.Namespace { return "root" }

type searchable struct{ root }

func (searchable) EntityExists(context.Context, string) bool { return true }
func (searchable) HandledOutputFormats() []string            { return []string{"json"} }
func (searchable) Description() string                       { return "searchable things" }

type declaring struct{ root }

func (declaring) Capabilities() []apis.Capability {
	return []apis.Capability{"zeta", "", apis.CapProvider, "audit"}
}

func TestOf_RootOnly(t *testing.T) {
	assert.Equal(t, capability.Set{apis.CapProvider}, capability.Of(root{}))
	assert.Nil(t, capability.Of(nil))
}

func TestOf_Builtins(t *testing.T) {
	got := capability.Of(searchable{})
	assert.Equal(t, capability.Set{
		apis.CapCore, apis.CapDescribeable, apis.CapOutputable, apis.CapProvider,
	}, got)
	assert.True(t, got.Has(apis.CapOutputable))
	assert.False(t, got.Has(apis.CapInputable))
}

func TestOf_Declared(t *testing.T) {
	got := capability.Of(declaring{})
	assert.Equal(t, capability.Set{"audit", apis.CapProvider, "zeta"}, got)
}

func TestTable_Extra(t *testing.T) {
	tbl := capability.New(nil, capability.Matcher[apis.Outputable]("exporter"))
	got := tbl.Of(searchable{})
	assert.True(t, got.Has("exporter"))
	assert.True(t, got.Has(apis.CapOutputable))
	assert.False(t, tbl.Of(root{}).Has("exporter"))
}

func TestSet_Without(t *testing.T) {
	s := capability.Set{apis.CapCore, apis.CapProvider}
	assert.Equal(t, capability.Set{apis.CapCore}, s.Without(apis.CapProvider))
	assert.Equal(t, capability.Set{apis.CapCore, apis.CapProvider}, s, "receiver untouched")
}

func TestBuiltin_CoversEveryCapabilityInterface(t *testing.T) {
	seen := map[apis.Capability]bool{}
	for _, m := range capability.Builtin() {
		assert.False(t, seen[m.Capability()], "duplicate matcher for %s", m.Capability())
		seen[m.Capability()] = true
	}
	assert.Len(t, seen, 16)
	assert.False(t, seen[apis.CapProvider], "root is implicit")
}
