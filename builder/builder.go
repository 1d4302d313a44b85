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

package builder

import (
	"dirpx.dev/ebx/actions"
	"dirpx.dev/ebx/apis"
	"dirpx.dev/ebx/registry"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds a new provider registry for cfg. If prev is non-nil,
// its mappings are copied verbatim into the new registry.
func (b *builder) BuildRegistry(cfg apis.Config, prev apis.Registry) apis.Registry {
	nreg := registry.New(cfg)
	if prev != nil {
		nreg.Seed(prev.Entries())
	}
	return nreg
}

// BuildActionRegistry builds a new action registry for cfg. If prev is
// non-nil, each of its actions is re-validated under cfg; actions that no
// longer pass (for example because the name became reserved) are dropped
// and logged, the rest of their namespace is kept.
func (b *builder) BuildActionRegistry(cfg apis.Config, prev apis.ActionRegistry) apis.ActionRegistry {
	nreg := actions.New(cfg)
	if prev == nil {
		return nreg
	}
	for _, ns := range prev.Namespaces() {
		set := prev.Actions(ns)
		if err := nreg.SetActions(ns, set); err == nil {
			continue
		}
		kept := make(map[string]apis.CustomAction, len(set))
		for name, a := range set {
			if err := nreg.SetActions(ns, map[string]apis.CustomAction{name: a}); err != nil {
				cfg.Log().Warn("dropping action that fails validation", "namespace", ns, "action", name, "error", err)
				continue
			}
			kept[name] = a
		}
		// kept is valid action by action; an empty set clears ns
		_ = nreg.SetActions(ns, kept)
	}
	return nreg
}
