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

import "errors"

// ErrActionNotHandled is returned by ActionsExecutable implementations for
// action names they do not recognize.
var ErrActionNotHandled = errors.New("ebx(apis): action not handled")

// View is the default response shape of a custom action.
type View string

const (
	// ViewShow renders a single entity. This is the default.
	ViewShow View = "show"
	// ViewList renders a collection.
	ViewList View = "list"
	// ViewNew renders a creation result.
	ViewNew View = "new"
	// ViewEdit renders an update result.
	ViewEdit View = "edit"
	// ViewDelete renders a deletion result.
	ViewDelete View = "delete"
)

// CustomAction describes a named, provider-defined operation on a namespace.
// The descriptor shapes responses; it does not authorize anything.
type CustomAction struct {
	// Name is the case-sensitive action name.
	Name string `json:"name" yaml:"name" validate:"required,excludesall=/"`
	// Namespace is filled in by the action registry.
	Namespace Namespace `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	// View is the default response shape. Empty means ViewShow.
	View View `json:"view,omitempty" yaml:"view,omitempty" validate:"omitempty,oneof=show list new edit delete"`
}

// ActionReturn is what an action execution hands back to the dispatcher.
// A nil *ActionReturn, or one with nil Data, means "no further content";
// Format and Headers only describe Data and are dropped without it.
type ActionReturn struct {
	// Data is the replacement entity payload to serialize.
	Data any
	// Format is the encoding the provider prefers for Data, if any.
	Format string
	// Headers are response headers suggested by the provider.
	Headers map[string]string
}

// ActionRegistry maps (namespace, action name) to a CustomAction.
type ActionRegistry interface {
	// SetActions replaces every action of ns. All-or-nothing.
	SetActions(ns Namespace, actions map[string]CustomAction) error
	// GetAction returns the descriptor if present.
	GetAction(ns Namespace, name string) (CustomAction, bool)
	// Actions returns a copy of all actions of ns.
	Actions(ns Namespace) map[string]CustomAction
	// Namespaces returns the sorted namespaces that have actions.
	Namespaces() []Namespace
	// RemoveActions removes the named actions of ns, or all of them when
	// names is empty. Idempotent.
	RemoveActions(ns Namespace, names ...string)
	// Reset clears every namespace.
	Reset()
}
