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

import (
	"context"
	"io"
)

// Namespace is the entity prefix a provider family serves, e.g. "session" or "site".
// A valid namespace is non-empty and contains no "/".
type Namespace string

// Capability tags an optional behavior a provider may implement.
// The set is open-ended: providers may declare custom tags via CapabilityDeclarer.
type Capability string

const (
	// CapProvider is the root capability. Every registered provider has it.
	CapProvider Capability = "provider"
	// CapCore marks the most specific root provider for a namespace.
	CapCore Capability = "core"
	// CapReferenceParser parses namespace-qualified reference strings.
	// Every registered namespace resolves one, defaulted when not supplied.
	CapReferenceParser Capability = "reference-parser"
	// CapCreatable creates new entities.
	CapCreatable Capability = "creatable"
	// CapResolvable fetches a single entity.
	CapResolvable Capability = "resolvable"
	// CapCollectionResolvable lists entities.
	CapCollectionResolvable Capability = "collection-resolvable"
	// CapUpdatable updates entities.
	CapUpdatable Capability = "updatable"
	// CapDeletable deletes entities.
	CapDeletable Capability = "deletable"
	// CapInputable declares accepted input formats.
	CapInputable Capability = "inputable"
	// CapOutputable declares produced output formats.
	CapOutputable Capability = "outputable"
	// CapBrowseSearchable supports browsing and searching.
	CapBrowseSearchable Capability = "browse-searchable"
	// CapActionsExecutable executes named custom actions.
	CapActionsExecutable Capability = "actions-executable"
	// CapActionsDefineable declares the custom actions a provider supports.
	CapActionsDefineable Capability = "actions-defineable"
	// CapTaggable stores tags for entities.
	CapTaggable Capability = "taggable"
	// CapPropertyProvideable stores properties for entities.
	CapPropertyProvideable Capability = "property-provideable"
	// CapRequestInterceptor hooks before/after request handling.
	CapRequestInterceptor Capability = "request-interceptor"
	// CapDescribeable provides a human readable description of the namespace.
	CapDescribeable Capability = "describeable"
)

// Provider is the root capability: anything serving a namespace.
type Provider interface {
	// Namespace returns the entity prefix served by this provider.
	Namespace() Namespace
}

// CapabilityDeclarer lets a provider advertise capability tags beyond the
// built-in interfaces. Declared tags are added to the computed set.
type CapabilityDeclarer interface {
	Provider
	Capabilities() []Capability
}

// CoreProvider is the most specific root: it can answer whether an entity exists.
type CoreProvider interface {
	Provider
	EntityExists(ctx context.Context, id string) bool
}

// ReferenceParser turns a reference string into a structured Reference.
type ReferenceParser interface {
	Provider
	ParseReference(ref string) (Reference, error)
}

// Creatable creates an entity and returns its new id.
type Creatable interface {
	Provider
	CreateEntity(ctx context.Context, ref Reference, entity any, params map[string]any) (string, error)
}

// Resolvable fetches the entity named by ref.
type Resolvable interface {
	Provider
	GetEntity(ctx context.Context, ref Reference) (any, error)
}

// CollectionResolvable lists entities under a namespace.
type CollectionResolvable interface {
	Provider
	GetEntities(ctx context.Context, ref Reference, search Search) ([]any, error)
}

// Updatable updates the entity named by ref.
type Updatable interface {
	Provider
	UpdateEntity(ctx context.Context, ref Reference, entity any, params map[string]any) error
}

// Deletable deletes the entity named by ref.
type Deletable interface {
	Provider
	DeleteEntity(ctx context.Context, ref Reference, params map[string]any) error
}

// Inputable declares the formats a provider accepts.
type Inputable interface {
	Provider
	HandledInputFormats() []string
}

// Outputable declares the formats a provider produces.
type Outputable interface {
	Provider
	HandledOutputFormats() []string
}

// BrowseSearchable returns browse results for a search.
type BrowseSearchable interface {
	Provider
	BrowseEntities(ctx context.Context, search Search, userRef, associatedRef string, params map[string]any) ([]EntityData, error)
}

// ActionsExecutable executes named custom actions against a reference.
// Implementations return ErrActionNotHandled for action names they do not know.
type ActionsExecutable interface {
	Provider
	ExecuteAction(ctx context.Context, ref Reference, action string, params map[string]any, out io.Writer) (*ActionReturn, error)
}

// ActionsDefineable declares the custom actions a provider supports.
type ActionsDefineable interface {
	Provider
	DefineActions() []CustomAction
}

// Taggable delegates tag storage for entity references.
type Taggable interface {
	Provider
	TagStore() TagStore
}

// PropertyProvideable delegates property storage for entity references.
type PropertyProvideable interface {
	Provider
	PropertyStore() PropertyStore
}

// RequestInterceptor is called around request handling for its namespace.
type RequestInterceptor interface {
	Provider
	Before(ctx context.Context, ref Reference) error
	After(ctx context.Context, ref Reference)
}

// Describeable describes a namespace for documentation output.
type Describeable interface {
	Provider
	Description() string
}

// Search is a minimal search request passed through to providers.
type Search struct {
	Restrictions map[string]any
	Order        []string
	Start        int
	Limit        int
}

// EntityData is a browse result row.
type EntityData struct {
	Reference    Reference
	DisplayTitle string
	Data         any
	Properties   map[string]any
}

// TagStore is the persistence collaborator behind Taggable.
// Keys are entity reference strings.
type TagStore interface {
	Tags(ctx context.Context, ref string) ([]string, error)
	AddTags(ctx context.Context, ref string, tags ...string) error
	SetTags(ctx context.Context, ref string, tags ...string) error
	RemoveTags(ctx context.Context, ref string, tags ...string) error
}

// PropertyStore is the persistence collaborator behind PropertyProvideable.
type PropertyStore interface {
	Property(ctx context.Context, ref, name string) (string, bool, error)
	Properties(ctx context.Context, ref string) (map[string]string, error)
	SetProperty(ctx context.Context, ref, name, value string) error
	DeleteProperties(ctx context.Context, ref, name string) (int, error)
}
