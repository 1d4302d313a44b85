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

// Package ebx is a capability-indexed entity provider broker.
//
// Providers own a namespace (the entity prefix, such as "site" in
// "/site/123") and implement any subset of the capability interfaces
// declared in package apis. The broker indexes every provider under
// (namespace, capability) pairs so request handling code can ask "who
// resolves entities of this namespace?" or "who executes custom actions
// here?" without knowing provider types.
//
// # Design
//
// A Broker holds four collaborators inside one immutable snapshot:
//
//   - Config: reserved action names, extra capability matchers and the
//     structured logger.
//
//   - Registry: the (namespace, capability) -> provider map. Writers
//     serialize on a mutex and publish a full copy through an atomic
//     pointer; lookups never lock and see either all or none of one
//     Register call.
//
//   - ActionRegistry: custom action descriptors per namespace. Descriptors
//     shape responses; they never authorize a call.
//
//   - Dispatcher: runs one named action on one provider and normalizes
//     the result into "no content" or "replacement data".
//
// A Builder constructs the registries and may migrate state from the
// previous ones, so Reconfigure and SetBuilder keep every registration.
//
// # Lifecycle
//
//	b := ebx.New(config.WithLogger(logger))
//	defer b.Shutdown(ctx)
//
//	if _, err := b.Register(siteProvider); err != nil { ... }
//	ref, err := b.ParseReference("/site/123")
//	res, err := b.ExecuteAction(ctx, ref, "archive", params, w)
//
// Unregistering a provider removes its capabilities but leaves an inert
// root behind, so the namespace keeps resolving until UnregisterNamespace.
// After Shutdown every mutating or dispatching call fails with
// errors.KindUnavailable.
//
// # Errors
//
// Failures are *errors.Error values tagged with a Kind; switch on
// errors.KindOf(err). Errors raised by providers pass through unchanged.
package ebx
