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

// Package dispatch executes named custom actions against a resolved provider.
//
// One call runs four steps: resolve the provider's action capability,
// look up the descriptor for response shaping, execute, and normalize the
// provider's return into an Outcome. The dispatcher adds no retries,
// ordering or timeouts; it hands ctx to the provider untouched.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dirpx.dev/ebx/apis"
	ebxerrors "dirpx.dev/ebx/errors"
)

// Outcome is the normalized result shape of a dispatched action.
type Outcome string

const (
	// OutcomeNoContent means the provider produced no replacement data.
	OutcomeNoContent Outcome = "no-content"
	// OutcomeReplacement means the provider returned replacement data.
	OutcomeReplacement Outcome = "replacement"
)

// Result wraps replacement data returned by a provider.
type Result struct {
	Outcome Outcome
	// Data is the replacement entity.
	Data any
	// Format is the provider-chosen encoding, empty for the caller's default.
	Format  string
	Headers map[string]string
	// View is the response shape from the action descriptor, ViewShow when
	// no descriptor was registered.
	View   apis.View
	Action string
	// InvocationID identifies this call in logs.
	InvocationID string
}

// Dispatcher executes custom actions.
type Dispatcher struct {
	actions apis.ActionRegistry
	log     *slog.Logger
}

// New constructs a Dispatcher reading descriptors from actions.
func New(actions apis.ActionRegistry, cfg apis.Config) *Dispatcher {
	return &Dispatcher{
		actions: actions,
		log:     cfg.Log().With("component", "dispatch"),
	}
}

// Execute runs action on p for ref, writing any streamed output to out.
//
// A nil return means the action completed with no further content. Invalid
// input fails with KindInvalidArgument; a provider without the action
// capability, or one returning apis.ErrActionNotHandled, fails with
// KindUnsupported. Any other provider error is returned unchanged.
func (d *Dispatcher) Execute(ctx context.Context, p apis.Provider, ref apis.Reference, action string, params map[string]any, out io.Writer) (*Result, error) {
	const op = "dispatch.Execute"
	start := time.Now()

	if p == nil {
		return nil, d.reject(ebxerrors.New(ebxerrors.KindInvalidArgument, op, "provider cannot be nil"))
	}
	if ref.IsZero() {
		return nil, d.reject(ebxerrors.New(ebxerrors.KindInvalidArgument, op, "reference cannot be empty"))
	}
	if action == "" {
		return nil, d.reject(ebxerrors.New(ebxerrors.KindInvalidArgument, op, "action name cannot be empty"))
	}
	ex, ok := p.(apis.ActionsExecutable)
	if !ok {
		return nil, d.reject(ebxerrors.Newf(ebxerrors.KindUnsupported, op,
			"namespace %q does not execute custom actions", ref.Namespace).WithContext("action", action))
	}

	view := apis.ViewShow
	if d.actions != nil {
		if desc, ok := d.actions.GetAction(ref.Namespace, action); ok && desc.View != "" {
			view = desc.View
		}
	}

	id := uuid.NewString()
	log := d.log.With("invocation", id, "namespace", ref.Namespace, "action", action)
	log.Debug("executing action", "reference", ref.String())

	ret, err := ex.ExecuteAction(ctx, ref, action, params, out)
	if err != nil {
		if errors.Is(err, apis.ErrActionNotHandled) {
			err = ebxerrors.Wrap(ebxerrors.KindUnsupported, op,
				fmt.Sprintf("action %q is not supported by namespace %q", action, ref.Namespace), err)
		}
		observe(outcomeError, start)
		log.Debug("action failed", "error", err, "kind", ebxerrors.KindOf(err))
		return nil, err
	}

	if ret == nil || ret.Data == nil {
		observe(string(OutcomeNoContent), start)
		log.Debug("action completed", "outcome", OutcomeNoContent)
		return nil, nil
	}

	observe(string(OutcomeReplacement), start)
	log.Debug("action completed", "outcome", OutcomeReplacement, "format", ret.Format)
	return &Result{
		Outcome:      OutcomeReplacement,
		Data:         ret.Data,
		Format:       ret.Format,
		Headers:      ret.Headers,
		View:         view,
		Action:       action,
		InvocationID: id,
	}, nil
}

// reject counts a call refused before the provider ran.
func (d *Dispatcher) reject(err *ebxerrors.Error) error {
	dispatchTotal.WithLabelValues(outcomeRejected).Inc()
	d.log.Debug("action rejected", "error", err)
	return err
}
