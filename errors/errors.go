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

// Package errors defines the tagged error kinds surfaced by ebx.
//
// Every failure produced by the registry, the action registry or the
// dispatcher is an *Error carrying a Kind, so callers can switch on
// KindOf(err) instead of matching concrete types. Provider-raised errors
// pass through untouched; providers may also return *Error values (for
// example KindSecurity) to be classified the same way.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a failure.
type Kind string

const (
	// KindInvalidArgument indicates malformed or missing input.
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	// KindUnsupported indicates a valid request for a capability or action
	// the resolved provider does not implement.
	KindUnsupported Kind = "UNSUPPORTED"
	// KindSecurity indicates an authorization failure raised by a provider.
	KindSecurity Kind = "SECURITY"
	// KindNotFound indicates a missing resource where absence is exceptional.
	KindNotFound Kind = "NOT_FOUND"
	// KindUnavailable indicates the service was shut down.
	KindUnavailable Kind = "UNAVAILABLE"
	// KindInternal is the classification of unrecognized errors.
	KindInternal Kind = "INTERNAL"
)

// Error is a classified failure.
type Error struct {
	// Kind classifies the failure.
	Kind Kind
	// Op names the operation, e.g. "registry.Register".
	Op string
	// Message is the human readable description.
	Message string
	// Cause is the wrapped error, if any.
	Cause error
	// Context carries extra fields for logging.
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, msg)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error with the same Kind and no message, so
// sentinel-style comparisons like errors.Is(err, errors.InvalidArgument) work.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Op == ""
}

// Kind sentinels for errors.Is.
var (
	InvalidArgument = &Error{Kind: KindInvalidArgument}
	Unsupported     = &Error{Kind: KindUnsupported}
	Security        = &Error{Kind: KindSecurity}
	NotFound        = &Error{Kind: KindNotFound}
	Unavailable     = &Error{Kind: KindUnavailable}
)

// New creates an Error.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies cause.
func Wrap(kind Kind, op, message string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Cause: cause}
}

// WithContext returns e with key=value added to its context.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any, 2)
	}
	e.Context[key] = value
	return e
}

// KindOf returns the Kind of the first *Error in err's chain,
// KindInternal for any other error, and "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
