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

// Package reference parses namespace-qualified entity references and
// provides the default parser installed for namespaces that register none.
package reference

import (
	"strings"

	"dirpx.dev/ebx/apis"
	ebxerrors "dirpx.dev/ebx/errors"
)

// Separator splits reference segments.
const Separator = "/"

// ValidateNamespace checks that ns is non-empty and contains no separator.
func ValidateNamespace(ns apis.Namespace) error {
	if ns == "" {
		return ebxerrors.New(ebxerrors.KindInvalidArgument, "reference.ValidateNamespace", "namespace cannot be empty")
	}
	if strings.Contains(string(ns), Separator) {
		return ebxerrors.Newf(ebxerrors.KindInvalidArgument, "reference.ValidateNamespace",
			"namespace %q cannot contain %q", ns, Separator)
	}
	return nil
}

// Prefix extracts the namespace from a reference string such as "/site/123".
func Prefix(ref string) (apis.Namespace, error) {
	s, err := trim(ref)
	if err != nil {
		return "", err
	}
	ns, _, _ := strings.Cut(s, Separator)
	return apis.Namespace(ns), nil
}

// Parse splits "/ns[/id[/segment...]]" into a Reference.
func Parse(ref string) (apis.Reference, error) {
	s, err := trim(ref)
	if err != nil {
		return apis.Reference{}, err
	}
	parts := strings.Split(s, Separator)
	for i, p := range parts {
		if p == "" {
			return apis.Reference{}, ebxerrors.Newf(ebxerrors.KindInvalidArgument, "reference.Parse",
				"reference %q has an empty segment at position %d", ref, i)
		}
	}
	out := apis.Reference{Namespace: apis.Namespace(parts[0])}
	if len(parts) > 1 {
		out.ID = parts[1]
	}
	if len(parts) > 2 {
		out.Segments = parts[2:]
	}
	return out, nil
}

// New builds a Reference and validates its namespace.
func New(ns apis.Namespace, id string, segments ...string) (apis.Reference, error) {
	if err := ValidateNamespace(ns); err != nil {
		return apis.Reference{}, err
	}
	return apis.Reference{Namespace: ns, ID: id, Segments: segments}, nil
}

// trim validates the leading separator and strips leading/trailing separators.
func trim(ref string) (string, error) {
	if !strings.HasPrefix(ref, Separator) {
		return "", ebxerrors.Newf(ebxerrors.KindInvalidArgument, "reference.Parse",
			"reference %q must start with %q", ref, Separator)
	}
	s := strings.Trim(ref, Separator)
	if s == "" {
		return "", ebxerrors.Newf(ebxerrors.KindInvalidArgument, "reference.Parse",
			"reference %q has no namespace", ref)
	}
	return s, nil
}
