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

package reference

import (
	"dirpx.dev/ebx/apis"
	ebxerrors "dirpx.dev/ebx/errors"
)

// DefaultParser is the placeholder installed under apis.CapReferenceParser
// for namespaces whose providers do not parse references themselves.
// It applies the standard "/ns/id/segments" grammar.
type DefaultParser struct {
	ns apis.Namespace
}

// Ensure DefaultParser implements apis.ReferenceParser.
var _ apis.ReferenceParser = DefaultParser{}

// NewDefaultParser returns the default parser for ns.
func NewDefaultParser(ns apis.Namespace) DefaultParser {
	return DefaultParser{ns: ns}
}

// Namespace implements apis.Provider.
func (p DefaultParser) Namespace() apis.Namespace { return p.ns }

// ParseReference parses ref and checks that it belongs to the parser's namespace.
func (p DefaultParser) ParseReference(ref string) (apis.Reference, error) {
	r, err := Parse(ref)
	if err != nil {
		return apis.Reference{}, err
	}
	if r.Namespace != p.ns {
		return apis.Reference{}, ebxerrors.Newf(ebxerrors.KindInvalidArgument, "reference.ParseReference",
			"reference %q does not belong to namespace %q", ref, p.ns)
	}
	return r, nil
}

// IsDefault reports whether p is a DefaultParser.
func IsDefault(p apis.Provider) bool {
	_, ok := p.(DefaultParser)
	return ok
}
