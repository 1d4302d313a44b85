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

import "strings"

// Reference is a structured entity identifier: namespace + id + optional segments.
// The string form is "/namespace[/id[/segment...]]".
type Reference struct {
	// Namespace is the entity prefix.
	Namespace Namespace
	// ID is the entity id within Namespace. Empty refers to the collection.
	ID string
	// Segments holds any path segments after the id.
	Segments []string
}

// IsZero reports whether r has no namespace.
func (r Reference) IsZero() bool {
	return r.Namespace == ""
}

// String renders r in its canonical "/ns/id/seg" form.
func (r Reference) String() string {
	if r.Namespace == "" {
		return ""
	}
	var b strings.Builder
	b.WriteByte('/')
	b.WriteString(string(r.Namespace))
	if r.ID != "" {
		b.WriteByte('/')
		b.WriteString(r.ID)
	}
	for _, s := range r.Segments {
		b.WriteByte('/')
		b.WriteString(s)
	}
	return b.String()
}
