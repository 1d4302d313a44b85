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

package actions

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"dirpx.dev/ebx/apis"
	ebxerrors "dirpx.dev/ebx/errors"
)

// File is an action descriptor file.
//
//	namespaces:
//	  site:
//	    - name: archive
//	      view: edit
//	    - name: export
type File struct {
	Namespaces map[apis.Namespace][]apis.CustomAction `json:"namespaces" yaml:"namespaces" jsonschema:"required,description=Custom actions keyed by namespace"`
}

// LoadFile reads and parses the descriptor file at path.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read action file %s: %w", path, err)
	}
	f, err := ParseFile(data)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ParseFile parses descriptor YAML. Unknown fields are rejected.
func ParseFile(data []byte) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, ebxerrors.Wrap(ebxerrors.KindInvalidArgument, "actions.ParseFile", "invalid YAML", err)
	}
	return f, nil
}

// Sets converts f into per-namespace action maps. Duplicate names within a
// namespace are rejected.
func (f File) Sets() (map[apis.Namespace]map[string]apis.CustomAction, error) {
	out := make(map[apis.Namespace]map[string]apis.CustomAction, len(f.Namespaces))
	for ns, list := range f.Namespaces {
		set := make(map[string]apis.CustomAction, len(list))
		for _, a := range list {
			if _, dup := set[a.Name]; dup {
				return nil, ebxerrors.Newf(ebxerrors.KindInvalidArgument, "actions.Sets",
					"action %q is declared twice", a.Name).WithContext("namespace", ns)
			}
			set[a.Name] = a
		}
		out[ns] = set
	}
	return out, nil
}

// Apply installs every namespace of f. All namespaces are validated first;
// nothing is installed unless all of them pass.
func (r *Registry) Apply(f File) error {
	sets, err := f.Sets()
	if err != nil {
		return err
	}
	namespaces := slices.Sorted(maps.Keys(sets))
	ready := make(map[apis.Namespace]map[string]apis.CustomAction, len(sets))
	for _, ns := range namespaces {
		set, err := r.prepare(ns, sets[ns])
		if err != nil {
			return err
		}
		ready[ns] = set
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ns := range namespaces {
		r.install(ns, ready[ns])
	}
	r.publish()

	r.log.Debug("action file applied", "namespaces", namespaces)
	return nil
}

// Schema returns the JSON schema of the descriptor file format.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
	}
	s := reflector.Reflect(&File{})
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return out, nil
}
