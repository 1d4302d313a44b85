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

package registry_test

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"dirpx.dev/ebx/apis"
	"dirpx.dev/ebx/capability"
)

// TestConcurrentRegisterAndLookup verifies that readers never observe a
// namespace with only part of one provider's capabilities installed.
func TestConcurrentRegisterAndLookup(t *testing.T) {
	reg := newRegistry()

	const namespaces = 200
	writers := runtime.GOMAXPROCS(0) * 4
	readers := runtime.GOMAXPROCS(0) * 4

	ns := func(i int) apis.Namespace { return apis.Namespace(fmt.Sprintf("ns%03d", i)) }
	want := capability.Of(&executor{core{plain{"x"}}})

	var done atomic.Bool
	var wg errgroup.Group
	var rg errgroup.Group

	for w := 0; w < writers; w++ {
		wg.Go(func() error {
			for i := w; i < namespaces; i += writers {
				if _, err := reg.Register(&executor{core{plain{ns(i)}}}); err != nil {
					return err
				}
			}
			return nil
		})
	}

	for r := 0; r < readers; r++ {
		rg.Go(func() error {
			for i := 0; !done.Load(); i++ {
				n := ns(i % namespaces)
				if _, ok := reg.Lookup(n, apis.CapProvider); !ok {
					continue
				}
				// writers only add, so later snapshots keep what was seen
				for _, c := range want {
					if _, ok := reg.Lookup(n, c); !ok {
						return fmt.Errorf("namespace %s visible without %s", n, c)
					}
				}
				if _, ok := reg.Lookup(n, apis.CapReferenceParser); !ok {
					return fmt.Errorf("namespace %s visible without a parser", n)
				}
				_ = reg.Count()
				_ = reg.Namespaces()
			}
			return nil
		})
	}

	require.NoError(t, wg.Wait())
	done.Store(true)
	require.NoError(t, rg.Wait())

	assert.Len(t, reg.Namespaces(), namespaces)
	assert.Equal(t, namespaces*(len(want)+1), reg.Count())
}

// TestConcurrentUnregisterKeepsRoot hammers Register/Unregister on one
// namespace and checks that the root never disappears.
func TestConcurrentUnregisterKeepsRoot(t *testing.T) {
	reg := newRegistry()
	p := &executor{core{plain{"alpha"}}}
	_, err := reg.Register(p)
	require.NoError(t, err)

	workers := runtime.GOMAXPROCS(0) * 4
	var g errgroup.Group

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < 500; i++ {
				if (i+w)%2 == 0 {
					if _, err := reg.Register(p); err != nil {
						return err
					}
				} else if err := reg.Unregister(p); err != nil {
					return err
				}
			}
			return nil
		})
		g.Go(func() error {
			for i := 0; i < 2000; i++ {
				if _, ok := reg.LookupRoot("alpha"); !ok {
					return fmt.Errorf("root lost at iteration %d", i)
				}
				if _, ok := reg.Lookup("alpha", apis.CapReferenceParser); !ok {
					return fmt.Errorf("parser lost at iteration %d", i)
				}
			}
			return nil
		})
	}

	require.NoError(t, g.Wait())
}
