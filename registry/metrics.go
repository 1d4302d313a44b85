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

package registry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultFresh    = "fresh"
	resultReplaced = "replaced"
)

var (
	installsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ebx_registry_installs_total",
			Help: "Total number of capability mappings installed, by whether an existing mapping was replaced",
		},
		[]string{"result"},
	)

	removalsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ebx_registry_removals_total",
			Help: "Total number of capability mappings removed",
		},
	)

	publishesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ebx_registry_publishes_total",
			Help: "Total number of registry snapshots published",
		},
	)
)
