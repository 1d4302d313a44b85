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

package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeError    = "error"
	outcomeRejected = "rejected"
)

var (
	dispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ebx_dispatch_total",
			Help: "Total number of custom action dispatches by outcome",
		},
		[]string{"outcome"},
	)

	dispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ebx_dispatch_duration_seconds",
			Help:    "Duration of custom action execution in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)
)

func observe(outcome string, start time.Time) {
	dispatchTotal.WithLabelValues(outcome).Inc()
	dispatchDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}
