// Copyright 2025 Lumina Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nextdoor/riaudit/pkg/reconcile"
)

// UpdateResult replaces the per-bucket metrics with the contents of res.
// Vectors are reset first so buckets that became matched disappear instead
// of lingering with a stale value.
func (m *Metrics) UpdateResult(res reconcile.Result) {
	m.UnusedReservations.Reset()
	m.UncoveredInstances.Reset()

	for k, n := range res.Unused {
		m.UnusedReservations.With(bucketLabels(k)).Set(float64(n))
	}
	for k, n := range res.Uncovered {
		m.UncoveredInstances.With(bucketLabels(k)).Set(float64(n))
	}

	m.RunningInstancesTotal.Set(float64(res.TotalRunning))
	m.ReservedInstancesTotal.Set(float64(res.TotalReserved))
}

// UpdateIgnoreOvershoot replaces the overshoot metrics with the warnings of
// both sides.
func (m *Metrics) UpdateIgnoreOvershoot(running, reserved []reconcile.IgnoreWarning) {
	m.IgnoreOvershoot.Reset()
	m.setOvershoot(SideRunning, running)
	m.setOvershoot(SideReserved, reserved)
}

func (m *Metrics) setOvershoot(side string, warnings []reconcile.IgnoreWarning) {
	for _, w := range warnings {
		labels := bucketLabels(w.Key)
		labels[LabelSide] = side
		m.IgnoreOvershoot.With(labels).Set(float64(w.Overshoot()))
	}
}

func bucketLabels(k reconcile.BucketKey) prometheus.Labels {
	return prometheus.Labels{
		LabelInstanceType: k.InstanceType,
		LabelZone:         k.Zone,
	}
}
