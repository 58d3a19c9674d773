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
	"strings"

	"github.com/nextdoor/riaudit/pkg/aws"
	"github.com/nextdoor/riaudit/pkg/reconcile"
)

// UpdateInventory sets the per-family inventory counts. Only records that
// take part in reconciliation are counted: running on-demand instances and
// active reservations (weighted by their instance count).
func (m *Metrics) UpdateInventory(instances []aws.Instance, ris []aws.ReservedInstance) {
	m.RunningInstancesByFamily.Reset()
	m.ReservedInstancesByFamily.Reset()

	running := make(map[string]int)
	for _, inst := range instances {
		if !reconcile.InstanceEligible(inst) {
			continue
		}
		running[extractInstanceFamily(inst.InstanceType)]++
	}

	reserved := make(map[string]int32)
	for _, ri := range ris {
		if !reconcile.ReservationEligible(ri) {
			continue
		}
		reserved[extractInstanceFamily(ri.InstanceType)] += ri.InstanceCount
	}

	for family, n := range running {
		m.RunningInstancesByFamily.WithLabelValues(family).Set(float64(n))
	}
	for family, n := range reserved {
		m.ReservedInstancesByFamily.WithLabelValues(family).Set(float64(n))
	}
}

// extractInstanceFamily extracts the instance family from an instance type.
// Examples:
//   - "m5.xlarge" -> "m5"
//   - "r5d.4xlarge" -> "r5d"
//   - "t3" -> "t3" (handles edge cases)
func extractInstanceFamily(instanceType string) string {
	parts := strings.SplitN(instanceType, ".", 2)
	return parts[0]
}
