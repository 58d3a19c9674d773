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

package reconcile

import (
	"cmp"
	"slices"

	"github.com/samber/lo"
)

// Result is the outcome of one reconciliation.
type Result struct {
	// Unused maps buckets with more reservations than running instances to
	// the surplus.
	Unused map[BucketKey]int

	// Uncovered maps buckets with more running instances than reservations
	// to the deficit.
	Uncovered map[BucketKey]int

	// TotalRunning and TotalReserved are the sums of the adjusted aggregates.
	TotalRunning  int
	TotalReserved int
}

// Reconcile compares the adjusted running and reserved aggregates. Buckets
// where both sides agree appear in neither Unused nor Uncovered.
func Reconcile(running, reserved AggregateCount) Result {
	res := Result{
		Unused:        make(map[BucketKey]int),
		Uncovered:     make(map[BucketKey]int),
		TotalRunning:  lo.Sum(lo.Values(running)),
		TotalReserved: lo.Sum(lo.Values(reserved)),
	}

	keys := lo.Uniq(append(lo.Keys(running), lo.Keys(reserved)...))
	for _, k := range keys {
		delta := reserved[k] - running[k]
		switch {
		case delta > 0:
			res.Unused[k] = delta
		case delta < 0:
			res.Uncovered[k] = -delta
		}
	}
	return res
}

// UnusedEntries returns Unused sorted by instance type, then zone.
func (r Result) UnusedEntries() []Entry {
	return sortedEntries(r.Unused)
}

// UncoveredEntries returns Uncovered sorted by instance type, then zone.
func (r Result) UncoveredEntries() []Entry {
	return sortedEntries(r.Uncovered)
}

// Clean reports whether every bucket is matched.
func (r Result) Clean() bool {
	return len(r.Unused) == 0 && len(r.Uncovered) == 0
}

func sortedEntries(m map[BucketKey]int) []Entry {
	entries := lo.MapToSlice(m, func(k BucketKey, v int) Entry {
		return Entry{Key: k, Count: v}
	})
	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Or(
			cmp.Compare(a.Key.InstanceType, b.Key.InstanceType),
			cmp.Compare(a.Key.Zone, b.Key.Zone),
		)
	})
	return entries
}
