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

// IgnoreWarning reports a bucket driven below zero by ignore rules, meaning
// the rules declare more discrepancy than was observed.
type IgnoreWarning struct {
	Key BucketKey

	// Declared is the total count of all rules for the bucket.
	Declared int

	// Observed is the bucket's value before adjustment.
	Observed int
}

// Overshoot returns how far the adjusted bucket fell below zero.
func (w IgnoreWarning) Overshoot() int {
	return w.Declared - w.Observed
}

// ApplyIgnores subtracts rules from a copy of agg. Rules for buckets absent
// from agg are skipped and never create entries. Results are not clamped;
// each bucket that ends up negative is reported once in the warnings, in
// rule order.
func ApplyIgnores(agg AggregateCount, rules []IgnoreRule) (AggregateCount, []IgnoreWarning) {
	out := agg.Clone()
	declared := make(map[BucketKey]int)
	var order []BucketKey

	for _, rule := range rules {
		k := rule.Key()
		if _, ok := out[k]; !ok {
			continue
		}
		if _, seen := declared[k]; !seen {
			order = append(order, k)
		}
		declared[k] += rule.Count
		out[k] -= rule.Count
	}

	var warnings []IgnoreWarning
	for _, k := range order {
		if out[k] < 0 {
			warnings = append(warnings, IgnoreWarning{Key: k, Declared: declared[k], Observed: agg[k]})
		}
	}
	return out, warnings
}
