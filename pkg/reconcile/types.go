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

// Package reconcile matches running EC2 instances against Reserved Instances.
//
// Both inventories are folded into counts per bucket, where a bucket is an
// (instance type, adjusted zone) pair. Operator-declared ignore rules are then
// subtracted from each side independently, and the two sides are compared
// bucket by bucket:
//
//	delta = reserved[bucket] - running[bucket]
//
// A positive delta is an unused reservation; a negative delta is a running
// instance not covered by any reservation. Every function in this package is
// pure: inputs are never mutated and results are freshly allocated maps.
package reconcile

// BucketKey identifies one kind of capacity. Two records with equal keys are
// interchangeable for reconciliation purposes.
type BucketKey struct {
	// InstanceType is the EC2 instance type, e.g. "m5.large".
	InstanceType string

	// Zone is the adjusted zone label: the availability zone, optionally
	// followed by the VPC and platform suffixes (e.g. "us-east-1a_vpc_windows").
	Zone string
}

// String returns "type/zone", used in logs and error messages.
func (k BucketKey) String() string {
	return k.InstanceType + "/" + k.Zone
}

// AggregateCount maps buckets to counts. Values may be negative after ignore
// rules are applied.
type AggregateCount map[BucketKey]int

// Total returns the sum of all bucket values. An empty aggregate totals 0.
func (a AggregateCount) Total() int {
	total := 0
	for _, v := range a {
		total += v
	}
	return total
}

// Clone returns an independent copy of the aggregate.
func (a AggregateCount) Clone() AggregateCount {
	out := make(AggregateCount, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// IgnoreRule declares a pre-approved discrepancy of Count at a bucket.
type IgnoreRule struct {
	InstanceType string
	Zone         string
	Count        int
}

// Key returns the bucket the rule applies to.
func (r IgnoreRule) Key() BucketKey {
	return BucketKey{InstanceType: r.InstanceType, Zone: r.Zone}
}

// Entry is one bucket of a reconciliation result with its positive count.
type Entry struct {
	Key   BucketKey
	Count int
}
