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
	"github.com/nextdoor/riaudit/pkg/aws"
)

// Aggregate folds records into counts per bucket. Records rejected by
// eligible are skipped before key derivation, so a malformed ineligible
// record never fails the run. Buckets without eligible records are absent.
func Aggregate[T any](
	records []T,
	eligible func(T) bool,
	weight func(T) int,
	key func(T) (BucketKey, error),
) (AggregateCount, error) {
	agg := make(AggregateCount)
	for _, rec := range records {
		if !eligible(rec) {
			continue
		}
		k, err := key(rec)
		if err != nil {
			return nil, err
		}
		agg[k] += weight(rec)
	}
	return agg, nil
}

// InstanceEligible reports whether a running instance can be covered by a
// reservation: it must be running and must not be a spot instance.
func InstanceEligible(inst aws.Instance) bool {
	if inst.State != aws.InstanceStateRunning {
		return false
	}
	return inst.Lifecycle != aws.LifecycleSpot && inst.SpotInstanceRequestID == ""
}

// ReservationEligible reports whether a reservation is active.
func ReservationEligible(ri aws.ReservedInstance) bool {
	return ri.State == aws.ReservationStateActive
}

// AggregateInstances counts eligible instances per bucket, one per instance.
func AggregateInstances(instances []aws.Instance, opts KeyOptions) (AggregateCount, error) {
	return Aggregate(instances, InstanceEligible,
		func(aws.Instance) int { return 1 },
		func(inst aws.Instance) (BucketKey, error) { return InstanceKey(inst, opts) },
	)
}

// AggregateReservations sums the instance counts of active reservations per bucket.
func AggregateReservations(reservations []aws.ReservedInstance, opts KeyOptions) (AggregateCount, error) {
	return Aggregate(reservations, ReservationEligible,
		func(ri aws.ReservedInstance) int { return int(ri.InstanceCount) },
		func(ri aws.ReservedInstance) (BucketKey, error) {
			if ri.InstanceCount < 0 {
				return BucketKey{}, &DataAssumptionError{
					Kind: KindReservation, ID: ri.ReservedInstanceID, Field: "instance count",
				}
			}
			return ReservationKey(ri, opts)
		},
	)
}
