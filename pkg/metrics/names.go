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

// This file exports metric name constants for dashboards and alert rules
// that query riaudit metrics programmatically.
//
// For metric label names, see the exported label constants in labels.go.
//
// Example usage:
//
//	query := fmt.Sprintf("sum(%s) > 0", metrics.MetricUnusedReservations)

// Reconciliation result metrics
const (
	// MetricUnusedReservations is the number of reserved instances in a
	// bucket without a matching running instance.
	// Type: Gauge
	// Labels: region, instance_type, zone
	MetricUnusedReservations = "riaudit_unused_reservations"

	// MetricUncoveredInstances is the number of running on-demand instances in
	// a bucket without a matching reservation.
	// Type: Gauge
	// Labels: region, instance_type, zone
	MetricUncoveredInstances = "riaudit_uncovered_instances"

	// MetricRunningInstancesTotal is the adjusted running total of the report.
	// Type: Gauge
	// Labels: region
	MetricRunningInstancesTotal = "riaudit_running_instances_total"

	// MetricReservedInstancesTotal is the adjusted reservation total of the report.
	// Type: Gauge
	// Labels: region
	MetricReservedInstancesTotal = "riaudit_reserved_instances_total"

	// MetricIgnoreOvershoot is how far ignore rules drove a bucket below zero.
	// Only buckets with an overshoot are present.
	// Type: Gauge
	// Labels: region, side, instance_type, zone
	MetricIgnoreOvershoot = "riaudit_ignore_overshoot"
)

// Inventory metrics
const (
	// MetricRunningInstancesByFamily counts eligible running instances by
	// instance family, before ignore rules.
	// Type: Gauge
	// Labels: region, instance_family
	MetricRunningInstancesByFamily = "riaudit_running_instances_by_family"

	// MetricReservedInstancesByFamily counts active reserved instances by
	// instance family, before ignore rules.
	// Type: Gauge
	// Labels: region, instance_family
	MetricReservedInstancesByFamily = "riaudit_reserved_instances_by_family"
)

// Run metrics
const (
	// MetricLastRunSuccess is 1 if the last audit completed, 0 if it failed.
	// Type: Gauge
	// Labels: region
	MetricLastRunSuccess = "riaudit_last_run_success"

	// MetricLastRunTimestamp is the Unix time the last audit finished.
	// Type: Gauge
	// Labels: region
	MetricLastRunTimestamp = "riaudit_last_run_timestamp_seconds"

	// MetricRunDuration is the wall time of the last audit.
	// Type: Gauge
	// Labels: region
	MetricRunDuration = "riaudit_run_duration_seconds"
)
