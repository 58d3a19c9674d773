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

// Package metrics provides Prometheus metrics for riaudit.
//
// riaudit is a one-shot command, so metrics are not served over HTTP. A run
// records its result into a registry which is then written out in the text
// exposition format for the node_exporter textfile collector (see
// WriteTextfile).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics of an audit run.
type Metrics struct {
	// UnusedReservations holds the surplus of each bucket with unused
	// reservations. Buckets that are matched are absent, not 0.
	// Labels: instance_type, zone
	UnusedReservations *prometheus.GaugeVec

	// UncoveredInstances holds the deficit of each bucket with running
	// instances not covered by a reservation.
	// Labels: instance_type, zone
	UncoveredInstances *prometheus.GaugeVec

	// RunningInstancesTotal and ReservedInstancesTotal mirror the summary
	// lines of the report.
	RunningInstancesTotal  prometheus.Gauge
	ReservedInstancesTotal prometheus.Gauge

	// IgnoreOvershoot flags ignore rules that declare more than was observed.
	// Labels: side, instance_type, zone
	IgnoreOvershoot *prometheus.GaugeVec

	// RunningInstancesByFamily and ReservedInstancesByFamily give an
	// inventory view independent of bucket matching.
	// Labels: instance_family
	RunningInstancesByFamily  *prometheus.GaugeVec
	ReservedInstancesByFamily *prometheus.GaugeVec

	// LastRunSuccess is 1 after a completed audit and 0 after a failed one.
	LastRunSuccess prometheus.Gauge

	// LastRunTimestamp records when the last audit finished.
	LastRunTimestamp prometheus.Gauge

	// RunDuration records how long the last audit took.
	RunDuration prometheus.Gauge
}

// NewMetrics creates and registers all metrics with reg. Every metric carries
// a constant region label so textfiles from several regions can be collected
// side by side.
//
// Example usage:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.NewMetrics(reg, "us-east-1")
//	m.UpdateResult(result)
//	_ = metrics.WriteTextfile(path, reg)
func NewMetrics(reg prometheus.Registerer, region string) *Metrics {
	m := &Metrics{
		UnusedReservations: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: MetricUnusedReservations,
			Help: "Reserved instances without a matching running instance, per bucket",
		}, []string{LabelInstanceType, LabelZone}),

		UncoveredInstances: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: MetricUncoveredInstances,
			Help: "Running on-demand instances without a matching reservation, per bucket",
		}, []string{LabelInstanceType, LabelZone}),

		RunningInstancesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricRunningInstancesTotal,
			Help: "Running on-demand instances after ignore rules",
		}),

		ReservedInstancesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricReservedInstancesTotal,
			Help: "Active reserved instances after ignore rules",
		}),

		IgnoreOvershoot: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: MetricIgnoreOvershoot,
			Help: "Amount by which ignore rules exceed the observed count of a bucket",
		}, []string{LabelSide, LabelInstanceType, LabelZone}),

		RunningInstancesByFamily: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: MetricRunningInstancesByFamily,
			Help: "Running on-demand instances by instance family",
		}, []string{LabelInstanceFamily}),

		ReservedInstancesByFamily: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: MetricReservedInstancesByFamily,
			Help: "Active reserved instances by instance family",
		}, []string{LabelInstanceFamily}),

		LastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricLastRunSuccess,
			Help: "Whether the last audit completed (1 = success, 0 = failed)",
		}),

		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricLastRunTimestamp,
			Help: "Unix timestamp of the end of the last audit",
		}),

		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricRunDuration,
			Help: "Duration of the last audit in seconds",
		}),
	}

	wrapped := prometheus.WrapRegistererWith(prometheus.Labels{LabelRegion: region}, reg)
	wrapped.MustRegister(
		m.UnusedReservations,
		m.UncoveredInstances,
		m.RunningInstancesTotal,
		m.ReservedInstancesTotal,
		m.IgnoreOvershoot,
		m.RunningInstancesByFamily,
		m.ReservedInstancesByFamily,
		m.LastRunSuccess,
		m.LastRunTimestamp,
		m.RunDuration,
	)

	return m
}

// RecordRun records the outcome of an audit that finished at finished after
// running for duration.
func (m *Metrics) RecordRun(success bool, finished time.Time, duration time.Duration) {
	if success {
		m.LastRunSuccess.Set(1)
	} else {
		m.LastRunSuccess.Set(0)
	}
	m.LastRunTimestamp.Set(float64(finished.Unix()))
	m.RunDuration.Set(duration.Seconds())
}
