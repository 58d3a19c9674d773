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

// Package testdata provides inventory fixtures and end-to-end scenarios for
// testing Reserved Instance reconciliation.
//
// Each scenario is a single region snapshot (running instances plus
// reservations), optional ignore rules, and the expected reconciliation
// outcome. The same scenario can be loaded into a MockClient and run through
// any layer of the pipeline.
package testdata

import (
	"context"
	"time"

	"github.com/nextdoor/riaudit/pkg/aws"
	"github.com/nextdoor/riaudit/pkg/reconcile"
)

// Scenario represents a complete single-region test scenario.
type Scenario struct {
	Name        string
	Description string
	Region      string

	// VPCSensitive is the run's VPC matching flag.
	VPCSensitive bool

	// Inventory returned by the mock EC2 client
	Instances         []aws.Instance
	ReservedInstances []aws.ReservedInstance

	// Ignore rules for each side
	IgnoreRunning  []reconcile.IgnoreRule
	IgnoreReserved []reconcile.IgnoreRule

	// Expected outcome
	Expected ExpectedOutcomes
}

// ExpectedOutcomes defines the expected reconciliation result.
type ExpectedOutcomes struct {
	Unused        map[reconcile.BucketKey]int
	Uncovered     map[reconcile.BucketKey]int
	TotalRunning  int
	TotalReserved int

	// RunningWarnings are the ignore overshoots expected on the running side.
	RunningWarnings []reconcile.IgnoreWarning
}

// LoadScenario populates a MockClient with the inventory of a scenario.
func LoadScenario(scenario Scenario, client *aws.MockClient) {
	ec2Client, _ := client.EC2(context.Background(), aws.AccountConfig{Region: scenario.Region})
	mockEC2 := ec2Client.(*aws.MockEC2Client)

	mockEC2.Instances = append(mockEC2.Instances, scenario.Instances...)
	mockEC2.ReservedInstances = append(mockEC2.ReservedInstances, scenario.ReservedInstances...)
}

// All returns every scenario, simple ones first.
func All() []Scenario {
	return append(SimpleScenarios(), ComplexScenario, OvershootScenario)
}

// Key is a shorthand for building expected buckets.
func Key(instanceType, zone string) reconcile.BucketKey {
	return reconcile.BucketKey{InstanceType: instanceType, Zone: zone}
}

var launchTime = time.Date(2025, time.January, 15, 8, 0, 0, 0, time.UTC)

// OnDemand returns a running on-demand Linux instance.
func OnDemand(id, instanceType, zone string) aws.Instance {
	return aws.Instance{
		InstanceID:       id,
		InstanceType:     instanceType,
		AvailabilityZone: zone,
		Region:           regionOf(zone),
		State:            aws.InstanceStateRunning,
		Lifecycle:        aws.LifecycleOnDemand,
		Platform:         aws.PlatformLinux,
		Tenancy:          "default",
		LaunchTime:       launchTime,
		AccountID:        "111111111111",
	}
}

// Zonal returns an active zonal reservation.
func Zonal(id, instanceType, zone, product string, count int32) aws.ReservedInstance {
	return aws.ReservedInstance{
		ReservedInstanceID: id,
		InstanceType:       instanceType,
		AvailabilityZone:   zone,
		Scope:              aws.ReservationScopeZonal,
		Region:             regionOf(zone),
		InstanceCount:      count,
		State:              aws.ReservationStateActive,
		Start:              launchTime.AddDate(-1, 0, 0),
		End:                launchTime.AddDate(2, 0, 0),
		OfferingClass:      "standard",
		OfferingType:       "No Upfront",
		ProductDescription: product,
		AccountID:          "111111111111",
	}
}

// regionOf strips the zone letter from an availability zone name.
func regionOf(zone string) string {
	if zone == "" {
		return ""
	}
	return zone[:len(zone)-1]
}
