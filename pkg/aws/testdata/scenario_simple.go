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

package testdata

import (
	"github.com/nextdoor/riaudit/pkg/aws"
	"github.com/nextdoor/riaudit/pkg/reconcile"
)

// SimpleScenarios are the minimal end-to-end cases of the matching rules:
// one bucket each, exercising matching, surplus, deficit, VPC sensitivity,
// spot exclusion and ignore rules.
func SimpleScenarios() []Scenario {
	vpcInstance := OnDemand("i-vpc-001", "m5.large", "us-east-1a")
	vpcInstance.VpcID = "vpc-0a1b2c3d"

	spotInstance := OnDemand("i-spot-001", "m5.large", "us-east-1a")
	spotInstance.Lifecycle = aws.LifecycleSpot
	spotInstance.SpotInstanceRequestID = "sir-7f3a9b2c"

	return []Scenario{
		{
			Name:              "matched",
			Description:       "One running instance exactly covered by one reservation",
			Region:            "us-east-1",
			Instances:         []aws.Instance{OnDemand("i-001", "m5.large", "us-east-1a")},
			ReservedInstances: []aws.ReservedInstance{Zonal("ri-001", "m5.large", "us-east-1a", "Linux/UNIX", 1)},
			Expected: ExpectedOutcomes{
				Unused:        map[reconcile.BucketKey]int{},
				Uncovered:     map[reconcile.BucketKey]int{},
				TotalRunning:  1,
				TotalReserved: 1,
			},
		},
		{
			Name:              "unused reservation",
			Description:       "A reservation with no running instance",
			Region:            "us-west-2",
			ReservedInstances: []aws.ReservedInstance{Zonal("ri-001", "c5.xlarge", "us-west-2b", "Linux/UNIX", 2)},
			Expected: ExpectedOutcomes{
				Unused:        map[reconcile.BucketKey]int{Key("c5.xlarge", "us-west-2b"): 2},
				Uncovered:     map[reconcile.BucketKey]int{},
				TotalReserved: 2,
			},
		},
		{
			Name:        "uncovered instance",
			Description: "A running instance with no reservation",
			Region:      "eu-west-1",
			Instances:   []aws.Instance{OnDemand("i-001", "t3.micro", "eu-west-1a")},
			Expected: ExpectedOutcomes{
				Unused:       map[reconcile.BucketKey]int{},
				Uncovered:    map[reconcile.BucketKey]int{Key("t3.micro", "eu-west-1a"): 1},
				TotalRunning: 1,
			},
		},
		{
			Name:              "vpc sensitive mismatch",
			Description:       "A VPC instance does not match a classic reservation when VPC sensitive",
			Region:            "us-east-1",
			VPCSensitive:      true,
			Instances:         []aws.Instance{vpcInstance},
			ReservedInstances: []aws.ReservedInstance{Zonal("ri-001", "m5.large", "us-east-1a", "Linux/UNIX", 1)},
			Expected: ExpectedOutcomes{
				Unused:        map[reconcile.BucketKey]int{Key("m5.large", "us-east-1a"): 1},
				Uncovered:     map[reconcile.BucketKey]int{Key("m5.large", "us-east-1a_vpc"): 1},
				TotalRunning:  1,
				TotalReserved: 1,
			},
		},
		{
			Name:        "spot excluded",
			Description: "Spot instances are never reported as uncovered",
			Region:      "us-east-1",
			Instances:   []aws.Instance{spotInstance},
			Expected: ExpectedOutcomes{
				Unused:    map[reconcile.BucketKey]int{},
				Uncovered: map[reconcile.BucketKey]int{},
			},
		},
		{
			Name:          "running ignore rule",
			Description:   "An ignore rule suppresses a known uncovered instance",
			Region:        "us-east-1",
			Instances:     []aws.Instance{OnDemand("i-001", "m5.large", "us-east-1a")},
			IgnoreRunning: []reconcile.IgnoreRule{{InstanceType: "m5.large", Zone: "us-east-1a", Count: 1}},
			Expected: ExpectedOutcomes{
				Unused:    map[reconcile.BucketKey]int{},
				Uncovered: map[reconcile.BucketKey]int{},
			},
		},
	}
}
