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

// ComplexScenario is a VPC sensitive region mixing every kind of record:
// VPC and classic capacity, Windows, spot, stopped instances, a regional
// reservation, a retired reservation and ignore rules on both sides.
//
// Adjusted buckets:
//
//	m5.large/us-west-2a_vpc          running 2  reserved 2
//	m5.large/us-west-2a_vpc_windows  running 1  reserved 1
//	c5.xlarge/us-west-2b             running 1  reserved 0
//	c5.xlarge/us-west-2              running 0  reserved 0 (1 ignored)
//	t3.micro/us-west-2c_vpc          running 2  reserved 1 (1 ignored)
//	r5.large/us-west-2c_vpc          running 0  reserved 2
var ComplexScenario = func() Scenario {
	vpc := func(inst aws.Instance) aws.Instance {
		inst.VpcID = "vpc-0f4e2d1c"
		return inst
	}

	windows := vpc(OnDemand("i-win-001", "m5.large", "us-west-2a"))
	windows.Platform = aws.PlatformWindows

	spot := vpc(OnDemand("i-spot-001", "m5.large", "us-west-2a"))
	spot.Lifecycle = aws.LifecycleSpot
	spot.SpotInstanceRequestID = "sir-0c9d8e7f"

	stopped := vpc(OnDemand("i-stopped-001", "r5.large", "us-west-2c"))
	stopped.State = "stopped"

	regional := Zonal("ri-regional-001", "c5.xlarge", "", "Linux/UNIX", 1)
	regional.Region = "us-west-2"
	regional.Scope = aws.ReservationScopeRegion

	retired := Zonal("ri-retired-001", "r5.large", "us-west-2c", "Linux/UNIX (Amazon VPC)", 4)
	retired.State = "retired"

	return Scenario{
		Name:         "mixed fleet",
		Description:  "VPC sensitive region with Windows, spot, stopped and regional records",
		Region:       "us-west-2",
		VPCSensitive: true,
		Instances: []aws.Instance{
			vpc(OnDemand("i-web-001", "m5.large", "us-west-2a")),
			vpc(OnDemand("i-web-002", "m5.large", "us-west-2a")),
			windows,
			spot,
			OnDemand("i-classic-001", "c5.xlarge", "us-west-2b"),
			stopped,
			vpc(OnDemand("i-batch-001", "t3.micro", "us-west-2c")),
			vpc(OnDemand("i-batch-002", "t3.micro", "us-west-2c")),
			vpc(OnDemand("i-batch-003", "t3.micro", "us-west-2c")),
		},
		ReservedInstances: []aws.ReservedInstance{
			Zonal("ri-web-001", "m5.large", "us-west-2a", "Linux/UNIX (Amazon VPC)", 2),
			Zonal("ri-win-001", "m5.large", "us-west-2a", "Windows (Amazon VPC)", 1),
			regional,
			Zonal("ri-batch-001", "t3.micro", "us-west-2c", "Linux/UNIX (Amazon VPC)", 1),
			Zonal("ri-db-001", "r5.large", "us-west-2c", "Linux/UNIX (Amazon VPC)", 2),
			retired,
		},
		IgnoreRunning: []reconcile.IgnoreRule{
			{InstanceType: "t3.micro", Zone: "us-west-2c_vpc", Count: 1},
		},
		IgnoreReserved: []reconcile.IgnoreRule{
			{InstanceType: "c5.xlarge", Zone: "us-west-2", Count: 1},
		},
		Expected: ExpectedOutcomes{
			Unused: map[reconcile.BucketKey]int{
				Key("r5.large", "us-west-2c_vpc"): 2,
			},
			Uncovered: map[reconcile.BucketKey]int{
				Key("c5.xlarge", "us-west-2b"):    1,
				Key("t3.micro", "us-west-2c_vpc"): 1,
			},
			TotalRunning:  6,
			TotalReserved: 6,
		},
	}
}()

// OvershootScenario declares more ignored instances than are running. The
// bucket goes negative and surfaces as unused capacity; a rule for an
// absent bucket is skipped.
var OvershootScenario = Scenario{
	Name:        "ignore overshoot",
	Description: "Ignore rules exceed the observed running count",
	Region:      "eu-central-1",
	Instances:   []aws.Instance{OnDemand("i-001", "m5.large", "eu-central-1a")},
	IgnoreRunning: []reconcile.IgnoreRule{
		{InstanceType: "m5.large", Zone: "eu-central-1a", Count: 3},
		{InstanceType: "c5.large", Zone: "eu-central-1b", Count: 1},
	},
	Expected: ExpectedOutcomes{
		Unused:       map[reconcile.BucketKey]int{Key("m5.large", "eu-central-1a"): 2},
		Uncovered:    map[reconcile.BucketKey]int{},
		TotalRunning: -2,
		RunningWarnings: []reconcile.IgnoreWarning{
			{Key: Key("m5.large", "eu-central-1a"), Declared: 3, Observed: 1},
		},
	},
}
