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
	"strings"

	"github.com/nextdoor/riaudit/pkg/aws"
)

// Zone label suffixes. When both apply the VPC suffix comes first, for
// instances and reservations alike.
const (
	SuffixVPC     = "_vpc"
	SuffixWindows = "_windows"
)

// KeyOptions carries the run configuration that affects bucket derivation.
type KeyOptions struct {
	// VPCSensitive separates VPC capacity from EC2-Classic capacity by
	// appending SuffixVPC to the zone label of VPC records.
	VPCSensitive bool
}

// InstanceKey derives the bucket of a running instance.
func InstanceKey(inst aws.Instance, opts KeyOptions) (BucketKey, error) {
	if inst.InstanceType == "" {
		return BucketKey{}, &DataAssumptionError{Kind: KindInstance, ID: inst.InstanceID, Field: "instance type"}
	}
	if inst.AvailabilityZone == "" {
		return BucketKey{}, &DataAssumptionError{Kind: KindInstance, ID: inst.InstanceID, Field: "availability zone"}
	}

	return BucketKey{
		InstanceType: inst.InstanceType,
		Zone:         zoneLabel(inst.AvailabilityZone, opts.VPCSensitive && inst.VpcID != "", isWindowsInstance(inst)),
	}, nil
}

// ReservationKey derives the bucket of a reservation. Region-scoped
// reservations carry no zone and are labeled with their region instead.
func ReservationKey(ri aws.ReservedInstance, opts KeyOptions) (BucketKey, error) {
	if ri.InstanceType == "" {
		return BucketKey{}, &DataAssumptionError{Kind: KindReservation, ID: ri.ReservedInstanceID, Field: "instance type"}
	}

	zone := ri.AvailabilityZone
	if zone == "" {
		zone = ri.Region
	}
	if zone == "" {
		return BucketKey{}, &DataAssumptionError{Kind: KindReservation, ID: ri.ReservedInstanceID, Field: "availability zone"}
	}

	vpc := strings.Contains(ri.ProductDescription, aws.ProductDescriptionVPC)
	windows := strings.Contains(ri.ProductDescription, aws.ProductDescriptionWinOS)
	return BucketKey{
		InstanceType: ri.InstanceType,
		Zone:         zoneLabel(zone, opts.VPCSensitive && vpc, windows),
	}, nil
}

// isWindowsInstance reports whether the instance runs a premium platform.
// EC2 only reports a platform for Windows, so any non-Linux value counts.
func isWindowsInstance(inst aws.Instance) bool {
	return inst.Platform != "" && inst.Platform != aws.PlatformLinux
}

func zoneLabel(zone string, vpc, windows bool) string {
	if vpc {
		zone += SuffixVPC
	}
	if windows {
		zone += SuffixWindows
	}
	return zone
}
