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

// Metric label names.
const (
	LabelRegion         = "region"
	LabelInstanceType   = "instance_type"
	LabelInstanceFamily = "instance_family"

	// LabelZone carries the adjusted zone label of a bucket, including the
	// _vpc and _windows suffixes.
	LabelZone = "zone"

	// LabelSide is "running" or "reserved" on ignore rule metrics.
	LabelSide = "side"
)

// Values of LabelSide.
const (
	SideRunning  = "running"
	SideReserved = "reserved"
)
