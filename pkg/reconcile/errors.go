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

import "fmt"

// Record kinds reported by DataAssumptionError.
const (
	KindInstance    = "instance"
	KindReservation = "reservation"
)

// DataAssumptionError reports an eligible record that lacks a field the
// matching rules depend on.
type DataAssumptionError struct {
	// Kind is KindInstance or KindReservation.
	Kind string

	// ID is the instance or reservation ID, possibly empty if that is missing too.
	ID string

	// Field names the missing or invalid field.
	Field string
}

func (e *DataAssumptionError) Error() string {
	id := e.ID
	if id == "" {
		id = "<unknown>"
	}
	return fmt.Sprintf("%s %s: missing or invalid %s", e.Kind, id, e.Field)
}
