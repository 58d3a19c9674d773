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

// Package report renders a reconciliation result as the plain-text audit
// report. The wording and layout are a stable contract consumed by scripts
// that grep the output, so lines are written verbatim.
package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/nextdoor/riaudit/pkg/reconcile"
)

const (
	NoUnusedMessage    = "Congratulations, you have no unused reservations"
	NoUncoveredMessage = "Congratulations, you have no unreserved instances"

	unusedLineFormat    = "UNUSED RESERVATION!\t(%d)\t%s\t%s\n"
	uncoveredLineFormat = "Instance not reserved:\t(%d)\t%s\t%s\n"
	runningTotalFormat  = "(%d) running on-demand instances\n"
	reservedTotalFormat = "(%d) reservations\n"
)

// Render writes the report for res to w. Entries are listed sorted by
// instance type, then zone.
func Render(w io.Writer, res reconcile.Result) error {
	bw := bufio.NewWriter(w)

	writeSection(bw, res.UnusedEntries(), NoUnusedMessage, unusedLineFormat)
	_, _ = fmt.Fprintln(bw)

	writeSection(bw, res.UncoveredEntries(), NoUncoveredMessage, uncoveredLineFormat)
	_, _ = fmt.Fprintln(bw)

	_, _ = fmt.Fprintf(bw, runningTotalFormat, res.TotalRunning)
	_, _ = fmt.Fprintf(bw, reservedTotalFormat, res.TotalReserved)

	// bufio.Writer keeps the first write error, so Flush reports it
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func writeSection(w io.Writer, entries []reconcile.Entry, empty, format string) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, empty)
		return
	}
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, format, e.Count, e.Key.InstanceType, e.Key.Zone)
	}
}
