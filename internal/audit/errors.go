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

package audit

import (
	"errors"
	"fmt"

	"github.com/nextdoor/riaudit/pkg/config"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ProviderError reports an AWS call that failed after retries.
type ProviderError struct {
	// Op names the failed call, e.g. "DescribeInstances".
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ExitCode maps an audit error to a process exit code. Configuration errors
// exit with ExitUsage; provider and data errors with ExitFailure.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var cfgErr *config.Error
	if errors.As(err, &cfgErr) {
		return ExitUsage
	}
	return ExitFailure
}
