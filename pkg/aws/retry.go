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

package aws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
)

// RetryConfig configures retry behavior for inventory API calls.
type RetryConfig struct {
	// MaxRetries is the maximum number of attempts (default: 3)
	MaxRetries int

	// InitialDelay is the initial delay between retries (default: 1s)
	InitialDelay time.Duration

	// MaxDelay is the maximum delay between retries (default: 10s)
	// Delays are capped at this value even with exponential backoff
	MaxDelay time.Duration

	// Multiplier is the backoff multiplier (default: 2.0 for exponential backoff)
	Multiplier float64
}

// DefaultRetryConfig returns the defaults used for EC2 and STS calls.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	}
}

// RetryWithBackoff executes an operation with exponential backoff retry logic.
// It absorbs transient failures such as throttling and network blips; the
// audit core never retries on its own.
//
// The operation is retried up to config.MaxRetries times. Context cancellation
// stops retrying immediately, and an operation error that is itself a context
// error is returned without further attempts.
//
// Example usage:
//
//	err := RetryWithBackoff(ctx, DefaultRetryConfig(), log, "DescribeInstances", func() error {
//	    page, err = paginator.NextPage(ctx)
//	    return err
//	})
func RetryWithBackoff(
	ctx context.Context,
	config RetryConfig,
	log logr.Logger,
	operationName string,
	operation func() error,
) error {
	if config.MaxRetries < 1 {
		config.MaxRetries = 1
	}
	retryDelay := config.InitialDelay

	for attempt := 1; attempt <= config.MaxRetries; attempt++ {
		err := operation()
		if err == nil {
			if attempt > 1 {
				log.Info("operation succeeded after retries",
					"operation", operationName,
					"attempts", attempt)
			}
			return nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		log.V(1).Info("operation failed",
			"operation", operationName,
			"attempt", attempt,
			"max_retries", config.MaxRetries,
			"next_retry_delay", retryDelay,
			"error", err.Error())

		if attempt == config.MaxRetries {
			return fmt.Errorf("%s failed after %d attempts: %w", operationName, config.MaxRetries, err)
		}

		select {
		case <-time.After(retryDelay):
			retryDelay = time.Duration(float64(retryDelay) * config.Multiplier)
			if retryDelay > config.MaxDelay {
				retryDelay = config.MaxDelay
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	// Unreachable: the loop always returns on its last attempt.
	return fmt.Errorf("%s failed after %d attempts", operationName, config.MaxRetries)
}
