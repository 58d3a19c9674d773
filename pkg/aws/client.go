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
	"time"

	"github.com/go-logr/logr"
)

// Client is the main interface for interacting with AWS services.
// It hands out EC2 and identity clients for a single account/region.
type Client interface {
	// EC2 returns an EC2Client for the specified account configuration.
	EC2(ctx context.Context, accountConfig AccountConfig) (EC2Client, error)

	// Identity returns an IdentityClient for the specified account configuration.
	Identity(ctx context.Context, accountConfig AccountConfig) (IdentityClient, error)
}

// EC2Client provides the EC2 read operations needed for RI coverage auditing.
// Both calls return the complete inventory of the client's region; pagination
// and retries are handled internally.
type EC2Client interface {
	// DescribeInstances returns every EC2 instance in the region, in any state.
	DescribeInstances(ctx context.Context) ([]Instance, error)

	// DescribeReservedInstances returns the active Reserved Instances in the region.
	DescribeReservedInstances(ctx context.Context) ([]ReservedInstance, error)
}

// IdentityClient resolves which account a set of credentials belongs to.
type IdentityClient interface {
	// GetCallerIdentity returns the account and principal for the credentials.
	GetCallerIdentity(ctx context.Context) (*CallerIdentity, error)
}

// ClientConfig configures the AWS client creation.
type ClientConfig struct {
	// MaxRetries is the maximum number of attempts for each AWS API call
	// Default: 3
	MaxRetries int

	// RetryDelay is the initial delay between retries (exponential backoff)
	// Default: 1 second
	RetryDelay time.Duration

	// MaxRetryDelay caps the backoff delay
	// Default: 10 seconds
	MaxRetryDelay time.Duration

	// Log receives retry and pagination diagnostics
	Log logr.Logger
}

// retryConfig converts the client configuration to a RetryConfig, filling defaults.
func (c ClientConfig) retryConfig() RetryConfig {
	rc := DefaultRetryConfig()
	if c.MaxRetries > 0 {
		rc.MaxRetries = c.MaxRetries
	}
	if c.RetryDelay > 0 {
		rc.InitialDelay = c.RetryDelay
	}
	if c.MaxRetryDelay > 0 {
		rc.MaxDelay = c.MaxRetryDelay
	}
	return rc
}

// NewClient creates a new AWS client with the specified configuration.
// The client handles credential selection and retries automatically.
//
// For testing, use NewMockClient instead.
func NewClient(config ClientConfig) Client {
	return NewRealClient(config)
}
