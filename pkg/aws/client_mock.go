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
	"sync"
)

// MockClient is a mock implementation of the Client interface for testing.
// It provides configurable responses and tracks method calls.
type MockClient struct {
	mu sync.RWMutex

	// EC2Clients maps region to MockEC2Client
	EC2Clients map[string]*MockEC2Client

	// IdentityClient is returned for every region
	IdentityClient *MockIdentityClient

	// AccountConfigs records every AccountConfig passed to EC2 or Identity
	AccountConfigs []AccountConfig

	// Errors can be set to simulate client construction failures
	EC2Error      error
	IdentityError error
}

// NewMockClient creates a new MockClient with initialized maps.
func NewMockClient() *MockClient {
	return &MockClient{
		EC2Clients:     make(map[string]*MockEC2Client),
		IdentityClient: &MockIdentityClient{},
	}
}

// EC2 returns the mock EC2Client for the account's region, creating it on first use.
func (m *MockClient) EC2(_ context.Context, accountConfig AccountConfig) (EC2Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AccountConfigs = append(m.AccountConfigs, accountConfig)
	if m.EC2Error != nil {
		return nil, m.EC2Error
	}

	client, exists := m.EC2Clients[accountConfig.Region]
	if !exists {
		client = NewMockEC2Client()
		m.EC2Clients[accountConfig.Region] = client
	}
	return client, nil
}

// Identity returns the shared MockIdentityClient.
func (m *MockClient) Identity(_ context.Context, accountConfig AccountConfig) (IdentityClient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AccountConfigs = append(m.AccountConfigs, accountConfig)
	if m.IdentityError != nil {
		return nil, m.IdentityError
	}
	return m.IdentityClient, nil
}

// MockEC2Client is a mock implementation of EC2Client for testing.
type MockEC2Client struct {
	mu sync.RWMutex

	// Instances is the mock instance data
	Instances []Instance

	// ReservedInstances is the mock RI data. Returned as-is, including
	// inactive entries, so callers' own filtering can be tested.
	ReservedInstances []ReservedInstance

	// Error injection for testing error paths
	DescribeInstancesError         error
	DescribeReservedInstancesError error

	// CallCounts tracks method call counts
	DescribeInstancesCallCount         int
	DescribeReservedInstancesCallCount int
}

// NewMockEC2Client creates a new MockEC2Client.
func NewMockEC2Client() *MockEC2Client {
	return &MockEC2Client{
		Instances:         []Instance{},
		ReservedInstances: []ReservedInstance{},
	}
}

// DescribeInstances returns the mock instance data.
func (m *MockEC2Client) DescribeInstances(ctx context.Context) ([]Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DescribeInstancesCallCount++

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.DescribeInstancesError != nil {
		return nil, m.DescribeInstancesError
	}

	out := make([]Instance, len(m.Instances))
	copy(out, m.Instances)
	return out, nil
}

// DescribeReservedInstances returns the mock RI data.
func (m *MockEC2Client) DescribeReservedInstances(ctx context.Context) ([]ReservedInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DescribeReservedInstancesCallCount++

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.DescribeReservedInstancesError != nil {
		return nil, m.DescribeReservedInstancesError
	}

	out := make([]ReservedInstance, len(m.ReservedInstances))
	copy(out, m.ReservedInstances)
	return out, nil
}

// MockIdentityClient is a mock implementation of IdentityClient.
type MockIdentityClient struct {
	mu sync.Mutex

	// Identity is returned by GetCallerIdentity when Error is nil
	Identity CallerIdentity

	// Error is returned by GetCallerIdentity when set
	Error error

	// CallCount tracks GetCallerIdentity calls
	CallCount int
}

// GetCallerIdentity returns the configured identity.
func (m *MockIdentityClient) GetCallerIdentity(_ context.Context) (*CallerIdentity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount++

	if m.Error != nil {
		return nil, m.Error
	}
	identity := m.Identity
	return &identity, nil
}
