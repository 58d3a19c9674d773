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

// Package aws provides abstractions for reading EC2 inventory from AWS.
//
// This file contains pure data structure definitions with no logic.
// These types are exercised through the conversion tests and the mock
// client, so direct unit tests would provide no value.

package aws

import (
	"time"
)

// Platform constants for operating system types.
// These are normalized, lowercase values used throughout the codebase.
const (
	PlatformLinux   = "linux"
	PlatformWindows = "windows"
)

// Lifecycle constants for EC2 instance types.
const (
	LifecycleOnDemand = "on-demand"
	LifecycleSpot     = "spot"
)

// State constants used when filtering inventory.
const (
	InstanceStateRunning    = "running"
	ReservationStateActive  = "active"
	ReservationScopeZonal   = "Availability Zone"
	ReservationScopeRegion  = "Region"
	ProductDescriptionVPC   = "VPC"
	ProductDescriptionWinOS = "Windows"
)

// Credentials holds static AWS access keys.
// An empty Credentials value means "use the SDK default credential chain".
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// IsZero reports whether no static keys are set.
func (c Credentials) IsZero() bool {
	return c.AccessKeyID == "" && c.SecretAccessKey == ""
}

// AccountConfig represents configuration for accessing one AWS account/region.
type AccountConfig struct {
	// Region is the AWS region every API call is made against (e.g., "us-east-1")
	Region string

	// Credentials are optional static keys. When empty the default
	// credential chain (env vars, shared config, instance role) is used.
	Credentials Credentials

	// EndpointURL overrides the AWS endpoint. Used for LocalStack testing.
	EndpointURL string
}

// Instance represents an EC2 instance with the fields needed for RI coverage.
type Instance struct {
	// InstanceID is the EC2 instance ID (e.g., "i-abc123def456")
	InstanceID string

	// InstanceType is the instance type (e.g., "m5.xlarge")
	InstanceType string

	// AvailabilityZone is the AZ where the instance is running
	AvailabilityZone string

	// Region is the AWS region
	Region string

	// Lifecycle is either "spot" or "on-demand"
	Lifecycle string

	// State is the current instance state (e.g., "running", "stopped")
	State string

	// LaunchTime is when the instance was launched
	LaunchTime time.Time

	// AccountID is the AWS account that owns this instance
	AccountID string

	// Tags are the EC2 instance tags
	Tags map[string]string

	// VpcID is the VPC the instance is attached to. Empty for EC2-Classic.
	VpcID string

	// Platform is the OS platform ("linux" or "windows")
	Platform string

	// Tenancy indicates whether the instance runs on shared or dedicated hardware
	// Values: "default" (shared), "dedicated", "host"
	Tenancy string

	// SpotInstanceRequestID is the spot instance request ID if this is a spot instance
	SpotInstanceRequestID string
}

// ReservedInstance represents an EC2 Reserved Instance purchase.
type ReservedInstance struct {
	// ReservedInstanceID is the unique identifier
	ReservedInstanceID string

	// InstanceType is the instance type this RI covers
	InstanceType string

	// AvailabilityZone is the AZ for zonal RIs. Empty for regional RIs.
	AvailabilityZone string

	// Scope is "Availability Zone" or "Region"
	Scope string

	// Region is the AWS region
	Region string

	// InstanceCount is the number of instances this RI covers
	InstanceCount int32

	// State is the RI state (e.g., "active", "retired")
	State string

	// Start is when the RI started
	Start time.Time

	// End is when the RI expires
	End time.Time

	// OfferingClass is "standard" or "convertible"
	OfferingClass string

	// OfferingType is the payment option ("All Upfront", "Partial Upfront", "No Upfront")
	OfferingType string

	// ProductDescription is the RI product ("Linux/UNIX", "Windows (Amazon VPC)", etc.)
	ProductDescription string

	// AccountID is the AWS account that owns this RI
	AccountID string
}

// CallerIdentity is the result of an STS GetCallerIdentity call.
type CallerIdentity struct {
	// AccountID is the 12-digit account the credentials belong to
	AccountID string

	// ARN is the principal ARN
	ARN string

	// UserID is the unique principal identifier
	UserID string
}
