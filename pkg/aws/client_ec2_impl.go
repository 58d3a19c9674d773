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
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// ec2API is the subset of the EC2 SDK client used by RealEC2Client.
// Narrowing it lets tests substitute a fake without a network.
type ec2API interface {
	ec2.DescribeInstancesAPIClient
	DescribeReservedInstances(
		ctx context.Context,
		params *ec2.DescribeReservedInstancesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeReservedInstancesOutput, error)
}

// RealEC2Client is a production implementation of EC2Client that makes
// real API calls to AWS EC2 using the AWS SDK v2.
type RealEC2Client struct {
	client ec2API
	region string
	config ClientConfig
}

// NewRealEC2Client creates a new EC2 client for the account's region.
func NewRealEC2Client(awsCfg aws.Config, accountConfig AccountConfig, cfg ClientConfig) *RealEC2Client {
	ec2Opts := []func(*ec2.Options){}
	if accountConfig.EndpointURL != "" {
		// Override endpoint for LocalStack testing
		endpoint := accountConfig.EndpointURL
		ec2Opts = append(ec2Opts, func(o *ec2.Options) {
			o.BaseEndpoint = &endpoint
		})
	}

	return &RealEC2Client{
		client: ec2.NewFromConfig(awsCfg, ec2Opts...),
		region: accountConfig.Region,
		config: cfg,
	}
}

// DescribeInstances returns every EC2 instance in the client's region.
// Instances in all states are returned; eligibility filtering is left to
// the caller so the decision is visible in one place.
func (c *RealEC2Client) DescribeInstances(ctx context.Context) ([]Instance, error) {
	log := c.config.Log.WithValues("region", c.region, "operation", "DescribeInstances")
	paginator := ec2.NewDescribeInstancesPaginator(c.client, &ec2.DescribeInstancesInput{})

	instances := []Instance{}
	pages := 0
	for paginator.HasMorePages() {
		var page *ec2.DescribeInstancesOutput
		err := RetryWithBackoff(ctx, c.config.retryConfig(), log, "DescribeInstances", func() error {
			var err error
			page, err = paginator.NextPage(ctx)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to describe instances in %s: %w", c.region, err)
		}
		pages++

		for _, reservation := range page.Reservations {
			ownerID := aws.ToString(reservation.OwnerId)
			for _, inst := range reservation.Instances {
				instances = append(instances, convertInstance(inst, c.region, ownerID))
			}
		}
	}

	log.V(1).Info("described instances", "count", len(instances), "pages", pages)
	return instances, nil
}

// DescribeReservedInstances returns the active Reserved Instances in the
// client's region. The API is not paginated.
func (c *RealEC2Client) DescribeReservedInstances(ctx context.Context) ([]ReservedInstance, error) {
	log := c.config.Log.WithValues("region", c.region, "operation", "DescribeReservedInstances")
	input := &ec2.DescribeReservedInstancesInput{
		Filters: []types.Filter{
			{
				Name:   aws.String("state"),
				Values: []string{ReservationStateActive},
			},
		},
	}

	var out *ec2.DescribeReservedInstancesOutput
	err := RetryWithBackoff(ctx, c.config.retryConfig(), log, "DescribeReservedInstances", func() error {
		var err error
		out, err = c.client.DescribeReservedInstances(ctx, input)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe reserved instances in %s: %w", c.region, err)
	}

	ris := make([]ReservedInstance, 0, len(out.ReservedInstances))
	for _, ri := range out.ReservedInstances {
		ris = append(ris, convertReservedInstance(ri, c.region))
	}

	log.V(1).Info("described reserved instances", "count", len(ris))
	return ris, nil
}

// convertInstance converts an SDK instance into our Instance type.
// Nil pointers become zero values; missing required fields are detected
// later by the bucket key deriver, which can name the offending record.
func convertInstance(inst types.Instance, region, accountID string) Instance {
	result := Instance{
		InstanceID:            aws.ToString(inst.InstanceId),
		InstanceType:          string(inst.InstanceType),
		Region:                region,
		AccountID:             accountID,
		VpcID:                 aws.ToString(inst.VpcId),
		SpotInstanceRequestID: aws.ToString(inst.SpotInstanceRequestId),
		Lifecycle:             LifecycleOnDemand,
		Platform:              PlatformLinux,
	}

	if inst.Placement != nil {
		result.AvailabilityZone = aws.ToString(inst.Placement.AvailabilityZone)
		result.Tenancy = string(inst.Placement.Tenancy)
	}
	if inst.State != nil {
		result.State = string(inst.State.Name)
	}
	if inst.InstanceLifecycle == types.InstanceLifecycleTypeSpot {
		result.Lifecycle = LifecycleSpot
	}
	// EC2 only sets Platform for Windows; everything else is reported empty.
	if inst.Platform == types.PlatformValuesWindows {
		result.Platform = PlatformWindows
	}
	if inst.LaunchTime != nil {
		result.LaunchTime = *inst.LaunchTime
	}

	if len(inst.Tags) > 0 {
		result.Tags = make(map[string]string, len(inst.Tags))
		for _, tag := range inst.Tags {
			if tag.Key == nil || tag.Value == nil {
				continue
			}
			result.Tags[*tag.Key] = *tag.Value
		}
	}

	return result
}

// convertReservedInstance converts an SDK reservation into our ReservedInstance type.
func convertReservedInstance(ri types.ReservedInstances, region string) ReservedInstance {
	result := ReservedInstance{
		ReservedInstanceID: aws.ToString(ri.ReservedInstancesId),
		InstanceType:       string(ri.InstanceType),
		AvailabilityZone:   aws.ToString(ri.AvailabilityZone),
		Scope:              string(ri.Scope),
		Region:             region,
		InstanceCount:      aws.ToInt32(ri.InstanceCount),
		State:              string(ri.State),
		OfferingClass:      string(ri.OfferingClass),
		OfferingType:       string(ri.OfferingType),
		ProductDescription: string(ri.ProductDescription),
	}

	if result.Scope == "" {
		if result.AvailabilityZone != "" {
			result.Scope = ReservationScopeZonal
		} else {
			result.Scope = ReservationScopeRegion
		}
	}
	if ri.Start != nil {
		result.Start = *ri.Start
	}
	if ri.End != nil {
		result.End = *ri.End
	}

	return result
}
