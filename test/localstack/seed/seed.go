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

// Package seed launches the running instances of an audit scenario into
// LocalStack so an audit can be run end to end against a real EC2 API.
//
// Example usage:
//
//	cfg, err := seed.LocalStackConfig(ctx, "http://localhost:4566", "us-east-1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := seed.SeedScenario(ctx, cfg, testdata.SimpleScenarios()[2]); err != nil {
//	    log.Fatal(err)
//	}
package seed

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/samber/lo"

	riaws "github.com/nextdoor/riaudit/pkg/aws"
	"github.com/nextdoor/riaudit/pkg/aws/testdata"
	"github.com/nextdoor/riaudit/pkg/reconcile"
)

const (
	// ImageID is used for every launched instance. LocalStack accepts any AMI ID.
	ImageID = "ami-12345678"

	// ScenarioTag is set on launched instances to the scenario name.
	ScenarioTag = "riaudit-scenario"
)

// LocalStackConfig returns an SDK config pointing at a LocalStack endpoint
// with LocalStack's default test credentials.
func LocalStackConfig(ctx context.Context, endpoint, region string) (aws.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load LocalStack config: %w", err)
	}
	cfg.BaseEndpoint = aws.String(endpoint)
	return cfg, nil
}

// SeedScenario launches the eligible running instances of scenario and
// returns how many were launched.
//
// This function is NOT idempotent. Every call launches new instances, which
// is fine for an ephemeral LocalStack.
func SeedScenario(ctx context.Context, cfg aws.Config, scenario testdata.Scenario) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	client := ec2.NewFromConfig(cfg)
	launched := 0
	for _, input := range RunInstancesInputs(scenario) {
		if _, err := client.RunInstances(ctx, input); err != nil {
			return launched, fmt.Errorf("failed to launch instances (type: %s, zone: %s, count: %d): %w",
				input.InstanceType, aws.ToString(input.Placement.AvailabilityZone), aws.ToInt32(input.MinCount), err)
		}
		launched += int(aws.ToInt32(input.MinCount))
	}
	return launched, nil
}

// RunInstancesInputs groups the eligible instances of scenario by type and
// zone into one RunInstances request each, sorted by type then zone. Spot,
// stopped and platform details are not reproduced.
func RunInstancesInputs(scenario testdata.Scenario) []*ec2.RunInstancesInput {
	eligible := lo.Filter(scenario.Instances, func(inst riaws.Instance, _ int) bool {
		return reconcile.InstanceEligible(inst)
	})
	counts := lo.CountValuesBy(eligible, func(inst riaws.Instance) reconcile.BucketKey {
		return reconcile.BucketKey{InstanceType: inst.InstanceType, Zone: inst.AvailabilityZone}
	})

	keys := lo.Keys(counts)
	slices.SortFunc(keys, func(a, b reconcile.BucketKey) int {
		return cmp.Or(cmp.Compare(a.InstanceType, b.InstanceType), cmp.Compare(a.Zone, b.Zone))
	})

	inputs := make([]*ec2.RunInstancesInput, 0, len(keys))
	for _, k := range keys {
		count := int32(counts[k])
		inputs = append(inputs, &ec2.RunInstancesInput{
			ImageId:      aws.String(ImageID),
			InstanceType: types.InstanceType(k.InstanceType),
			MinCount:     aws.Int32(count),
			MaxCount:     aws.Int32(count),
			Placement:    &types.Placement{AvailabilityZone: aws.String(k.Zone)},
			TagSpecifications: []types.TagSpecification{
				{
					ResourceType: types.ResourceTypeInstance,
					Tags: []types.Tag{
						{Key: aws.String(ScenarioTag), Value: aws.String(scenario.Name)},
					},
				},
			},
		})
	}
	return inputs
}
