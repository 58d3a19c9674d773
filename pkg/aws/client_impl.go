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
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// RealClient is a production implementation of the Client interface that
// makes real calls to AWS APIs using the AWS SDK v2.
//
// This implementation handles:
//   - Static credentials from the credentials file, or the SDK default chain
//   - Endpoint overrides for LocalStack testing
//   - Retries with exponential backoff around every API page
//
// For testing, use MockClient instead.
type RealClient struct {
	config ClientConfig

	mu         sync.Mutex
	ec2Clients map[string]*RealEC2Client // Cached per-region EC2 clients
	stsClients map[string]*RealSTSClient // Cached per-region STS clients
}

// NewRealClient creates a new RealClient with the specified configuration.
func NewRealClient(cfg ClientConfig) *RealClient {
	return &RealClient{
		config:     cfg,
		ec2Clients: make(map[string]*RealEC2Client),
		stsClients: make(map[string]*RealSTSClient),
	}
}

// EC2 returns an EC2Client for the specified account configuration.
// The client is cached per region and endpoint.
func (c *RealClient) EC2(ctx context.Context, accountConfig AccountConfig) (EC2Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cacheKey := accountConfig.Region + "|" + accountConfig.EndpointURL
	if client, ok := c.ec2Clients[cacheKey]; ok {
		return client, nil
	}

	awsCfg, err := loadAWSConfig(ctx, accountConfig)
	if err != nil { // coverage:ignore - AWS SDK config loading errors are difficult to trigger in unit tests
		return nil, err
	}

	client := NewRealEC2Client(awsCfg, accountConfig, c.config)
	c.ec2Clients[cacheKey] = client
	return client, nil
}

// Identity returns an IdentityClient backed by STS.
func (c *RealClient) Identity(ctx context.Context, accountConfig AccountConfig) (IdentityClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cacheKey := accountConfig.Region + "|" + accountConfig.EndpointURL
	if client, ok := c.stsClients[cacheKey]; ok {
		return client, nil
	}

	awsCfg, err := loadAWSConfig(ctx, accountConfig)
	if err != nil { // coverage:ignore - AWS SDK config loading errors are difficult to trigger in unit tests
		return nil, err
	}

	client := NewRealSTSClient(awsCfg, accountConfig.EndpointURL, c.config)
	c.stsClients[cacheKey] = client
	return client, nil
}

// loadAWSConfig builds an SDK config for the account. Static keys take
// precedence; otherwise the default credential chain applies:
//  1. Environment variables (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY)
//  2. Shared credentials file (~/.aws/credentials)
//  3. IAM role (if running on EC2 or ECS)
func loadAWSConfig(ctx context.Context, accountConfig AccountConfig) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(accountConfig.Region),
	}
	if !accountConfig.Credentials.IsZero() {
		opts = append(opts, awsconfig.WithCredentialsProvider(staticProvider(accountConfig.Credentials)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config for region %s: %w", accountConfig.Region, err)
	}
	return awsCfg, nil
}

// staticProvider wraps static keys in an SDK credentials provider.
func staticProvider(creds Credentials) credentials.StaticCredentialsProvider {
	return credentials.NewStaticCredentialsProvider(
		creds.AccessKeyID,
		creds.SecretAccessKey,
		creds.SessionToken,
	)
}

// RealSTSClient implements IdentityClient using STS GetCallerIdentity.
type RealSTSClient struct {
	client *sts.Client
	config ClientConfig
}

// NewRealSTSClient creates an STS-backed identity client.
func NewRealSTSClient(awsCfg aws.Config, endpointURL string, cfg ClientConfig) *RealSTSClient {
	stsOpts := []func(*sts.Options){}
	if endpointURL != "" {
		// Override endpoint for LocalStack testing
		stsOpts = append(stsOpts, func(o *sts.Options) {
			o.BaseEndpoint = aws.String(endpointURL)
		})
	}
	return &RealSTSClient{
		client: sts.NewFromConfig(awsCfg, stsOpts...),
		config: cfg,
	}
}

// GetCallerIdentity returns the account and principal behind the credentials.
func (c *RealSTSClient) GetCallerIdentity(ctx context.Context) (*CallerIdentity, error) {
	var out *sts.GetCallerIdentityOutput
	err := RetryWithBackoff(ctx, c.config.retryConfig(), c.config.Log, "GetCallerIdentity", func() error {
		var err error
		out, err = c.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
		return err
	})
	if err != nil {
		return nil, err
	}

	return &CallerIdentity{
		AccountID: aws.ToString(out.Account),
		ARN:       aws.ToString(out.Arn),
		UserID:    aws.ToString(out.UserId),
	}, nil
}
