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
)

// Validator verifies that credentials resolve to a usable AWS principal
// before any inventory is fetched.
type Validator interface {
	// ValidateAccountAccess returns the caller identity behind the
	// account's credentials, or an error if they cannot be used.
	ValidateAccountAccess(ctx context.Context, accountConfig AccountConfig) (*CallerIdentity, error)
}

// AccountValidator implements Validator using STS GetCallerIdentity.
type AccountValidator struct {
	client Client
}

// NewAccountValidator creates a new AccountValidator that uses the provided
// AWS client to validate account access.
func NewAccountValidator(client Client) *AccountValidator {
	return &AccountValidator{
		client: client,
	}
}

// ValidateAccountAccess calls GetCallerIdentity, which requires no IAM
// permissions, so a failure here means the credentials themselves are bad
// (expired, revoked, or malformed) or the endpoint is unreachable.
func (v *AccountValidator) ValidateAccountAccess(
	ctx context.Context, accountConfig AccountConfig,
) (*CallerIdentity, error) {
	identityClient, err := v.client.Identity(ctx, accountConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity client for region %s: %w",
			accountConfig.Region, err)
	}

	identity, err := identityClient.GetCallerIdentity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to validate AWS credentials for region %s: %w",
			accountConfig.Region, err)
	}
	if identity.AccountID == "" {
		return nil, fmt.Errorf("caller identity for region %s returned no account ID", accountConfig.Region)
	}

	return identity, nil
}
