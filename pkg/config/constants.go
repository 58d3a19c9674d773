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

package config

import "time"

const (
	// EnvPrefix prefixes every environment variable override.
	EnvPrefix = "RIAUDIT"

	// DefaultCredentialsFileName is looked up in the user's home directory
	// when no credentials file is given.
	DefaultCredentialsFileName = ".s3cfg"

	// DefaultTimeout bounds a whole audit run.
	DefaultTimeout = 5 * time.Minute

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"
)

// Credential document keys, shared by the file and the environment
// (RIAUDIT_AWS_ACCESS_KEY_ID and so on).
const (
	keyAccessKeyID     = "aws_access_key_id"
	keySecretAccessKey = "aws_secret_access_key"
	keySessionToken    = "aws_session_token"
)

// ConfigMapIgnoreKeys are the ConfigMap data keys searched for ignore rules,
// in order of preference.
var ConfigMapIgnoreKeys = []string{"ignore.yaml", "ignore.yml", "ignore.json"}
