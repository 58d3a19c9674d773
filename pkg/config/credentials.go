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

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/nextdoor/riaudit/pkg/aws"
)

// LoadCredentials reads AWS keys from a JSON (or YAML) credentials document:
//
//	{"aws_access_key_id": "AKIA...", "aws_secret_access_key": "..."}
//
// Environment variables override the file:
//   - RIAUDIT_AWS_ACCESS_KEY_ID overrides aws_access_key_id
//   - RIAUDIT_AWS_SECRET_ACCESS_KEY overrides aws_secret_access_key
//   - RIAUDIT_AWS_SESSION_TOKEN overrides aws_session_token
func LoadCredentials(path string) (aws.Credentials, error) {
	if _, err := os.Stat(path); err != nil {
		return aws.Credentials{}, &Error{Source: path, Err: fmt.Errorf("failed to read credentials file: %w", err)}
	}

	v := newCredentialsViper()
	v.SetConfigFile(path)
	v.SetConfigType(formatFromPath(path))

	if err := v.ReadInConfig(); err != nil {
		return aws.Credentials{}, &Error{Source: path, Err: fmt.Errorf("failed to read credentials file: %w", err)}
	}

	creds, err := credentialsFrom(v)
	if err != nil {
		return aws.Credentials{}, &Error{Source: path, Err: err}
	}
	return creds, nil
}

// ResolveCredentials returns the credentials for c. An explicit
// CredentialsFile must exist. The default ~/.s3cfg is optional: when it is
// absent only the environment overrides apply, and zero credentials mean the
// AWS SDK default credential chain is used.
func (c *Config) ResolveCredentials() (aws.Credentials, error) {
	if c.CredentialsFile != "" {
		return LoadCredentials(c.CredentialsFile)
	}

	path, err := DefaultCredentialsFile()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadCredentials(path)
		} else if !errors.Is(statErr, fs.ErrNotExist) {
			return aws.Credentials{}, &Error{Source: path, Err: statErr}
		}
	}

	creds, err := credentialsFrom(newCredentialsViper())
	if err != nil {
		return aws.Credentials{}, &Error{Source: "environment", Err: err}
	}
	return creds, nil
}

func newCredentialsViper() *viper.Viper {
	v := viper.New()

	// Bind each key explicitly; AutomaticEnv does not map these names reliably
	v.SetEnvPrefix(EnvPrefix)
	_ = v.BindEnv(keyAccessKeyID, EnvPrefix+"_AWS_ACCESS_KEY_ID")
	_ = v.BindEnv(keySecretAccessKey, EnvPrefix+"_AWS_SECRET_ACCESS_KEY")
	_ = v.BindEnv(keySessionToken, EnvPrefix+"_AWS_SESSION_TOKEN")
	return v
}

// credentialsFrom extracts the keys from v. Both keys or neither must be set.
func credentialsFrom(v *viper.Viper) (aws.Credentials, error) {
	creds := aws.Credentials{
		AccessKeyID:     strings.TrimSpace(v.GetString(keyAccessKeyID)),
		SecretAccessKey: strings.TrimSpace(v.GetString(keySecretAccessKey)),
		SessionToken:    strings.TrimSpace(v.GetString(keySessionToken)),
	}

	switch {
	case creds.AccessKeyID == "" && creds.SecretAccessKey == "":
		if creds.SessionToken != "" {
			return aws.Credentials{}, errors.New("session token given without access keys")
		}
		return aws.Credentials{}, nil
	case creds.AccessKeyID == "":
		return aws.Credentials{}, fmt.Errorf("%s is required when %s is set", keyAccessKeyID, keySecretAccessKey)
	case creds.SecretAccessKey == "":
		return aws.Credentials{}, fmt.Errorf("%s is required when %s is set", keySecretAccessKey, keyAccessKeyID)
	}
	return creds, nil
}

// formatFromPath maps a file extension to a Viper config type. Anything that
// is not YAML is read as JSON, which covers extensionless and dotfile names
// such as .s3cfg.
func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}
