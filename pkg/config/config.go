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

// Package config provides configuration management for riaudit.
//
// An audit run needs:
//   - the AWS region to audit and whether VPC capacity is matched separately
//   - AWS credentials, read from a JSON credentials file (~/.s3cfg by default)
//   - optional ignore rules, from a file and/or a Kubernetes ConfigMap
//
// Files are read with Viper. Credential values can be overridden with
// RIAUDIT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Error is a configuration problem: a missing, unreadable, malformed or
// invalid input. Runs abort on it before any AWS call is made.
type Error struct {
	// Source names the offending input (a file path, a flag, a ConfigMap).
	Source string
	Err    error
}

func (e *Error) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("configuration error: %v", e.Err)
	}
	return fmt.Sprintf("configuration error in %s: %v", e.Source, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Config represents the complete configuration of one audit run.
type Config struct {
	// Region is the AWS region to audit. Required.
	Region string

	// VPCSensitive matches VPC and EC2-Classic capacity separately.
	VPCSensitive bool

	// CredentialsFile is the path to the JSON credentials document.
	// Empty means ~/.s3cfg, falling back to the AWS SDK default credential
	// chain when that file does not exist.
	CredentialsFile string

	// IgnoreFile is an optional path to an ignore rules document.
	IgnoreFile string

	// IgnoreConfigMap optionally names a ConfigMap ("namespace/name") holding
	// ignore rules.
	IgnoreConfigMap string

	// MetricsTextfile, when set, receives the run metrics in Prometheus text
	// format for the node_exporter textfile collector.
	MetricsTextfile string

	// EndpointURL overrides the AWS endpoint (LocalStack).
	EndpointURL string

	// Timeout bounds the whole run. Zero means DefaultTimeout.
	Timeout time.Duration

	// VerifyIdentity checks the credentials with STS before fetching inventory.
	VerifyIdentity bool

	// LogLevel controls the verbosity of logs.
	// Valid values: debug, info, warn, error
	LogLevel string
}

var (
	regionPattern    = regexp.MustCompile(`^[a-z]{2}(-gov|-iso[a-z]?)?-[a-z]+-\d+$`)
	configMapPattern = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?/[a-z0-9]([-.a-z0-9]*[a-z0-9])?$`)
)

// Validate checks that the configuration is valid and returns a *Error if not.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Region) == "" {
		return &Error{Source: "region", Err: errors.New("region is required")}
	}
	if !regionPattern.MatchString(c.Region) {
		return &Error{Source: "region", Err: fmt.Errorf("invalid region %q", c.Region)}
	}

	if c.IgnoreConfigMap != "" && !configMapPattern.MatchString(c.IgnoreConfigMap) {
		return &Error{
			Source: "ignore-configmap",
			Err:    fmt.Errorf("invalid ConfigMap reference %q, must be namespace/name", c.IgnoreConfigMap),
		}
	}

	if c.Timeout < 0 {
		return &Error{Source: "timeout", Err: fmt.Errorf("timeout must not be negative, got %s", c.Timeout)}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if c.LogLevel != "" && !validLogLevels[c.LogLevel] {
		return &Error{
			Source: "log-level",
			Err:    fmt.Errorf("invalid log level %q, must be one of: debug, info, warn, error", c.LogLevel),
		}
	}

	return nil
}

// GetTimeout returns the run timeout, DefaultTimeout if unset.
func (c *Config) GetTimeout() time.Duration {
	if c.Timeout == 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// DefaultCredentialsFile returns ~/.s3cfg.
func DefaultCredentialsFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", &Error{Source: "credentials", Err: fmt.Errorf("failed to locate home directory: %w", err)}
	}
	return filepath.Join(home, DefaultCredentialsFileName), nil
}
