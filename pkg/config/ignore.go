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
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/nextdoor/riaudit/pkg/reconcile"
)

// IgnoreRules holds the rules for each side of the reconciliation. Running
// rules only ever adjust the running aggregate, reserved rules only the
// reserved aggregate.
type IgnoreRules struct {
	Running  []reconcile.IgnoreRule
	Reserved []reconcile.IgnoreRule
}

// Merge returns the concatenation of r and other.
func (r IgnoreRules) Merge(other IgnoreRules) IgnoreRules {
	return IgnoreRules{
		Running:  append(append([]reconcile.IgnoreRule{}, r.Running...), other.Running...),
		Reserved: append(append([]reconcile.IgnoreRule{}, r.Reserved...), other.Reserved...),
	}
}

// Len returns the total number of rules.
func (r IgnoreRules) Len() int {
	return len(r.Running) + len(r.Reserved)
}

type ignoreRuleDoc struct {
	Type  string `mapstructure:"type"`
	Zone  string `mapstructure:"zone"`
	Count int    `mapstructure:"count"`
}

type ignoreDoc struct {
	Running  []ignoreRuleDoc `mapstructure:"running"`
	Reserved []ignoreRuleDoc `mapstructure:"reserved"`
}

// LoadIgnoreRules reads an ignore rules file. The format follows the file
// extension (YAML for .yaml/.yml, JSON otherwise):
//
//	{
//	  "running":  [{"type": "m5.large", "zone": "us-east-1a", "count": 2}],
//	  "reserved": [{"type": "c5.xlarge", "zone": "us-east-1b_vpc", "count": 1}]
//	}
//
// Either list may be omitted. Zones are adjusted zone labels, so they carry
// the _vpc and _windows suffixes where those apply.
func LoadIgnoreRules(path string) (IgnoreRules, error) {
	f, err := os.Open(path)
	if err != nil {
		return IgnoreRules{}, &Error{Source: path, Err: fmt.Errorf("failed to read ignore file: %w", err)}
	}
	defer func() { _ = f.Close() }()

	rules, err := ParseIgnoreRules(f, formatFromPath(path))
	if err != nil {
		return IgnoreRules{}, &Error{Source: path, Err: err}
	}
	return rules, nil
}

// ParseIgnoreRules parses an ignore rules document in the given format
// ("json", "yaml" or "yml") and validates every rule.
func ParseIgnoreRules(r io.Reader, format string) (IgnoreRules, error) {
	v := viper.New()
	v.SetConfigType(strings.ToLower(format))

	if err := v.ReadConfig(r); err != nil {
		return IgnoreRules{}, fmt.Errorf("failed to parse ignore rules: %w", err)
	}

	var doc ignoreDoc
	// coverage:ignore - Viper unmarshal errors are extremely rare and difficult to trigger
	if err := v.Unmarshal(&doc); err != nil {
		return IgnoreRules{}, fmt.Errorf("failed to decode ignore rules: %w", err)
	}

	running, err := convertIgnoreRules("running", doc.Running)
	if err != nil {
		return IgnoreRules{}, err
	}
	reserved, err := convertIgnoreRules("reserved", doc.Reserved)
	if err != nil {
		return IgnoreRules{}, err
	}
	return IgnoreRules{Running: running, Reserved: reserved}, nil
}

func convertIgnoreRules(side string, docs []ignoreRuleDoc) ([]reconcile.IgnoreRule, error) {
	rules := make([]reconcile.IgnoreRule, 0, len(docs))
	for i, d := range docs {
		if err := d.validate(); err != nil {
			return nil, fmt.Errorf("invalid %s ignore rule at index %d: %w", side, i, err)
		}
		rules = append(rules, reconcile.IgnoreRule{
			InstanceType: strings.TrimSpace(d.Type),
			Zone:         strings.TrimSpace(d.Zone),
			Count:        d.Count,
		})
	}
	return rules, nil
}

func (d ignoreRuleDoc) validate() error {
	if strings.TrimSpace(d.Type) == "" {
		return fmt.Errorf("type is required")
	}
	if strings.TrimSpace(d.Zone) == "" {
		return fmt.Errorf("zone is required")
	}
	if d.Count <= 0 {
		return fmt.Errorf("count must be positive, got %d", d.Count)
	}
	return nil
}
