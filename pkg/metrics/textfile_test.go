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

package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, testRegion)
	m.RunningInstancesTotal.Set(7)

	path := filepath.Join(t.TempDir(), "riaudit.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `riaudit_running_instances_total{region="us-east-1"} 7`)
	assert.True(t, strings.HasPrefix(string(data), "# HELP"))
}

func TestWriteTextfile_BadPath(t *testing.T) {
	reg := prometheus.NewRegistry()
	_ = NewMetrics(reg, testRegion)

	err := WriteTextfile(filepath.Join(t.TempDir(), "missing-dir", "riaudit.prom"), reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write metrics textfile")
}
