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

// Package kube loads ignore rules from a Kubernetes ConfigMap, so clusters
// running riaudit as a CronJob can manage them alongside other manifests.
package kube

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"

	"github.com/nextdoor/riaudit/pkg/config"
)

// ParseReference splits a "namespace/name" ConfigMap reference.
func ParseReference(ref string) (namespace, name string, err error) {
	namespace, name, ok := strings.Cut(ref, "/")
	if !ok || namespace == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid ConfigMap reference %q, must be namespace/name", ref)
	}
	return namespace, name, nil
}

// NewClientset builds a clientset from a rest config, typically obtained with
// ctrl.GetConfig().
func NewClientset(restConfig *rest.Config) (kubernetes.Interface, error) {
	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, &config.Error{Source: "kubeconfig", Err: err}
	}
	return clientset, nil
}

// LoadIgnoreRules reads ignore rules from the ConfigMap named by ref. The
// first present key of config.ConfigMapIgnoreKeys is parsed, its extension
// selecting the format. All failures are returned as *config.Error.
func LoadIgnoreRules(ctx context.Context, clientset kubernetes.Interface, ref string) (config.IgnoreRules, error) {
	namespace, name, err := ParseReference(ref)
	if err != nil {
		return config.IgnoreRules{}, &config.Error{Source: "ignore-configmap", Err: err}
	}
	source := "configmap " + ref

	cm, err := clientset.CoreV1().ConfigMaps(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return config.IgnoreRules{}, &config.Error{Source: source, Err: errors.New("ConfigMap not found")}
		}
		return config.IgnoreRules{}, &config.Error{Source: source, Err: fmt.Errorf("failed to get ConfigMap: %w", err)}
	}

	for _, key := range config.ConfigMapIgnoreKeys {
		data, ok := cm.Data[key]
		if !ok {
			continue
		}
		format := strings.TrimPrefix(path.Ext(key), ".")
		rules, err := config.ParseIgnoreRules(strings.NewReader(data), format)
		if err != nil {
			return config.IgnoreRules{}, &config.Error{Source: source + " key " + key, Err: err}
		}
		return rules, nil
	}

	return config.IgnoreRules{}, &config.Error{
		Source: source,
		Err:    fmt.Errorf("no ignore rules found, expected one of keys %v", config.ConfigMapIgnoreKeys),
	}
}
