/*
Copyright 2025 Lumina Contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Command riaudit reports Reserved Instances that are not being used and
// running on-demand instances that are not covered by a reservation, for
// one AWS region.
//
// Coverage: Excluded - the entrypoint only wires packages that are tested
// on their own.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap/zapcore"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/nextdoor/riaudit/internal/audit"
	"github.com/nextdoor/riaudit/internal/kube"
	"github.com/nextdoor/riaudit/pkg/aws"
	"github.com/nextdoor/riaudit/pkg/config"
	"github.com/nextdoor/riaudit/pkg/metrics"
	"github.com/nextdoor/riaudit/pkg/report"
)

var setupLog = ctrl.Log.WithName("setup")

func main() {
	os.Exit(run())
}

func run() int {
	var cfg config.Config

	stringFlag(&cfg.Region, "region", "r", "", "AWS region to audit (required).")
	boolFlag(&cfg.VPCSensitive, "vpc-sensitive", "v", false,
		"Match VPC instances only against VPC reservations.")
	stringFlag(&cfg.CredentialsFile, "config-file", "c", "",
		"JSON or YAML file with aws_access_key_id and aws_secret_access_key. Defaults to ~/"+
			config.DefaultCredentialsFileName+" when present, otherwise the AWS default credential chain.")
	stringFlag(&cfg.IgnoreFile, "ignore-file", "i", "",
		"JSON or YAML file listing known discrepancies to ignore.")
	flag.StringVar(&cfg.IgnoreConfigMap, "ignore-configmap", "",
		"ConfigMap (namespace/name) holding ignore rules under one of the keys "+
			strings.Join(config.ConfigMapIgnoreKeys, ", ")+".")
	flag.StringVar(&cfg.MetricsTextfile, "metrics-textfile", "",
		"Write run metrics to this file for the node_exporter textfile collector.")
	flag.StringVar(&cfg.EndpointURL, "endpoint-url", "", "Override the AWS endpoint, e.g. for LocalStack.")
	flag.DurationVar(&cfg.Timeout, "timeout", config.DefaultTimeout, "Upper bound for the whole run.")
	flag.BoolVar(&cfg.VerifyIdentity, "verify-identity", false,
		"Check the credentials with STS GetCallerIdentity before fetching inventory.")
	flag.StringVar(&cfg.LogLevel, "log-level", "",
		"Log level: debug, info, warn or error. Overrides --zap-log-level.")
	opts := zap.Options{
		Development: true,
	}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	if level, ok := logLevels[cfg.LogLevel]; ok {
		opts.Level = level
	}
	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))

	if flag.NArg() > 0 {
		err := &config.Error{Source: "arguments", Err: fmt.Errorf("unexpected arguments: %v", flag.Args())}
		setupLog.Error(err, "invalid usage")
		flag.Usage()
		return audit.ExitCode(err)
	}
	if err := cfg.Validate(); err != nil {
		setupLog.Error(err, "invalid configuration")
		return audit.ExitCode(err)
	}

	ctx := ctrl.SetupSignalHandler()

	creds, err := cfg.ResolveCredentials()
	if err != nil {
		setupLog.Error(err, "failed to load credentials")
		return audit.ExitCode(err)
	}
	if creds.IsZero() {
		setupLog.Info("no static credentials found, using the AWS default credential chain")
	}

	rules, err := loadIgnoreRules(ctx, &cfg)
	if err != nil {
		setupLog.Error(err, "failed to load ignore rules")
		return audit.ExitCode(err)
	}
	setupLog.Info("loaded ignore rules", "running", len(rules.Running), "reserved", len(rules.Reserved))

	registry := prometheus.NewRegistry()
	awsClient := aws.NewClient(aws.ClientConfig{Log: ctrl.Log.WithName("aws")})
	runner := &audit.Runner{
		AWSClient:   awsClient,
		Validator:   aws.NewAccountValidator(awsClient),
		Config:      &cfg,
		Credentials: creds,
		IgnoreRules: rules,
		Metrics:     metrics.NewMetrics(registry, cfg.Region),
		Log:         ctrl.Log.WithName("audit"),
	}

	result, runErr := runner.Run(ctx)

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile, registry); err != nil {
			setupLog.Error(err, "failed to write metrics textfile", "path", cfg.MetricsTextfile)
		}
	}

	if runErr != nil {
		setupLog.Error(runErr, "audit failed")
		return audit.ExitCode(runErr)
	}

	if err := report.Render(os.Stdout, result.Result); err != nil {
		setupLog.Error(err, "failed to print report")
		return audit.ExitFailure
	}
	return audit.ExitOK
}

// loadIgnoreRules concatenates the rules of the ignore file and ConfigMap.
func loadIgnoreRules(ctx context.Context, cfg *config.Config) (config.IgnoreRules, error) {
	var rules config.IgnoreRules

	if cfg.IgnoreFile != "" {
		fileRules, err := config.LoadIgnoreRules(cfg.IgnoreFile)
		if err != nil {
			return rules, err
		}
		rules = rules.Merge(fileRules)
	}

	if cfg.IgnoreConfigMap != "" {
		restConfig, err := ctrl.GetConfig()
		if err != nil {
			return rules, &config.Error{Source: "kubeconfig", Err: err}
		}
		clientset, err := kube.NewClientset(restConfig)
		if err != nil {
			return rules, err
		}
		cmRules, err := kube.LoadIgnoreRules(ctx, clientset, cfg.IgnoreConfigMap)
		if err != nil {
			return rules, err
		}
		rules = rules.Merge(cmRules)
	}

	return rules, nil
}

var logLevels = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}

// stringFlag registers a string flag under a long and a short name.
func stringFlag(p *string, name, short, value, usage string) {
	flag.StringVar(p, name, value, usage)
	flag.StringVar(p, short, value, "Shorthand for --"+name+".")
}

// boolFlag registers a bool flag under a long and a short name.
func boolFlag(p *bool, name, short string, value bool, usage string) {
	flag.BoolVar(p, name, value, usage)
	flag.BoolVar(p, short, value, "Shorthand for --"+name+".")
}
