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

// Package audit runs one Reserved Instance audit of a region: it fetches the
// inventory, reconciles it and records the outcome.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nextdoor/riaudit/pkg/aws"
	"github.com/nextdoor/riaudit/pkg/config"
	"github.com/nextdoor/riaudit/pkg/metrics"
	"github.com/nextdoor/riaudit/pkg/reconcile"
)

// Runner performs audits for a single region.
type Runner struct {
	// AWS client for making API calls
	AWSClient aws.Client

	// Validator checks the credentials when Config.VerifyIdentity is set
	Validator aws.Validator

	// Validated run configuration
	Config *config.Config

	// Credentials resolved by the caller. Zero means the SDK default chain.
	Credentials aws.Credentials

	// Ignore rules from the ignore file and ConfigMap
	IgnoreRules config.IgnoreRules

	// Metrics for observability, optional
	Metrics *metrics.Metrics

	// Logger
	Log logr.Logger
}

// Report is the outcome of a successful audit.
type Report struct {
	// RunID identifies the run in logs.
	RunID string

	// AccountID is set when the caller identity was verified.
	AccountID string

	Result reconcile.Result

	// Ignore rules that declared more than was observed, per side.
	RunningWarnings  []reconcile.IgnoreWarning
	ReservedWarnings []reconcile.IgnoreWarning

	// Number of records fetched, before eligibility filtering.
	InstancesFetched    int
	ReservationsFetched int
}

// Run performs one audit. Any error aborts the run; no partial result is
// returned. The run outcome is recorded in Metrics either way.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	runID := uuid.NewString()
	log := r.Log.WithValues("run_id", runID, "region", r.Config.Region)
	log.Info("starting reserved instance audit", "vpc_sensitive", r.Config.VPCSensitive)

	startTime := time.Now()
	report, err := r.run(ctx, log)
	if r.Metrics != nil {
		r.Metrics.RecordRun(err == nil, time.Now(), time.Since(startTime))
	}
	if err != nil {
		return nil, err
	}

	report.RunID = runID
	log.Info("audit completed",
		"unused_buckets", len(report.Result.Unused),
		"uncovered_buckets", len(report.Result.Uncovered),
		"total_running", report.Result.TotalRunning,
		"total_reserved", report.Result.TotalReserved,
		"duration_seconds", time.Since(startTime).Seconds())
	return report, nil
}

func (r *Runner) run(ctx context.Context, log logr.Logger) (*Report, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Config.GetTimeout())
	defer cancel()

	account := aws.AccountConfig{
		Region:      r.Config.Region,
		Credentials: r.Credentials,
		EndpointURL: r.Config.EndpointURL,
	}
	report := &Report{}

	if r.Config.VerifyIdentity && r.Validator != nil {
		identity, err := r.Validator.ValidateAccountAccess(ctx, account)
		if err != nil {
			return nil, &ProviderError{Op: "GetCallerIdentity", Err: err}
		}
		report.AccountID = identity.AccountID
		log.Info("verified caller identity", "account_id", identity.AccountID, "arn", identity.ARN)
	}

	instances, ris, err := r.fetch(ctx, account)
	if err != nil {
		return nil, err
	}
	report.InstancesFetched = len(instances)
	report.ReservationsFetched = len(ris)
	log.Info("fetched inventory", "instances", len(instances), "reserved_instances", len(ris))
	logDisqualified(log, instances, ris)

	opts := reconcile.KeyOptions{VPCSensitive: r.Config.VPCSensitive}
	running, err := reconcile.AggregateInstances(instances, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate running instances: %w", err)
	}
	reserved, err := reconcile.AggregateReservations(ris, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reservations: %w", err)
	}

	running, report.RunningWarnings = reconcile.ApplyIgnores(running, r.IgnoreRules.Running)
	reserved, report.ReservedWarnings = reconcile.ApplyIgnores(reserved, r.IgnoreRules.Reserved)
	logOvershoot(log, metrics.SideRunning, report.RunningWarnings)
	logOvershoot(log, metrics.SideReserved, report.ReservedWarnings)

	report.Result = reconcile.Reconcile(running, reserved)

	if r.Metrics != nil {
		r.Metrics.UpdateInventory(instances, ris)
		r.Metrics.UpdateResult(report.Result)
		r.Metrics.UpdateIgnoreOvershoot(report.RunningWarnings, report.ReservedWarnings)
	}
	return report, nil
}

// fetch reads both inventories concurrently. The first failure cancels the
// other read.
func (r *Runner) fetch(
	ctx context.Context, account aws.AccountConfig,
) ([]aws.Instance, []aws.ReservedInstance, error) {
	ec2Client, err := r.AWSClient.EC2(ctx, account)
	if err != nil {
		return nil, nil, &ProviderError{Op: "NewEC2Client", Err: err}
	}

	var (
		instances []aws.Instance
		ris       []aws.ReservedInstance
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		instances, err = ec2Client.DescribeInstances(gctx)
		if err != nil {
			return &ProviderError{Op: "DescribeInstances", Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		ris, err = ec2Client.DescribeReservedInstances(gctx)
		if err != nil {
			return &ProviderError{Op: "DescribeReservedInstances", Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return instances, ris, nil
}

// logDisqualified logs at debug level every record left out of matching.
func logDisqualified(log logr.Logger, instances []aws.Instance, ris []aws.ReservedInstance) {
	debug := log.V(1)
	if !debug.Enabled() {
		return
	}
	for _, inst := range instances {
		if !reconcile.InstanceEligible(inst) {
			debug.Info("skipping instance",
				"instance_id", inst.InstanceID,
				"instance_type", inst.InstanceType,
				"state", inst.State,
				"lifecycle", inst.Lifecycle)
		}
	}
	for _, ri := range ris {
		if !reconcile.ReservationEligible(ri) {
			debug.Info("skipping reservation",
				"reserved_instance_id", ri.ReservedInstanceID,
				"instance_type", ri.InstanceType,
				"state", ri.State)
		}
	}
}

func logOvershoot(log logr.Logger, side string, warnings []reconcile.IgnoreWarning) {
	for _, w := range warnings {
		log.Info("ignore rules exceed observed count",
			"side", side,
			"instance_type", w.Key.InstanceType,
			"zone", w.Key.Zone,
			"declared", w.Declared,
			"observed", w.Observed)
	}
}
