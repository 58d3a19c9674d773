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

package audit_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/nextdoor/riaudit/internal/audit"
	"github.com/nextdoor/riaudit/pkg/aws"
	"github.com/nextdoor/riaudit/pkg/aws/testdata"
	"github.com/nextdoor/riaudit/pkg/config"
	"github.com/nextdoor/riaudit/pkg/metrics"
	"github.com/nextdoor/riaudit/pkg/reconcile"
)

// newRunner builds a Runner over a MockClient loaded with scenario.
func newRunner(scenario testdata.Scenario) (*audit.Runner, *aws.MockClient, *metrics.Metrics) {
	client := aws.NewMockClient()
	testdata.LoadScenario(scenario, client)
	m := metrics.NewMetrics(prometheus.NewRegistry(), scenario.Region)

	return &audit.Runner{
		AWSClient: client,
		Validator: aws.NewAccountValidator(client),
		Config: &config.Config{
			Region:       scenario.Region,
			VPCSensitive: scenario.VPCSensitive,
			Timeout:      10 * time.Second,
		},
		IgnoreRules: config.IgnoreRules{
			Running:  scenario.IgnoreRunning,
			Reserved: scenario.IgnoreReserved,
		},
		Metrics: m,
		Log:     logr.Discard(),
	}, client, m
}

var _ = Describe("Runner", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("scenarios", func() {
		for _, scenario := range testdata.All() {
			It(fmt.Sprintf("reconciles %q", scenario.Name), func() {
				runner, _, m := newRunner(scenario)

				report, err := runner.Run(ctx)
				Expect(err).NotTo(HaveOccurred())

				Expect(report.Result.Unused).To(Equal(scenario.Expected.Unused))
				Expect(report.Result.Uncovered).To(Equal(scenario.Expected.Uncovered))
				Expect(report.Result.TotalRunning).To(Equal(scenario.Expected.TotalRunning))
				Expect(report.Result.TotalReserved).To(Equal(scenario.Expected.TotalReserved))
				Expect(report.RunningWarnings).To(Equal(scenario.Expected.RunningWarnings))
				Expect(report.ReservedWarnings).To(BeEmpty())
				Expect(report.InstancesFetched).To(Equal(len(scenario.Instances)))
				Expect(report.ReservationsFetched).To(Equal(len(scenario.ReservedInstances)))
				Expect(report.RunID).NotTo(BeEmpty())

				Expect(testutil.ToFloat64(m.LastRunSuccess)).To(Equal(1.0))
				Expect(testutil.ToFloat64(m.RunningInstancesTotal)).To(BeNumerically("==", scenario.Expected.TotalRunning))
				Expect(testutil.ToFloat64(m.ReservedInstancesTotal)).To(BeNumerically("==", scenario.Expected.TotalReserved))
				Expect(testutil.CollectAndCount(m.UnusedReservations)).To(Equal(len(scenario.Expected.Unused)))
				Expect(testutil.CollectAndCount(m.UncoveredInstances)).To(Equal(len(scenario.Expected.Uncovered)))
			})
		}
	})

	It("gives every run its own ID", func() {
		runner, _, _ := newRunner(testdata.SimpleScenarios()[0])

		first, err := runner.Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		second, err := runner.Run(ctx)
		Expect(err).NotTo(HaveOccurred())

		Expect(first.RunID).NotTo(Equal(second.RunID))
		Expect(first.Result).To(Equal(second.Result))
	})

	It("records ignore overshoot in metrics", func() {
		runner, _, m := newRunner(testdata.OvershootScenario)

		_, err := runner.Run(ctx)
		Expect(err).NotTo(HaveOccurred())

		gauge := m.IgnoreOvershoot.WithLabelValues(metrics.SideRunning, "m5.large", "eu-central-1a")
		Expect(testutil.ToFloat64(gauge)).To(Equal(2.0))
	})

	Describe("identity verification", func() {
		var (
			runner *audit.Runner
			client *aws.MockClient
		)

		BeforeEach(func() {
			runner, client, _ = newRunner(testdata.SimpleScenarios()[0])
			runner.Config.VerifyIdentity = true
		})

		It("records the verified account", func() {
			client.IdentityClient.Identity = aws.CallerIdentity{
				AccountID: "111111111111",
				ARN:       "arn:aws:iam::111111111111:user/auditor",
			}

			report, err := runner.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.AccountID).To(Equal("111111111111"))
			Expect(client.IdentityClient.CallCount).To(Equal(1))
		})

		It("aborts before fetching inventory when credentials are rejected", func() {
			client.IdentityClient.Error = errors.New("InvalidClientTokenId")

			report, err := runner.Run(ctx)
			Expect(report).To(BeNil())

			var providerErr *audit.ProviderError
			Expect(errors.As(err, &providerErr)).To(BeTrue())
			Expect(providerErr.Op).To(Equal("GetCallerIdentity"))
			Expect(audit.ExitCode(err)).To(Equal(audit.ExitFailure))
			Expect(client.EC2Clients["us-east-1"].DescribeInstancesCallCount).To(BeZero())
		})

		It("is skipped unless requested", func() {
			runner.Config.VerifyIdentity = false

			report, err := runner.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.AccountID).To(BeEmpty())
			Expect(client.IdentityClient.CallCount).To(BeZero())
		})
	})

	Describe("failures", func() {
		var (
			runner  *audit.Runner
			client  *aws.MockClient
			m       *metrics.Metrics
			mockEC2 *aws.MockEC2Client
		)

		BeforeEach(func() {
			runner, client, m = newRunner(testdata.SimpleScenarios()[0])
			mockEC2 = client.EC2Clients["us-east-1"]
		})

		DescribeTable("wraps provider errors",
			func(op string, inject func(error)) {
				throttled := errors.New("RequestLimitExceeded")
				inject(throttled)

				report, err := runner.Run(ctx)
				Expect(report).To(BeNil())
				Expect(err).To(MatchError(throttled))

				var providerErr *audit.ProviderError
				Expect(errors.As(err, &providerErr)).To(BeTrue())
				Expect(providerErr.Op).To(Equal(op))
				Expect(audit.ExitCode(err)).To(Equal(audit.ExitFailure))
				Expect(testutil.ToFloat64(m.LastRunSuccess)).To(Equal(0.0))
			},
			Entry("client construction", "NewEC2Client", func(err error) { client.EC2Error = err }),
			Entry("instances", "DescribeInstances", func(err error) { mockEC2.DescribeInstancesError = err }),
			Entry("reservations", "DescribeReservedInstances", func(err error) {
				mockEC2.DescribeReservedInstancesError = err
			}),
		)

		It("fails on a running instance without a zone", func() {
			mockEC2.Instances = append(mockEC2.Instances, aws.Instance{
				InstanceID:   "i-broken",
				InstanceType: "m5.large",
				State:        aws.InstanceStateRunning,
			})

			_, err := runner.Run(ctx)

			var dataErr *reconcile.DataAssumptionError
			Expect(errors.As(err, &dataErr)).To(BeTrue())
			Expect(dataErr.ID).To(Equal("i-broken"))
			Expect(dataErr.Field).To(Equal("availability zone"))
			Expect(audit.ExitCode(err)).To(Equal(audit.ExitFailure))
		})

		It("ignores broken records that are not eligible", func() {
			mockEC2.Instances = append(mockEC2.Instances, aws.Instance{
				InstanceID: "i-terminated",
				State:      "terminated",
			})

			_, err := runner.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
		})

		It("stops when the context is cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := runner.Run(cancelled)
			Expect(err).To(MatchError(context.Canceled))
		})
	})
})

var _ = Describe("ExitCode", func() {
	DescribeTable("classifies errors",
		func(err error, want int) {
			Expect(audit.ExitCode(err)).To(Equal(want))
		},
		Entry("success", nil, audit.ExitOK),
		Entry("configuration", &config.Error{Source: "region", Err: errors.New("region is required")}, audit.ExitUsage),
		Entry("wrapped configuration",
			fmt.Errorf("loading ignore rules: %w", &config.Error{Source: "ignore.json", Err: errors.New("bad")}),
			audit.ExitUsage),
		Entry("provider", &audit.ProviderError{Op: "DescribeInstances", Err: errors.New("boom")}, audit.ExitFailure),
		Entry("data", &reconcile.DataAssumptionError{Kind: reconcile.KindInstance, ID: "i-1", Field: "instance type"},
			audit.ExitFailure),
	)

	It("formats provider errors", func() {
		err := &audit.ProviderError{Op: "DescribeInstances", Err: errors.New("throttled")}
		Expect(err.Error()).To(Equal("DescribeInstances failed: throttled"))
	})
})
