// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package temporal

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// Shared activity timeout constants
const (
	// SumStartToCloseTimeout bounds a single addition activity
	SumStartToCloseTimeout = 30 * time.Second

	// SumMaxAttempts is the retry count for addition activities
	SumMaxAttempts = 3
)

// GetSumActivityOptions returns activity options for addition activities.
// Addition is idempotent, so failed attempts are retried. Overflow is a
// deterministic failure and is never retried.
func GetSumActivityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: SumStartToCloseTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			BackoffCoefficient:     2.0,
			MaximumAttempts:        SumMaxAttempts,
			NonRetryableErrorTypes: []string{ErrTypeOverflow},
		},
	}
}

// WithSumOptions applies addition activity options to the workflow context.
func WithSumOptions(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, GetSumActivityOptions())
}
