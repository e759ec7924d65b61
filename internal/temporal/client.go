// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package temporal

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"

	"calculadora/internal/calculator"
	"calculadora/internal/telemetry"
)

// Submit starts AddWorkflow on taskQueue and waits for its result.
func Submit(ctx context.Context, c client.Client, taskQueue, workflowID string, input AddWorkflowInput) (*AddWorkflowOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	ctx, span := telemetry.StartSpan(ctx, "client.Submit")
	defer span.End()
	telemetry.AddAttributes(ctx,
		telemetry.AttrWorkflowID.String(workflowID),
		telemetry.AttrTaskQueue.String(taskQueue),
		telemetry.AttrPairs.Int(len(input.Pairs)),
	)

	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: taskQueue,
	}, AddWorkflow, input)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return nil, fmt.Errorf("failed to start workflow: %w", err)
	}

	var out AddWorkflowOutput
	if err := run.Get(ctx, &out); err != nil {
		telemetry.RecordError(ctx, err)
		return nil, fmt.Errorf("workflow %s failed: %w", run.GetID(), err)
	}

	telemetry.AddAttributes(ctx, telemetry.AttrSum.Int(int(out.Total)))
	return &out, nil
}

// SubmitPair is Submit for a single pair.
func SubmitPair(ctx context.Context, c client.Client, taskQueue, workflowID string, a, b calculator.Operand) (calculator.Result, error) {
	out, err := Submit(ctx, c, taskQueue, workflowID, AddWorkflowInput{
		Pairs: []calculator.Pair{{A: a, B: b}},
	})
	if err != nil {
		return calculator.Result{}, err
	}
	return out.Results[0], nil
}
