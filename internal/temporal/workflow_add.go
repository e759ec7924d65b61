// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package temporal

import (
	"errors"
	"fmt"

	"go.temporal.io/sdk/workflow"

	"calculadora/internal/calculator"
)

// MaxPairsPerWorkflow caps fan-out so a single run's history stays small
const MaxPairsPerWorkflow = 1000

// AddWorkflowInput is the workflow input: pairs to add.
type AddWorkflowInput struct {
	Pairs []calculator.Pair
	// Checked selects AddChecked, failing the run on overflow.
	Checked bool
}

// Validate checks that the input can be scheduled.
func (in *AddWorkflowInput) Validate() error {
	if len(in.Pairs) == 0 {
		return errors.New("at least one pair is required")
	}
	if len(in.Pairs) > MaxPairsPerWorkflow {
		return fmt.Errorf("too many pairs: %d (max %d)", len(in.Pairs), MaxPairsPerWorkflow)
	}
	return nil
}

// AddWorkflowOutput holds one result per input pair, in input order.
type AddWorkflowOutput struct {
	Results []calculator.Result
	// Total is the wrapping sum of every result.
	Total calculator.Operand
}

// AddWorkflow adds every pair concurrently, one activity per pair.
func AddWorkflow(ctx workflow.Context, input AddWorkflowInput) (*AddWorkflowOutput, error) {
	logger := workflow.GetLogger(ctx)

	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	logger.Info("AddWorkflow started", "pairs", len(input.Pairs), "checked", input.Checked)

	ctx = WithSumOptions(ctx)

	var a *SumActivities
	activityFn := a.Add
	if input.Checked {
		activityFn = a.AddChecked
	}

	futures := make([]workflow.Future, len(input.Pairs))
	for i, pair := range input.Pairs {
		futures[i] = workflow.ExecuteActivity(ctx, activityFn, pair)
	}

	out := &AddWorkflowOutput{Results: make([]calculator.Result, len(input.Pairs))}
	sums := make([]calculator.Operand, len(input.Pairs))
	for i, f := range futures {
		if err := f.Get(ctx, &out.Results[i]); err != nil {
			logger.Error("Pair failed", "index", i, "error", err)
			return nil, fmt.Errorf("pair %d: %w", i, err)
		}
		sums[i] = out.Results[i].Sum
	}
	out.Total = calculator.Sum(sums...)

	logger.Info("AddWorkflow completed", "total", out.Total)
	return out, nil
}
