// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package temporal

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"calculadora/internal/calculator"
	"calculadora/internal/telemetry"
)

// ErrTypeOverflow is the application error type reported for checked overflow
const ErrTypeOverflow = "IntegerOverflow"

// SumActivities performs additions on behalf of AddWorkflow
type SumActivities struct {
	calc calculator.Calculator
}

// NewSumActivities creates the activity set
func NewSumActivities() *SumActivities {
	return &SumActivities{calc: calculator.New()}
}

func spanAttrs(ctx context.Context, pair calculator.Pair) trace.SpanStartEventOption {
	attrs := append(telemetry.OperandAttrs(pair.A, pair.B),
		telemetry.AttrActivityType.String(activity.GetInfo(ctx).ActivityType.Name))
	return trace.WithAttributes(attrs...)
}

// Add adds the pair, wrapping on overflow
func (a *SumActivities) Add(ctx context.Context, pair calculator.Pair) (calculator.Result, error) {
	logger := activity.GetLogger(ctx)

	ctx, span := telemetry.StartSpan(ctx, "activity.Add", spanAttrs(ctx, pair))
	defer span.End()

	activity.RecordHeartbeat(ctx, "adding")

	res := a.calc.Eval(pair)
	telemetry.AddAttributes(ctx, telemetry.AttrSum.Int(int(res.Sum)))

	logger.Info("Sum computed", "a", pair.A, "b", pair.B, "sum", res.Sum)
	return res, nil
}

// AddChecked adds the pair and fails with a non-retryable error on overflow
func (a *SumActivities) AddChecked(ctx context.Context, pair calculator.Pair) (calculator.Result, error) {
	logger := activity.GetLogger(ctx)

	ctx, span := telemetry.StartSpan(ctx, "activity.AddChecked", spanAttrs(ctx, pair))
	defer span.End()

	sum, err := calculator.AddChecked(pair.A, pair.B)
	if err != nil {
		telemetry.RecordError(ctx, err, telemetry.ErrorAttrs(err)...)
		logger.Error("Checked sum failed", "a", pair.A, "b", pair.B, "error", err)
		if errors.Is(err, calculator.ErrOverflow) {
			return calculator.Result{}, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeOverflow, err)
		}
		return calculator.Result{}, err
	}

	telemetry.AddAttributes(ctx, telemetry.AttrSum.Int(int(sum)))
	logger.Info("Checked sum computed", "a", pair.A, "b", pair.B, "sum", sum)
	return calculator.Result{Pair: pair, Sum: sum}, nil
}
