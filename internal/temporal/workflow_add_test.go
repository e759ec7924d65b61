// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package temporal

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"calculadora/internal/calculator"
)

// TestAddWorkflow_Success runs the real activities over several pairs
func TestAddWorkflow_Success(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	RegisterAll(env)

	input := AddWorkflowInput{
		Pairs: []calculator.Pair{
			{A: 2, B: 3},
			{A: -2, B: 3},
			{A: 0, B: 0},
		},
	}

	env.ExecuteWorkflow(AddWorkflow, input)

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out AddWorkflowOutput
	require.NoError(t, env.GetWorkflowResult(&out))

	require.Len(t, out.Results, 3)
	for i, res := range out.Results {
		assert.Equal(t, input.Pairs[i], res.Pair, "results must keep input order")
	}
	assert.Equal(t, calculator.Operand(5), out.Results[0].Sum)
	assert.Equal(t, calculator.Operand(1), out.Results[1].Sum)
	assert.Equal(t, calculator.Operand(0), out.Results[2].Sum)
	assert.Equal(t, calculator.Operand(6), out.Total)
}

// TestAddWorkflow_EmptyInput verifies validation happens before scheduling
func TestAddWorkflow_EmptyInput(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	RegisterAll(env)

	env.ExecuteWorkflow(AddWorkflow, AddWorkflowInput{})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one pair is required")
}

// TestAddWorkflow_CheckedOverflow verifies overflow fails the run
func TestAddWorkflow_CheckedOverflow(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	RegisterAll(env)

	input := AddWorkflowInput{
		Pairs:   []calculator.Pair{{A: 1, B: 1}, {A: math.MaxInt32, B: 1}},
		Checked: true,
	}

	env.ExecuteWorkflow(AddWorkflow, input)

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pair 1")
	assert.Contains(t, err.Error(), calculator.ErrOverflow.Error())
}

// TestAddWorkflow_RetriesTransientFailure verifies the retry policy recovers
func TestAddWorkflow_RetriesTransientFailure(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	RegisterAll(env)

	acts := NewSumActivities()
	pair := calculator.Pair{A: 2, B: 3}

	env.OnActivity(acts.Add, mock.Anything, pair).
		Return(calculator.Result{}, errors.New("worker restarted")).Once()
	env.OnActivity(acts.Add, mock.Anything, pair).
		Return(calculator.Result{Pair: pair, Sum: 5}, nil).Once()

	env.ExecuteWorkflow(AddWorkflow, AddWorkflowInput{Pairs: []calculator.Pair{pair}})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out AddWorkflowOutput
	require.NoError(t, env.GetWorkflowResult(&out))
	assert.Equal(t, calculator.Operand(5), out.Total)
	env.AssertExpectations(t)
}

// TestAddWorkflow_ExhaustsRetries verifies the run fails after SumMaxAttempts
func TestAddWorkflow_ExhaustsRetries(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	RegisterAll(env)

	acts := NewSumActivities()
	pair := calculator.Pair{A: 2, B: 3}

	env.OnActivity(acts.Add, mock.Anything, pair).
		Return(calculator.Result{}, errors.New("worker restarted")).Times(SumMaxAttempts)

	env.ExecuteWorkflow(AddWorkflow, AddWorkflowInput{Pairs: []calculator.Pair{pair}})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "worker restarted")
	env.AssertExpectations(t)
}

func TestAddWorkflowInput_Validate(t *testing.T) {
	tests := []struct {
		name        string
		input       AddWorkflowInput
		wantErr     bool
		errContains string
	}{
		{
			name:  "single pair",
			input: AddWorkflowInput{Pairs: []calculator.Pair{{A: 2, B: 3}}},
		},
		{
			name:        "no pairs",
			input:       AddWorkflowInput{},
			wantErr:     true,
			errContains: "at least one pair",
		},
		{
			name:        "too many pairs",
			input:       AddWorkflowInput{Pairs: make([]calculator.Pair, MaxPairsPerWorkflow+1)},
			wantErr:     true,
			errContains: "too many pairs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, strings.Contains(err.Error(), tt.errContains))
				return
			}
			require.NoError(t, err)
		})
	}
}
