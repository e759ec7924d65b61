// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package temporal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	"calculadora/internal/calculator"
)

func matchOptions(id, queue string) interface{} {
	return mock.MatchedBy(func(o client.StartWorkflowOptions) bool {
		return o.ID == id && o.TaskQueue == queue
	})
}

func TestSubmitPair_Success(t *testing.T) {
	run := &mocks.WorkflowRun{}
	run.On("Get", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			out := args.Get(1).(*AddWorkflowOutput)
			*out = AddWorkflowOutput{
				Results: []calculator.Result{{Pair: calculator.Pair{A: 2, B: 3}, Sum: 5}},
				Total:   5,
			}
		}).
		Return(nil)

	mockClient := &mocks.Client{}
	mockClient.On("ExecuteWorkflow", mock.Anything, matchOptions("add-1", "adders"), mock.Anything, mock.Anything).
		Return(run, nil)

	res, err := SubmitPair(context.Background(), mockClient, "adders", "add-1", 2, 3)

	require.NoError(t, err)
	assert.Equal(t, calculator.Operand(5), res.Sum, "2 + 3 should equal 5")
	mockClient.AssertExpectations(t)
	run.AssertExpectations(t)
}

func TestSubmit_StartFailure(t *testing.T) {
	mockClient := &mocks.Client{}
	mockClient.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("frontend unavailable"))

	_, err := Submit(context.Background(), mockClient, "adders", "add-2",
		AddWorkflowInput{Pairs: []calculator.Pair{{A: 1, B: 1}}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start workflow")
	assert.Contains(t, err.Error(), "frontend unavailable")
}

func TestSubmit_WorkflowFailure(t *testing.T) {
	run := &mocks.WorkflowRun{}
	run.On("Get", mock.Anything, mock.Anything).Return(errors.New("pair 0: integer overflow"))
	run.On("GetID").Return("add-3")

	mockClient := &mocks.Client{}
	mockClient.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(run, nil)

	_, err := Submit(context.Background(), mockClient, "adders", "add-3",
		AddWorkflowInput{Pairs: []calculator.Pair{{A: 1, B: 1}}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "workflow add-3 failed")
}

func TestSubmit_InvalidInput(t *testing.T) {
	mockClient := &mocks.Client{}

	_, err := Submit(context.Background(), mockClient, "adders", "add-4", AddWorkflowInput{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid input")
	mockClient.AssertNotCalled(t, "ExecuteWorkflow")
}
