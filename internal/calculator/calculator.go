// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package calculator implements the Calculadora adder.
//
// Operands are 32-bit signed integers. Add wraps on overflow the way Go's
// native int32 arithmetic does; AddChecked reports it instead.
package calculator

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow is returned by AddChecked when the sum does not fit in an Operand.
var ErrOverflow = errors.New("integer overflow")

// Operand is one of the two inputs to an addition.
type Operand = int32

// Pair is a single addition to perform.
type Pair struct {
	A Operand `json:"a"`
	B Operand `json:"b"`
}

// Result is a Pair together with its sum.
type Result struct {
	Pair
	Sum Operand `json:"sum"`
}

// String renders the result as "a + b = sum".
func (r Result) String() string {
	return fmt.Sprintf("%d + %d = %d", r.A, r.B, r.Sum)
}

// Calculator is the Calculadora. The zero value is ready to use.
type Calculator struct{}

// New returns a Calculator.
func New() Calculator {
	return Calculator{}
}

// Add returns a + b.
func (Calculator) Add(a, b Operand) Operand {
	return Add(a, b)
}

// Eval adds the pair's operands.
func (c Calculator) Eval(p Pair) Result {
	return Result{Pair: p, Sum: c.Add(p.A, p.B)}
}

// Add returns a + b, wrapping on overflow.
func Add(a, b Operand) Operand {
	return a + b
}

// AddChecked returns a + b, or ErrOverflow if the sum is out of range.
func AddChecked(a, b Operand) (Operand, error) {
	wide := int64(a) + int64(b)
	if wide > math.MaxInt32 || wide < math.MinInt32 {
		return 0, fmt.Errorf("%d + %d: %w", a, b, ErrOverflow)
	}
	return Operand(wide), nil
}

// Sum folds Add over operands from the left. It returns 0 for no operands.
func Sum(operands ...Operand) Operand {
	var total Operand
	for _, o := range operands {
		total = Add(total, o)
	}
	return total
}
