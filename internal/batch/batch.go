// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package batch reads operand pairs, one per line, and evaluates them.
//
// A line holds two integers separated by whitespace. Blank lines and lines
// starting with '#' are ignored.
package batch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bitfield/script"

	"calculadora/internal/calculator"
)

// Parse reads every line of p into pairs. Errors carry the 1-based line number.
func Parse(p *script.Pipe) ([]calculator.Pair, error) {
	lines, err := p.FilterLine(strings.TrimSpace).Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	pairs := make([]calculator.Pair, 0, len(lines))
	for i, line := range lines {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pair, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

func parseLine(line string) (calculator.Pair, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return calculator.Pair{}, fmt.Errorf("expected 2 operands, got %d", len(fields))
	}

	a, err := ParseOperand(fields[0])
	if err != nil {
		return calculator.Pair{}, err
	}
	b, err := ParseOperand(fields[1])
	if err != nil {
		return calculator.Pair{}, err
	}
	return calculator.Pair{A: a, B: b}, nil
}

// ParseOperand parses a decimal 32-bit integer
func ParseOperand(s string) (calculator.Operand, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid operand %q: %w", s, err)
	}
	return calculator.Operand(v), nil
}

// ReadFile parses the pairs in the file at path
func ReadFile(path string) ([]calculator.Pair, error) {
	return Parse(script.File(path))
}

// ReadStdin parses the pairs on standard input
func ReadStdin() ([]calculator.Pair, error) {
	return Parse(script.Stdin())
}

// Evaluate adds every pair in order
func Evaluate(pairs []calculator.Pair) []calculator.Result {
	calc := calculator.New()
	results := make([]calculator.Result, len(pairs))
	for i, p := range pairs {
		results[i] = calc.Eval(p)
	}
	return results
}

// Format renders one "a + b = sum" line per result
func Format(results []calculator.Result) string {
	var sb strings.Builder
	for _, r := range results {
		sb.WriteString(r.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
