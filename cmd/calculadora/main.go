// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Command calculadora adds integers locally, from a batch file, or through a
// Temporal worker.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.temporal.io/sdk/worker"

	"calculadora/internal/batch"
	"calculadora/internal/calculator"
	"calculadora/internal/config"
	"calculadora/internal/logging"
	"calculadora/internal/telemetry"
	"calculadora/internal/temporal"
)

const usage = `usage: calculadora [-config PATH] <command> [args]

commands:
  add [-checked] A B         print A + B
  batch [-file PATH]         add one "A B" pair per line (stdin by default)
  worker                     run a Temporal worker for AddWorkflow
  submit [-file PATH] [A B]  run AddWorkflow and print the results
`

var errUsage = errors.New("invalid usage")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		fmt.Fprintln(os.Stderr, "calculadora:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	global := flag.NewFlagSet("calculadora", flag.ContinueOnError)
	global.SetOutput(io.Discard)
	configPath := global.String("config", "", "Path to config YAML (default: ./.calculadora/config.yaml if present)")
	if err := global.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.Setup(cfg.Logging)
	if err != nil {
		return err
	}

	tp, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn("Tracer shutdown failed", "error", err)
		}
	}()

	rest := global.Args()
	if len(rest) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	switch cmd, cmdArgs := rest[0], rest[1:]; cmd {
	case "add":
		return runAdd(ctx, cmdArgs, stdout)
	case "batch":
		return runBatch(ctx, cmdArgs, stdout)
	case "worker":
		return runWorker(ctx, cfg, logger)
	case "submit":
		return runSubmit(ctx, cfg, logger, cmdArgs, stdout)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	if _, err := os.Stat(filepath.Join(cwd, ".calculadora", "config.yaml")); err == nil {
		return config.LoadFromDir(cwd)
	}

	cfg := config.Default()
	cfg.ApplyEnv()
	return cfg, nil
}

// parseArgs parses the flags in args and returns the remaining operands.
// Integer tokens such as "-2" are operands, never flags.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var flags, operands []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			operands = append(operands, args[i+1:]...)
			break
		}
		if _, err := batch.ParseOperand(arg); err == nil || !strings.HasPrefix(arg, "-") {
			operands = append(operands, arg)
			continue
		}

		flags = append(flags, arg)
		name := strings.TrimLeft(arg, "-")
		if strings.Contains(name, "=") {
			continue
		}
		if f := fs.Lookup(name); f != nil && !isBoolFlag(f) && i+1 < len(args) {
			i++
			flags = append(flags, args[i])
		}
	}

	if err := fs.Parse(flags); err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	return append(operands, fs.Args()...), nil
}

func isBoolFlag(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

func parsePair(args []string) (calculator.Pair, error) {
	if len(args) != 2 {
		return calculator.Pair{}, fmt.Errorf("%w: expected 2 operands, got %d", errUsage, len(args))
	}
	a, err := batch.ParseOperand(args[0])
	if err != nil {
		return calculator.Pair{}, err
	}
	b, err := batch.ParseOperand(args[1])
	if err != nil {
		return calculator.Pair{}, err
	}
	return calculator.Pair{A: a, B: b}, nil
}

func runAdd(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	checked := fs.Bool("checked", false, "Fail on int32 overflow instead of wrapping")
	operands, err := parseArgs(fs, args)
	if err != nil {
		return err
	}

	pair, err := parsePair(operands)
	if err != nil {
		return err
	}

	ctx, span := telemetry.StartSpan(ctx, "cli.add")
	defer span.End()
	telemetry.AddAttributes(ctx, telemetry.OperandAttrs(pair.A, pair.B)...)

	var sum calculator.Operand
	if *checked {
		if sum, err = calculator.AddChecked(pair.A, pair.B); err != nil {
			telemetry.RecordError(ctx, err)
			return err
		}
	} else {
		sum = calculator.Add(pair.A, pair.B)
	}
	telemetry.AddAttributes(ctx, telemetry.AttrSum.Int(int(sum)))

	slog.Debug("Sum computed", "a", pair.A, "b", pair.B, "sum", sum)
	_, err = fmt.Fprintln(stdout, sum)
	return err
}

func readPairs(path string) ([]calculator.Pair, error) {
	if path == "" || path == "-" {
		return batch.ReadStdin()
	}
	return batch.ReadFile(path)
}

func runBatch(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	file := fs.String("file", "", "Input file (default: stdin)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	_, span := telemetry.StartSpan(ctx, "cli.batch")
	defer span.End()

	pairs, err := readPairs(*file)
	if err != nil {
		return err
	}

	results := batch.Evaluate(pairs)
	slog.Info("Batch evaluated", "pairs", len(results))
	_, err = io.WriteString(stdout, batch.Format(results))
	return err
}

func runWorker(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	opts := temporal.OptionsFromConfig(cfg.Temporal)
	opts.Logger = logger

	w, err := temporal.NewTemporalWorker(ctx, opts)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Start(ctx); err != nil {
		return err
	}
	logger.Info("Worker listening", "task_queue", cfg.Temporal.TaskQueue, "namespace", cfg.Temporal.Namespace)

	<-worker.InterruptCh()
	logger.Info("Shutdown signal received")

	return w.Stop(ctx)
}

func runSubmit(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	file := fs.String("file", "", "Input file of pairs (instead of A B)")
	checked := fs.Bool("checked", false, "Fail the run on int32 overflow")
	id := fs.String("id", "", "Workflow ID (default: generated)")
	operands, err := parseArgs(fs, args)
	if err != nil {
		return err
	}

	var pairs []calculator.Pair
	if *file != "" {
		if pairs, err = readPairs(*file); err != nil {
			return err
		}
	} else {
		pair, err := parsePair(operands)
		if err != nil {
			return err
		}
		pairs = []calculator.Pair{pair}
	}

	workflowID := *id
	if workflowID == "" {
		workflowID = fmt.Sprintf("calculadora-%d", time.Now().UnixNano())
	}

	opts := temporal.OptionsFromConfig(cfg.Temporal)
	opts.Logger = logger
	c, err := temporal.Dial(opts)
	if err != nil {
		return err
	}
	defer c.Close()

	out, err := temporal.Submit(ctx, c, cfg.Temporal.TaskQueue, workflowID,
		temporal.AddWorkflowInput{Pairs: pairs, Checked: *checked})
	if err != nil {
		return err
	}

	logger.Info("Workflow completed", "workflow_id", workflowID, "total", out.Total)
	if _, err := io.WriteString(stdout, batch.Format(out.Results)); err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "total = %d\n", out.Total)
	return err
}
