// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package temporal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"calculadora/internal/config"
)

// WorkerOptions contains configuration for TemporalWorker.
type WorkerOptions struct {
	// HostPort is the Temporal frontend address (default: client.DefaultHostPort).
	HostPort string
	// TaskQueue is the task queue name for this worker.
	TaskQueue string
	// Namespace is the Temporal namespace (default: "default").
	Namespace string
	// MaxConcurrent is max concurrent activity executions (default: 10).
	MaxConcurrent int
	// Logger receives Temporal SDK logs (default: slog.Default()).
	Logger *slog.Logger
}

// OptionsFromConfig maps the temporal config section onto WorkerOptions.
func OptionsFromConfig(cfg config.TemporalConfig) WorkerOptions {
	return WorkerOptions{
		HostPort:      cfg.HostPort,
		TaskQueue:     cfg.TaskQueue,
		Namespace:     cfg.Namespace,
		MaxConcurrent: cfg.MaxConcurrent,
	}
}

func (o WorkerOptions) withDefaults() (WorkerOptions, error) {
	if o.TaskQueue == "" {
		return o, errors.New("task_queue is required")
	}
	if o.HostPort == "" {
		o.HostPort = client.DefaultHostPort
	}
	if o.Namespace == "" {
		o.Namespace = client.DefaultNamespace
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = 10
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o, nil
}

// Dial connects a Temporal client using the options' address, namespace and logger.
func Dial(opts WorkerOptions) (client.Client, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	c, err := client.Dial(client.Options{
		HostPort:  opts.HostPort,
		Namespace: opts.Namespace,
		Logger:    log.NewStructuredLogger(opts.Logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create temporal client: %w", err)
	}
	return c, nil
}

// TemporalWorker manages Temporal client and worker lifecycle.
type TemporalWorker struct {
	client  client.Client
	worker  worker.Worker
	opts    WorkerOptions
	started bool
	mu      sync.RWMutex
}

// NewTemporalWorker dials Temporal and creates a worker with the addition
// workflow and activities registered.
func NewTemporalWorker(ctx context.Context, opts WorkerOptions) (*TemporalWorker, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	c, err := Dial(opts)
	if err != nil {
		return nil, err
	}

	w := worker.New(c, opts.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize: opts.MaxConcurrent,
	})
	RegisterAll(w)

	return &TemporalWorker{
		client: c,
		worker: w,
		opts:   opts,
	}, nil
}

// Registry is the part of a worker (or test environment) RegisterAll needs.
type Registry interface {
	RegisterWorkflow(w interface{})
	RegisterActivity(a interface{})
}

// RegisterAll registers AddWorkflow and SumActivities on r.
func RegisterAll(r Registry) {
	r.RegisterWorkflow(AddWorkflow)
	r.RegisterActivity(NewSumActivities())
}

// Client returns the underlying Temporal client.
func (w *TemporalWorker) Client() client.Client {
	return w.client
}

// Start begins the worker's execution loop.
// Idempotent: calling Start multiple times is safe.
func (w *TemporalWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return nil
	}

	if w.worker == nil {
		return errors.New("worker not initialized")
	}

	if err := w.worker.Start(); err != nil {
		return fmt.Errorf("failed to start worker: %w", err)
	}

	w.started = true
	return nil
}

// Stop gracefully shuts down the worker.
// Idempotent: calling Stop multiple times is safe.
func (w *TemporalWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return nil
	}

	w.worker.Stop()
	w.started = false

	return nil
}

// Started reports whether the worker is polling.
func (w *TemporalWorker) Started() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

// Close stops the worker if needed and closes the Temporal client connection.
func (w *TemporalWorker) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started && w.worker != nil {
		w.worker.Stop()
		w.started = false
	}

	if w.client != nil {
		w.client.Close()
	}

	return nil
}
