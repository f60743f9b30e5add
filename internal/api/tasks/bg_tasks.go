package tasks

import (
	"context"
	"filmhub/proj/internal/metrics"
	"log/slog"
	"sync"
)

type task struct {
	name string
	fn   func()
}

// BackgroundTasks runs fire-and-forget work on a fixed number of workers.
// Add never blocks the caller: when the queue is full the task is dropped.
type BackgroundTasks struct {
	log        *slog.Logger
	tasks      chan task
	maxWorkers int
	wg         *sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func New(log *slog.Logger, maxWorkers int, maxTasksQueueSize int) *BackgroundTasks {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if maxTasksQueueSize < 0 {
		maxTasksQueueSize = 0
	}
	return &BackgroundTasks{
		log:        log,
		maxWorkers: maxWorkers,
		wg:         &sync.WaitGroup{},
		tasks:      make(chan task, maxTasksQueueSize),
	}
}

func (t *BackgroundTasks) Run() {
	t.wg.Add(t.maxWorkers)
	for i := 0; i < t.maxWorkers; i++ {
		go func(worker int) {
			defer t.wg.Done()
			log := t.log.With("worker", worker)
			for task := range t.tasks {
				t.execute(log, task)
			}
		}(i)
	}
}

func (t *BackgroundTasks) execute(log *slog.Logger, task task) {
	defer func() {
		if err := recover(); err != nil {
			log.Error("task panicked", "task", task.name, "panic", err)
			metrics.BackgroundTasks.WithLabelValues(task.name, "panic").Inc()
		}
	}()
	task.fn()
	metrics.BackgroundTasks.WithLabelValues(task.name, "done").Inc()
	log.Debug("task done", "task", task.name)
}

// Add schedules fn and reports whether it was accepted.
func (t *BackgroundTasks) Add(name string, fn func()) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		t.log.Warn("task rejected after shutdown", "task", name)
		metrics.BackgroundTasks.WithLabelValues(name, "dropped").Inc()
		return false
	}
	select {
	case t.tasks <- task{name: name, fn: fn}:
		return true
	default:
		t.log.Warn("tasks queue is full, dropping task", "task", name)
		metrics.BackgroundTasks.WithLabelValues(name, "dropped").Inc()
		return false
	}
}

// Shutdown stops accepting tasks and waits for queued ones to finish.
func (t *BackgroundTasks) Shutdown(ctx context.Context) error {
	const op = "tasks.BackgroundTasks.Shutdown"
	log := t.log.With("op", op)
	log.Info("shutting down background tasks")
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		close(t.tasks)
	}
	t.mu.Unlock()
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		log.Warn("graceful shutdown timed out.. forcing exit", "timeout", ctx.Err())
		return ctx.Err()
	case <-done:
		log.Info("background tasks successfully stopped")
		return nil
	}
}

func (t *BackgroundTasks) IsEmpty() bool {
	return len(t.tasks) == 0
}
