package worker

import (
	"context"
	"sync"
)

// Task represents a unit of batch work to be executed.
type Task interface {
	Run(ctx context.Context) TaskResult
}

// TaskResult represents the outcome of a task.
type TaskResult interface {
	Err() error
}

// Pool executes tasks with bounded parallelism. Results come back in task
// order regardless of completion order.
type Pool struct {
	size int
}

// NewPool creates a pool with the given parallelism.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{size: size}
}

// Size returns the pool's parallelism bound.
func (p *Pool) Size() int {
	return p.size
}

// Run executes all tasks and returns one result per task, index-aligned
// with the input. Tasks not yet started when ctx is cancelled return a nil
// result slot; started tasks are responsible for honoring ctx themselves.
func (p *Pool) Run(ctx context.Context, tasks []Task) []TaskResult {
	results := make([]TaskResult, len(tasks))
	if len(tasks) == 0 {
		return results
	}

	sem := make(chan struct{}, p.size)
	var wg sync.WaitGroup

	for i, task := range tasks {
		select {
		case <-ctx.Done():
			wg.Wait()
			return results
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(idx int, t Task) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = t.Run(ctx)
		}(i, task)
	}

	wg.Wait()
	return results
}
