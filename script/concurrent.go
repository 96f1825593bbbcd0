package script

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Task is one script source plus the Options to run it with, for
// RunConcurrent.
type Task struct {
	Source string
	Opts   []Option
}

// RunConcurrent runs each Task's script on its own vm.Thread in parallel,
// per §5: Leo's execution model is single-threaded per Thread, but nothing
// stops an embedder driving many independent Threads at once, the same way
// gothird's own concurrency boundary sits at the embedder rather than inside
// its interpreter loop. If ctx is cancelled, or any one script's Run returns
// an error, RunConcurrent cancels the rest and returns the first error;
// results are returned in task order regardless of completion order.
func RunConcurrent(ctx context.Context, tasks []Task) ([]*ScriptResult, error) {
	results := make([]*ScriptResult, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			result, err := Run(gctx, task.Source, task.Opts...)
			results[i] = result
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
