// Package pipeline provides the stage abstraction and the typed inputs and
// results passed between yuvenc stages.
package pipeline

import (
	"context"
	"time"

	"github.com/user/yuvenc/pkg/ports"
)

// Stage is one step of an encode session.
type Stage[In, Out any] interface {
	Execute(ctx context.Context, input In) (Out, error)
}

// StageFunc lets a plain function act as a Stage.
type StageFunc[In, Out any] func(ctx context.Context, input In) (Out, error)

// Execute calls f.
func (f StageFunc[In, Out]) Execute(ctx context.Context, input In) (Out, error) {
	return f(ctx, input)
}

// Timed wraps stage so that each successful run logs its wall time at
// debug level under name.
func Timed[In, Out any](name string, stage Stage[In, Out], log ports.Logger) Stage[In, Out] {
	return StageFunc[In, Out](func(ctx context.Context, input In) (Out, error) {
		start := time.Now()
		out, err := stage.Execute(ctx, input)
		if err == nil {
			log.Debug("Stage %s finished in %s", name, time.Since(start).Round(time.Microsecond))
		}
		return out, err
	})
}
