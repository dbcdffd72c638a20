// Package async holds three-state results for independent reads that are
// issued concurrently and joined before a decision is made on them.
package async

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// State is the lifecycle of one async source
type State int

const (
	Loading State = iota
	Resolved
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Result is the outcome of one async source. The zero value is Loading.
type Result[T any] struct {
	State State
	Value T
	Err   error
}

// Resolve returns a Resolved result holding v
func Resolve[T any](v T) Result[T] {
	return Result[T]{State: Resolved, Value: v}
}

// Fail returns a Failed result holding err
func Fail[T any](err error) Result[T] {
	return Result[T]{State: Failed, Err: err}
}

func (r Result[T]) IsLoading() bool  { return r.State == Loading }
func (r Result[T]) IsResolved() bool { return r.State == Resolved }
func (r Result[T]) IsFailed() bool   { return r.State == Failed }

// Group runs sources concurrently. A failing source does not cancel the
// others; each result records its own outcome.
type Group struct {
	g errgroup.Group
}

// Go starts fn on the group and returns the slot its result lands in.
// The slot reads Loading until Wait returns.
func Go[T any](grp *Group, ctx context.Context, fn func(context.Context) (T, error)) *Result[T] {
	res := &Result[T]{}
	grp.g.Go(func() error {
		v, err := fn(ctx)
		if err != nil {
			*res = Fail[T](err)
			return nil
		}
		*res = Resolve(v)
		return nil
	})
	return res
}

// Wait blocks until every source started with Go has finished.
func (grp *Group) Wait() {
	_ = grp.g.Wait()
}
