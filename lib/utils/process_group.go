package utils

import (
	"runtime"
	"sync"
)

type ParallelOptions struct {
	Routines     int
	InputFactor  int
	OutputFactor int
}

// ParallelFor feeds every element of col to a new ProcessGroup and closes its input when done.
func ParallelFor[T, O any](col []T, proc func(T) (O, error), opts ...ParallelOptions) *ProcessGroup[T, O] {
	group := NewProcessGroup(proc, opts...)

	go func() {
		defer group.FinishedInput()

		for _, w := range col {
			select {
			case <-group.abort:
				return
			case group.Input <- w:
			}
		}
	}()

	return group
}

// ProcessGroup runs proc over everything sent to Input using a fixed number of goroutines.
// Output is closed once all routines have finished. The first error returned by proc, or
// passed to Abort, aborts the whole group.
type ProcessGroup[I, O any] struct {
	proc      func(I) (O, error)
	abort     chan struct{}
	abortOnce sync.Once
	err       error
	wg        sync.WaitGroup
	done      chan struct{}

	Input  chan I
	Output chan O
}

func DefaultRoutines() int {
	return Max(Min(runtime.GOMAXPROCS(-1), runtime.NumCPU())-1, 1)
}

func NewProcessGroup[I, O any](proc func(I) (O, error), opts ...ParallelOptions) *ProcessGroup[I, O] {
	o := ParallelOptions{
		Routines:     DefaultRoutines(),
		InputFactor:  2,
		OutputFactor: 2,
	}
	for _, oi := range opts {
		if oi.Routines > 0 {
			o.Routines = oi.Routines
		}
		if oi.InputFactor > 0 {
			o.InputFactor = oi.InputFactor
		}
		if oi.OutputFactor > 0 {
			o.OutputFactor = oi.OutputFactor
		}
	}

	group := ProcessGroup[I, O]{
		proc:  proc,
		abort: make(chan struct{}),
		done:  make(chan struct{}),

		Input:  make(chan I, o.InputFactor*o.Routines),
		Output: make(chan O, o.OutputFactor*o.Routines),
	}

	for i := 0; i < o.Routines; i++ {
		group.wg.Add(1)
		go group.runProcessor()
	}

	go func() {
		group.wg.Wait()
		close(group.Output)
		close(group.done)
	}()

	return &group
}

func (g *ProcessGroup[I, O]) runProcessor() {
	defer g.wg.Done()

	for {
		select {
		case <-g.abort:
			return

		case input, ok := <-g.Input:
			if !ok {
				return
			}

			output, err := g.proc(input)
			if err != nil {
				g.Abort(err)
				return
			}

			select {
			case <-g.abort:
				return
			case g.Output <- output:
			}
		}
	}
}

func (g *ProcessGroup[I, O]) FinishedInput() {
	close(g.Input)
}

// Abort stops all routines. Only the first error is kept.
func (g *ProcessGroup[I, O]) Abort(err error) {
	g.abortOnce.Do(func() {
		g.err = err
		close(g.abort)
	})
}

func (g *ProcessGroup[I, O]) Aborted() bool {
	select {
	case <-g.abort:
		return true
	default:
		return false
	}
}

// Error waits for the group to finish and returns the error that aborted it, if any.
// Output must be drained before calling it, by the same goroutine that may call Abort.
func (g *ProcessGroup[I, O]) Error() error {
	<-g.done
	return g.err
}
