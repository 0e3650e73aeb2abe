package engine

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/chazu/facet/pkg/scene"
)

// EvalTimeout is the default limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrSuperseded is returned to an evaluation whose script was replaced by
	// a newer Evaluate call before it finished.
	ErrSuperseded = errors.New("scene superseded by a newer script")
	// ErrTimeout is returned when a script runs past the engine's timeout.
	// Queries in flight keep running; their scene is thrown away.
	ErrTimeout = errors.New("script evaluation timed out")
)

// evalResult carries one evaluation's outcome from the sandbox goroutine.
type evalResult struct {
	scene  *scene.Scene
	errors []EvalError
	err    error
}

// waitWithTimeout waits for the scene built by generation gen. A result that
// arrives after currentGen has moved on is dropped with ErrSuperseded.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
	timeout time.Duration,
) (*scene.Scene, []EvalError, error) {
	if timeout <= 0 {
		timeout = EvalTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, errors.Wrapf(ErrSuperseded, "generation %d, current %d", gen, current)
		}
		return res.scene, res.errors, res.err

	case <-timer.C:
		return nil, nil, errors.Wrapf(ErrTimeout, "after %s", timeout)
	}
}
