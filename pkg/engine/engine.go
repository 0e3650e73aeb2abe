// Package engine provides the Lisp query console for facet. It wraps zygomys
// in a sandboxed environment, exposes the geometry kernel as builtins and
// produces a Scene holding the defined shapes and query results.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/kernel"
	"github.com/chazu/facet/pkg/kernel/sdfx"
	"github.com/chazu/facet/pkg/scene"
)

// DefaultDedupeEpsilon is the distance under which polygon vertices merge.
const DefaultDedupeEpsilon = 1e-9

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning represents a non-fatal warning produced by validating the
// evaluated scene.
type EvalWarning struct {
	Message string
	Shape   string
}

func (w EvalWarning) String() string {
	if w.Shape == "" {
		return w.Message
	}
	return fmt.Sprintf("%s: %s", w.Shape, w.Message)
}

// EvalResult bundles the full output of an evaluation.
type EvalResult struct {
	Scene    *scene.Scene
	Errors   []EvalError
	Warnings []EvalWarning
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout overrides EvalTimeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithKernel sets the solid kernel used by box, raycast and friends.
func WithKernel(k kernel.Kernel) Option {
	return func(e *Engine) { e.kernel = k }
}

// WithOptions sets the geometry options passed to hull and rotation queries.
func WithOptions(opts geom.Options) Option {
	return func(e *Engine) { e.opts = opts }
}

// WithDedupeEpsilon sets the polygon vertex merge distance.
func WithDedupeEpsilon(eps float64) Option {
	return func(e *Engine) { e.dedupe = eps }
}

// Engine wraps the zygomys interpreter for facet evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	timeout time.Duration
	kernel  kernel.Kernel
	opts    geom.Options
	dedupe  float64
}

// NewEngine creates a new Engine. Without options it meshes with sdfx and uses
// the default geometry options.
func NewEngine(options ...Option) *Engine {
	e := &Engine{
		timeout: EvalTimeout,
		opts:    geom.DefaultOptions(),
		dedupe:  DefaultDedupeEpsilon,
	}
	for _, o := range options {
		o(e)
	}
	if e.kernel == nil {
		e.kernel = sdfx.New()
	}
	return e
}

// Evaluate takes Lisp source code and produces a new Scene.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns scene + nil errors + nil error
//   - On parse/eval failure: returns nil scene + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*scene.Scene, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		s, evalErrs, err := e.evaluate(source)
		if s != nil {
			s.Version = gen
		}
		ch <- evalResult{scene: s, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation, e.timeout)
}

// Run evaluates source and validates the resulting scene. Blocking
// validation findings are reported as eval errors.
func (e *Engine) Run(source string) (EvalResult, error) {
	s, evalErrs, err := e.Evaluate(source)
	if err != nil {
		return EvalResult{}, err
	}
	result := EvalResult{Scene: s, Errors: evalErrs}
	if s == nil {
		return result, nil
	}

	v := scene.ValidateAll(s)
	for _, ve := range v.Errors {
		result.Errors = append(result.Errors, EvalError{Message: ve.Error()})
	}
	for _, w := range v.Warnings {
		result.Warnings = append(result.Warnings, EvalWarning{Message: w.Message, Shape: w.Shape})
	}
	return result, nil
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*scene.Scene, []EvalError, error) {
	// Empty source is a valid program that produces an empty scene.
	if strings.TrimSpace(source) == "" {
		return scene.New(), nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	s := scene.New()
	registerBuiltins(env, newEvalContext(s, e.kernel, e.opts, e.dedupe))

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	_, err = env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	return s, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values,
// extracting a line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
