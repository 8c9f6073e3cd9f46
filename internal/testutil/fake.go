// Package testutil holds scripted stand-ins for subprocesses and prompts.
package testutil

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/daryltucker/monorepo-release/internal/execx"
)

// ErrNotScripted is the failure returned for commands without a script.
var ErrNotScripted = errors.New("not scripted")

// Executor replays scripted results keyed by the full command line
// ("git rev-parse --abbrev-ref HEAD"). Unscripted commands fail, which the
// lenient reads see as "".
type Executor struct {
	mu      sync.Mutex
	scripts map[string]execx.Result
	Calls   []string

	// AfterRun, when set, is called with each command line once it ran.
	AfterRun func(line string)
}

func NewExecutor() *Executor {
	return &Executor{scripts: make(map[string]execx.Result)}
}

// OK scripts a successful command printing stdout.
func (e *Executor) OK(line, stdout string) *Executor {
	return e.Script(line, execx.Result{Stdout: stdout})
}

// Fail scripts a command exiting 1 with stderr.
func (e *Executor) Fail(line, stderr string) *Executor {
	return e.Script(line, execx.Result{Stderr: stderr, Code: 1, Err: errors.New("exit status 1")})
}

// Script registers an arbitrary result for line.
func (e *Executor) Script(line string, r execx.Result) *Executor {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scripts[line] = r
	return e
}

func (e *Executor) Run(_ context.Context, name string, args ...string) execx.Result {
	line := strings.Join(append([]string{name}, args...), " ")
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Calls = append(e.Calls, line)
	r, ok := e.scripts[line]
	if !ok {
		r = execx.Result{Code: 1, Err: ErrNotScripted}
	}
	r.Name, r.Args = name, args
	if e.AfterRun != nil {
		e.AfterRun(line)
	}
	return r
}

// Called reports whether any recorded call starts with prefix.
func (e *Executor) Called(prefix string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range e.Calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

var readOnly = []string{
	"git rev-parse", "git status", "lerna diff", "lerna ls",
	"lerna -v", "npm -v", "node -v",
}

// Mutations returns the recorded calls that are not read-only probes.
func (e *Executor) Mutations() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []string
next:
	for _, c := range e.Calls {
		for _, p := range readOnly {
			if strings.HasPrefix(c, p) {
				continue next
			}
		}
		out = append(out, c)
	}
	return out
}

// Confirmer answers from a queue and records every question.
type Confirmer struct {
	Answers   []bool
	Questions []string
	Err       error
}

func (c *Confirmer) Confirm(_ context.Context, question string, def bool) (bool, error) {
	c.Questions = append(c.Questions, question)
	if c.Err != nil {
		return false, c.Err
	}
	if len(c.Answers) == 0 {
		return def, nil
	}
	a := c.Answers[0]
	c.Answers = c.Answers[1:]
	return a, nil
}
