package process

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/fsmkit/pkg/domain"
	"github.com/aretw0/fsmkit/pkg/registry"
)

const defaultTimeout = 30 * time.Second

// Runner turns allow-listed local commands into effects.
// Only registered commands can run; table files name them, never spell them out.
type Runner struct {
	registry map[string]RegisteredProcess
	baseDir  string
	timeout  time.Duration
}

// RegisteredProcess defines an allowed command execution.
type RegisteredProcess struct {
	Command string
	Args    []string
	Env     map[string]string
	Timeout time.Duration
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithRegistry populates the allow-list from a loaded config.
func WithRegistry(effects map[string]ProcessConfig) RunnerOption {
	return func(r *Runner) {
		for name, e := range effects {
			timeout, _ := time.ParseDuration(e.Timeout)
			r.registry[name] = RegisteredProcess{
				Command: e.Command,
				Args:    e.Args,
				Env:     e.Environment,
				Timeout: timeout,
			}
		}
	}
}

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// WithTimeout sets the default limit for a command (30s).
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewRunner creates a new Process Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: make(map[string]RegisteredProcess),
		timeout:  defaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a trusted script/command to the allow-list.
func (r *Runner) Register(name string, command string, args ...string) {
	r.registry[name] = RegisteredProcess{
		Command: command,
		Args:    args,
	}
}

// Names returns the registered effect names, sorted.
func (r *Runner) Names() []string {
	names := make([]string, 0, len(r.registry))
	for name := range r.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Effect returns the effect running the named command. The effect fails
// when the command cannot start, exits non-zero or exceeds its timeout.
func (r *Runner) Effect(name string) (domain.Effect, error) {
	proc, ok := r.registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: process %q not registered", domain.ErrUnknownEffect, name)
	}
	return func() error {
		return r.run(name, proc)
	}, nil
}

// Registry returns a registry holding an effect per registered command.
func (r *Runner) Registry() *registry.Registry {
	reg := registry.NewRegistry()
	for _, name := range r.Names() {
		effect, _ := r.Effect(name)
		reg.Register(name, effect)
	}
	return reg
}

func (r *Runner) run(name string, proc RegisteredProcess) error {
	timeout := proc.Timeout
	if timeout <= 0 {
		timeout = r.timeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, proc.Command, proc.Args...)
	cmd.Dir = r.baseDir

	env := []string{"FSMKIT_EFFECT=" + name}
	for k, v := range proc.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	cmd.Env = append(cmd.Environ(), env...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("process %q timed out after %s", name, timeout)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("process %q failed: %w: %s", name, err, msg)
		}
		return fmt.Errorf("process %q failed: %w", name, err)
	}
	return nil
}
