// Where: internal/dsl/hooks.go
// What: Named before/after task hooks and per-task option overrides.
// Why: Let application files extend built-in commands at fixed points.
package dsl

import (
	"context"
	"fmt"
)

// DefaultTask is the task name used when none is given.
const DefaultTask = "main"

// Phase selects when a hook runs relative to its task's main action.
type Phase int

const (
	// PhaseAfter is the zero value: hooks run after the main action.
	PhaseAfter Phase = iota
	PhaseBefore
)

func (p Phase) String() string {
	if p == PhaseBefore {
		return "before"
	}
	return "after"
}

// Hook is a callback run with the invoking command's session.
type Hook func(ctx context.Context, s *Session) error

// TaskOptions overrides built-in command defaults for one task.
type TaskOptions map[string]any

// Bool returns the boolean option for key and whether it is set as a bool.
func (o TaskOptions) Bool(key string) (value bool, ok bool) {
	value, ok = o[key].(bool)
	return value, ok
}

// Disabled reports whether key is explicitly set to false.
func (o TaskOptions) Disabled(key string) bool {
	value, ok := o.Bool(key)
	return ok && !value
}

type hookKey struct {
	task  string
	phase Phase
}

// Hooks holds ordered hooks per (task, phase) and option overrides per task.
type Hooks struct {
	hooks   map[hookKey][]Hook
	options map[string]TaskOptions
}

// NewHooks returns an empty hook registry.
func NewHooks() *Hooks {
	return &Hooks{
		hooks:   map[hookKey][]Hook{},
		options: map[string]TaskOptions{},
	}
}

type taskConfig struct {
	phase   Phase
	options TaskOptions
}

// TaskOption configures a Task registration.
type TaskOption func(*taskConfig)

// WithPhase selects the hook phase; PhaseAfter when omitted.
func WithPhase(phase Phase) TaskOption {
	return func(c *taskConfig) { c.phase = phase }
}

// WithOption merges an option override into the task's options.
func WithOption(key string, value any) TaskOption {
	return func(c *taskConfig) {
		if c.options == nil {
			c.options = TaskOptions{}
		}
		c.options[key] = value
	}
}

// WithOptions merges several option overrides.
func WithOptions(options TaskOptions) TaskOption {
	return func(c *taskConfig) {
		for key, value := range options {
			WithOption(key, value)(c)
		}
	}
}

// Task appends hook to the (name, phase) list and merges any options into the
// task's overrides, later keys winning. A nil hook only merges options.
func (h *Hooks) Task(name string, hook Hook, opts ...TaskOption) {
	if name == "" {
		name = DefaultTask
	}
	cfg := taskConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if hook != nil {
		key := hookKey{task: name, phase: cfg.phase}
		h.hooks[key] = append(h.hooks[key], hook)
	}
	if len(cfg.options) > 0 {
		merged := h.TaskOpts(name)
		for k, v := range cfg.options {
			merged[k] = v
		}
	}
}

// BeforeTask registers hook to run before the task's main action.
func (h *Hooks) BeforeTask(name string, hook Hook) {
	h.Task(name, hook, WithPhase(PhaseBefore))
}

// TaskOpts returns the live option overrides for name, creating them on first use.
func (h *Hooks) TaskOpts(name string) TaskOptions {
	if name == "" {
		name = DefaultTask
	}
	opts, ok := h.options[name]
	if !ok {
		opts = TaskOptions{}
		h.options[name] = opts
	}
	return opts
}

// Count returns the number of hooks registered for (name, phase).
func (h *Hooks) Count(name string, phase Phase) int {
	if name == "" {
		name = DefaultTask
	}
	return len(h.hooks[hookKey{task: name, phase: phase}])
}

// Invoke runs the hooks for (name, phase) in registration order. Nil hooks are
// skipped; the first error stops the run and is returned.
func (h *Hooks) Invoke(ctx context.Context, s *Session, name string, phase Phase) error {
	if name == "" {
		name = DefaultTask
	}
	for i, hook := range h.hooks[hookKey{task: name, phase: phase}] {
		if hook == nil {
			continue
		}
		if err := hook(ctx, s); err != nil {
			return fmt.Errorf("%s %s hook #%d: %w", phase, name, i+1, err)
		}
	}
	return nil
}

// Task registers a hook on the session's hook registry.
func (s *Session) Task(name string, hook Hook, opts ...TaskOption) {
	s.hooks.Task(name, hook, opts...)
}

// BeforeTask registers a before hook on the session's hook registry.
func (s *Session) BeforeTask(name string, hook Hook) {
	s.hooks.BeforeTask(name, hook)
}

// TaskOpts returns the option overrides for a task.
func (s *Session) TaskOpts(name string) TaskOptions {
	return s.hooks.TaskOpts(name)
}

// InvokeHooksFor runs the hooks registered for (name, phase) with this session.
func (s *Session) InvokeHooksFor(ctx context.Context, name string, phase Phase) error {
	return s.hooks.Invoke(ctx, s, name, phase)
}
