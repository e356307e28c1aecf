// Where: internal/shell/runner.go
// What: Command runner abstraction for shell scripts and external tools.
// Why: Keep process execution swappable so commands can be tested without docker.
package shell

import (
	"context"
	"io"
	"os"
	"os/exec"
)

// CommandRunner defines the interface for executing external commands.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
	RunOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error)
	RunQuiet(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner is a concrete implementation of CommandRunner using os/exec.
// Nil streams fall back to the process stdio.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (r ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = r.stdin()
	cmd.Stdout = r.stdout()
	cmd.Stderr = r.stderr()
	return cmd.Run()
}

func (r ExecRunner) RunOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

func (r ExecRunner) RunQuiet(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.Run()
}

func (r ExecRunner) stdin() io.Reader {
	if r.Stdin != nil {
		return r.Stdin
	}
	return os.Stdin
}

func (r ExecRunner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r ExecRunner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

// Interpreter is the shell used for composed command strings.
const Interpreter = "sh"

// Script runs a composed command string through the shell with stdio attached.
func Script(ctx context.Context, runner CommandRunner, dir, script string) error {
	return runner.Run(ctx, dir, Interpreter, "-c", script)
}

// ScriptOutput runs a composed command string and returns its combined output.
func ScriptOutput(ctx context.Context, runner CommandRunner, dir, script string) ([]byte, error) {
	return runner.RunOutput(ctx, dir, Interpreter, "-c", script)
}
