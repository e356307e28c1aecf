// Where: internal/app/runtime.go
// What: Per-command runtime: env loading, profile resolution and session wiring.
// Why: Build one session per invocation with the flags applied before anything resolves.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/poruru/dklet/internal/constants"
	"github.com/poruru/dklet/internal/dkletfile"
	"github.com/poruru/dklet/internal/dsl"
	"github.com/poruru/dklet/internal/envutil"
	"github.com/poruru/dklet/internal/interaction"
	"github.com/poruru/dklet/internal/logging"
	"github.com/poruru/dklet/internal/meta"
	"github.com/poruru/dklet/internal/ui"
	"github.com/rs/zerolog"
)

type runtime struct {
	cli     CLI
	deps    Dependencies
	ctx     context.Context
	session *dsl.Session
	file    *dkletfile.File
	console *ui.Console
	logger  zerolog.Logger
}

type profileHandler func(*runtime) error

// withProfile runs h with a session built from the application file; a
// missing file is an error.
func withProfile(h profileHandler) commandHandler {
	return runWith(true, h)
}

// withOptionalProfile runs h with a session that may have no application file.
func withOptionalProfile(h profileHandler) commandHandler {
	return runWith(false, h)
}

// withTag runs h only for profiles registering tag.
func withTag(tag string, h profileHandler) commandHandler {
	return withProfile(func(rt *runtime) error {
		if !rt.session.HasAppTag(tag) {
			return fmt.Errorf("%w %s", ErrTagRequired, tag)
		}
		return h(rt)
	})
}

func runWith(required bool, h profileHandler) commandHandler {
	return func(cli CLI, deps Dependencies) int {
		rt, err := newRuntime(cli, deps, required)
		if err != nil {
			return exitWithError(deps.Err, err)
		}
		if err := h(rt); err != nil {
			return exitWithError(deps.Err, err)
		}
		return 0
	}
}

func newRuntime(cli CLI, deps Dependencies, required bool) (*runtime, error) {
	rt := &runtime{
		cli:     cli,
		deps:    deps,
		ctx:     context.Background(),
		console: ui.New(deps.Out),
		logger:  logging.For("app"),
	}
	rt.loadEnvFile()

	envutil.Set(constants.EnvAppEnv, cli.Env)
	envutil.Set(constants.EnvAppRelease, cli.Release)

	path, err := rt.appFilePath()
	if err != nil {
		return nil, err
	}
	file, err := dkletfile.Load(path)
	switch {
	case err == nil:
	case errors.Is(err, dkletfile.ErrNotFound) && !required:
		file, path = nil, ""
	default:
		return nil, err
	}

	global, err := deps.Global()
	if err != nil {
		return nil, fmt.Errorf("load global config: %w", err)
	}

	rt.file = file
	rt.session = dsl.New(dsl.Options{
		ScriptFile: path,
		Global:     global,
		Engine:     deps.Engine,
		Logger:     logging.For("dsl"),
		TempDir:    deps.TempDir,
		Context:    rt.ctx,
	})
	if err := dkletfile.Apply(rt.session, file, hookActions{rt: rt}); err != nil {
		return nil, err
	}
	rt.logger.Debug().
		Str("file", path).
		Str("env", rt.session.Env()).
		Str("release", rt.session.Release()).
		Msg("profile loaded")
	return rt, nil
}

// loadEnvFile loads --env-file, or .env in the working directory when present.
func (rt *runtime) loadEnvFile() {
	if rt.cli.EnvFile != "" {
		if err := godotenv.Load(rt.cli.EnvFile); err != nil {
			fmt.Fprintf(rt.deps.Err, "Warning: failed to load env file %s: %v\n", rt.cli.EnvFile, err)
		}
		return
	}
	wd, err := rt.deps.Getwd()
	if err != nil {
		return
	}
	path := filepath.Join(wd, ".env")
	if _, err := os.Stat(path); err == nil {
		if err := godotenv.Load(path); err != nil {
			fmt.Fprintf(rt.deps.Err, "Warning: failed to load .env: %v\n", err)
		}
	}
}

func (rt *runtime) appFilePath() (string, error) {
	if rt.cli.File != "" {
		return filepath.Abs(rt.cli.File)
	}
	if path, ok := envutil.Get(envutil.OS(), constants.EnvAppFile); ok {
		return filepath.Abs(path)
	}
	wd, err := rt.deps.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, meta.DefaultAppFile), nil
}

func (rt *runtime) confirm(message string) (bool, error) {
	return interaction.Confirmer{
		Prompter: rt.deps.Prompter,
		In:       rt.deps.In,
		Out:      rt.deps.Out,
		Force:    rt.cli.Force,
	}.Confirm(message)
}

func (rt *runtime) invokeHooks(task string, phase dsl.Phase) error {
	return rt.session.InvokeHooksFor(rt.ctx, task, phase)
}

type hookActions struct {
	rt *runtime
}

func (a hookActions) Sh(_ context.Context, _ *dsl.Session, script string) error {
	return a.rt.system(script)
}

func (a hookActions) Exec(_ context.Context, _ *dsl.Session, script string) error {
	return a.rt.containerRun(script, runOptions{})
}
