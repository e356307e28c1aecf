// Where: cmd/dklet/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"io"
	"os"

	"github.com/poruru/dklet/internal/app"
	"github.com/poruru/dklet/internal/config"
	"github.com/poruru/dklet/internal/docker"
	"github.com/poruru/dklet/internal/interaction"
	"github.com/poruru/dklet/internal/logging"
)

var (
	getwd           = os.Getwd
	newDockerClient = docker.NewDockerClient
)

// buildDependencies constructs the runtime dependencies of the CLI.
// Returns the dependencies, a closer for the Docker client, and any
// initialization error.
func buildDependencies() (app.Dependencies, io.Closer, error) {
	if _, err := getwd(); err != nil {
		return app.Dependencies{}, nil, err
	}

	client, err := newDockerClient()
	if err != nil {
		return app.Dependencies{}, nil, err
	}

	deps := app.Dependencies{
		Out:      os.Stdout,
		Err:      os.Stderr,
		In:       os.Stdin,
		Engine:   docker.New(client),
		Prompter: interaction.HuhPrompter{},
		Global:   config.DefaultGlobal,
		Getwd:    getwd,
		SetupLogging: func(verbosity int) io.Closer {
			return logging.Setup(os.Stderr, verbosity)
		},
	}
	return deps, asCloser(client), nil
}

// asCloser returns the Docker client as an io.Closer when it implements one.
func asCloser(client docker.DockerClient) io.Closer {
	if closer, ok := client.(io.Closer); ok {
		return closer
	}
	return nil
}
