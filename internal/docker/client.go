// Where: internal/docker/client.go
// What: Docker client constructor.
// Why: Centralize Docker SDK initialization.
package docker

import "github.com/docker/docker/client"

// NewDockerClient constructs a Docker SDK client using environment defaults.
func NewDockerClient() (DockerClient, error) {
	return client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
}

// NewEngine connects to the daemon configured by the environment.
func NewEngine() (*Engine, error) {
	cli, err := NewDockerClient()
	if err != nil {
		return nil, err
	}
	return &Engine{client: cli}, nil
}
