// Where: internal/docker/engine.go
// What: Docker SDK backed container and network queries.
// Why: Resolve ops containers and networks by label without parsing CLI output.
package docker

import (
	"context"
	"fmt"
	"net"
	"sort"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/go-connections/nat"
)

// DockerClient defines the subset of Docker SDK methods used by this package.
// This interface enables mocking the Docker client in tests.
type DockerClient interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	ContainerInspect(ctx context.Context, containerID string) (container.InspectResponse, error)
	NetworkList(ctx context.Context, options network.ListOptions) ([]network.Summary, error)
	NetworkCreate(ctx context.Context, name string, options network.CreateOptions) (network.CreateResponse, error)
}

// Engine answers the container and network queries a session makes.
type Engine struct {
	client DockerClient
}

// New wraps an existing client.
func New(client DockerClient) *Engine {
	return &Engine{client: client}
}

// ContainersByLabels returns IDs of all containers (running or not) carrying
// every given label.
func (e *Engine) ContainersByLabels(ctx context.Context, labels map[string]string) ([]string, error) {
	args := filters.NewArgs()
	keys := make([]string, 0, len(labels))
	for key := range labels {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		args.Add("label", fmt.Sprintf("%s=%s", key, labels[key]))
	}
	return e.containerIDs(ctx, args)
}

// ContainersByAncestor returns IDs of containers created from image.
func (e *Engine) ContainersByAncestor(ctx context.Context, image string) ([]string, error) {
	args := filters.NewArgs()
	args.Add("ancestor", image)
	return e.containerIDs(ctx, args)
}

// ContainersInNetwork returns IDs of containers attached to network.
func (e *Engine) ContainersInNetwork(ctx context.Context, name string) ([]string, error) {
	args := filters.NewArgs()
	args.Add("network", name)
	return e.containerIDs(ctx, args)
}

func (e *Engine) containerIDs(ctx context.Context, args filters.Args) ([]string, error) {
	containers, err := e.client.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: args,
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(containers))
	for _, ctr := range containers {
		ids = append(ids, ctr.ID)
	}
	return ids, nil
}

// NetworkByLabel returns the ID of the first network labelled key=value, or "".
func (e *Engine) NetworkByLabel(ctx context.Context, key, value string) (string, error) {
	args := filters.NewArgs()
	args.Add("label", fmt.Sprintf("%s=%s", key, value))
	networks, err := e.client.NetworkList(ctx, network.ListOptions{Filters: args})
	if err != nil {
		return "", err
	}
	for _, nw := range networks {
		if nw.Labels[key] == value {
			return nw.ID, nil
		}
	}
	return "", nil
}

// CreateNetwork creates a network and returns its ID.
func (e *Engine) CreateNetwork(ctx context.Context, name, driver string, labels map[string]string) (string, error) {
	resp, err := e.client.NetworkCreate(ctx, name, network.CreateOptions{
		Driver: driver,
		Labels: labels,
	})
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// HostBinding returns "ip:port" for the first host binding of a published
// container port ("80" means 80/tcp), or "" when the port is not published.
func (e *Engine) HostBinding(ctx context.Context, containerID, port string) (string, error) {
	inspect, err := e.client.ContainerInspect(ctx, containerID)
	if err != nil {
		return "", err
	}
	if inspect.NetworkSettings == nil {
		return "", nil
	}
	proto, p := nat.SplitProtoPort(port)
	key, err := nat.NewPort(proto, p)
	if err != nil {
		return "", fmt.Errorf("invalid port %q: %w", port, err)
	}
	for _, binding := range inspect.NetworkSettings.Ports[key] {
		if binding.HostPort == "" {
			continue
		}
		host := binding.HostIP
		if host == "" {
			host = "0.0.0.0"
		}
		return net.JoinHostPort(host, binding.HostPort), nil
	}
	return "", nil
}
