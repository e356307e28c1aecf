// Where: internal/dsl/network.go
// What: Per-profile network registration and label helpers.
// Why: Find networks by label so partial name matches never collide.
package dsl

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/poruru/dklet/internal/meta"
)

// DefaultNetName is used by RegisterNet when no name is given.
const DefaultNetName = "dailyops"

// LabelKey returns the namespaced label key, e.g. "docklet.name".
func LabelKey(key string, prefixed bool) string {
	if !prefixed {
		return key
	}
	return meta.LabelPrefix + "." + key
}

// LabelPair returns "docklet.<key>=<value>".
func LabelPair(key, value string) string {
	return LabelKey(key, true) + "=" + value
}

// RegisterNet sets the profile network, creating it when build is true.
func (s *Session) RegisterNet(ctx context.Context, name string, build bool) error {
	if name == "" {
		name = DefaultNetName
	}
	s.Set(KeyNetName, name)
	if !build {
		return nil
	}
	_, err := s.EnsureNet(ctx, name, "")
	return err
}

// NetName returns the registered network name, or "".
func (s *Session) NetName() string {
	return s.fetchString(KeyNetName)
}

// FindNet returns the ID of the network labelled with name, or "".
func (s *Session) FindNet(ctx context.Context, name string) (string, error) {
	if s.engine == nil || name == "" {
		return "", nil
	}
	id, err := s.engine.NetworkByLabel(ctx, LabelKey("name", true), name)
	if err != nil {
		return "", fmt.Errorf("find network %s: %w", name, err)
	}
	return strings.TrimSpace(id), nil
}

// EnsureNet returns the network ID for name, creating a labelled network with
// driver (bridge when empty) if none exists.
func (s *Session) EnsureNet(ctx context.Context, name, driver string) (string, error) {
	if s.engine == nil {
		return "", ErrNoEngine
	}
	id, err := s.FindNet(ctx, name)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}
	if driver == "" {
		driver = meta.DefaultNetDriver
	}
	s.logger.Info().Str("network", name).Str("driver", driver).Msg("create new network")
	id, err = s.engine.CreateNetwork(ctx, name, driver, map[string]string{LabelKey("name", true): name})
	if err != nil {
		return "", fmt.Errorf("create network %s: %w", name, err)
	}
	return id, nil
}

// ContainersInNet lists containers attached to net (the profile network when empty).
func (s *Session) ContainersInNet(ctx context.Context, network string) ([]string, error) {
	if network == "" {
		network = s.NetName()
	}
	if s.engine == nil || network == "" {
		return nil, nil
	}
	return s.engine.ContainersInNetwork(ctx, network)
}

// HostPortOptions adjusts HostWithPortFor output.
type HostPortOptions struct {
	// KeepBindIP leaves a wildcard bind address as reported by the engine.
	KeepBindIP bool
	// OnlyPort returns just the host port.
	OnlyPort bool
}

// HostWithPortFor returns the host address publishing containerPort of the ops
// container, e.g. "192.168.1.5:32879". Empty when nothing is published.
func (s *Session) HostWithPortFor(ctx context.Context, containerPort string, opts HostPortOptions) (string, error) {
	cid := s.OpsContainer()
	if s.engine == nil || cid == "" {
		return "", nil
	}
	binding, err := s.engine.HostBinding(ctx, cid, containerPort)
	if err != nil {
		return "", fmt.Errorf("host binding for %s: %w", containerPort, err)
	}
	binding = strings.TrimSpace(binding)
	if binding == "" {
		return "", nil
	}
	if opts.OnlyPort {
		return binding[strings.LastIndex(binding, ":")+1:], nil
	}
	if opts.KeepBindIP || !strings.HasPrefix(binding, "0.0.0.0") {
		return binding, nil
	}
	ip, err := s.hostIP()
	if err != nil {
		return binding, nil
	}
	return strings.Replace(binding, "0.0.0.0", ip, 1), nil
}

// HostPortFor returns only the published host port for containerPort.
func (s *Session) HostPortFor(ctx context.Context, containerPort string) (string, error) {
	return s.HostWithPortFor(ctx, containerPort, HostPortOptions{OnlyPort: true})
}

func firstHostIPv4() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4.String(), nil
		}
	}
	return "", fmt.Errorf("no non-loopback ipv4 address")
}
