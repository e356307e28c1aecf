// Where: internal/app/network.go
// What: netup, netdown, netps and netls commands.
// Why: Manage the labelled profile network and what is attached to it.
package app

import (
	"fmt"
	"strings"
)

type NetupCmd struct {
	Net string `arg:"" optional:"" help:"Network name (default: profile network)"`
}

type NetdownCmd struct {
	Net string `arg:"" optional:"" help:"Network name (default: profile network)"`
}

type NetpsCmd struct {
	Net string `arg:"" optional:"" help:"Network name (default: profile network)"`
}

type NetlsCmd struct{}

func (rt *runtime) netOrDefault(net string) string {
	if net != "" {
		return net
	}
	return rt.session.NetName()
}

func runNetup(rt *runtime) error {
	net := rt.netOrDefault(rt.cli.Netup.Net)
	if net == "" {
		rt.console.Info("no network registered")
		return nil
	}
	if rt.cli.Dry {
		rt.console.Line("ensure network " + net)
		return nil
	}
	if _, err := rt.session.EnsureNet(rt.ctx, net, ""); err != nil {
		return err
	}
	rt.console.Success(fmt.Sprintf("network %s working", net))
	return nil
}

// runNetdown removes the network. Attached containers are removed first after
// confirmation; otherwise the network is left in place.
func runNetdown(rt *runtime) error {
	s := rt.session
	net := rt.netOrDefault(rt.cli.Netdown.Net)
	if rt.cli.Debug {
		rt.console.Line("cleaning net: " + net)
	}
	if net == "" {
		return nil
	}
	id, err := s.FindNet(rt.ctx, net)
	if err != nil {
		return err
	}
	if id == "" {
		return nil
	}

	cids, err := s.ContainersInNet(rt.ctx, net)
	if err != nil {
		return fmt.Errorf("list containers in %s: %w", net, err)
	}
	bound := len(cids) > 0
	if bound {
		ok, err := rt.confirm(fmt.Sprintf("%d containers linked, FORCELY remove?", len(cids)))
		if err != nil {
			return err
		}
		if ok {
			if err := rt.system("docker rm -f " + strings.Join(cids, " ")); err != nil {
				return err
			}
			bound = false
		}
	}
	if bound {
		rt.console.Warn(fmt.Sprintf("%s has binded resources, skipped", net))
		return nil
	}
	if err := rt.system("docker network rm " + net); err != nil {
		return err
	}
	rt.console.Success(fmt.Sprintf("network %s cleaned", net))
	return nil
}

func runNetps(rt *runtime) error {
	net := rt.netOrDefault(rt.cli.Netps.Net)
	if net == "" {
		return nil
	}
	return rt.system(fmt.Sprintf("docker ps -f network=%s -a", net))
}

func runNetls(rt *runtime) error {
	return rt.system("docker network ls")
}
