// Where: internal/app/store.go
// What: comprun, list, clear-app and clear commands.
// Why: Operate on the compose project and the per-profile store directory.
package app

import (
	"fmt"
	"strings"

	"github.com/poruru/dklet/internal/fileops"
)

type ComprunCmd struct {
	Args []string `arg:"" optional:"" passthrough:"" help:"Compose subcommand and arguments"`
}

type ListCmd struct {
	Root bool `help:"List the store root instead of the app store"`
	Tree int  `short:"t" help:"Show a tree of the given depth"`
}

type ClearAppCmd struct{}

type ClearCmd struct{}

func runComprun(rt *runtime) error {
	cmd, err := rt.session.ComposeCmd()
	if err != nil {
		return err
	}
	if cmd == "" {
		return ErrNoSpecfile
	}
	return rt.system(joinFields(cmd, strings.Join(rt.cli.Comprun.Args, " ")))
}

func runList(rt *runtime) error {
	s := rt.session
	path := s.AppStore()
	if rt.cli.List.Root {
		path = s.DkstoreRoot()
	}
	rt.console.Line("list path: " + path)
	cmd := "ls -alh"
	if depth := rt.cli.List.Tree; depth > 0 {
		cmd = fmt.Sprintf("tree -L %d", depth)
	}
	return rt.system(cmd + " " + path)
}

func runClearApp(rt *runtime) error {
	return rt.clearApp()
}

func (rt *runtime) clearApp() error {
	store := rt.session.AppStore()
	if store == "" || !fileops.IsDir(store) {
		rt.console.Line("not found " + store)
		return nil
	}
	ok, err := rt.confirm(fmt.Sprintf("Remove store: %s?", store))
	if err != nil {
		return err
	}
	if !ok {
		rt.console.Line("keep app store: " + store)
		return nil
	}
	// volumes are often written by root inside containers
	if err := rt.system("sudo rm -fr " + store); err != nil {
		return err
	}
	rt.console.Success("clear app store: " + store)
	return nil
}

// runClear cleans containers and image, then the app store. Production
// profiles ask first.
func runClear(rt *runtime) error {
	s := rt.session
	if s.InProd() {
		ok, err := rt.confirm(fmt.Sprintf("RESET %s?", s.FullReleaseName()))
		if err != nil || !ok {
			return err
		}
	}
	if err := rt.clean(true); err != nil {
		return err
	}
	if err := rt.clearApp(); err != nil {
		return err
	}
	rt.console.Success(fmt.Sprintf("clear all things for %s!", s.FullReleaseName()))
	return nil
}
