// Where: internal/app/rails.go
// What: Commands enabled by the rails_web app tag.
// Why: Common Rails chores against the ops container and the local env file.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	goruntime "runtime"
	"strings"

	"github.com/poruru/dklet/internal/dsl"
	"github.com/poruru/dklet/internal/fileops"
)

const railsWebTag = "rails_web"

type RailsCmd struct {
	Boot    RailsBootCmd    `cmd:"" help:"Create and migrate the database"`
	Console RailsConsoleCmd `cmd:"" help:"Run into rails console"`
	Migrate RailsMigrateCmd `cmd:"" help:"Run db migrate"`
}

type (
	RailsBootCmd    struct{}
	RailsConsoleCmd struct{}
	RailsMigrateCmd struct{}
)

type BrowseCmd struct {
	Kind string `arg:"" optional:"" default:"web" help:"Domain kind; reads <kind>_domain"`
}

type ConfigCmd struct {
	Backup bool `short:"b" help:"Backup current config"`
	Link   bool `short:"l" help:"Link config into the app directory"`
}

type EditCmd struct{}

func runRailsBoot(rt *runtime) error {
	if err := rt.containerRun("rails db:create 2>/dev/null\n", runOptions{}); err != nil {
		return err
	}
	return runRailsMigrate(rt)
}

func runRailsConsole(rt *runtime) error {
	return rt.containerRun("rails console", runOptions{})
}

func runRailsMigrate(rt *runtime) error {
	return rt.containerRun("rails db:migrate\n", runOptions{})
}

// runBrowse opens the first domain registered under <kind>_domain, falling
// back to the profile proxy domains.
func runBrowse(rt *runtime) error {
	s := rt.session
	domains, _ := s.Fetch(dsl.Key(rt.cli.Browse.Kind + "_domain")).(string)
	if domains == "" {
		domains = s.ProxyDomains()
	}
	if domains == "" {
		return nil
	}
	first, _, _ := strings.Cut(domains, ",")
	return rt.system(fmt.Sprintf("%s http://%s", browserOpener(), first))
}

func browserOpener() string {
	if goruntime.GOOS == "darwin" {
		return "open"
	}
	return "xdg-open"
}

func runConfig(rt *runtime) error {
	s := rt.session
	envFile, err := s.LocalEnvFile()
	if err != nil {
		return err
	}
	rt.console.Line("# env config file:")
	rt.console.Line("# " + envFile)
	rt.console.Line(strings.Repeat("#", 40))
	content, err := os.ReadFile(envFile)
	switch {
	case err == nil:
		fmt.Fprint(rt.deps.Out, string(content))
	case errors.Is(err, os.ErrNotExist):
		rt.console.Line("# (missing)")
	default:
		return fmt.Errorf("read env config: %w", err)
	}

	if rt.cli.Config.Backup {
		dir := filepath.Join(s.ScriptPath(), "local", "backup", s.Env())
		if err := fileops.EnsureDir(dir); err != nil {
			return err
		}
		dest := filepath.Join(dir, "env.local-"+rt.deps.Now().Format("20060102150405"))
		if err := rt.system(fmt.Sprintf("cp %s %s", envFile, dest)); err != nil {
			return err
		}
		rt.console.Line("==back config to " + dest)
	}

	if rt.cli.Config.Link {
		dest := filepath.Join(s.ScriptPath(), "local", s.Env()+"-env.local")
		if err := fileops.EnsureDir(filepath.Dir(dest)); err != nil {
			return err
		}
		if err := rt.system(fmt.Sprintf("ln -sf %s %s", envFile, dest)); err != nil {
			return err
		}
		rt.console.Line("==link config to " + dest)
	}
	return nil
}

func runEdit(rt *runtime) error {
	envFile, err := rt.session.LocalEnvFile()
	if err != nil {
		return err
	}
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	return rt.system(fmt.Sprintf("%s %s\necho %s", editor, envFile, envFile))
}
