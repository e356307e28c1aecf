// Where: internal/app/lifecycle.go
// What: main, build, daemon and clean commands.
// Why: Drive the build/run lifecycle with hook points around each step.
package app

import (
	"fmt"
	"strings"

	"github.com/poruru/dklet/internal/constants"
	"github.com/poruru/dklet/internal/dsl"
	"github.com/poruru/dklet/internal/envutil"
)

type MainCmd struct {
	Preclean bool `default:"true" negatable:"" help:"Clean before doing anything"`
	Build    bool `default:"true" negatable:"" help:"Build image"`
}

type BuildCmd struct {
	Opts string `help:"Extra build options like --no-cache"`
}

type DaemonCmd struct {
	Opts string `help:"Extra run options"`
}

type CleanCmd struct {
	Image bool `help:"Also remove the profile image"`
}

// runMain cleans, runs before hooks, builds and runs after hooks. Task
// options can switch off the clean and build steps.
func runMain(rt *runtime) error {
	opts := rt.session.TaskOpts(dsl.DefaultTask)
	if rt.cli.Main.Preclean && !opts.Disabled("preclean") {
		if err := rt.clean(false); err != nil {
			return err
		}
	}
	if err := rt.invokeHooks(dsl.DefaultTask, dsl.PhaseBefore); err != nil {
		return err
	}
	if rt.cli.Main.Build && !opts.Disabled("build") {
		if err := rt.build(rt.cli.Build.Opts); err != nil {
			return err
		}
	}
	return rt.invokeHooks(dsl.DefaultTask, dsl.PhaseAfter)
}

func runBuild(rt *runtime) error {
	return rt.build(rt.cli.Build.Opts)
}

// build composes and runs docker build for the rendered Dockerfile. Profiles
// without a Dockerfile build nothing.
func (rt *runtime) build(extra string) error {
	s := rt.session
	if s.RawDockerfile() == "" {
		rt.logger.Info().Msg("no dockerfile registered, skip build")
		return nil
	}
	if !rt.cli.Dry {
		if err := rt.invokeHooks("build", dsl.PhaseBefore); err != nil {
			return err
		}
	}

	cmd, err := rt.buildCommand(extra)
	if err != nil {
		return err
	}
	if !rt.cli.Quiet {
		rt.console.Line("build command:\n  " + cmd)
	}
	if err := rt.exec(cmd); err != nil {
		return err
	}
	if rt.cli.Dry {
		return nil
	}
	return rt.invokeHooks("build", dsl.PhaseAfter)
}

func (rt *runtime) buildCommand(extra string) (string, error) {
	s := rt.session
	dockerfile, err := s.Dockerfile()
	if err != nil {
		return "", err
	}
	parts := []string{"docker build --tag " + s.DockerImage()}
	if net := s.BuildNet(); net != "" {
		parts = append(parts, "--network "+net)
	}
	if mirror, ok := envutil.Get(envutil.OS(), constants.EnvGemMirror); ok {
		parts = append(parts, "--build-arg GEM_MIRROR="+mirror)
	}
	if extra = strings.TrimSpace(extra); extra != "" {
		parts = append(parts, extra)
	}
	cmd := strings.Join(parts, " ")

	contextPath, err := s.SmartBuildContextPath()
	if err != nil {
		return "", err
	}
	if contextPath != "" {
		return fmt.Sprintf("%s --file %s %s", cmd, dockerfile, contextPath), nil
	}
	return fmt.Sprintf("cat %s | %s -", dockerfile, cmd), nil
}

func runDaemon(rt *runtime) error {
	if err := rt.build(""); err != nil {
		return err
	}
	return rt.system(joinFields("docker run -d", rt.cli.Daemon.Opts, rt.session.DockerImage()))
}

func runClean(rt *runtime) error {
	return rt.clean(rt.cli.Clean.Image)
}

// clean removes the release containers, unless a compose spec owns them, and
// optionally the profile image.
func (rt *runtime) clean(image bool) error {
	s := rt.session
	if err := rt.invokeHooks("clean", dsl.PhaseBefore); err != nil {
		return err
	}

	if s.RawSpecfile() == "" {
		cids, err := s.ContainersForRelease(rt.ctx)
		if err != nil {
			return fmt.Errorf("list release containers: %w", err)
		}
		if len(cids) > 0 {
			ids := strings.Join(cids, " ")
			if err := rt.system(fmt.Sprintf("echo ==clean containers: %s\ndocker rm --force %s", ids, ids)); err != nil {
				return err
			}
		}
	}

	if err := rt.invokeHooks("clean", dsl.PhaseAfter); err != nil {
		return err
	}

	if image && s.RawDockerfile() != "" {
		img := s.DockerImage()
		script := fmt.Sprintf("echo ==clean image: %s\ndocker rmi --force %s 2>/dev/null", img, img)
		if err := rt.system(script); err != nil {
			rt.logger.Warn().Err(err).Str("image", img).Msg("remove image")
			rt.console.Warn("image not removed: " + img)
		}
	}
	return nil
}
