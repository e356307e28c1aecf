// Where: internal/app/system.go
// What: Composed command execution honoring --dry and --quiet.
// Why: Every user-visible docker action goes through one echo/run helper.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/poruru/dklet/internal/interaction"
	"github.com/poruru/dklet/internal/logging"
	"github.com/poruru/dklet/internal/shell"
)

// system echoes script unless --quiet and runs it unless --dry.
func (rt *runtime) system(script string) error {
	script = strings.TrimRight(script, "\n")
	if !rt.cli.Quiet {
		rt.console.Line(script)
	}
	return rt.exec(script)
}

// exec runs script without echoing it, unless --dry.
func (rt *runtime) exec(script string) error {
	logging.LogCommand(rt.logger, script, rt.cli.Dry)
	if rt.cli.Dry {
		return nil
	}
	if err := shell.Script(rt.ctx, rt.deps.Runner, "", script); err != nil {
		return fmt.Errorf("command failed: %s: %w", firstLine(script), err)
	}
	return nil
}

// capture runs script and returns its trimmed output.
func (rt *runtime) capture(script string) (string, error) {
	logging.LogCommand(rt.logger, script, rt.cli.Dry)
	out, err := shell.ScriptOutput(rt.ctx, rt.deps.Runner, "", script)
	if err != nil {
		return "", fmt.Errorf("command failed: %s: %w", firstLine(script), err)
	}
	return strings.TrimSpace(string(out)), nil
}

func firstLine(script string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(script), "\n")
	return line
}

// runOptions selects the container a script runs in.
type runOptions struct {
	// CID targets a specific container instead of the ops container.
	CID string
	// Tmp starts a throwaway container from the profile image.
	Tmp bool
	// Opts replaces the profile's docker exec options.
	Opts string
	// Script copies cmds in as a script even when it fits on one line.
	Script bool
}

const tmpContainerPlaceholder = "<tmp-container>"

// containerRun runs cmds in the target container. Single-line commands are
// passed to docker exec; scripts are copied in and run with sh.
func (rt *runtime) containerRun(cmds string, opts runOptions) error {
	s := rt.session
	dkOpts := opts.Opts
	if dkOpts == "" {
		dkOpts = s.DockerExecOpts()
	}

	cid := opts.CID
	if cid == "" {
		cid = s.OpsContainer()
	}
	if opts.Tmp {
		tmp, err := rt.startTmpContainer(dkOpts)
		if err != nil {
			return err
		}
		cid = tmp
		defer func() {
			if err := rt.exec("docker rm -f " + cid + " >/dev/null"); err != nil {
				rt.logger.Warn().Err(err).Str("container", cid).Msg("remove tmp container")
			}
		}()
	}
	if cid == "" {
		return ErrNoContainer
	}

	var run string
	if !opts.Script && shell.SingleLine(cmds) {
		run = joinFields("docker exec", rt.ttyFlags(), dkOpts, cid, strings.TrimSpace(cmds))
	} else {
		script, err := s.TmpFileFor(cmds)
		if err != nil {
			return err
		}
		dst := fmt.Sprintf("/tmp/crun-%s-%s", filepath.Base(script), uuid.NewString())
		debug := ""
		if rt.cli.Debug {
			debug = "-x"
		}
		run = strings.Join([]string{
			fmt.Sprintf("docker cp --archive %s %s:%s", script, cid, dst),
			fmt.Sprintf("docker exec %s chmod 755 %s", cid, dst),
			joinFields("docker exec", rt.ttyFlags(), dkOpts, cid, "sh", debug, dst),
			fmt.Sprintf("docker exec %s rm -f %s", cid, dst),
		}, "\n")
	}

	if !rt.cli.Quiet {
		target := "container"
		if opts.Tmp {
			target = "tmp container"
		}
		rt.console.Line(fmt.Sprintf("==commands to run on %s %s", target, shortID(cid)))
		rt.console.Line(strings.TrimRight(cmds, "\n"))
		if rt.cli.Debug {
			rt.console.Line("====by run on host")
			rt.console.Line(run)
		}
		rt.console.Line("==end of print commands")
	}
	return rt.exec(run)
}

func (rt *runtime) startTmpContainer(dkOpts string) (string, error) {
	s := rt.session
	parts := []string{"docker run -t -d"}
	if net := s.NetName(); net != "" {
		parts = append(parts, "--network "+net)
	}
	cmd := joinFields(append(parts, dkOpts, s.DockerImage(), "sleep 3d")...)
	if rt.cli.Dry {
		if !rt.cli.Quiet {
			rt.console.Line(cmd)
		}
		return tmpContainerPlaceholder, nil
	}
	out, err := rt.capture(cmd)
	if err != nil {
		return "", fmt.Errorf("start tmp container: %w", err)
	}
	// pull progress may precede the id in combined output
	lines := strings.Fields(out)
	if len(lines) == 0 {
		return "", ErrNoContainer
	}
	return lines[len(lines)-1], nil
}

// ttyFlags allocates a TTY only when stdin is a terminal.
func (rt *runtime) ttyFlags() string {
	if file, ok := rt.deps.In.(*os.File); ok && interaction.IsTerminal(file) {
		return "-it"
	}
	return "-i"
}

func shortID(cid string) string {
	if len(cid) == 64 {
		return cid[:12]
	}
	return cid
}

func joinFields(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, " ")
}
