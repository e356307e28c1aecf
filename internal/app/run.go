// Where: internal/app/run.go
// What: runsh and log commands.
// Why: Reach into the ops container without remembering its id.
package app

import "strings"

type RunshCmd struct {
	CID     string   `name:"cid" help:"Target container id or name"`
	Tmp     bool     `short:"t" help:"Run in a throwaway container"`
	Opts    string   `help:"Docker exec/run options"`
	Oneline bool     `default:"true" negatable:"" help:"Join arguments into one command line"`
	Cmds    []string `arg:"" optional:"" passthrough:"" help:"Command to run (default: sh)"`
}

type LogCmd struct {
	Container string `arg:"" optional:"" help:"Container id or name (default: ops container)"`
}

// runRunsh runs the arguments in the target container. With --no-oneline each
// argument becomes one script line and is always copied in as a script.
func runRunsh(rt *runtime) error {
	cmd := rt.cli.Runsh
	cmds := "sh"
	if len(cmd.Cmds) > 0 {
		sep := " "
		if !cmd.Oneline {
			sep = "\n"
		}
		cmds = strings.Join(cmd.Cmds, sep)
	}
	return rt.containerRun(cmds, runOptions{
		CID:    cmd.CID,
		Tmp:    cmd.Tmp,
		Opts:   cmd.Opts,
		Script: !cmd.Oneline && len(cmd.Cmds) > 0,
	})
}

func runLog(rt *runtime) error {
	cid := rt.cli.Log.Container
	if cid == "" {
		cid = rt.session.OpsContainer()
	}
	if cid == "" {
		return ErrNoContainer
	}
	return rt.system("docker logs -t -f --details " + cid)
}
