// Where: internal/app/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package app

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/poruru/dklet/internal/config"
	"github.com/poruru/dklet/internal/dsl"
	"github.com/poruru/dklet/internal/interaction"
	"github.com/poruru/dklet/internal/meta"
	"github.com/poruru/dklet/internal/shell"
	"github.com/poruru/dklet/internal/ui"
	"github.com/poruru/dklet/internal/version"
)

// Dependencies holds all injected dependencies required for CLI command execution.
// Zero values fall back to process defaults so tests only set what they observe.
type Dependencies struct {
	Out      io.Writer
	Err      io.Writer
	In       io.Reader
	Runner   shell.CommandRunner
	Engine   dsl.Engine
	Prompter interaction.Prompter
	// Global loads the user configuration; config.DefaultGlobal when nil.
	Global func() (*config.Global, error)
	Getwd  func() (string, error)
	Now    func() time.Time
	// SetupLogging configures logging for the parsed verbosity and returns a closer.
	SetupLogging func(verbosity int) io.Closer
	// TempDir receives rendered artifacts; the OS temp dir when empty.
	TempDir string
}

// CLI defines the command-line interface structure parsed by Kong.
// It contains global flags and all subcommand definitions.
type CLI struct {
	Env     string `short:"e" help:"App environment (exported as APP_ENV)"`
	Release string `short:"r" help:"App release (exported as APP_RELEASE)"`
	File    string `short:"F" help:"Application file (default: ./dklet.yml or $DKLET_FILE)"`
	EnvFile string `name:"env-file" help:"Path to .env file"`
	Force   bool   `short:"f" help:"Skip confirmation prompts"`
	Dry     bool   `help:"Print commands without running them"`
	Debug   bool   `short:"d" help:"Debug mode with more output"`
	Verbose bool   `short:"V" help:"Show verbose info"`
	Quiet   bool   `short:"q" help:"Do not echo commands"`

	Main      MainCmd      `cmd:"" default:"withargs" help:"Clean, build and run main hooks"`
	Build     BuildCmd     `cmd:"" help:"Build image"`
	Daemon    DaemonCmd    `cmd:"" help:"Build and run the image detached"`
	Clean     CleanCmd     `cmd:"" help:"Remove release containers"`
	Runsh     RunshCmd     `cmd:"" aliases:"sh,run" help:"Run a shell or script in a container"`
	Log       LogCmd       `cmd:"" help:"Follow container logs"`
	Note      NoteCmd      `cmd:"" help:"Display user notes"`
	Spec      SpecCmd      `cmd:"" help:"Display rendered specs"`
	ImageName ImageNameCmd `cmd:"" name:"image-name" help:"Display image name"`
	Image     ImageCmd     `cmd:"" help:"List related image"`
	Ps        PsCmd        `cmd:"" help:"List related containers"`
	Netup     NetupCmd     `cmd:"" help:"Create network"`
	Netdown   NetdownCmd   `cmd:"" help:"Remove network"`
	Netps     NetpsCmd     `cmd:"" help:"List containers in a network"`
	Netls     NetlsCmd     `cmd:"" help:"List networks"`
	Comprun   ComprunCmd   `cmd:"" help:"Run a compose command for the rendered spec"`
	List      ListCmd      `cmd:"" aliases:"ls" help:"List app store"`
	ClearApp  ClearAppCmd  `cmd:"" name:"clear-app" help:"Remove app store data"`
	Clear     ClearCmd     `cmd:"" help:"Clean containers, image and app store"`
	Inspect   InspectCmd   `cmd:"" aliases:"info" help:"Inspect profile, image or container"`
	Version   VersionCmd   `cmd:"" help:"Show version information"`

	Rails  RailsCmd  `cmd:"" help:"Rails helpers (app tag rails_web)"`
	Browse BrowseCmd `cmd:"" aliases:"open" help:"Open the app domain in a browser (app tag rails_web)"`
	Config ConfigCmd `cmd:"" name:"config" help:"Show env config (app tag rails_web)"`
	Edit   EditCmd   `cmd:"" help:"Edit env config file (app tag rails_web)"`
}

type VersionCmd struct{}

// verbosity maps the output flags onto logging levels.
func (c CLI) verbosity() int {
	switch {
	case c.Debug:
		return 2
	case c.Verbose:
		return 1
	default:
		return 0
	}
}

// Run is the main entry point for CLI command execution.
// It parses the command-line arguments, identifies the requested command,
// and dispatches to the appropriate handler. Returns 0 on success, 1 on error.
func Run(args []string, deps Dependencies) int {
	deps = withDefaults(deps)

	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name(meta.AppName),
		kong.Description("Run an application profile as docker containers."),
		kong.Writers(deps.Out, deps.Err),
	)
	if err != nil {
		return exitWithError(deps.Err, err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return exitWithError(deps.Err, err)
	}

	if deps.SetupLogging != nil {
		if closer := deps.SetupLogging(cli.verbosity()); closer != nil {
			defer closer.Close()
		}
	}

	if handler, ok := dispatchCommand(ctx.Command()); ok {
		return handler(cli, deps)
	}

	fmt.Fprintln(deps.Err, "unknown command")
	return 1
}

type commandHandler func(CLI, Dependencies) int

func dispatchCommand(command string) (commandHandler, bool) {
	handlers := map[string]commandHandler{
		"main":          withProfile(runMain),
		"build":         withProfile(runBuild),
		"daemon":        withProfile(runDaemon),
		"clean":         withProfile(runClean),
		"runsh":         withProfile(runRunsh),
		"log":           withProfile(runLog),
		"note":          withProfile(runNote),
		"spec":          withProfile(runSpec),
		"image-name":    withProfile(runImageName),
		"image":         withProfile(runImage),
		"ps":            withProfile(runPs),
		"netup":         withProfile(runNetup),
		"netdown":       withProfile(runNetdown),
		"netps":         withProfile(runNetps),
		"netls":         withOptionalProfile(runNetls),
		"comprun":       withProfile(runComprun),
		"list":          withProfile(runList),
		"clear-app":     withProfile(runClearApp),
		"clear":         withProfile(runClear),
		"inspect":       withProfile(runInspect),
		"rails boot":    withTag(railsWebTag, runRailsBoot),
		"rails console": withTag(railsWebTag, runRailsConsole),
		"rails migrate": withTag(railsWebTag, runRailsMigrate),
		"browse":        withTag(railsWebTag, runBrowse),
		"config":        withTag(railsWebTag, runConfig),
		"edit":          withTag(railsWebTag, runEdit),
		"version": func(_ CLI, deps Dependencies) int {
			fmt.Fprintln(deps.Out, version.GetVersion())
			return 0
		},
	}
	handler, ok := handlers[commandKey(command)]
	return handler, ok
}

// commandKey strips positional placeholders from a kong command path,
// e.g. "runsh <cmds>" becomes "runsh".
func commandKey(command string) string {
	parts := make([]string, 0, 2)
	for _, field := range strings.Fields(command) {
		if strings.HasPrefix(field, "<") {
			continue
		}
		parts = append(parts, field)
	}
	return strings.Join(parts, " ")
}

func withDefaults(deps Dependencies) Dependencies {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.Err == nil {
		deps.Err = os.Stderr
	}
	if deps.In == nil {
		deps.In = os.Stdin
	}
	if deps.Runner == nil {
		deps.Runner = shell.ExecRunner{Stdin: deps.In, Stdout: deps.Out, Stderr: deps.Err}
	}
	if deps.Global == nil {
		deps.Global = config.DefaultGlobal
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return deps
}

func exitWithError(out io.Writer, err error) int {
	ui.New(out).Error(err.Error())
	return 1
}
