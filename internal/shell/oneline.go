package shell

import (
	"regexp"
	"strings"
)

var (
	shellPrefix  = regexp.MustCompile(`^\s*(bash|sh)`)
	chainedShell = regexp.MustCompile(`.+;`)
)

// SingleLine reports whether cmds can be passed to "docker exec" as one
// command line. Multi-line input and ";"-chained commands need a script file;
// commands already wrapped in bash or sh are passed through as is.
func SingleLine(cmds string) bool {
	cmds = strings.TrimSuffix(strings.TrimSuffix(cmds, "\n"), "\r")
	if strings.Contains(cmds, "\n") {
		return false
	}
	if shellPrefix.MatchString(cmds) {
		return true
	}
	return !chainedShell.MatchString(cmds)
}
