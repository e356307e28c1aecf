// Where: internal/interaction/interaction.go
// What: Interactive primitives for confirmations and TTY detection.
// Why: Centralize user interaction to keep command handlers focused on orchestration.
package interaction

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Prompter asks interactive yes/no questions.
type Prompter interface {
	Confirm(title string) (bool, error)
}

// IsTerminal reports whether the file refers to a terminal device.
var IsTerminal = func(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// PromptYesNoWithIO prints a confirmation prompt to out and reads the answer
// from in. Anything but "y" or "yes" (including EOF) is a no.
func PromptYesNoWithIO(in io.Reader, out io.Writer, message string) (bool, error) {
	reader := bufio.NewReader(in)
	fmt.Fprintf(out, "%s [y/N]: ", message)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	trimmed := strings.TrimSpace(strings.ToLower(line))
	return trimmed == "y" || trimmed == "yes", nil
}

// Confirmer asks for confirmation before destructive operations.
type Confirmer struct {
	Prompter Prompter
	In       io.Reader
	Out      io.Writer
	// Force answers yes without asking.
	Force bool
}

// Confirm returns true when the operation may proceed. A terminal stdin uses
// the prompter; anything else reads a typed answer from In.
func (c Confirmer) Confirm(message string) (bool, error) {
	if c.Force {
		return true, nil
	}
	if file, ok := c.In.(*os.File); ok && IsTerminal(file) && c.Prompter != nil {
		return c.Prompter.Confirm(message)
	}
	if c.In == nil {
		return false, nil
	}
	out := c.Out
	if out == nil {
		out = io.Discard
	}
	return PromptYesNoWithIO(c.In, out, message)
}
