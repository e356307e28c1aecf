// Where: internal/interaction/selector.go
// What: Interactive prompts using the huh library.
// Why: Provide keyboard-based confirmation on terminals.
package interaction

import (
	"github.com/charmbracelet/huh"
)

// HuhPrompter implements Prompter with a huh confirm form.
type HuhPrompter struct{}

func (p HuhPrompter) Confirm(title string) (bool, error) {
	var confirmed bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed).
		Run()
	if err != nil {
		return false, err
	}
	return confirmed, nil
}
