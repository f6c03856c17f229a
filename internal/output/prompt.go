package output

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// ErrNotInteractive is returned by Confirm when no terminal is attached.
var ErrNotInteractive = errors.New("confirmation requires an interactive terminal")

// Confirm asks a yes/no question. The default answer is no.
func Confirm(title string) (bool, error) {
	if !IsInputTTY() || !IsTTY() {
		return false, ErrNotInteractive
	}

	answer := false
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&answer).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return answer, nil
}
