// Package prompt asks the user to confirm mutating operations.
package prompt

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Interactive asks on the terminal using a huh confirm form.
type Interactive struct{}

// Confirm implements Confirmer. Aborting the form (ctrl+c, esc) answers no.
func (Interactive) Confirm(question string) (bool, error) {
	var ok bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(question).
			Affirmative("Yes").
			Negative("No").
			Value(&ok),
	))
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return ok, nil
}

// Auto answers every question with a fixed answer and records the questions.
type Auto struct {
	Answer bool
	Asked  []string
}

// Confirm implements Confirmer.
func (a *Auto) Confirm(question string) (bool, error) {
	a.Asked = append(a.Asked, question)
	return a.Answer, nil
}
