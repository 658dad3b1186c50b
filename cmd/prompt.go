package cmd

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
)

// errAborted is returned when the user cancels a prompt
var errAborted = errors.New("aborted")

// Prompt hooks, replaced in tests
var (
	promptText    = runTextPrompt
	promptSelect  = runSelectPrompt
	promptConfirm = runConfirmPrompt
)

func runTextPrompt(label, defaultValue string, mask rune, validate promptui.ValidateFunc) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Default:  defaultValue,
		Mask:     mask,
		Validate: validate,
	}
	value, err := prompt.Run()
	if err != nil {
		return "", promptError(err)
	}
	return value, nil
}

func runSelectPrompt(label string, items []string) (string, error) {
	sel := promptui.Select{
		Label: label,
		Items: items,
	}
	_, value, err := sel.Run()
	if err != nil {
		return "", promptError(err)
	}
	return value, nil
}

// runConfirmPrompt returns true only for an explicit yes
func runConfirmPrompt(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, promptError(err)
	}
	return true, nil
}

func promptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return errAborted
	}
	return fmt.Errorf("prompt failed: %w", err)
}
