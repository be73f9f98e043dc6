package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sqweek/dialog"
)

// pickDirectory prompts for a working directory, preferring a native
// GUI picker when a display is available and falling back to a text
// prompt otherwise.
//
// Grounded on whatsoevan-backupbozo/ui.go's guiDirectoryPicker +
// text-prompt fallback, trimmed of the teacher's mascot copy.
func pickDirectory(label string) (string, error) {
	if guiAvailable() {
		if dir, err := guiDirectoryPicker(label); err == nil {
			return dir, nil
		}
	}

	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			info, err := os.Stat(input)
			if err != nil || !info.IsDir() {
				return fmt.Errorf("not a directory")
			}
			return nil
		},
	}
	dir, err := prompt.Run()
	if err == promptui.ErrInterrupt {
		color.New(color.FgRed).Println("Interrupted.")
		os.Exit(130)
	}
	return dir, err
}

func guiAvailable() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func guiDirectoryPicker(title string) (string, error) {
	defer func() { recover() }()

	dir, err := dialog.Directory().Title(title).Browse()
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return "", fmt.Errorf("not a directory")
	}
	return dir, nil
}

// selectAction prompts for which top-level operation to run when
// rebatch is invoked with no subcommand.
func selectAction() (string, error) {
	sel := promptui.Select{
		Label: "What would you like to do?",
		Items: []string{"preview", "execute", "undo", "history list", "quit"},
	}
	_, action, err := sel.Run()
	return action, err
}

// promptText prompts for a freeform string with no filesystem
// validation, e.g. a batch ID.
func promptText(label string) (string, error) {
	prompt := promptui.Prompt{Label: label}
	value, err := prompt.Run()
	if err == promptui.ErrInterrupt {
		color.New(color.FgRed).Println("Interrupted.")
		os.Exit(130)
	}
	return value, err
}
