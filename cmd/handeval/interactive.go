package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/handeval/internal/tui"
)

// InteractiveCmd starts the terminal UI.
type InteractiveCmd struct{}

func (c *InteractiveCmd) Run(logger *log.Logger) error {
	// Log lines would corrupt the alt screen.
	logger.SetLevel(log.FatalLevel)
	return tui.Run(logger, tea.WithAltScreen())
}
