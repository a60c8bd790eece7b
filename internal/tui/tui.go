package tui

import (
	"tempo-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive TUI as a thin client over the store. All
// state lives in the store; the TUI re-reads it after every mutation.
func Run(st *store.Store) error {
	m := newAppModel(st)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
