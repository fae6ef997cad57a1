package main

import "github.com/charmbracelet/lipgloss"

var (
	// headerStyle for the run banner
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// errorStyle for failure lines
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// successStyle for completion lines
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
)
