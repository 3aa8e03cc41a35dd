package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#be8682")
	colorGood   = lipgloss.Color("#4ec96f")
	colorBad    = lipgloss.Color("#e0574f")
	colorDim    = lipgloss.Color("#6c6c6c")
	colorTrace  = lipgloss.Color("#5fd75f")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f9ffff")).Background(colorAccent).Padding(0, 2)
	noteStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Width(6)
	labelStyle  = lipgloss.NewStyle().Foreground(colorDim)
	goodStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorGood)
	badStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorBad)
	traceStyle  = lipgloss.NewStyle().Foreground(colorTrace)
	frameStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	helpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	markerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
)
