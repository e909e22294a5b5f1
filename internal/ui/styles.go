// Package ui holds terminal styling and interactive prompts.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorDim    = lipgloss.Color("#6b7280")
	colorWhite  = lipgloss.Color("#f9fafb")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	successStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	failStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// Status line marks.
const (
	CheckMark = "[OK]"
	CrossMark = "[!!]"
	WarnMark  = "[??]"
)

// Title styles a top-level heading.
func Title(s string) string { return titleStyle.Render(s) }

// Section styles a report section heading.
func Section(s string) string { return sectionStyle.Render(s) }

// Success styles a success status line.
func Success(s string) string { return successStyle.Render(CheckMark + " " + s) }

// Fail styles a failure status line.
func Fail(s string) string { return failStyle.Render(CrossMark + " " + s) }

// Warn styles a warning status line.
func Warn(s string) string { return warnStyle.Render(WarnMark + " " + s) }

// Dim styles secondary detail text.
func Dim(s string) string { return dimStyle.Render(s) }
