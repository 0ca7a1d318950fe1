package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/harrisonrobin/timecoach/pkg/model"
)

var (
	White = lipgloss.Color("#fff")
	Faded = lipgloss.Color("#888")
	Green = lipgloss.Color("#00a352")
	Red   = lipgloss.Color("#c42912")

	// Gray is used for categories without their own colour.
	Gray = lipgloss.Color("#9E9E9E")
)

var categoryColors = map[model.Category]lipgloss.Color{
	model.CategoryWork:     lipgloss.Color("#4285F4"),
	model.CategoryPersonal: lipgloss.Color("#EA4335"),
	model.CategoryHealth:   lipgloss.Color("#34A853"),
	model.CategoryLearning: lipgloss.Color("#FBBC05"),
	model.CategoryOther:    Gray,
}

// CategoryColor returns the timeline colour of c.
func CategoryColor(c model.Category) lipgloss.Color {
	if col, ok := categoryColors[c]; ok {
		return col
	}
	return Gray
}

var (
	title  = lipgloss.NewStyle().Bold(true)
	faded  = lipgloss.NewStyle().Foreground(Faded)
	header = lipgloss.NewStyle().Bold(true).Underline(true)
	warn   = lipgloss.NewStyle().Foreground(Red)
	good   = lipgloss.NewStyle().Foreground(Green)
)
