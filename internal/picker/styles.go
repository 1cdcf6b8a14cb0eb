package picker

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles for the picker.
type Styles struct {
	Title        lipgloss.Style
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	Number       lipgloss.Style
	Path         lipgloss.Style
	Quick        lipgloss.Style
	Empty        lipgloss.Style
	HintKey      lipgloss.Style
	HintDesc     lipgloss.Style
}

// DefaultStyles returns the default style configuration.
// Grayscale with a single desaturated teal accent.
func DefaultStyles() Styles {
	primary := lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"}
	subtle := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}
	accent := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}

	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			MarginBottom(1),

		Item: lipgloss.NewStyle().
			Foreground(primary).
			PaddingLeft(1),

		ItemSelected: lipgloss.NewStyle().
			PaddingLeft(1).
			Background(accent).
			Foreground(lipgloss.Color("#1A1A1A")),

		Number: lipgloss.NewStyle().
			Foreground(subtle),

		Path: lipgloss.NewStyle().
			Foreground(subtle),

		Quick: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),

		Empty: lipgloss.NewStyle().
			Foreground(subtle).
			Italic(true).
			PaddingLeft(1),

		HintKey: lipgloss.NewStyle().
			Foreground(accent),

		HintDesc: lipgloss.NewStyle().
			Foreground(subtle),
	}
}
