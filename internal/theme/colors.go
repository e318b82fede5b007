package theme

import "github.com/charmbracelet/lipgloss"

// Palette holds every color a theme defines.
type Palette struct {
	// Accent colors
	Accent    lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	// Backgrounds
	BgPanel     lipgloss.Color
	BgStatus    lipgloss.Color
	BgSelection lipgloss.Color
	BgCursor    lipgloss.Color

	// Text hierarchy from bright to dim
	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color
	TextDim       lipgloss.Color
	TextSelection lipgloss.Color
}

// Active colors, replaced by ApplyTheme.
var (
	ColorAccent    lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorSuccess   lipgloss.Color
	ColorWarning   lipgloss.Color
	ColorError     lipgloss.Color

	BgPanel     lipgloss.Color
	BgStatus    lipgloss.Color
	BgSelection lipgloss.Color
	BgCursor    lipgloss.Color

	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color
	TextDim       lipgloss.Color
	TextSelection lipgloss.Color
)
