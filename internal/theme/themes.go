package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named palette.
type Theme struct {
	Name string

	Colors Palette

	// Whether to use Nerd Font icons
	UseNerdFonts bool
}

// Available themes
var (
	themes       []*Theme
	currentIndex int
)

func init() {
	themes = []*Theme{
		NightShiftTheme(),
		SolarFlareTheme(),
		DeepReefTheme(),
		PaperLanternTheme(),
	}
	currentIndex = 0
	ApplyTheme(themes[0])
}

// AllThemes returns all available themes.
func AllThemes() []*Theme {
	return themes
}

// CurrentTheme returns the currently active theme.
func CurrentTheme() *Theme {
	return themes[currentIndex]
}

// NextTheme cycles to the next theme and applies it.
func NextTheme() *Theme {
	currentIndex = (currentIndex + 1) % len(themes)
	ApplyTheme(themes[currentIndex])
	return themes[currentIndex]
}

// SetThemeByName applies the theme whose name matches, ignoring case.
// Returns false if no theme matches.
func SetThemeByName(name string) bool {
	for i, t := range themes {
		if strings.EqualFold(t.Name, name) {
			currentIndex = i
			ApplyTheme(t)
			return true
		}
	}
	return false
}

// ApplyTheme sets all the global color variables to match the theme.
func ApplyTheme(t *Theme) {
	ColorAccent = t.Colors.Accent
	ColorSecondary = t.Colors.Secondary
	ColorSuccess = t.Colors.Success
	ColorWarning = t.Colors.Warning
	ColorError = t.Colors.Error

	BgPanel = t.Colors.BgPanel
	BgStatus = t.Colors.BgStatus
	BgSelection = t.Colors.BgSelection
	BgCursor = t.Colors.BgCursor

	TextPrimary = t.Colors.TextPrimary
	TextSecondary = t.Colors.TextSecondary
	TextMuted = t.Colors.TextMuted
	TextDim = t.Colors.TextDim
	TextSelection = t.Colors.TextSelection

	useNerdFonts = t.UseNerdFonts

	regenerateStyles()
}

// NightShiftTheme - Cyan and magenta on near-black
func NightShiftTheme() *Theme {
	return &Theme{
		Name:         "Night Shift",
		UseNerdFonts: true,
		Colors: Palette{
			Accent:        lipgloss.Color("#FF4FD8"),
			Secondary:     lipgloss.Color("#3DE8F5"),
			Success:       lipgloss.Color("#4CF08A"),
			Warning:       lipgloss.Color("#F5E663"),
			Error:         lipgloss.Color("#FF4F5E"),
			BgPanel:       lipgloss.Color("#120B22"),
			BgStatus:      lipgloss.Color("#1E1436"),
			BgSelection:   lipgloss.Color("#3D2D5E"),
			BgCursor:      lipgloss.Color("#3DE8F5"),
			TextPrimary:   lipgloss.Color("#F4F1FF"),
			TextSecondary: lipgloss.Color("#D6D0EA"),
			TextMuted:     lipgloss.Color("#8A84A3"),
			TextDim:       lipgloss.Color("#4E4868"),
			TextSelection: lipgloss.Color("#FFFFFF"),
		},
	}
}

// SolarFlareTheme - Warm oranges on dark umber
func SolarFlareTheme() *Theme {
	return &Theme{
		Name:         "Solar Flare",
		UseNerdFonts: true,
		Colors: Palette{
			Accent:        lipgloss.Color("#FF8C32"), // Corona
			Secondary:     lipgloss.Color("#FFD166"), // Sunspot
			Success:       lipgloss.Color("#8AC926"),
			Warning:       lipgloss.Color("#FFCA3A"),
			Error:         lipgloss.Color("#E63946"),
			BgPanel:       lipgloss.Color("#1C1008"),
			BgStatus:      lipgloss.Color("#2B1A0E"),
			BgSelection:   lipgloss.Color("#5A3414"),
			BgCursor:      lipgloss.Color("#FFD166"),
			TextPrimary:   lipgloss.Color("#FFF4E6"),
			TextSecondary: lipgloss.Color("#EBD3B5"),
			TextMuted:     lipgloss.Color("#A68A6D"),
			TextDim:       lipgloss.Color("#5E4A38"),
			TextSelection: lipgloss.Color("#FFFFFF"),
		},
	}
}

// DeepReefTheme - Sea greens and blues
func DeepReefTheme() *Theme {
	return &Theme{
		Name:         "Deep Reef",
		UseNerdFonts: true,
		Colors: Palette{
			Accent:        lipgloss.Color("#2EC4B6"), // Lagoon
			Secondary:     lipgloss.Color("#7FDBFF"), // Shallows
			Success:       lipgloss.Color("#52B788"),
			Warning:       lipgloss.Color("#F4D35E"),
			Error:         lipgloss.Color("#EF476F"), // Coral
			BgPanel:       lipgloss.Color("#061A23"),
			BgStatus:      lipgloss.Color("#0B2A38"),
			BgSelection:   lipgloss.Color("#164B60"),
			BgCursor:      lipgloss.Color("#7FDBFF"),
			TextPrimary:   lipgloss.Color("#EAF8F5"),
			TextSecondary: lipgloss.Color("#B5DCD7"),
			TextMuted:     lipgloss.Color("#6E9A9B"),
			TextDim:       lipgloss.Color("#3B5E66"),
			TextSelection: lipgloss.Color("#FFFFFF"),
		},
	}
}

// PaperLanternTheme - Muted ink tones without Nerd Font icons
func PaperLanternTheme() *Theme {
	return &Theme{
		Name:         "Paper Lantern",
		UseNerdFonts: false,
		Colors: Palette{
			Accent:        lipgloss.Color("#C8553D"),
			Secondary:     lipgloss.Color("#588B8B"),
			Success:       lipgloss.Color("#6A994E"),
			Warning:       lipgloss.Color("#F28F3B"),
			Error:         lipgloss.Color("#BC4749"),
			BgPanel:       lipgloss.Color("#1F1D1A"),
			BgStatus:      lipgloss.Color("#2C2925"),
			BgSelection:   lipgloss.Color("#4A4238"),
			BgCursor:      lipgloss.Color("#F2E9DC"),
			TextPrimary:   lipgloss.Color("#F2E9DC"),
			TextSecondary: lipgloss.Color("#D9CBB8"),
			TextMuted:     lipgloss.Color("#9C8F7E"),
			TextDim:       lipgloss.Color("#5C544A"),
			TextSelection: lipgloss.Color("#FFFFFF"),
		},
	}
}
