package theme

// Status indicators
const (
	StatusPending = "●"
	StatusIdle    = "○"
)

var useNerdFonts bool

// LanguageIcons maps LSP language identifiers to Nerd Font icons.
var LanguageIcons = map[string]string{
	"go":          "󰟓",
	"python":      "",
	"javascript":  "",
	"typescript":  "",
	"rust":        "",
	"c":           "",
	"cpp":         "",
	"java":        "",
	"lua":         "",
	"json":        "",
	"shellscript": "",
	"markdown":    "󰍔",
	"plaintext":   "",
}

// LanguageIcon returns the icon for a language, or "" when the current theme
// does not use Nerd Fonts.
func LanguageIcon(languageID string) string {
	if !useNerdFonts {
		return ""
	}
	if icon, ok := LanguageIcons[languageID]; ok {
		return icon
	}
	return LanguageIcons["plaintext"]
}
