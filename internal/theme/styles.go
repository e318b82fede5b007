package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Border definitions
var (
	// NeonBorder uses heavy lines for a bold look
	NeonBorder = lipgloss.Border{
		Top:         "━",
		Bottom:      "━",
		Left:        "┃",
		Right:       "┃",
		TopLeft:     "┏",
		TopRight:    "┓",
		BottomLeft:  "┗",
		BottomRight: "┛",
	}

	// GlowBorder uses rounded corners for a softer look
	GlowBorder = lipgloss.Border{
		Top:         "─",
		Bottom:      "─",
		Left:        "│",
		Right:       "│",
		TopLeft:     "╭",
		TopRight:    "╮",
		BottomLeft:  "╰",
		BottomRight: "╯",
	}
)

// Editor styles
var (
	LineNumberStyle       lipgloss.Style
	LineNumberActiveStyle lipgloss.Style
	CursorStyle           lipgloss.Style
	SelectionStyle        lipgloss.Style
	TextMutedStyle        lipgloss.Style
)

// Status bar styles
var (
	StatusBarStyle     lipgloss.Style
	StatusBarSection   lipgloss.Style
	StatusBarHighlight lipgloss.Style
	StatusOK           lipgloss.Style
	StatusWarn         lipgloss.Style
	StatusError        lipgloss.Style
)

// regenerateStyles rebuilds all style variables based on current color values.
// Called when theme changes.
func regenerateStyles() {
	LineNumberStyle = lipgloss.NewStyle().
		Foreground(TextDim).
		Align(lipgloss.Right)

	LineNumberActiveStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true).
		Align(lipgloss.Right)

	CursorStyle = lipgloss.NewStyle().
		Background(BgCursor).
		Foreground(BgPanel)

	SelectionStyle = lipgloss.NewStyle().
		Background(BgSelection).
		Foreground(TextSelection)

	TextMutedStyle = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(BgStatus).
		Padding(0, 1)

	StatusBarSection = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgStatus).
		Padding(0, 1)

	StatusBarHighlight = lipgloss.NewStyle().
		Foreground(ColorAccent).
		Background(BgStatus).
		Bold(true).
		Padding(0, 1)

	StatusOK = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Background(BgStatus)

	StatusWarn = lipgloss.NewStyle().
		Foreground(ColorWarning).
		Background(BgStatus)

	StatusError = lipgloss.NewStyle().
		Foreground(ColorError).
		Background(BgStatus)
}

// FormatScrollIndicator returns a formatted scroll percentage indicator.
// Returns empty string if percent is 100 (at bottom) or invalid.
func FormatScrollIndicator(percent float64) string {
	if percent >= 99.9 || percent < 0 {
		return ""
	}
	return fmt.Sprintf("%d%%", int(percent))
}

// PanelOptions configures what the panel border shows.
type PanelOptions struct {
	Title         string  // File name
	Badge         string  // Language identifier, shown after the title
	ScrollPercent float64 // Scroll position (0-100), negative to hide
	BottomHints   string  // Key hints for the bottom border
}

// RenderPanel renders content framed by a border carrying the title,
// badge, scroll position and hints.
func RenderPanel(content string, opts PanelOptions, width, height int, focused bool) string {
	if width < 4 || height < 2 {
		return ""
	}

	border := GlowBorder
	borderColor := TextDim
	titleColor := TextMuted
	if focused {
		border = NeonBorder
		borderColor = ColorAccent
		titleColor = ColorSecondary
	}

	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(titleColor).Bold(true)
	badgeStyle := lipgloss.NewStyle().Foreground(TextMuted)
	hintStyle := lipgloss.NewStyle().Foreground(TextMuted)
	scrollStyle := lipgloss.NewStyle().Foreground(TextDim)

	innerWidth := width - 2

	var left string
	if opts.Title != "" {
		left = "[ " + titleStyle.Render(opts.Title)
		if opts.Badge != "" {
			left += " " + badgeStyle.Render(opts.Badge)
		}
		left += " ]"
	}
	var right string
	if s := FormatScrollIndicator(opts.ScrollPercent); s != "" {
		right = "[ " + scrollStyle.Render(s) + " ]"
	}
	top := borderLine(border.TopLeft, border.Top, border.TopRight, left, right, borderStyle, innerWidth)

	var hints string
	if opts.BottomHints != "" {
		hints = "[ " + hintStyle.Render(opts.BottomHints) + " ]"
	}
	bottom := borderLine(border.BottomLeft, border.Bottom, border.BottomRight, hints, "", borderStyle, innerWidth)

	contentHeight := max(height-2, 0)
	contentLines := strings.Split(content, "\n")
	lineStyle := lipgloss.NewStyle().MaxWidth(innerWidth)

	rows := make([]string, contentHeight)
	for i := range rows {
		var line string
		if i < len(contentLines) {
			line = lineStyle.Render(contentLines[i])
		}
		if w := lipgloss.Width(line); w < innerWidth {
			line += strings.Repeat(" ", innerWidth-w)
		}
		rows[i] = borderStyle.Render(border.Left) + line + borderStyle.Render(border.Right)
	}

	return top + "\n" + strings.Join(rows, "\n") + "\n" + bottom
}

// borderLine draws one horizontal border with left and right segments
// embedded after a small gap from each corner.
func borderLine(leftCorner, fill, rightCorner, left, right string, style lipgloss.Style, innerWidth int) string {
	const gap = 2
	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)

	var b strings.Builder
	b.WriteString(style.Render(leftCorner))
	if leftWidth == 0 && rightWidth == 0 {
		b.WriteString(style.Render(strings.Repeat(fill, innerWidth)))
		b.WriteString(style.Render(rightCorner))
		return b.String()
	}

	used := gap + leftWidth + rightWidth
	if rightWidth > 0 {
		used += gap
	}
	filler := max(innerWidth-used, 0)

	b.WriteString(style.Render(strings.Repeat(fill, gap)))
	b.WriteString(left)
	b.WriteString(style.Render(strings.Repeat(fill, filler)))
	if rightWidth > 0 {
		b.WriteString(right)
		b.WriteString(style.Render(strings.Repeat(fill, gap)))
	}
	b.WriteString(style.Render(rightCorner))
	return b.String()
}
