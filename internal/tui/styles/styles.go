package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	MarqueeRed = lipgloss.Color("#E50914")
	Gold       = lipgloss.Color("#F5C518")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(MarqueeRed)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(MarqueeRed)

	RatingStyle = lipgloss.NewStyle().
			Foreground(Gold)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)
)

// Badge styles
var (
	BadgeStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(MarqueeRed).
			Padding(0, 1)

	DimBadgeStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Background(SlateLight).
			Padding(0, 1)
)

// Dropdown styles
var (
	DropdownStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SlateLight).
			Padding(0, 1)

	SuggestionStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	SuggestionActiveStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SlateLight)

	MatchHighlightStyle = lipgloss.NewStyle().
				Foreground(MarqueeRed).
				Bold(true)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(MarqueeRed).
			Padding(1, 2)
)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(MarqueeRed)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(MarqueeRed)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Helper functions

// Truncate truncates a string to the given display width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 3 {
		if width > len(runes) {
			return s
		}
		return string(runes[:width])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// FadeColor blends from the terminal background toward LightGray. opacity
// 0 is fully faded.
func FadeColor(opacity float64) lipgloss.Color {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	// #1F2937 → #9CA3AF
	r := 0x1F + int(float64(0x9C-0x1F)*opacity)
	g := 0x29 + int(float64(0xA3-0x29)*opacity)
	b := 0x37 + int(float64(0xAF-0x37)*opacity)
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, b))
}

// RenderListRow renders a complete list row with uniform background when selected.
// parts is a slice of {text, fgColor} pairs. Use nil for default foreground.
func RenderListRow(parts []RowPart, selected bool, width int) string {
	bg := SlateLight
	defaultFg := LightGray
	selectedFg := White

	var result string
	visibleLen := 0

	for _, part := range parts {
		style := lipgloss.NewStyle()
		if part.Foreground != nil {
			style = style.Foreground(*part.Foreground)
		} else if selected {
			style = style.Foreground(selectedFg)
		} else {
			style = style.Foreground(defaultFg)
		}
		if selected {
			style = style.Background(bg)
		}
		result += style.Render(part.Text)
		visibleLen += lipgloss.Width(part.Text)
	}

	// Fill to width, leaving one margin column on each side
	paddingNeeded := width - visibleLen - 2
	if paddingNeeded > 0 {
		padStyle := lipgloss.NewStyle()
		if selected {
			padStyle = padStyle.Background(bg)
		}
		result += padStyle.Render(spaces(paddingNeeded))
	}

	marginStyle := lipgloss.NewStyle()
	if selected {
		marginStyle = marginStyle.Background(bg)
	}
	margin := marginStyle.Render(" ")

	return margin + result + margin
}

// RowPart represents a part of a row with optional foreground color
type RowPart struct {
	Text       string
	Foreground *lipgloss.Color
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
