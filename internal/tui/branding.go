package tui

import (
	"github.com/charmbracelet/lipgloss"
)

const AppName = "truthlens"

// ASCII art logo lines for truthlens - canonical definition
var LogoLines = []string{
	"▄▄▄█████ ▄▄▄ ▄▄ ▄▄  ▄▄ ▄▄▄█████ ▄▄ ▄▄",
	"   ██    ██▄█ ██ ██ ███    ██   ██▄██",
	"   ██    ██▀▄ ██ ██ ██▀█   ██   ██ ██",
	"   ██    ██ █ ▀███▀ ██ ██  ██   ██ ██ lens",
}

const CompactLogo = "truthlens ›"

// Banner gradient colors
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#7C3AED"),
	lipgloss.Color("#8B5CF6"),
	lipgloss.Color("#4ECDC4"),
	lipgloss.Color("#95E1D3"),
	lipgloss.Color("#7C3AED"),
}

// Brand colors: violet for the lens, teal for trust, red/green for the
// verdict.
var (
	PrimaryColor   = lipgloss.Color("#7C3AED") // Violet
	SecondaryColor = lipgloss.Color("#4ECDC4") // Teal
	AccentColor    = lipgloss.Color("#95E1D3") // Mint

	SurfaceColor    = lipgloss.Color("#16213E") // Midnight blue
	BackgroundColor = lipgloss.Color("#1A1A2E") // Deep night
	TextColor       = lipgloss.Color("#EAEAEA") // Soft white
	MutedColor      = lipgloss.Color("#94A3B8") // Muted gray-blue

	// Verdict colors
	FakeColor    = lipgloss.Color("#F87171") // Red - fake direction
	RealColor    = lipgloss.Color("#4ADE80") // Green - real direction
	ErrorColor   = lipgloss.Color("#EF4444")
	SuccessColor = lipgloss.Color("#10B981")
	WarnColor    = lipgloss.Color("#FFE66D")
)

// Styled components
var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(SurfaceColor).
			Bold(true).
			Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(0, 1)

	FakeBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1A1A2E")).
			Background(FakeColor).
			Bold(true).
			Padding(0, 1)

	RealBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1A1A2E")).
			Background(RealColor).
			Bold(true).
			Padding(0, 1)

	FakeTextStyle = lipgloss.NewStyle().
			Foreground(FakeColor)

	RealTextStyle = lipgloss.NewStyle().
			Foreground(RealColor)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(BackgroundColor).
			Background(AccentColor).
			Bold(true).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	TimeStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Faint(true)

	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(MutedColor)
)

// GetWelcomeMessage returns the hint shown over an empty form.
func GetWelcomeMessage() string {
	return LogoStyle.Render(CompactLogo) + "\n\n" +
		HelpStyle.Render("Paste an article title and body, then analyze it for fake-news signals.")
}
