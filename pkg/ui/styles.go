package ui

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Primary   = lipgloss.Color("#00D4AA") // teal, brand
	Secondary = lipgloss.Color("#7D56F4")

	Success = lipgloss.Color("#00D26A")
	Warning = lipgloss.Color("#FFB800")
	Error   = lipgloss.Color("#FF3838")
	Info    = lipgloss.Color("#4D96FF")
	Muted   = lipgloss.Color("#6B7280")
	Bright  = lipgloss.Color("#FAFAFA")

	Status2xx = lipgloss.Color("#00D26A")
	Status3xx = lipgloss.Color("#4D96FF")
	Status4xx = lipgloss.Color("#FFD93D")
	Status5xx = lipgloss.Color("#FF3838")
)

// styles are bound to one renderer so a Printer's color profile never
// leaks into another.
type styles struct {
	banner   lipgloss.Style
	version  lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	divider  lipgloss.Style
	info     lipgloss.Style
	success  lipgloss.Style
	warning  lipgloss.Style
	err      lipgloss.Style
	found    lipgloss.Style
	records  lipgloss.Style
	detail   lipgloss.Style
	progress lipgloss.Style
	section  lipgloss.Style
	bullet   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		banner:   r.NewStyle().Foreground(Primary).Bold(true),
		version:  r.NewStyle().Foreground(Secondary).Bold(true),
		label:    r.NewStyle().Foreground(Warning),
		value:    r.NewStyle().Foreground(Bright),
		divider:  r.NewStyle().Foreground(Muted),
		info:     r.NewStyle().Foreground(Primary),
		success:  r.NewStyle().Foreground(Success),
		warning:  r.NewStyle().Foreground(Warning),
		err:      r.NewStyle().Foreground(Error).Bold(true),
		found:    r.NewStyle().Foreground(Success).Bold(true),
		records:  r.NewStyle().Foreground(Muted),
		detail:   r.NewStyle().Foreground(Info),
		progress: r.NewStyle().Foreground(Warning),
		section:  r.NewStyle().Foreground(Bright).Bold(true),
		bullet:   r.NewStyle().Foreground(Success),
	}
}

// statusStyle colors an HTTP status code by class.
func statusStyle(r *lipgloss.Renderer, code int) lipgloss.Style {
	base := r.NewStyle().Bold(true)
	switch {
	case code >= 200 && code < 300:
		return base.Foreground(Status2xx)
	case code >= 300 && code < 400:
		return base.Foreground(Status3xx)
	case code >= 400 && code < 500:
		return base.Foreground(Status4xx)
	case code >= 500:
		return base.Foreground(Status5xx)
	default:
		return base.Foreground(Muted)
	}
}
