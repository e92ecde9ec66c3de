package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const title = "Instagram Followers Analyzer"

var (
	igPink   = lipgloss.Color("#E1306C")
	igPurple = lipgloss.Color("#833AB4")
	igOrange = lipgloss.Color("#F77737")
	dimWhite = lipgloss.Color("#B0B0B0")
	green    = lipgloss.Color("#4CAF50")
	red      = lipgloss.Color("#FF5722")

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(igPurple).
			Padding(1, 3)

	titleStyle = lipgloss.NewStyle().
			Foreground(igPink).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(dimWhite).
			Width(10)

	urlStyle = lipgloss.NewStyle().
			Foreground(igOrange).
			Underline(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(dimWhite).
			Faint(true)

	successStyle = lipgloss.NewStyle().
			Foreground(green).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(red).
			Bold(true)
)

// BannerInfo is what the startup banner reports
type BannerInfo struct {
	URL      string
	Headless bool
	Metrics  bool
}

func (b BannerInfo) rows() [][2]string {
	mode := "opening your browser"
	if b.Headless {
		mode = "headless"
	}
	rows := [][2]string{{"Open", b.URL}, {"Mode", mode}}
	if b.Metrics {
		rows = append(rows, [2]string{"Metrics", strings.TrimSuffix(b.URL, "/") + "/metrics"})
	}
	return rows
}

// Banner renders the styled startup panel
func Banner(info BannerInfo) string {
	lines := []string{titleStyle.Render(title), ""}
	for _, row := range info.rows() {
		value := row[1]
		if row[0] != "Mode" {
			value = urlStyle.Render(value)
		}
		lines = append(lines, labelStyle.Render(row[0])+value)
	}
	lines = append(lines, "", hintStyle.Render("Press Ctrl+C to stop"))
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// PlainBanner renders the banner without escape sequences
func PlainBanner(info BannerInfo) string {
	var sb strings.Builder
	sb.WriteString(title + "\n")
	for _, row := range info.rows() {
		fmt.Fprintf(&sb, "  %-9s %s\n", row[0]+":", row[1])
	}
	sb.WriteString("Press Ctrl+C to stop\n")
	return sb.String()
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// PrintBanner writes the banner to f, styled only for color terminals
func PrintBanner(f *os.File, info BannerInfo, noColor bool) {
	if noColor || !IsTerminal(f) {
		fmt.Fprint(f, PlainBanner(info))
		return
	}
	fmt.Fprintln(f, Banner(info))
}

// PrintError prints an error message, in red on terminals
func PrintError(w io.Writer, msg string, err error) {
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	if f, ok := w.(*os.File); ok && IsTerminal(f) {
		msg = errorStyle.Render(msg)
	}
	fmt.Fprintln(w, msg)
}

// PrintSuccess prints a success message, in green on terminals
func PrintSuccess(w io.Writer, msg string) {
	if f, ok := w.(*os.File); ok && IsTerminal(f) {
		msg = successStyle.Render(msg)
	}
	fmt.Fprintln(w, msg)
}
