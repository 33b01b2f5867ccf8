package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorLabel  = lipgloss.Color("245")
	colorMuted  = lipgloss.Color("240")
	colorText   = lipgloss.Color("255")
)

var (
	styleHeading = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleAccent  = lipgloss.NewStyle().Foreground(colorAccent)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleWarn    = lipgloss.NewStyle().Foreground(colorWarn)
	styleLabel   = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleText    = lipgloss.NewStyle().Foreground(colorText)
	styleCommand = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
)

// Status markers, one per message kind.
var (
	markOK   = lipgloss.NewStyle().Foreground(colorOK).Render("✓")
	markFail = lipgloss.NewStyle().Foreground(colorFail).Render("✗")
	markWarn = lipgloss.NewStyle().Foreground(colorWarn).Render("!")
	markInfo = lipgloss.NewStyle().Foreground(colorLabel).Render("›")
)

const arrow = "→"

func status(mark, format string, args ...any) {
	fmt.Println(mark + " " + fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { status(markOK, format, args...) }
func printError(format string, args ...any)   { status(markFail, format, args...) }
func printInfo(format string, args ...any)    { status(markInfo, format, args...) }

func printWarning(format string, args ...any) {
	status(markWarn, "%s", styleWarn.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented muted line under the last status.
func printDetail(format string, args ...any) {
	fmt.Println("  " + styleMuted.Render(fmt.Sprintf(format, args...)))
}

// printFile names a file that was written.
func printFile(path string) {
	fmt.Println("  " + styleMuted.Render(arrow) + " " + styleText.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + styleText.Render(value))
}

// printStats summarizes a lattice as "N nodes · M edges · R ranks · fresh".
// The last field reads "cached" when the lattice came from the cache.
func printStats(nodes, edges, ranks int, cached bool) {
	origin := styleMuted.Render("fresh")
	if cached {
		origin = lipgloss.NewStyle().Foreground(colorOK).Render("cached")
	}
	fields := []string{
		styleMuted.Render(fmt.Sprintf("%d nodes", nodes)),
		styleMuted.Render(fmt.Sprintf("%d edges", edges)),
		styleMuted.Render(fmt.Sprintf("%d ranks", ranks)),
		origin,
	}
	fmt.Println("  " + strings.Join(fields, styleMuted.Render(" · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(what, cmd string) {
	fmt.Println(styleMuted.Render(what+":") + " " + styleCommand.Render(cmd))
}
