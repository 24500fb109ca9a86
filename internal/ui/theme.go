package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box border.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Owner, Selected lipgloss.Style

	SymOK, SymFail, SymOwner, SymCursor string
	Border                              lipgloss.Border
}

var current = classic()

func classic() Theme {
	return Theme{
		Name:     "classic",
		Title:    lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Faint(true),
		Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Owner:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		SymOK:    "✔", SymFail: "✖", SymOwner: "★", SymCursor: "> ",
		Border: lipgloss.NormalBorder(),
	}
}

// SetTheme switches the palette: "classic" (default), "neon" or "mono".
func SetTheme(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "neon":
		t := classic()
		t.Name = "neon"
		t.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
		t.Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
		t.Owner = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
		t.Selected = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("13"))
		t.Border = lipgloss.RoundedBorder()
		current = t
	case "mono":
		plain := lipgloss.NewStyle()
		current = Theme{
			Name:  "mono",
			Title: plain, Muted: plain, Accent: plain, Success: plain, Error: plain, Owner: plain,
			Selected: lipgloss.NewStyle().Reverse(true),
			SymOK:    "ok", SymFail: "error:", SymOwner: "*", SymCursor: "> ",
			Border: lipgloss.ASCIIBorder(),
		}
	default:
		current = classic()
	}
}

// Current exposes what renderers need.
func Current() Theme { return current }
