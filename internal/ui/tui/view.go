package tui

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"github.com/aalvaropc/unitforge/internal/unitfile"
	"github.com/aalvaropc/unitforge/internal/usecase"
)

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("unitforge") + "\n" +
		m.theme.Subtitle.Render("systemd unit builder: services, timers and sockets") + "\n"

	var banner string
	if m.workspaceFound {
		banner = m.theme.Help.Render(fmt.Sprintf("Workspace: %s", m.workspaceRoot))
	} else {
		banner = m.theme.Help.Render("No workspace; writing to " + m.outDir)
	}
	if m.hasUnit() {
		banner += "\n" + m.theme.Help.Render("Unit: "+m.session.Unit().FileName())
	}

	body, help := m.screenBody()

	out := header + "\n" + banner + "\n\n" + body + "\n"
	if m.toast != "" {
		out += m.theme.Toast.Render(m.toast) + "\n"
	}
	out += m.theme.Help.Render(help)
	return wrap.Render(out)
}

func (m model) screenBody() (string, string) {
	switch m.scr {
	case screenHome:
		return m.theme.Card.Render(m.menu.View()), "↑/↓ navigate • enter open • / search • q quit"

	case screenPrompt:
		card := m.theme.Title.Render(m.prompt.title) + "\n\n" +
			m.prompt.label + "\n\n" +
			m.input.View()
		return m.theme.Card.Render(card), "enter confirm • esc cancel"

	case screenChoice:
		return m.theme.Card.Render(m.pick.View()), "↑/↓ choose • enter confirm • esc cancel"

	case screenSections:
		return m.theme.Card.Render(m.pick.View()), "enter edit section • esc back"

	case screenOptions:
		return m.theme.Card.Render(m.pick.View()), "enter edit • d remove • esc back to sections"

	case screenGenerate:
		return m.generateView(), "enter/w write • o change output dir • esc back"

	default:
		return m.theme.Card.Render(m.pick.View()), "enter select • esc back"
	}
}

func (m model) generateView() string {
	u := m.session.Unit()
	text := unitfile.Render(u)
	if text == "" {
		text = "(no options set)"
	}

	dest := filepath.Join(m.outDir, u.FileName())
	card := m.theme.Title.Render("Generate "+u.FileName()) + "\n" +
		m.theme.Help.Render("Destination: "+dest) + "\n\n" +
		m.theme.Code.Render(clampLines(text, max(5, m.height-16)))

	if m.saved != "" {
		card += "\n\n" + "Remember to run:\n"
		for _, r := range usecase.Reminders(u) {
			card += "  " + r + "\n"
		}
	}
	return m.theme.Card.Render(card)
}
