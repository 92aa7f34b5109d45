package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalvaropc/unitforge/internal/domain"
	"github.com/aalvaropc/unitforge/internal/usecase"
)

type wizardField struct {
	key         string
	label       string
	placeholder string
	choices     []string
	required    bool
}

type wizardState struct {
	typ     domain.UnitType
	fields  []wizardField
	pos     int
	answers map[string]string
}

func newWizard(t domain.UnitType, defaultUser string) wizardState {
	if defaultUser == "" {
		defaultUser = "root"
	}

	fields := []wizardField{
		{key: "name", label: "Unit name (without extension)", required: true},
		{key: "description", label: "Description"},
	}

	switch t {
	case domain.UnitTimer:
		fields = append(fields,
			wizardField{key: "on_calendar", label: "Schedule (e.g. daily, hourly, or a calendar spec)"},
			wizardField{key: "persistent", label: "Persistent timer", choices: []string{"true", "false"}},
			wizardField{key: "timer_unit", label: "Service to activate (e.g. example.service)"},
		)
	case domain.UnitSocket:
		fields = append(fields,
			wizardField{key: "listen", label: "Listen address (e.g. 127.0.0.1:8080)"},
		)
	default:
		fields = append(fields,
			wizardField{key: "service_type", label: "Service type", choices: domain.ServiceTypes},
			wizardField{key: "exec_start", label: "ExecStart command"},
			wizardField{key: "restart", label: "Restart policy", choices: domain.RestartPolicies},
			wizardField{key: "user", label: "Run as user", placeholder: "leave blank for " + defaultUser},
			wizardField{key: "working_dir", label: "Working directory", placeholder: "optional"},
		)
	}

	return wizardState{typ: t, fields: fields, answers: map[string]string{}}
}

func (m model) nextWizardStep() (model, tea.Cmd) {
	w := m.wizard
	if w.pos >= len(w.fields) {
		return m.finishWizard()
	}

	f := w.fields[w.pos]
	spec := promptSpec{
		title: "New " + string(w.typ),
		label: f.label,
		submit: func(m model, v string) (model, tea.Cmd) {
			v = strings.TrimSpace(v)
			if f.required && v == "" {
				m.toast = f.label + " is required"
				return m, nil
			}
			m.toast = ""
			m.wizard.answers[f.key] = v
			m.wizard.pos++
			return m.nextWizardStep()
		},
		cancel: func(m model) (model, tea.Cmd) {
			m.toast = "Cancelled"
			return m.goHome(), nil
		},
	}

	if len(f.choices) > 0 {
		return m.openChoice(spec, f.choices, "")
	}
	m, cmd := m.openPrompt(spec, "")
	if f.placeholder != "" {
		m.input.Placeholder = f.placeholder
	}
	return m, cmd
}

func (m model) finishWizard() (model, tea.Cmd) {
	a := m.wizard.answers
	in := usecase.CreateInput{
		Type:             m.wizard.typ,
		Name:             a["name"],
		Description:      a["description"],
		ServiceType:      a["service_type"],
		ExecStart:        a["exec_start"],
		Restart:          a["restart"],
		User:             a["user"],
		WorkingDirectory: a["working_dir"],
		OnCalendar:       a["on_calendar"],
		Persistent:       a["persistent"],
		TimerUnit:        a["timer_unit"],
		ListenStream:     a["listen"],
	}

	u, err := usecase.NewCreateUnit(usecase.WithDefaultUser(m.deps.Config.Defaults.User)).Execute(in)
	if err != nil {
		m.toast = userMessage(err)
		return m.goHome(), nil
	}
	return m.startWith(u, "Created "+u.FileName())
}
