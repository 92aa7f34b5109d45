package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalvaropc/unitforge/internal/domain"
	"github.com/aalvaropc/unitforge/internal/infra/logger"
	"github.com/aalvaropc/unitforge/internal/usecase"
)

func (m model) newPickList(title string, items []list.Item) list.Model {
	w, h := m.listSize()
	l := list.New(items, list.NewDefaultDelegate(), w, h)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}

func (m model) openMenu(title string) (tea.Model, tea.Cmd) {
	switch title {
	case menuQuit:
		return m, tea.Quit
	case menuCreate:
		return m.openTypeSelect()
	case menuTemplate:
		return m.openTemplates()
	case menuOpen:
		return m.openUnits()
	case menuSections:
		if !m.hasUnit() {
			m.toast = "Create or load a unit first"
			return m, nil
		}
		return m.openSections()
	case menuGenerate:
		if !m.hasUnit() {
			m.toast = "No unit configured. Create or load one first"
			return m, nil
		}
		m.scr = screenGenerate
		return m, nil
	case menuWorkspace:
		wd, err := os.Getwd()
		if err != nil {
			m.toast = userMessage(err)
			return m, nil
		}
		m.busy = true
		return m, cmdInitWorkspaceHere(m.deps, wd)
	}
	return m, nil
}

// onPick handles enter on the list screens that have no dedicated key map.
func (m model) onPick() (tea.Model, tea.Cmd) {
	it, ok := m.pick.SelectedItem().(pickItem)
	if !ok {
		return m, nil
	}

	switch m.scr {
	case screenTypeSelect:
		t, _ := domain.ParseUnitType(it.value)
		m.wizard = newWizard(t, m.deps.Config.Defaults.User)
		return m.nextWizardStep()

	case screenTemplates:
		id := it.value
		return m.openPrompt(promptSpec{
			title:  it.title,
			label:  "Unit name (without extension)",
			submit: instantiateTemplate(id),
			cancel: func(m model) (model, tea.Cmd) { return m.openTemplates() },
		}, "")

	case screenUnits:
		if it.kind == itemAdd {
			return m.openPrompt(promptSpec{
				title: "Edit existing unit",
				label: "Path to a .service, .timer or .socket file",
				submit: func(m model, v string) (model, tea.Cmd) {
					v = strings.TrimSpace(v)
					if v == "" {
						m.toast = "Path is required"
						return m, nil
					}
					m.busy = true
					return m, cmdLoadUnit(m.deps, v)
				},
				cancel: func(m model) (model, tea.Cmd) { return m.openUnits() },
			}, "")
		}
		m.busy = true
		return m, cmdLoadUnit(m.deps, it.value)

	case screenSections:
		if it.kind == itemAdd {
			return m.openPrompt(promptSpec{
				title:  "New section",
				label:  "Section name, e.g. Path or X-Custom",
				submit: func(m model, v string) (model, tea.Cmd) { return m.focusSection(strings.TrimSpace(v)) },
				cancel: func(m model) (model, tea.Cmd) { return m.openSections() },
			}, "")
		}
		return m.focusSection(it.value)
	}
	return m, nil
}

func (m model) openTypeSelect() (model, tea.Cmd) {
	items := []list.Item{
		pickItem{value: string(domain.UnitService), title: "Service", desc: "A process systemd starts and supervises"},
		pickItem{value: string(domain.UnitTimer), title: "Timer", desc: "Activates another unit on a schedule"},
		pickItem{value: string(domain.UnitSocket), title: "Socket", desc: "Starts a service when a connection arrives"},
	}
	m.pick = m.newPickList("Unit type", items)
	m.scr = screenTypeSelect
	return m, nil
}

func (m model) openTemplates() (model, tea.Cmd) {
	var items []list.Item
	if m.deps.Catalog != nil {
		for _, t := range m.deps.Catalog.List() {
			items = append(items, pickItem{
				value: t.ID,
				title: t.DisplayName,
				desc:  fmt.Sprintf("%s · %s", t.ID, t.Type),
			})
		}
	}
	m.pick = m.newPickList("Templates", items)
	m.scr = screenTemplates
	return m, nil
}

func instantiateTemplate(id string) step {
	return func(m model, name string) (model, tea.Cmd) {
		if m.deps.Catalog == nil {
			m.toast = "No template catalog"
			return m, nil
		}
		u, err := usecase.NewFromTemplate(m.deps.Catalog).Execute(id, name)
		if err != nil {
			m.toast = userMessage(err)
			return m, nil
		}
		return m.startWith(u, "Created "+u.FileName()+" from template")
	}
}

// startWith opens a session on a freshly built unit.
func (m model) startWith(u *domain.Unit, toast string) (model, tea.Cmd) {
	s := domain.NewEditSession()
	if err := s.Load(u); err != nil {
		m.toast = userMessage(err)
		return m, nil
	}
	m = m.adopt(s, "")
	logger.WithSession(m.deps.log(), s).Info("session.load")
	m.toast = toast
	return m.openSections()
}

func (m model) openUnits() (model, tea.Cmd) {
	items := []list.Item{
		pickItem{kind: itemAdd, title: "Enter a path…", desc: "Open any unit file"},
	}
	m.pick = m.newPickList("Units in "+m.outDir, items)
	m.scr = screenUnits
	return m, cmdListUnits(m.deps, m.outDir)
}

func (m model) onUnitsListed(msg unitsListedMsg) model {
	if m.scr != screenUnits {
		return m
	}
	if msg.err != nil && !domain.IsKind(msg.err, domain.KindNotFound) {
		m.toast = userMessage(msg.err)
	}

	items := []list.Item{
		pickItem{kind: itemAdd, title: "Enter a path…", desc: "Open any unit file"},
	}
	for _, r := range msg.refs {
		items = append(items, pickItem{value: r.Path, title: r.Name + "." + string(r.Type), desc: r.Path})
	}
	m.pick.SetItems(items)
	return m
}

func (m model) openSections() (model, tea.Cmd) {
	u := m.session.Unit()

	var items []list.Item
	for _, name := range u.AllSectionNames() {
		n := 0
		for _, o := range u.Options(name) {
			if o.Value != "" {
				n++
			}
		}
		items = append(items, pickItem{
			value: name,
			title: "[" + name + "]",
			desc:  fmt.Sprintf("%d option(s) set", n),
		})
	}
	for _, name := range domain.SectionsFor(u.Type) {
		if !u.HasSection(name) {
			items = append(items, pickItem{kind: itemSuggest, value: name, title: "+ [" + name + "]", desc: "not present yet"})
		}
	}
	items = append(items, pickItem{kind: itemAdd, title: "New section…", desc: "Any section name"})

	m.pick = m.newPickList(u.FileName(), items)
	m.scr = screenSections
	return m, nil
}

func (m model) focusSection(name string) (model, tea.Cmd) {
	if err := m.session.FocusSection(name); err != nil {
		m.toast = userMessage(err)
		return m, nil
	}
	logger.WithSession(m.deps.log(), m.session).Debug("session.focus")
	return m.openOptions()
}

func (m model) openOptions() (model, tea.Cmd) {
	u := m.session.Unit()
	sec := m.session.FocusedSection()

	var items []list.Item
	for _, o := range u.Options(sec) {
		title := o.Key + "=" + o.Value
		desc := ""
		if o.Value == "" {
			title = o.Key
			desc = "(empty, not written)"
		}
		items = append(items, pickItem{value: o.Key, title: clampString(title, 72), desc: desc})
	}
	for _, k := range domain.SuggestedKeys(u, sec) {
		items = append(items, pickItem{kind: itemSuggest, value: k, title: "+ " + k, desc: "common option"})
	}
	items = append(items, pickItem{kind: itemAdd, title: "Add option…", desc: "Any key"})

	idx := m.pick.Index()
	m.pick = m.newPickList("["+sec+"]", items)
	if m.scr == screenOptions && idx < len(items) {
		m.pick.Select(idx)
	}
	m.scr = screenOptions
	return m, nil
}

func (m model) onOptionSelected() (tea.Model, tea.Cmd) {
	it, ok := m.pick.SelectedItem().(pickItem)
	if !ok {
		return m, nil
	}
	if it.kind == itemAdd {
		return m.openPrompt(promptSpec{
			title:  "[" + m.session.FocusedSection() + "]",
			label:  "Option key",
			submit: func(m model, v string) (model, tea.Cmd) { return m.editValue(strings.TrimSpace(v)) },
			cancel: func(m model) (model, tea.Cmd) { return m.openOptions() },
		}, "")
	}
	return m.editValue(it.value)
}

// editValue asks for a new value of key in the focused section.
func (m model) editValue(key string) (model, tea.Cmd) {
	sec := m.session.FocusedSection()
	current, _ := m.session.Unit().Option(sec, key)

	spec := promptSpec{
		title:  "[" + sec + "] " + key,
		label:  "Value (leave empty to keep the key without writing it)",
		submit: func(m model, v string) (model, tea.Cmd) {
			v = strings.TrimSpace(v)
			if err := usecase.CheckValue(key, v); err != nil {
				m.toast = userMessage(err)
				return m, nil
			}
			return m.applyEdit(domain.AddOrModify(key, v))
		},
		cancel: func(m model) (model, tea.Cmd) { return m.openOptions() },
	}

	if choices := choicesFor(sec, key); len(choices) > 0 {
		return m.openChoice(spec, choices, current)
	}
	return m.openPrompt(spec, current)
}

func (m model) applyEdit(cmd domain.EditCommand) (model, tea.Cmd) {
	st, err := m.session.Apply(cmd)
	if err != nil {
		m.toast = userMessage(err)
		return m, nil
	}
	m.saved = ""

	switch st {
	case domain.StatusApplied:
		m.toast = "Set " + cmd.Key
	case domain.StatusRemoved:
		m.toast = "Removed " + cmd.Key
	case domain.StatusNotFound:
		m.toast = cmd.Key + " not found"
	}
	logger.WithSession(m.deps.log(), m.session).Debug("session.apply", "key", cmd.Key, "status", string(st))
	return m.openOptions()
}

func (m model) leaveSection() (model, tea.Cmd) {
	if _, err := m.session.Apply(domain.Exit()); err != nil {
		m.toast = userMessage(err)
	}
	return m.openSections()
}

func (m model) askOutputDir() (model, tea.Cmd) {
	return m.openPrompt(promptSpec{
		title: "Generate unit file",
		label: "Output directory",
		submit: func(m model, v string) (model, tea.Cmd) {
			v = strings.TrimSpace(v)
			if v == "" {
				m.toast = "Output directory is required"
				return m, nil
			}
			m.outDir = v
			m.saved = ""
			m.scr = screenGenerate
			m.input.Blur()
			return m, nil
		},
		cancel: func(m model) (model, tea.Cmd) {
			m.scr = screenGenerate
			m.input.Blur()
			return m, nil
		},
	}, m.outDir)
}

func (m model) openPrompt(spec promptSpec, value string) (model, tea.Cmd) {
	m.prompt = spec
	m.input.Placeholder = spec.label
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.scr = screenPrompt
	return m, m.input.Focus()
}

func (m model) openChoice(spec promptSpec, choices []string, current string) (model, tea.Cmd) {
	items := make([]list.Item, 0, len(choices))
	sel := 0
	for i, c := range choices {
		items = append(items, pickItem{value: c, title: c})
		if c == current {
			sel = i
		}
	}
	m.prompt = spec
	m.pick = m.newPickList(spec.title, items)
	m.pick.Select(sel)
	m.scr = screenChoice
	return m, nil
}

func choicesFor(section, key string) []string {
	switch {
	case section == "Service" && key == "Type":
		return domain.ServiceTypes
	case section == "Service" && key == "Restart":
		return domain.RestartPolicies
	case section == "Timer" && key == "Persistent":
		return []string{"true", "false"}
	}
	return nil
}
