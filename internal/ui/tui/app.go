package tui

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalvaropc/unitforge/internal/domain"
)

type screen int

const (
	screenHome screen = iota
	screenTypeSelect
	screenTemplates
	screenUnits
	screenPrompt
	screenChoice
	screenSections
	screenOptions
	screenGenerate
)

const (
	menuCreate    = "Create new unit"
	menuTemplate  = "New from template"
	menuOpen      = "Edit existing unit"
	menuSections  = "Edit sections"
	menuGenerate  = "Generate unit file"
	menuWorkspace = "Init workspace here"
	menuQuit      = "Quit"
)

type menuItem struct {
	title string
	desc  string
}

func (m menuItem) Title() string       { return m.title }
func (m menuItem) Description() string { return m.desc }
func (m menuItem) FilterValue() string { return m.title }

type itemKind int

const (
	itemValue itemKind = iota
	itemSuggest
	itemAdd
)

// pickItem backs every list below the home menu. value carries the id, key,
// section or path the item stands for.
type pickItem struct {
	kind  itemKind
	value string
	title string
	desc  string
}

func (p pickItem) Title() string       { return p.title }
func (p pickItem) Description() string { return p.desc }
func (p pickItem) FilterValue() string { return p.title }

type step func(model, string) (model, tea.Cmd)
type back func(model) (model, tea.Cmd)

// promptSpec drives screenPrompt and screenChoice.
type promptSpec struct {
	title  string
	label  string
	submit step
	cancel back
}

type model struct {
	theme Theme
	deps  Deps

	scr   screen
	menu  list.Model
	pick  list.Model
	input textinput.Model

	prompt promptSpec
	wizard wizardState

	width  int
	height int

	workspaceFound bool
	workspaceRoot  string

	session    *domain.EditSession
	sourcePath string
	outDir     string

	busy  bool
	toast string
	saved string
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	t := DefaultTheme()

	items := []list.Item{
		menuItem{menuCreate, "Answer a few questions to build a service, timer or socket"},
		menuItem{menuTemplate, "Start from a predefined configuration"},
		menuItem{menuOpen, "Load a unit file from disk"},
		menuItem{menuSections, "Add, change or remove options section by section"},
		menuItem{menuGenerate, "Preview and write the unit file"},
		menuItem{menuWorkspace, "Create unitforge.yaml, templates/ and units/ in the current directory"},
		menuItem{menuQuit, "Exit unitforge"},
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "unitforge"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	in := textinput.New()
	in.CharLimit = 1024

	m := model{
		theme:   t,
		deps:    deps,
		scr:     screenHome,
		menu:    l,
		input:   in,
		session: domain.NewEditSession(),
		outDir:  deps.Config.Paths.OutputDir,
	}

	wd, err := os.Getwd()
	if err == nil && deps.WorkspaceLocator != nil {
		root, findErr := deps.WorkspaceLocator.FindRoot(wd)
		if findErr == nil {
			m.workspaceFound = true
			m.workspaceRoot = root
		}
	}

	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.menu.SetSize(m.listSize())
		m.pick.SetSize(m.listSize())
		m.input.Width = max(20, msg.Width-12)
		return m, nil

	case workspaceRefreshedMsg:
		m.workspaceFound = msg.found
		m.workspaceRoot = msg.root
		if msg.cfg != nil {
			m.deps.Config = *msg.cfg
			if m.sourcePath == "" {
				m.outDir = msg.cfg.Paths.OutputDir
			}
		}
		if msg.found && msg.err != nil {
			m.toast = userMessage(msg.err)
		}
		return m, nil

	case initWorkspaceDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.toast = "Workspace ready at " + msg.root
		return m, cmdRefreshWorkspace(m.deps)

	case unitsListedMsg:
		return m.onUnitsListed(msg), nil

	case unitLoadedMsg:
		m.busy = false
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m = m.adopt(msg.session, msg.path)
		m.toast = "Loaded " + msg.path
		return m.openSections()

	case unitSavedMsg:
		m.busy = false
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.saved = msg.path
		m.sourcePath = msg.path
		m.toast = "Unit file written to " + msg.path
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}

	return m.forward(msg)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.scr {
	case screenHome:
		if m.menu.FilterState() == list.Filtering {
			return m.forward(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "enter":
			it, ok := m.menu.SelectedItem().(menuItem)
			if !ok {
				return m, nil
			}
			m.toast = ""
			return m.openMenu(it.title)
		}

	case screenPrompt:
		switch msg.String() {
		case "esc":
			return m.prompt.cancel(m)
		case "enter":
			return m.prompt.submit(m, m.input.Value())
		}

	case screenChoice:
		switch msg.String() {
		case "esc", "b", "q":
			return m.prompt.cancel(m)
		case "enter":
			if it, ok := m.pick.SelectedItem().(pickItem); ok {
				return m.prompt.submit(m, it.value)
			}
			return m, nil
		}

	case screenOptions:
		switch msg.String() {
		case "esc", "b":
			return m.leaveSection()
		case "q":
			nm, _ := m.leaveSection()
			return nm.goHome(), nil
		case "d", "delete":
			if it, ok := m.pick.SelectedItem().(pickItem); ok && it.kind == itemValue {
				return m.applyEdit(domain.Remove(it.value))
			}
			return m, nil
		case "enter":
			return m.onOptionSelected()
		}

	case screenGenerate:
		switch msg.String() {
		case "esc", "b", "q":
			return m.goHome(), nil
		case "enter", "w":
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.toast = "Writing…"
			return m, cmdSaveUnit(m.deps, m.outDir, m.session.Unit().Clone())
		case "o":
			return m.askOutputDir()
		}
		return m, nil

	default:
		switch msg.String() {
		case "esc", "b", "q":
			return m.goHome(), nil
		case "enter":
			return m.onPick()
		}
	}

	return m.forward(msg)
}

// forward hands msg to the component that owns the current screen.
func (m model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.scr {
	case screenHome:
		m.menu, cmd = m.menu.Update(msg)
	case screenPrompt:
		m.input, cmd = m.input.Update(msg)
	case screenGenerate:
	default:
		m.pick, cmd = m.pick.Update(msg)
	}
	return m, cmd
}

func (m model) goHome() model {
	m.scr = screenHome
	m.input.Blur()
	return m
}

func (m model) listSize() (int, int) {
	return max(0, m.width-4), max(0, m.height-10)
}

// adopt makes s the active session, closing whatever was loaded before.
func (m model) adopt(s *domain.EditSession, path string) model {
	if m.session != nil && m.session.State() != domain.StateIdle {
		m.session.Close()
	}
	m.session = s
	m.sourcePath = path
	m.saved = ""
	if path != "" {
		m.outDir = filepath.Dir(path)
	} else {
		m.outDir = m.deps.Config.Paths.OutputDir
	}
	return m
}

func (m model) hasUnit() bool {
	return m.session != nil && m.session.State() != domain.StateIdle
}
