package tui

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalvaropc/unitforge/internal/catalog"
	"github.com/aalvaropc/unitforge/internal/domain"
	"github.com/aalvaropc/unitforge/internal/infra/unitfs"
	"github.com/aalvaropc/unitforge/internal/unitfile"
)

// --- helpers ---

func newTestModel(t *testing.T) (model, string) {
	t.Helper()
	dir := t.TempDir()

	cfg := domain.DefaultConfig()
	cfg.Paths.OutputDir = dir

	store := unitfs.NewStore()
	m := newModel(Deps{
		Catalog: catalog.New(),
		Source:  store,
		Sink:    store,
		Lister:  store,
		Config:  cfg,
	})
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40}), dir
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return nm
}

// updateCmd runs msg and then, if a command came back, its resulting message.
// Only used for commands that complete immediately.
func updateCmd(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, cmd := m.Update(msg)
	nm := next.(model)
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	return update(t, nm, cmd())
}

func enter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }
func esc() tea.KeyMsg   { return tea.KeyMsg{Type: tea.KeyEsc} }
func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func openMenu(t *testing.T, m model, title string) model {
	t.Helper()
	for i, it := range m.menu.Items() {
		if it.(menuItem).title == title {
			m.menu.Select(i)
			return update(t, m, enter())
		}
	}
	t.Fatalf("menu item %q not found", title)
	return m
}

func selectPick(t *testing.T, m model, value string) model {
	t.Helper()
	for i, it := range m.pick.Items() {
		if it.(pickItem).value == value {
			m.pick.Select(i)
			return m
		}
	}
	t.Fatalf("item %q not found on screen %d", value, m.scr)
	return m
}

func selectKind(t *testing.T, m model, kind itemKind) model {
	t.Helper()
	for i, it := range m.pick.Items() {
		if it.(pickItem).kind == kind {
			m.pick.Select(i)
			return m
		}
	}
	t.Fatalf("no item of kind %d on screen %d", kind, m.scr)
	return m
}

func answer(t *testing.T, m model, value string) model {
	t.Helper()
	if m.scr != screenPrompt {
		t.Fatalf("expected prompt, got screen %d", m.scr)
	}
	m.input.SetValue(value)
	return update(t, m, enter())
}

func choose(t *testing.T, m model, value string) model {
	t.Helper()
	if m.scr != screenChoice {
		t.Fatalf("expected choice list, got screen %d", m.scr)
	}
	return update(t, selectPick(t, m, value), enter())
}

func fromTemplate(t *testing.T, m model, id, name string) model {
	t.Helper()
	m = openMenu(t, m, menuTemplate)
	m = update(t, selectPick(t, m, id), enter())
	return answer(t, m, name)
}

// --- flows ---

func TestWizard_CreatesServiceWithDefaultUser(t *testing.T) {
	m, _ := newTestModel(t)

	m = openMenu(t, m, menuCreate)
	if m.scr != screenTypeSelect {
		t.Fatalf("expected type selection, got %d", m.scr)
	}
	m = update(t, selectPick(t, m, "service"), enter())

	m = answer(t, m, "")
	if m.scr != screenPrompt || !strings.Contains(m.toast, "required") {
		t.Fatalf("expected name to be required, toast=%q", m.toast)
	}
	m = answer(t, m, "backup")
	m = answer(t, m, "Backup job")
	m = choose(t, m, "oneshot")
	m = answer(t, m, "/usr/bin/backup")
	m = choose(t, m, "on-failure")
	m = answer(t, m, "")
	m = answer(t, m, "")

	if m.scr != screenSections {
		t.Fatalf("expected section list after wizard, got %d (toast %q)", m.scr, m.toast)
	}
	u := m.session.Unit()
	want := "[Unit]\nDescription=Backup job\n\n[Service]\nType=oneshot\nExecStart=/usr/bin/backup\nRestart=on-failure\nUser=root"
	if got := unitfile.Render(u); got != want {
		t.Fatalf("unexpected unit:\n%s", got)
	}
}

func TestWizard_TimerAndCancel(t *testing.T) {
	m, _ := newTestModel(t)

	m = openMenu(t, m, menuCreate)
	m = update(t, selectPick(t, m, "timer"), enter())
	m = answer(t, m, "nightly")
	m = update(t, m, esc())

	if m.scr != screenHome || m.hasUnit() {
		t.Fatalf("expected cancelled wizard to leave no unit")
	}

	m = openMenu(t, m, menuCreate)
	m = update(t, selectPick(t, m, "timer"), enter())
	m = answer(t, m, "nightly")
	m = answer(t, m, "Nightly run")
	m = answer(t, m, "daily")
	m = choose(t, m, "true")
	m = answer(t, m, "backup.service")

	if got := m.session.Unit().FileName(); got != "nightly.timer" {
		t.Fatalf("unexpected file name %q", got)
	}
	if v, _ := m.session.Unit().Option("Timer", "Unit"); v != "backup.service" {
		t.Fatalf("unexpected Timer.Unit %q", v)
	}
}

func TestTemplate_InstantiatesIntoSession(t *testing.T) {
	m, _ := newTestModel(t)

	m = fromTemplate(t, m, "1", "backup")
	if m.scr != screenSections {
		t.Fatalf("expected sections, got %d (toast %q)", m.scr, m.toast)
	}
	if m.session.State() != domain.StateLoaded {
		t.Fatalf("expected loaded session, got %s", m.session.State())
	}
	if v, _ := m.session.Unit().Option("Service", "User"); v != "nobody" {
		t.Fatalf("unexpected template content %q", v)
	}
}

func TestSectionEditor_ModifyChooseAndRemove(t *testing.T) {
	m, _ := newTestModel(t)
	m = fromTemplate(t, m, "1", "backup")

	m = update(t, selectPick(t, m, "Service"), enter())
	if m.scr != screenOptions || m.session.FocusedSection() != "Service" {
		t.Fatalf("expected Service focused, got %d/%q", m.scr, m.session.FocusedSection())
	}

	m = update(t, selectPick(t, m, "User"), enter())
	if m.input.Value() != "nobody" {
		t.Fatalf("expected prompt prefilled with current value, got %q", m.input.Value())
	}
	m = answer(t, m, "root")
	if m.scr != screenOptions || m.toast != "Set User" {
		t.Fatalf("expected back on options with toast, got %d %q", m.scr, m.toast)
	}

	m = update(t, selectPick(t, m, "Restart"), enter())
	if m.scr != screenChoice {
		t.Fatalf("expected choice list for Restart")
	}
	if it := m.pick.SelectedItem().(pickItem); it.value != "on-failure" {
		t.Fatalf("expected current value preselected, got %q", it.value)
	}
	m = choose(t, m, "always")

	m = update(t, selectPick(t, m, "WorkingDirectory"), keys("d"))
	if m.toast != "Removed WorkingDirectory" {
		t.Fatalf("unexpected toast %q", m.toast)
	}

	m = update(t, m, esc())
	if m.scr != screenSections || m.session.State() != domain.StateLoaded {
		t.Fatalf("expected exit to sections, got %d/%s", m.scr, m.session.State())
	}

	u := m.session.Unit()
	want := []domain.Option{
		{Key: "Type", Value: "simple"},
		{Key: "ExecStart", Value: "/path/to/your/command"},
		{Key: "Restart", Value: "always"},
		{Key: "User", Value: "root"},
	}
	got := u.Options("Service")
	if len(got) != len(want) {
		t.Fatalf("unexpected options %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected options %v", got)
		}
	}
}

func TestSectionEditor_NewSectionAndInvalidKey(t *testing.T) {
	m, _ := newTestModel(t)
	m = fromTemplate(t, m, "1", "web")

	m = update(t, selectKind(t, m, itemAdd), enter())
	m = answer(t, m, "Socket")
	if m.session.FocusedSection() != "Socket" {
		t.Fatalf("expected Socket focused, got %q", m.session.FocusedSection())
	}

	m = update(t, selectPick(t, m, "ListenStream"), enter())
	m = answer(t, m, "127.0.0.1:8080")
	if v, _ := m.session.Unit().Option("Socket", "ListenStream"); v != "127.0.0.1:8080" {
		t.Fatalf("unexpected ListenStream %q", v)
	}

	m = update(t, selectPick(t, m, "ListenStream"), enter())
	m, _ = m.prompt.submit(m, "8080\n[Install]")
	if m.scr != screenPrompt || !strings.HasPrefix(m.toast, "Invalid value") {
		t.Fatalf("expected multi-line value refused, got %d %q", m.scr, m.toast)
	}
	if v, _ := m.session.Unit().Option("Socket", "ListenStream"); v != "127.0.0.1:8080" {
		t.Fatalf("expected value unchanged, got %q", v)
	}
	m = update(t, m, esc())

	m = update(t, selectKind(t, m, itemAdd), enter())
	m = answer(t, m, "A=B")
	m = answer(t, m, "x")
	if m.scr != screenPrompt || !strings.HasPrefix(m.toast, "Invalid key") {
		t.Fatalf("expected invalid key to keep the prompt open, got %d %q", m.scr, m.toast)
	}
	m = update(t, m, esc())
	if m.scr != screenOptions {
		t.Fatalf("expected cancel back to options, got %d", m.scr)
	}
}

func TestGenerate_RequiresUnit(t *testing.T) {
	m, _ := newTestModel(t)
	m = openMenu(t, m, menuGenerate)
	if m.scr != screenHome || m.toast == "" {
		t.Fatalf("expected toast on home, got %d %q", m.scr, m.toast)
	}

	m = openMenu(t, m, menuSections)
	if m.scr != screenHome {
		t.Fatalf("expected to stay home without a unit")
	}
}

func TestGenerate_WritesAndShowsReminders(t *testing.T) {
	m, dir := newTestModel(t)
	m = fromTemplate(t, m, "5", "nightly")
	m = update(t, m, esc())

	m = openMenu(t, m, menuGenerate)
	if m.scr != screenGenerate {
		t.Fatalf("expected generate screen, got %d", m.scr)
	}
	if !strings.Contains(m.View(), "[Timer]") {
		t.Fatalf("expected preview in view")
	}

	m = updateCmd(t, m, keys("w"))
	want := filepath.Join(dir, "nightly.timer")
	if m.saved != want {
		t.Fatalf("expected saved path %s, got %q (toast %q)", want, m.saved, m.toast)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected file written: %v", err)
	}
	if !strings.Contains(m.View(), "sudo systemctl enable nightly.timer") {
		t.Fatalf("expected reminders in view:\n%s", m.View())
	}
}

func TestGenerate_ChangeOutputDirAndFailure(t *testing.T) {
	m, dir := newTestModel(t)
	m = fromTemplate(t, m, "2", "job")
	m = update(t, m, esc())
	m = openMenu(t, m, menuGenerate)

	m = update(t, m, keys("o"))
	missing := filepath.Join(dir, "missing")
	m = answer(t, m, missing)
	if m.scr != screenGenerate || m.outDir != missing {
		t.Fatalf("expected output dir changed, got %d %q", m.scr, m.outDir)
	}

	m = updateCmd(t, m, keys("w"))
	if m.saved != "" || !strings.Contains(m.toast, filepath.Join(missing, "job.service")) {
		t.Fatalf("expected failure toast naming the path, got %q", m.toast)
	}
	if v, _ := m.session.Unit().Option("Service", "Type"); v != "oneshot" {
		t.Fatalf("expected unit preserved after failed write")
	}
}

func TestEditExisting_LoadsFromOutputDir(t *testing.T) {
	m, dir := newTestModel(t)
	path := filepath.Join(dir, "web.socket")
	if err := os.WriteFile(path, []byte("[Socket]\nListenStream=8080\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m, cmd := openMenuCmd(t, m, menuOpen)
	if m.scr != screenUnits || cmd == nil {
		t.Fatalf("expected units screen with a listing command")
	}
	m = update(t, m, cmd())
	if len(m.pick.Items()) != 2 {
		t.Fatalf("expected path entry plus one unit, got %d", len(m.pick.Items()))
	}

	m = updateCmd(t, selectPick(t, m, path), enter())
	if m.scr != screenSections || m.sourcePath != path {
		t.Fatalf("expected loaded unit, got %d %q (toast %q)", m.scr, m.sourcePath, m.toast)
	}
	if m.session.Unit().FileName() != "web.socket" {
		t.Fatalf("unexpected unit %q", m.session.Unit().FileName())
	}
}

func TestEditExisting_MissingPath(t *testing.T) {
	m, dir := newTestModel(t)

	m, _ = openMenuCmd(t, m, menuOpen)
	m = update(t, selectKind(t, m, itemAdd), enter())

	m.input.SetValue(filepath.Join(dir, "ghost.service"))
	m = updateCmd(t, m, enter())
	if !strings.HasPrefix(m.toast, "File not found") {
		t.Fatalf("unexpected toast %q", m.toast)
	}
	if m.hasUnit() {
		t.Fatalf("expected no unit loaded")
	}
}

// openMenuCmd is openMenu that also hands back the command it produced.
func openMenuCmd(t *testing.T, m model, title string) (model, tea.Cmd) {
	t.Helper()
	for i, it := range m.menu.Items() {
		if it.(menuItem).title == title {
			m.menu.Select(i)
			next, cmd := m.Update(enter())
			return next.(model), cmd
		}
	}
	t.Fatalf("menu item %q not found", title)
	return m, nil
}

func TestSafeModel_RecoversFromViewPanic(t *testing.T) {
	m, _ := newTestModel(t)
	m.scr = screenGenerate
	m.session = nil

	s := wrapSafe(m, nil)
	if got := s.View(); got != "Unexpected error (see logs)" {
		t.Fatalf("expected recovered view, got %q", got)
	}
}

// explodingCatalog panics as soon as the template picker asks for templates.
type explodingCatalog struct{}

func (explodingCatalog) List() []domain.TemplateSummary { panic("catalog exploded") }

func (explodingCatalog) Instantiate(string) (*domain.Unit, error) { return nil, domain.ErrUnknownTemplate }

func TestSafeModel_UpdatePanicKeepsLoadedUnit(t *testing.T) {
	m, _ := newTestModel(t)
	u := domain.NewUnit("backup", domain.UnitService)
	if err := m.session.Load(u); err != nil {
		t.Fatalf("Load: %v", err)
	}
	m.deps.Catalog = explodingCatalog{}
	for i, it := range m.menu.Items() {
		if it.(menuItem).title == menuTemplate {
			m.menu.Select(i)
		}
	}

	var buf bytes.Buffer
	s := wrapSafe(m, slog.New(slog.NewJSONHandler(&buf, nil)))
	next, cmd := s.Update(enter())
	if cmd != nil {
		t.Fatalf("expected no command after a panic")
	}

	got := next.(safeModel).m
	if got.session.Unit() != u {
		t.Fatalf("expected loaded unit kept")
	}
	if got.scr != screenSections {
		t.Fatalf("expected section list, got screen %d", got.scr)
	}
	if got.toast != "Unexpected error (see logs); backup.service kept" {
		t.Fatalf("unexpected toast %q", got.toast)
	}

	log := buf.String()
	for _, w := range []string{`"msg":"panic.recovered"`, `"unit":"backup.service"`, `"state":"loaded"`, `"panic":"catalog exploded"`} {
		if !strings.Contains(log, w) {
			t.Errorf("expected %s in log, got %s", w, log)
		}
	}
}

func TestSafeModel_UpdatePanicWithoutUnitGoesHome(t *testing.T) {
	m, _ := newTestModel(t)
	m.deps.Catalog = explodingCatalog{}
	for i, it := range m.menu.Items() {
		if it.(menuItem).title == menuTemplate {
			m.menu.Select(i)
		}
	}

	next, _ := wrapSafe(m, nil).Update(enter())
	got := next.(safeModel).m
	if got.scr != screenHome || got.toast != "Unexpected error (see logs)" {
		t.Fatalf("unexpected state: screen %d, toast %q", got.scr, got.toast)
	}
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(keys("q"))
	if cmd == nil {
		t.Fatalf("expected quit command on home")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}

	m = openMenu(t, m, menuTemplate)
	m = update(t, m, keys("q"))
	if m.scr != screenHome {
		t.Fatalf("expected q to go back home from a sub screen")
	}
}
