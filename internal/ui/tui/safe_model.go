package tui

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalvaropc/unitforge/internal/infra/logger"
)

const panicToast = "Unexpected error (see logs)"

// safeModel turns a panic in the model into a toast. A unit that was loaded
// when the panic hit stays loaded and the user lands on its section list.
type safeModel struct {
	m   model
	log *slog.Logger
}

func wrapSafe(m model, log *slog.Logger) safeModel {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return safeModel{m: m, log: log}
}

func (s safeModel) Init() tea.Cmd {
	return s.m.Init()
}

func (s safeModel) Update(msg tea.Msg) (tm tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			s.report("tui.update", r, "screen", int(s.m.scr), "msg", fmt.Sprintf("%T", msg))
			s.m = s.m.recoverFromPanic()
			tm = s
			cmd = nil
		}
	}()

	inner, c := s.m.Update(msg)

	if mm, ok := inner.(model); ok {
		s.m = mm
	} else if sm, ok := inner.(safeModel); ok {
		s = sm
	}

	return s, c
}

func (s safeModel) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.report("tui.view", r, "screen", int(s.m.scr))
			out = panicToast
		}
	}()
	return s.m.View()
}

func (s safeModel) report(where string, r any, attrs ...any) {
	attrs = append(attrs,
		"where", where,
		"panic", fmt.Sprint(r),
		"stack", string(debug.Stack()),
	)
	logger.WithSession(s.log, s.m.session).Error("panic.recovered", attrs...)
}

// recoverFromPanic clears transient state after a panic in Update.
func (m model) recoverFromPanic() model {
	m.busy = false
	m.toast = panicToast

	if m.session == nil || m.session.Unit() == nil {
		m.scr = screenHome
		return m
	}
	m.toast += "; " + m.session.Unit().FileName() + " kept"
	m, _ = m.openSections()
	return m
}

var _ tea.Model = (*safeModel)(nil)
