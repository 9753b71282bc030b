package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/todonest/internal/views"
)

func (m Model) Init() tea.Cmd {
	return nil
}

// Update wraps handle so that every new status line schedules its own
// ClearStatusMsg.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	seq := m.statusSeq
	next, cmd := m.handle(msg)
	if next.statusSeq != seq && next.StatusTTL > 0 {
		cmd = tea.Batch(cmd, clearStatusAfter(next.StatusTTL, next.statusSeq))
	}
	return next, cmd
}

func (m Model) handle(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		keyStr := typed.String()
		if keyStr == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}

		if m.Confirm.Active {
			return m.handleConfirmKey(typed), nil
		}
		if m.Input.Mode != InputNone {
			return m.handleInputKey(typed)
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}

		switch keyStr {
		case "/":
			return m.openPalette()
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.setStatus("help shown", false)
			} else {
				m.setStatus("help hidden", false)
			}
			return m, nil
		case "pgup", "pgdown":
			if m.HelpVisible {
				var cmd tea.Cmd
				m.helpViewport, cmd = m.helpViewport.Update(typed)
				return m, cmd
			}
		case m.Keys.SwitchPane:
			m.switchPane()
			return m, nil
		case m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Focus == PaneTasks {
			return m.handleTaskKey(typed)
		}
		return m.handleCategoryKey(typed)
	case ClearStatusMsg:
		if typed.Seq == m.statusSeq {
			m.Status = StatusBar{}
		}
		return m, nil
	}

	return m, nil
}

func clearStatusAfter(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return ClearStatusMsg{Seq: seq} })
}

func (m *Model) switchPane() {
	if m.Focus == PaneTasks {
		m.Focus = PaneCategories
		return
	}
	if _, ok := m.selectedCategory(); ok {
		m.Focus = PaneTasks
	}
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	overlay := m.renderConfirm()
	if overlay == "" {
		overlay = m.renderCommandPalette()
	}
	if help := m.renderHelpIfVisible(); help != "" {
		if overlay != "" {
			overlay += "\n\n"
		}
		overlay += help
	}

	selected := "-"
	if cat, ok := m.selectedCategory(); ok {
		selected = cat.Title
	}
	return views.RenderApp(views.AppData{
		Header:      fmt.Sprintf("todonest | categories: %d | selected: %s", m.Store.Len(), selected),
		LeftPane:    m.renderCategoryPane(),
		RightPane:   m.renderTaskPane(),
		LeftActive:  m.Focus == PaneCategories,
		Overlay:     overlay,
		StatusLine:  status,
		StatusError: m.Status.IsError,
		Footer: fmt.Sprintf("keys: %s pane | j/k move | %s add | %s edit | %s delete | / cmd | %s help | %s quit",
			m.Keys.SwitchPane, m.Keys.Add, m.Keys.Edit, m.Keys.Delete, m.Keys.Help, m.Keys.Quit),
	})
}
