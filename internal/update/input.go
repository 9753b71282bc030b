package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/todonest/internal/views"
)

func (m Model) openInput(state InputState, prefill string) (Model, tea.Cmd) {
	m.Input = state
	m.editInput.SetValue(prefill)
	cmd := m.editInput.Focus()
	m.setStatus(string(state.Mode), false)
	return m, cmd
}

func (m Model) closeInput() Model {
	m.Input = InputState{}
	m.editInput.SetValue("")
	m.editInput.Blur()
	return m
}

func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closeInput()
		m.setStatus("cancelled", false)
		return m, nil
	case "enter":
		return m.submitInput(), nil
	}
	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	return m, cmd
}

// submitInput applies the line to the target captured when it was opened.
// Blank input keeps the line open so it can be corrected.
func (m Model) submitInput() Model {
	value := m.editInput.Value()
	var (
		msg string
		err error
	)
	switch m.Input.Mode {
	case InputAddCategory:
		msg, err = m.addCategory(value)
	case InputEditCategory:
		msg, err = m.editCategory(m.Input.CategoryID, value)
	case InputAddTask:
		msg, err = m.addTask(m.Input.CategoryID, value)
	case InputEditTask:
		msg, err = m.editTask(m.Input.CategoryID, m.Input.TaskID, value)
	default:
		return m.closeInput()
	}
	if isValidationError(err) {
		m.fail(err)
		return m
	}
	m = m.closeInput()
	m.report(msg, err)
	return m
}

func (m Model) renderInputRow(pane Pane) string {
	if m.Input.Mode == InputNone || inputPane(m.Input.Mode) != pane {
		return ""
	}
	return views.RenderEdit(views.EditData{
		Title:     string(m.Input.Mode),
		InputView: m.editInput.View(),
	})
}

func inputPane(mode InputMode) Pane {
	switch mode {
	case InputAddTask, InputEditTask:
		return PaneTasks
	default:
		return PaneCategories
	}
}
