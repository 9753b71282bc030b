package update

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/todonest/internal/commands"
)

func (m Model) openPalette() (Model, tea.Cmd) {
	m.Palette.Active = true
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	cmd := m.commandInput.Focus()
	m.setStatus("command palette active", false)
	return m, cmd
}

func (m Model) closePalette() Model {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

// handlePaletteKey passes every key except esc and enter to the text input,
// so help and quit keys can be typed as part of a command.
func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.setStatus("command palette closed", false)
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand(), nil
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

// executePaletteCommand runs against the current selection. Deletes from the
// palette skip the confirm dialog.
func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m = m.closePalette()
		m.fail(err)
		return m
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			if a.Target == commands.TargetCategory {
				return result(m.addCategory(a.Value))
			}
			cat, ok := m.selectedCategory()
			if !ok {
				return commands.Result{}, invalidArgument(errNoCategory)
			}
			return result(m.addTask(cat.ID, a.Value))
		},
		Edit: func(e commands.EditArgs) (commands.Result, error) {
			if e.Target == commands.TargetCategory {
				cat, ok := m.selectedCategory()
				if !ok {
					return commands.Result{}, invalidArgument(errNoCategory)
				}
				return result(m.editCategory(cat.ID, e.Value))
			}
			cat, task, ok := m.selectedTask()
			if !ok {
				return commands.Result{}, invalidArgument(errNoTask)
			}
			return result(m.editTask(cat.ID, task.ID, e.Value))
		},
		Delete: func(d commands.DeleteArgs) (commands.Result, error) {
			if d.Target == commands.TargetCategory {
				cat, ok := m.selectedCategory()
				if !ok {
					return commands.Result{}, invalidArgument(errNoCategory)
				}
				return result(m.deleteCategory(cat.ID))
			}
			cat, task, ok := m.selectedTask()
			if !ok {
				return commands.Result{}, invalidArgument(errNoTask)
			}
			return result(m.deleteTask(cat.ID, task.ID))
		},
	})
	m = m.closePalette()
	m.report(res.Message, err)
	return m
}

func result(msg string, err error) (commands.Result, error) {
	return commands.Result{Message: msg}, err
}

func invalidArgument(err error) error {
	return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
}
