package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/todonest/internal/views"
)

func (m Model) handleCategoryKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	cats := m.categories()
	switch msg.String() {
	case "j", "down":
		if m.CategoryCursor < len(cats)-1 {
			m.CategoryCursor++
			m.TaskCursor = 0
		}
	case "k", "up":
		if m.CategoryCursor > 0 {
			m.CategoryCursor--
			m.TaskCursor = 0
		}
	case "enter", "l", "right":
		if len(cats) > 0 {
			m.Focus = PaneTasks
		}
	case m.Keys.Add:
		return m.openInput(InputState{Mode: InputAddCategory}, "")
	case m.Keys.Edit:
		cat, ok := m.selectedCategory()
		if !ok {
			m.fail(errNoCategory)
			return m, nil
		}
		return m.openInput(InputState{Mode: InputEditCategory, CategoryID: cat.ID}, cat.Title)
	case m.Keys.Delete:
		cat, ok := m.selectedCategory()
		if !ok {
			m.fail(errNoCategory)
			return m, nil
		}
		m.Confirm = ConfirmState{Active: true, Message: confirmDeleteCategory, CategoryID: cat.ID}
	}
	return m, nil
}

func (m Model) handleTaskKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	cat, ok := m.selectedCategory()
	if !ok {
		m.Focus = PaneCategories
		return m, nil
	}
	switch msg.String() {
	case "j", "down":
		if m.TaskCursor < len(cat.Tasks)-1 {
			m.TaskCursor++
		}
	case "k", "up":
		if m.TaskCursor > 0 {
			m.TaskCursor--
		}
	case "esc", "h", "left":
		m.Focus = PaneCategories
	case m.Keys.Add:
		return m.openInput(InputState{Mode: InputAddTask, CategoryID: cat.ID}, "")
	case m.Keys.Edit:
		_, task, ok := m.selectedTask()
		if !ok {
			m.fail(errNoTask)
			return m, nil
		}
		return m.openInput(InputState{Mode: InputEditTask, CategoryID: cat.ID, TaskID: task.ID}, task.Text)
	case m.Keys.Delete:
		_, task, ok := m.selectedTask()
		if !ok {
			m.fail(errNoTask)
			return m, nil
		}
		m.Confirm = ConfirmState{Active: true, Message: confirmDeleteTask, CategoryID: cat.ID, TaskID: task.ID, IsTask: true}
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "y", "Y":
		c := m.Confirm
		m.Confirm = ConfirmState{}
		if c.IsTask {
			m.report(m.deleteTask(c.CategoryID, c.TaskID))
		} else {
			m.report(m.deleteCategory(c.CategoryID))
		}
	case "n", "N", "esc":
		m.Confirm = ConfirmState{}
		m.setStatus("delete cancelled", false)
	}
	return m
}

func (m Model) renderCategoryPane() string {
	cats := m.categories()
	rows := make([]views.CategoryRow, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, views.CategoryRow{ID: c.ID, Title: c.Title, TaskCount: len(c.Tasks)})
	}
	return views.RenderCategoryPanel(views.CategoryPanelData{
		Rows:     rows,
		Cursor:   m.CategoryCursor,
		Focused:  m.Focus == PaneCategories,
		InputRow: m.renderInputRow(PaneCategories),
	})
}

func (m Model) renderTaskPane() string {
	cat, ok := m.selectedCategory()
	data := views.TaskPanelData{
		HasCategory: ok,
		Cursor:      m.TaskCursor,
		Focused:     m.Focus == PaneTasks,
		InputRow:    m.renderInputRow(PaneTasks),
	}
	if ok {
		data.CategoryTitle = cat.Title
		for _, t := range cat.Tasks {
			data.Rows = append(data.Rows, views.TaskRow{ID: t.ID, Text: t.Text})
		}
	}
	return views.RenderTaskPanel(data)
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func (m Model) renderConfirm() string {
	if !m.Confirm.Active {
		return ""
	}
	return views.RenderConfirm(views.ConfirmData{Message: m.Confirm.Message})
}
