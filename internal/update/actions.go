package update

import (
	"errors"
	"fmt"

	"github.com/sandeepkv93/todonest/internal/model"
)

var (
	errNoCategory = errors.New("no category selected")
	errNoTask     = errors.New("no task selected")
)

// The methods below are shared by the input line, the confirm dialog and the
// command palette. A store error means the change was applied in memory but
// not saved; the message is returned so the caller can show it.

func (m *Model) addCategory(raw string) (string, error) {
	title, err := model.NormalizeTitle(raw)
	if err != nil {
		return "", err
	}
	cat, err := m.Store.AddCategory(m.ctx, title)
	m.CategoryCursor = 0
	m.TaskCursor = 0
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("added category: %s", cat.Title), nil
}

func (m *Model) editCategory(categoryID int64, raw string) (string, error) {
	title, err := model.NormalizeTitle(raw)
	if err != nil {
		return "", err
	}
	if err := m.Store.EditCategory(m.ctx, categoryID, title); err != nil {
		return "", err
	}
	return fmt.Sprintf("renamed category: %s", title), nil
}

func (m *Model) deleteCategory(categoryID int64) (string, error) {
	err := m.Store.DeleteCategory(m.ctx, categoryID)
	m.TaskCursor = 0
	m.clampCursors()
	if err != nil {
		return "", err
	}
	return "category deleted", nil
}

func (m *Model) addTask(categoryID int64, raw string) (string, error) {
	text, err := model.NormalizeText(raw)
	if err != nil {
		return "", err
	}
	task, ok, err := m.Store.AddTask(m.ctx, categoryID, text)
	if !ok {
		return "", errNoCategory
	}
	m.TaskCursor = 0
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("added task: %s", task.Text), nil
}

func (m *Model) editTask(categoryID, taskID int64, raw string) (string, error) {
	text, err := model.NormalizeText(raw)
	if err != nil {
		return "", err
	}
	if err := m.Store.EditTask(m.ctx, categoryID, taskID, text); err != nil {
		return "", err
	}
	return fmt.Sprintf("updated task: %s", text), nil
}

func (m *Model) deleteTask(categoryID, taskID int64) (string, error) {
	err := m.Store.DeleteTask(m.ctx, categoryID, taskID)
	m.clampCursors()
	if err != nil {
		return "", err
	}
	return "task deleted", nil
}

func isValidationError(err error) bool {
	return errors.Is(err, model.ErrEmptyTitle) || errors.Is(err, model.ErrEmptyText)
}

func (m *Model) report(msg string, err error) {
	if err != nil {
		m.fail(err)
		return
	}
	m.setStatus(msg, false)
}
