package views

import (
	"fmt"
	"strings"
)

type CategoryRow struct {
	ID        int64
	Title     string
	TaskCount int
}

type CategoryPanelData struct {
	Rows     []CategoryRow
	Cursor   int
	Focused  bool
	InputRow string
}

type TaskRow struct {
	ID   int64
	Text string
}

type TaskPanelData struct {
	CategoryTitle string
	HasCategory   bool
	Rows          []TaskRow
	Cursor        int
	Focused       bool
	InputRow      string
}

type ConfirmData struct {
	Message string
}

type EditData struct {
	Title     string
	InputView string
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
	Intro    string
}

const (
	emptyCategoriesText = "No Categories Yet\nAdd your first category to get started!"
	emptyTasksText      = "No tasks yet. Add your first task!"
)

func RenderCategoryPanel(data CategoryPanelData) string {
	var b strings.Builder
	b.WriteString("categories:\n")
	if data.InputRow != "" {
		b.WriteString(data.InputRow + "\n")
	}
	if len(data.Rows) == 0 {
		b.WriteString("\n" + emptyCategoriesText)
		return strings.TrimSpace(b.String())
	}
	for i, row := range data.Rows {
		cursor := " "
		if i == data.Cursor {
			cursor = ">"
			if !data.Focused {
				cursor = "*"
			}
		}
		b.WriteString(fmt.Sprintf("%s %s (%d)\n", cursor, row.Title, row.TaskCount))
	}
	return strings.TrimSpace(b.String())
}

func RenderTaskPanel(data TaskPanelData) string {
	var b strings.Builder
	if !data.HasCategory {
		b.WriteString("tasks:\n(select a category)")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("tasks: %s\n", data.CategoryTitle))
	if data.InputRow != "" {
		b.WriteString(data.InputRow + "\n")
	}
	if len(data.Rows) == 0 {
		b.WriteString("\n" + emptyTasksText)
		return strings.TrimSpace(b.String())
	}
	for i, row := range data.Rows {
		cursor := " "
		if data.Focused && i == data.Cursor {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s - %s\n", cursor, row.Text))
	}
	return strings.TrimSpace(b.String())
}

func RenderConfirm(data ConfirmData) string {
	if strings.TrimSpace(data.Message) == "" {
		return ""
	}
	return fmt.Sprintf("confirm:\n%s\n[y] delete  [n/esc] cancel", data.Message)
}

func RenderEdit(data EditData) string {
	return fmt.Sprintf("%s:\n%s\n[enter] save  [esc] cancel", data.Title, data.InputView)
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	var b strings.Builder
	b.WriteString("help:\n")
	if data.Intro != "" {
		b.WriteString(data.Intro + "\n\n")
	}
	b.WriteString(strings.Join(data.Bindings, "\n"))
	if data.HelpView != "" {
		b.WriteString("\n" + data.HelpView)
	}
	return strings.TrimSpace(b.String())
}
