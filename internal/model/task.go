package model

import (
	"errors"
	"strings"
)

var (
	ErrEmptyTitle = errors.New("model: category title is required")
	ErrEmptyText  = errors.New("model: task text is required")
)

// Task is a single to-do entry. Completed is carried for data-shape
// compatibility with stored blobs; nothing toggles it.
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Category owns an ordered list of tasks, newest first.
type Category struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Tasks []Task `json:"tasks"`
}

func NewCategory(id int64, title string) Category {
	return Category{ID: id, Title: title, Tasks: []Task{}}
}

func NewTask(id int64, text string) Task {
	return Task{ID: id, Text: text, Completed: false}
}

func (c Category) Clone() Category {
	out := c
	out.Tasks = make([]Task, len(c.Tasks))
	copy(out.Tasks, c.Tasks)
	return out
}

func (c Category) TaskIndex(taskID int64) int {
	for i, t := range c.Tasks {
		if t.ID == taskID {
			return i
		}
	}
	return -1
}

func CloneCategories(in []Category) []Category {
	out := make([]Category, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

// NormalizeTitle trims the input and rejects blank titles. Callers run it
// before handing user input to the store.
func NormalizeTitle(s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", ErrEmptyTitle
	}
	return trimmed, nil
}

func NormalizeText(s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", ErrEmptyText
	}
	return trimmed, nil
}
