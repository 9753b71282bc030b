package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/log"

	"github.com/sandeepkv93/todonest/internal/logging"
	"github.com/sandeepkv93/todonest/internal/model"
	"github.com/sandeepkv93/todonest/internal/store"
	"github.com/sandeepkv93/todonest/internal/views"
)

type Pane string

const (
	PaneCategories Pane = "categories"
	PaneTasks      Pane = "tasks"
)

type InputMode string

const (
	InputNone         InputMode = ""
	InputAddCategory  InputMode = "add category"
	InputEditCategory InputMode = "edit category"
	InputAddTask      InputMode = "add task"
	InputEditTask     InputMode = "edit task"
)

const defaultStatusTTL = 4 * time.Second

const (
	confirmDeleteCategory = "Are you sure you want to delete this category and all its tasks?"
	confirmDeleteTask     = "Are you sure you want to delete this task?"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Add        string
	Edit       string
	Delete     string
	SwitchPane string
	Help       string
	Quit       string
}

// InputState tracks the add/edit line. CategoryID and TaskID are the
// targets captured when the line was opened.
type InputState struct {
	Mode       InputMode
	CategoryID int64
	TaskID     int64
}

type ConfirmState struct {
	Active     bool
	Message    string
	CategoryID int64
	TaskID     int64
	IsTask     bool
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	Store          *store.Store
	Focus          Pane
	CategoryCursor int
	TaskCursor     int
	Input          InputState
	Confirm        ConfirmState
	Palette        CommandPaletteState
	HelpVisible    bool
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error
	// StatusTTL is how long a status line stays up; zero keeps it.
	StatusTTL      time.Duration

	ctx          context.Context
	logger       *log.Logger
	editInput    textinput.Model
	commandInput textinput.Model
	helpModel    help.Model
	helpViewport viewport.Model
	statusSeq    int
}

type Option func(*Model)

// WithContext sets the context passed to store calls. A bubbletea Update has
// no context parameter, so the model carries the program's context; store
// calls are short synchronous writes and do not outlive it.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// ClearStatusMsg is scheduled each time the status line changes. It only
// clears the line if no newer status was set since.
type ClearStatusMsg struct {
	Seq int
}

func NewModel(st *store.Store, opts ...Option) Model {
	if st == nil {
		panic("update: nil store")
	}
	m := Model{
		Store: st,
		Focus: PaneCategories,
		Keys: GlobalKeyMap{
			Add:        "a",
			Edit:       "e",
			Delete:     "d",
			SwitchPane: "tab",
			Help:       "?",
			Quit:       "q",
		},
		StatusTTL: defaultStatusTTL,
		ctx:       context.Background(),
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.initBubbleComponents()
	m.clampCursors()
	return m
}

func (m *Model) initBubbleComponents() {
	m.editInput = textinput.New()
	m.editInput.Prompt = "> "
	m.editInput.CharLimit = 256
	m.editInput.Width = 48

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.helpModel = help.New()
	m.helpViewport = viewport.New(72, 14)
	m.helpViewport.SetContent(views.RenderMarkdown(assistantGuide))
}

func (m Model) categories() []model.Category {
	return m.Store.Categories()
}

func (m Model) selectedCategory() (model.Category, bool) {
	cats := m.categories()
	if m.CategoryCursor < 0 || m.CategoryCursor >= len(cats) {
		return model.Category{}, false
	}
	return cats[m.CategoryCursor], true
}

func (m Model) selectedTask() (model.Category, model.Task, bool) {
	cat, ok := m.selectedCategory()
	if !ok || m.TaskCursor < 0 || m.TaskCursor >= len(cat.Tasks) {
		return cat, model.Task{}, false
	}
	return cat, cat.Tasks[m.TaskCursor], true
}

func (m *Model) clampCursors() {
	cats := m.categories()
	m.CategoryCursor = clamp(m.CategoryCursor, len(cats))
	if len(cats) == 0 {
		m.TaskCursor = 0
		m.Focus = PaneCategories
		return
	}
	m.TaskCursor = clamp(m.TaskCursor, len(cats[m.CategoryCursor].Tasks))
}
