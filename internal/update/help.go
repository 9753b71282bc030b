package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/todonest/internal/views"
)

const assistantGuide = `# Hello! I'm sam, your personal productivity assistant!

Let me show you how to get the most out of this app...

1. First, create categories to organize your tasks!
2. Then add tasks to each category to stay organized!
3. You can edit or delete anything anytime!

Your tasks are saved automatically - how cool is that?

**Ready to get organized? Let's go!**
`

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.paneBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Intro:    m.helpViewport.View(),
		Bindings: plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.SwitchPane, Action: "switch pane"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) paneBindings() []KeyBinding {
	switch m.Focus {
	case PaneTasks:
		return []KeyBinding{
			{Key: "j/k", Action: "move task cursor"},
			{Key: m.Keys.Add, Action: "add task"},
			{Key: m.Keys.Edit, Action: "edit task"},
			{Key: m.Keys.Delete, Action: "delete task"},
			{Key: "esc", Action: "back to categories"},
		}
	default:
		return []KeyBinding{
			{Key: "j/k", Action: "move category cursor"},
			{Key: "enter", Action: "open tasks"},
			{Key: m.Keys.Add, Action: "add category"},
			{Key: m.Keys.Edit, Action: "rename category"},
			{Key: m.Keys.Delete, Action: "delete category"},
		}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
