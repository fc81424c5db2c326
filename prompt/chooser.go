// Package prompt asks the user to pick from a short list of options in the
// terminal. It backs device and resolution selection and the decision on
// what to do with an oversized GIF.
package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Private constants (alphabetical)
const (
	// listChrome is the number of lines taken by the title, help and margins.
	listChrome = 8

	// listWidth is the initial width until the terminal reports its size.
	listWidth = 72

	// maxListHeight caps the list so long option sets scroll.
	maxListHeight = 20
)

// Public variables (alphabetical)

// ErrAborted is returned when the user leaves a prompt without choosing.
var ErrAborted = errors.New("prompt: aborted by user")

// Private variables (alphabetical)

var (
	// helpStyle indents the key help below the list.
	helpStyle = list.DefaultStyles().HelpStyle.PaddingLeft(4).PaddingBottom(1)

	// selectedItemStyle highlights the option under the cursor.
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))

	// titleStyle renders the question above the list.
	titleStyle = lipgloss.NewStyle().Bold(true).MarginLeft(2)
)

// Public types (alphabetical)

// ChooseFunc presents options under title and returns the chosen index.
type ChooseFunc func(ctx context.Context, title string, options []string) (int, error)

// Private types (alphabetical)

// chooserModel is the bubbletea model behind Choose.
type chooserModel struct {
	// list renders the options and tracks the cursor.
	list list.Model

	// choice is the confirmed index, or -1 until enter is pressed.
	choice int

	// done is set once the user confirmed a choice.
	done bool

	// quitting is set when the user left without choosing.
	quitting bool
}

// item is a single option shown by the list.
type item string

// Public functions (alphabetical)

// Choose runs an interactive list in the terminal and returns the index of
// the option the user picked. ErrAborted is returned when the user quits.
func Choose(ctx context.Context, title string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, fmt.Errorf("prompt: nothing to choose from")
	}

	final, err := tea.NewProgram(newChooserModel(title, options), tea.WithContext(ctx)).Run()
	if err != nil {
		return -1, fmt.Errorf("prompt: %w", err)
	}

	m, ok := final.(chooserModel)
	if !ok || !m.done {
		return -1, ErrAborted
	}
	return m.choice, nil
}

// Private functions (alphabetical)

// newChooserModel builds a list without filtering or status bar, sized to
// the number of options.
func newChooserModel(title string, options []string) chooserModel {
	items := make([]list.Item, 0, len(options))
	for _, option := range options {
		items = append(items, item(option))
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = selectedItemStyle

	l := list.New(items, delegate, listWidth, min(len(options)+listChrome, maxListHeight))
	l.Title = title
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return chooserModel{list: l, choice: -1}
}

// Private methods (alphabetical)

// Description returns nothing; options are single-line.
func (i item) Description() string { return "" }

// FilterValue returns the option text.
func (i item) FilterValue() string { return string(i) }

// Init implements tea.Model. There is no startup command.
func (m chooserModel) Init() tea.Cmd {
	return nil
}

// Title returns the option text.
func (i item) Title() string { return string(i) }

// Update handles confirmation and the quit keys and forwards everything
// else, such as cursor movement, to the list.
func (m chooserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			m.choice = m.list.Index()
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list, and nothing once the prompt is closed so the
// terminal is left clean.
func (m chooserModel) View() string {
	if m.done || m.quitting {
		return ""
	}
	return "\n" + m.list.View()
}
