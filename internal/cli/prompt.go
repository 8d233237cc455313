package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/rosterfmt/pkg/errors"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	promptStyle  = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
)

// =============================================================================
// PromptModel - Single-line text input
// =============================================================================

// PromptModel is the bubbletea model for a single-line text prompt.
type PromptModel struct {
	Title    string
	Value    string
	Validate func(string) error
	Err      error

	Done      bool
	Cancelled bool
}

// NewPromptModel creates a prompt with an optional validator.
func NewPromptModel(title string, validate func(string) error) PromptModel {
	return PromptModel{Title: title, Validate: validate}
}

func (m PromptModel) Init() tea.Cmd {
	return nil
}

func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.Cancelled = true
		return m, tea.Quit
	case tea.KeyEnter:
		value := strings.TrimSpace(m.Value)
		if m.Validate != nil {
			if err := m.Validate(value); err != nil {
				m.Err = err
				return m, nil
			}
		}
		m.Value = value
		m.Done = true
		return m, tea.Quit
	case tea.KeyBackspace:
		if r := []rune(m.Value); len(r) > 0 {
			m.Value = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.Value += " "
	case tea.KeyRunes:
		m.Value += string(key.Runes)
	default:
		return m, nil
	}
	m.Err = nil
	return m, nil
}

func (m PromptModel) View() string {
	if m.Done || m.Cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(promptStyle.Render(m.Title))
	b.WriteString(" ")
	b.WriteString(StyleValue.Render(m.Value))
	b.WriteString("█\n")
	if m.Err != nil {
		b.WriteString(StyleError.Render("  " + errors.UserMessage(m.Err)))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render("⏎ confirm  esc cancel"))
	b.WriteString("\n")
	return b.String()
}

// prompt runs a text prompt and returns the entered value. Cancelling the
// prompt returns context.Canceled.
func prompt(ctx context.Context, title string, validate func(string) error) (string, error) {
	final, err := tea.NewProgram(NewPromptModel(title, validate), tea.WithContext(ctx)).Run()
	if err != nil {
		return "", err
	}
	fm, ok := final.(PromptModel)
	if !ok || !fm.Done {
		return "", context.Canceled
	}
	return fm.Value, nil
}

// validatePositiveInt accepts a row count typed at a prompt.
func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return errors.New(errors.ErrCodeInvalidConfig, "enter a whole number")
	}
	return errors.ValidateRowsPerGroup(n)
}

// validateNonEmpty rejects blank answers.
func validateNonEmpty(s string) error {
	if s == "" {
		return errors.New(errors.ErrCodeInvalidInput, "a value is required")
	}
	return nil
}

// =============================================================================
// SheetListModel - Interactive worksheet selection
// =============================================================================

// SheetListModel is the bubbletea model for picking one worksheet of a
// workbook.
type SheetListModel struct {
	Sheets   []string
	Cursor   int
	Selected string
	Height   int
	Offset   int
}

// NewSheetListModel creates a new sheet list model.
func NewSheetListModel(sheets []string) SheetListModel {
	return SheetListModel{
		Sheets: sheets,
		Height: 10,
	}
}

func (m SheetListModel) Init() tea.Cmd {
	return nil
}

func (m SheetListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Sheets)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Sheets) == 0 {
				return m, tea.Quit
			}
			m.Selected = m.Sheets[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 3 {
			m.Height = 3
		}
	}
	return m, nil
}

func (m SheetListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Worksheet"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Sheets))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, strconv.Itoa(i + 1), m.Sheets[i]})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Sheet").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col == 1 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Sheets))))

	return b.String()
}

// pickSheet asks the user to choose a worksheet. It returns
// context.Canceled when the picker is closed without a selection.
func pickSheet(ctx context.Context, sheets []string) (string, error) {
	final, err := tea.NewProgram(NewSheetListModel(sheets), tea.WithContext(ctx)).Run()
	if err != nil {
		return "", err
	}
	fm, ok := final.(SheetListModel)
	if !ok || fm.Selected == "" {
		printDetail("No sheet selected")
		return "", context.Canceled
	}
	return fm.Selected, nil
}
