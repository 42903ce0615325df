package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"

	"github.com/matzehuels/arrange/pkg/layout"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// isTerminal reports whether f is an interactive terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// interactive reports whether prompts may be shown.
func interactive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

// =============================================================================
// AlgorithmPickerModel - Interactive algorithm selection
// =============================================================================

// AlgorithmPickerModel is the bubbletea model for choosing a layout algorithm.
type AlgorithmPickerModel struct {
	Algorithms []layout.Algorithm
	Cursor     int
	Selected   layout.Algorithm
	Quit       bool
}

// NewAlgorithmPickerModel creates a picker over every supported algorithm
// with the cursor on preselect.
func NewAlgorithmPickerModel(preselect layout.Algorithm) AlgorithmPickerModel {
	m := AlgorithmPickerModel{Algorithms: layout.List()}
	for i, a := range m.Algorithms {
		if a == preselect {
			m.Cursor = i
		}
	}
	return m
}

func (m AlgorithmPickerModel) Init() tea.Cmd {
	return nil
}

func (m AlgorithmPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.Quit = true
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Algorithms)-1 {
			m.Cursor++
		}
	case "enter":
		m.Selected = m.Algorithms[m.Cursor]
		return m, tea.Quit
	}
	return m, nil
}

func (m AlgorithmPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Layout"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Algorithms))
	for i, a := range m.Algorithms {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		name, desc := layout.Describe(a)
		rows[i] = []string{cursor + name, desc}
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := listNormalStyle
			if col == 1 {
				style = listDimStyle
			}
			if row == m.Cursor {
				style = listSelectedStyle
			}
			return style.PaddingRight(2)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}

// pickAlgorithm runs the picker and returns the chosen algorithm.
func pickAlgorithm(preselect layout.Algorithm) (layout.Algorithm, error) {
	final, err := tea.NewProgram(NewAlgorithmPickerModel(preselect)).Run()
	if err != nil {
		return "", fmt.Errorf("algorithm picker: %w", err)
	}
	m := final.(AlgorithmPickerModel)
	if m.Quit || m.Selected == "" {
		return "", errSelectionCancelled
	}
	return m.Selected, nil
}

// =============================================================================
// Algorithm Table
// =============================================================================

// algorithmTable renders the algorithm catalog as a table.
func algorithmTable(def layout.Algorithm) string {
	rows := make([][]string, 0, len(layout.List()))
	for _, a := range layout.List() {
		name, desc := layout.Describe(a)
		id := string(a)
		if a == def {
			id += " *"
		}
		rows = append(rows, []string{id, name, desc})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(listDimStyle).
		Headers("ID", "NAME", "DESCRIPTION").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return StyleTitle.Padding(0, 1)
			case col == 0:
				return StyleHighlight.Padding(0, 1)
			case col == 2:
				return listDimStyle.Padding(0, 1)
			}
			return listNormalStyle.Padding(0, 1)
		}).
		Render()
}
