package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/venviro/chartkit/pkg/palette"
	"github.com/venviro/chartkit/pkg/render"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// pickItem is one selectable entry with a short description.
type pickItem struct {
	value string
	desc  string
}

var kindItems = []pickItem{
	{value: string(render.KindStackedPercentBar), desc: "stacks normalized to 100% per category"},
	{value: string(render.KindHorizontalBar), desc: "raw values as horizontal bars"},
	{value: string(render.KindPie), desc: "share of one group's total"},
}

var schemeItems = []pickItem{
	{value: string(palette.SchemeDefault), desc: "classic category colors"},
	{value: string(palette.SchemeBlue), desc: "monochrome blue ramp"},
	{value: string(palette.SchemeRed), desc: "monochrome red ramp"},
	{value: string(palette.SchemeGreen), desc: "monochrome green ramp"},
	{value: string(palette.SchemeSpectrum), desc: "evenly spaced hues, any count"},
}

// =============================================================================
// PickListModel - Interactive single-choice selection
// =============================================================================

// PickListModel is the bubbletea model for selecting one item from a list.
type PickListModel struct {
	Title    string
	Items    []pickItem
	Cursor   int
	Selected *pickItem
}

// NewPickListModel creates a list model with the given title and items.
func NewPickListModel(title string, items []pickItem) PickListModel {
	return PickListModel{Title: title, Items: items}
}

func (m PickListModel) Init() tea.Cmd {
	return nil
}

func (m PickListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = &m.Items[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m PickListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, item := range m.Items {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		line := fmt.Sprintf("%s%-22s %s", cursor, item.value, listDimStyle.Render(item.desc))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// pickStyle runs the interactive pickers for any of kind and scheme that
// were not already given as flags. Quitting without a selection aborts.
func pickStyle(kind, scheme string) (string, string, error) {
	if kind == "" {
		picked, err := runPicker("Select Chart Kind", kindItems)
		if err != nil {
			return "", "", err
		}
		kind = picked
	}
	if scheme == "" {
		picked, err := runPicker("Select Color Scheme", schemeItems)
		if err != nil {
			return "", "", err
		}
		scheme = picked
	}
	return kind, scheme, nil
}

func runPicker(title string, items []pickItem) (string, error) {
	final, err := tea.NewProgram(NewPickListModel(title, items)).Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(PickListModel)
	if !ok || m.Selected == nil {
		return "", fmt.Errorf("selection aborted")
	}
	return m.Selected.value, nil
}
