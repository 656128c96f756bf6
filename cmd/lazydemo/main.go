package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"lazylist"
)

const rowCount = 1_000_000

const (
	headerKey = 1
	footerKey = 2
	rowType   = 1
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	evenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	oddStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type model struct {
	list   *lazylist.LazyList
	width  int
	height int
}

func newModel() model {
	content := lazylist.NewIntervalContent()
	content.ItemKeyed(headerKey, func() {})
	content.Items(rowCount,
		func(local int) uint64 { return uint64(local) + 1000 },
		func(int) uint64 { return rowType },
		func(int) {})
	content.ItemKeyed(footerKey, func() {})

	total := content.ItemCount()
	render := func(index int) string {
		switch index {
		case 0:
			return headerStyle.Render(fmt.Sprintf("── %d rows ──", rowCount))
		case total - 1:
			return headerStyle.Render("── end ──")
		}
		row := index - 1
		style := evenStyle
		if row%2 == 1 {
			style = oddStyle
		}
		return style.Render(fmt.Sprintf("row %07d  ························", row))
	}

	return model{list: lazylist.NewLazyList(content, render)}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		// Reserve the bottom row for the status line.
		m.list.SetSize(msg.Width, msg.Height-1)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	_, cmd := m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.height <= 1 {
		return ""
	}
	view := m.list.View()
	state := m.list.State()
	stats := state.Stats()
	status := fmt.Sprintf(
		" item %d+%.0fpx │ in use %d, pooled %d, reused %d/%d │ fwd=%v back=%v │ j/k wheel f/b g/G q",
		state.FirstVisibleItemIndex(),
		state.FirstVisibleItemScrollOffset(),
		stats.ItemsInUse,
		stats.ItemsInPool,
		stats.ReuseCount,
		stats.TotalComposed,
		state.CanScrollForward(),
		state.CanScrollBackward(),
	)
	return view + "\n" + statusStyle.Render(status)
}

func main() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "lazydemo: stdout is not a terminal")
		os.Exit(1)
	}
	p := tea.NewProgram(newModel(), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "lazydemo:", err)
		os.Exit(1)
	}
}
