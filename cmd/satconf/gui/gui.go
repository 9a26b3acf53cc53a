// Package gui is the terminal table-driven view of a session: the left
// table lists every symbol's wanted (proposed) and current value, and a
// side panel lists the diagnoses found for the active conflict, one row
// per Solution#/Name/New-Value triple.
package gui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xDarkicex/satconf/assume"
	"github.com/xDarkicex/satconf/diagnosis"
	"github.com/xDarkicex/satconf/model"
)

var (
	styleGreen = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleRed   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleGrey  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleTitle = lipgloss.NewStyle().Bold(true)
)

// Model is the bubbletea model for the GUI view.
type Model struct {
	sess     *model.Session
	conflict []assume.Assignment
	diags    []diagnosis.Diagnosis

	symbols table.Model
	width   int
	height  int
}

// New builds a GUI model over sess, highlighting conflict's symbols and
// listing diags as the candidate fixes.
func New(sess *model.Session, conflict []assume.Assignment, diags []diagnosis.Diagnosis) Model {
	cols := []table.Column{
		{Title: "Symbol", Width: 20},
		{Title: "Wanted", Width: 10},
		{Title: "Current", Width: 10},
	}

	wanted := make(map[string]string, len(conflict))
	for _, a := range conflict {
		wanted[a.Sym.Name] = valueString(a.Sym, a)
	}

	rows := make([]table.Row, 0, len(sess.AllSymbols()))
	for _, name := range sess.SortedNames() {
		sym := sess.MustSymbol(name)
		cur := currentString(sym)
		w := wanted[name]
		rows = append(rows, table.Row{name, w, cur})
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(len(rows)+1),
	)

	return Model{sess: sess, conflict: conflict, diags: diags, symbols: t, width: 80, height: 24}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.symbols, cmd = m.symbols.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b rowsBuilder
	b.writeLine(styleTitle.Render("Symbols"))
	b.writeLine(m.symbols.View())
	b.writeLine("")
	b.writeLine(styleTitle.Render(fmt.Sprintf("Diagnoses (%d)", len(m.diags))))
	for i, d := range m.diags {
		for _, c := range d.Changes {
			label := fmt.Sprintf("  [%d] %-20s -> %s", i+1, c.Sym.Name, valueString(c.Sym, c))
			b.writeLine(rowStyle(c).Render(label))
		}
	}
	b.writeLine("")
	b.writeLine(styleGrey.Render("q/esc to quit"))
	return b.String()
}

// rowStyle implements spec.md's solutions-panel colouring: green when the
// symbol already holds the diagnosis's target value, red when it differs
// and the symbol is directly editable, grey when it differs but the symbol
// is only reachable through another symbol's "select" (not something a
// user sets directly).
func rowStyle(c assume.Assignment) lipgloss.Style {
	if valueString(c.Sym, c) == currentString(c.Sym) {
		return styleGreen
	}
	if c.Sym.ReverseDep.IsZero() {
		return styleRed
	}
	return styleGrey
}

func valueString(sym *model.Symbol, a assume.Assignment) string {
	if sym.IsBoolean() {
		return a.Tri.String()
	}
	return a.Str
}

func currentString(sym *model.Symbol) string {
	if sym.IsBoolean() {
		return sym.CurrentTri.String()
	}
	if sym.HasValue {
		return sym.CurrentStr
	}
	return ""
}

type rowsBuilder struct {
	lines []string
}

func (b *rowsBuilder) writeLine(s string) {
	b.lines = append(b.lines, s)
}

func (b *rowsBuilder) String() string {
	out := ""
	for i, l := range b.lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}

// Run starts the bubbletea program and blocks until the user quits.
func Run(sess *model.Session, conflict []assume.Assignment, diags []diagnosis.Diagnosis) error {
	p := tea.NewProgram(New(sess, conflict, diags))
	_, err := p.Run()
	return err
}
