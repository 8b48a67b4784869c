package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/levelforge/pkg/errors"
	"github.com/matzehuels/levelforge/pkg/grid"
	"github.com/matzehuels/levelforge/pkg/pipeline"
	"github.com/matzehuels/levelforge/pkg/session"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	cursorStyle       = lipgloss.NewStyle().Reverse(true)
)

// =============================================================================
// BrowserModel - Level list
// =============================================================================

// BrowserModel lists levels in registry order. Enter selects a level for
// editing; b builds it and K/J move it up or down in the order.
type BrowserModel struct {
	Entries  []pipeline.Entry
	Cursor   int
	Offset   int
	Height   int
	Selected string
	Status   string

	ctx    context.Context
	runner *pipeline.Runner
}

// NewBrowserModel creates a browser over runner's levels.
func NewBrowserModel(ctx context.Context, runner *pipeline.Runner) BrowserModel {
	m := BrowserModel{Height: 15, ctx: ctx, runner: runner}
	m.refresh()
	return m
}

func (m *BrowserModel) refresh() {
	entries, err := m.runner.List(m.ctx)
	if err != nil {
		m.Status = errors.UserMessage(err)
		return
	}
	m.Entries = entries
	if m.Cursor >= len(entries) {
		m.Cursor = max(len(entries)-1, 0)
	}
}

func (m BrowserModel) Init() tea.Cmd {
	return nil
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Entries) == 0 {
				return m, nil
			}
			m.Selected = m.Entries[m.Cursor].Name
			return m, tea.Quit
		case "b":
			if len(m.Entries) == 0 {
				return m, nil
			}
			name := m.Entries[m.Cursor].Name
			if _, err := m.runner.Build(m.ctx, name); err != nil {
				m.Status = errors.UserMessage(err)
			} else {
				m.Status = "built " + name
			}
			m.refresh()
		case "K", "J":
			if len(m.Entries) == 0 {
				return m, nil
			}
			dir := -1
			if msg.String() == "J" {
				dir = 1
			}
			if _, err := m.runner.Reorder(m.ctx, m.Cursor, dir); err != nil {
				m.Status = errors.UserMessage(err)
				return m, nil
			}
			if next := m.Cursor + dir; next >= 0 && next < len(m.Entries) {
				m.Cursor = next
			}
			m.refresh()
		case "r":
			m.refresh()
			m.Status = "refreshed"
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m BrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Levels"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ edit  b build  K/J reorder  r refresh  q quit"))
	b.WriteString("\n\n")

	if len(m.Entries) == 0 {
		b.WriteString(listDimStyle.Render("  no levels yet; create one with `" + appName + " create <name>`"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Entries))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		status := "—"
		if e.Built {
			status = "✓"
		}
		rows = append(rows, []string{cursor, fmt.Sprint(i), e.Name, e.Symbol(), status})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Level", "Symbol", "Built").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Entries) {
				return lipgloss.NewStyle()
			}
			if idx == m.Cursor {
				return listSelectedStyle
			}
			if !m.Entries[idx].Built {
				return listDimStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))
	if m.Status != "" {
		b.WriteString("  " + StyleWarning.Render(m.Status))
	}
	return b.String()
}

// =============================================================================
// EditorModel - Grid editor
// =============================================================================

// EditorModel paints tiles of one level. Number keys pick a palette entry,
// space paints it and s saves (which also rebuilds the headers).
type EditorModel struct {
	Session *session.Session
	Palette grid.Palette
	Row     int
	Col     int
	Brush   int
	Status  string
	Abort   bool // ctrl+c: leave the application, not just the editor

	ctx          context.Context
	confirmQuit  bool
	symbolStyles map[rune]lipgloss.Style
}

// NewEditorModel creates an editor for sess.
func NewEditorModel(ctx context.Context, sess *session.Session, palette grid.Palette) EditorModel {
	styles := make(map[rune]lipgloss.Style, len(palette))
	for _, e := range palette {
		styles[e.Symbol] = lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color))
	}
	return EditorModel{Session: sess, Palette: palette, ctx: ctx, symbolStyles: styles}
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	doc := m.Session.Doc
	k := key.String()
	if k != "q" && k != "esc" {
		m.confirmQuit = false
	}

	switch k {
	case "ctrl+c":
		m.Abort = true
		return m, tea.Quit
	case "q", "esc":
		if m.Session.Dirty && !m.confirmQuit {
			m.confirmQuit = true
			m.Status = "unsaved changes; press q again to discard"
			return m, nil
		}
		return m, tea.Quit
	case "up", "k":
		m.Row = max(m.Row-1, 0)
	case "down", "j":
		m.Row = min(m.Row+1, doc.Rows()-1)
	case "left", "h":
		m.Col = max(m.Col-1, 0)
	case "right", "l":
		m.Col = min(m.Col+1, doc.Cols()-1)
	case "tab":
		if len(m.Palette) > 0 {
			m.Brush = (m.Brush + 1) % len(m.Palette)
		}
	case " ", "enter":
		if len(m.Palette) > 0 {
			m.paint(m.Palette[m.Brush].Symbol)
		}
	case "x", "backspace", "delete":
		m.paint(doc.Empty())
	case "]":
		m.resize(doc.Rows(), doc.Cols()+1)
	case "[":
		m.resize(doc.Rows(), doc.Cols()-1)
	case "}":
		m.resize(doc.Rows()+1, doc.Cols())
	case "{":
		m.resize(doc.Rows()-1, doc.Cols())
	case "s", "ctrl+s":
		res, err := m.Session.Save(m.ctx)
		if err != nil {
			m.Status = errors.UserMessage(err)
		} else {
			m.Status = fmt.Sprintf("saved %s (%d levels in registry)", res.HeaderPath(), res.Included)
		}
	default:
		if len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
			if i := int(k[0] - '1'); i < len(m.Palette) {
				m.Brush = i
			}
		}
	}
	return m, nil
}

func (m *EditorModel) paint(symbol rune) {
	if err := m.Session.SetCell(m.Row, m.Col, symbol); err != nil {
		m.Status = errors.UserMessage(err)
	}
}

func (m *EditorModel) resize(rows, cols int) {
	if err := m.Session.Resize(rows, cols); err != nil {
		m.Status = errors.UserMessage(err)
		return
	}
	m.Row = min(m.Row, rows-1)
	m.Col = min(m.Col, cols-1)
}

func (m EditorModel) View() string {
	var b strings.Builder
	doc := m.Session.Doc

	title := m.Session.Name
	if m.Session.Dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d×%d", doc.Rows(), doc.Cols())))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("arrows move  1-9/tab brush  space paint  x clear  [ ] cols  { } rows  s save  q quit"))
	b.WriteString("\n\n")

	for r, line := range doc.Lines() {
		b.WriteString("  ")
		for c, symbol := range []rune(line) {
			cell := m.styleFor(symbol).Render(string(symbol))
			if r == m.Row && c == m.Col {
				cell = cursorStyle.Render(string(symbol))
			}
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for i, e := range m.Palette {
		label := fmt.Sprintf("%d %s %s", i+1, m.styleFor(e.Symbol).Render(string(e.Symbol)), e.Label)
		if i == m.Brush {
			label = listSelectedStyle.Render("[") + label + listSelectedStyle.Render("]")
		} else {
			label = " " + label + " "
		}
		b.WriteString(label + " ")
	}
	b.WriteString("\n")
	if m.Status != "" {
		b.WriteString("\n" + StyleWarning.Render(m.Status) + "\n")
	}
	return b.String()
}

func (m EditorModel) styleFor(symbol rune) lipgloss.Style {
	if st, ok := m.symbolStyles[symbol]; ok {
		return st
	}
	if e, ok := m.Palette.Lookup(symbol, m.Session.Doc.Empty()); ok {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color))
	}
	return listDimStyle
}

// =============================================================================
// Program Runners
// =============================================================================

// runBrowser shows the level browser, opening the editor for each selected
// level until the user quits.
func (c *CLI) runBrowser(ctx context.Context) error {
	runner, err := c.newRunner(false)
	if err != nil {
		return err
	}
	defer runner.Close()

	for {
		final, err := tea.NewProgram(NewBrowserModel(ctx, runner), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		if err != nil {
			return err
		}
		selected := final.(BrowserModel).Selected
		if selected == "" {
			return nil
		}
		quit, err := c.edit(ctx, runner, selected)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// runEditor opens the editor for a single level.
func (c *CLI) runEditor(ctx context.Context, name string) error {
	runner, err := c.newRunner(false)
	if err != nil {
		return err
	}
	defer runner.Close()

	_, err = c.edit(ctx, runner, name)
	return err
}

// edit runs the editor program and reports whether the user asked to leave
// the application entirely (ctrl+c).
func (c *CLI) edit(ctx context.Context, runner *pipeline.Runner, name string) (bool, error) {
	sess, err := session.Open(ctx, runner, name)
	if err != nil {
		return false, err
	}
	c.Logger.Debug("editing level", "name", sess.Name, "session", sess.ID)

	model := NewEditorModel(ctx, sess, c.Config.GridPalette())
	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return false, err
	}
	em := final.(EditorModel)
	if em.Session.Dirty {
		printWarning("Discarded unsaved changes to %s", sess.Name)
	}
	return em.Abort, nil
}
