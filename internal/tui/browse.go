package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gerunddev/mdsite/internal/site"
	"github.com/gerunddev/mdsite/internal/styles"
)

// BrowseMsg is sent when page statuses are ready
type BrowseMsg struct {
	Pages []site.PageStatus
	Err   error
}

// DiffMsg is sent when a diff preview is ready
type DiffMsg struct {
	Content string
	Err     error
}

// RebuiltMsg is sent after a single page was regenerated
type RebuiltMsg struct {
	Source string
	Err    error
}

// BrowseDeps are the operations the browser performs on the site
type BrowseDeps struct {
	ContentDir string
	Load       func() ([]site.PageStatus, error)
	Diff       func(source string) (string, error)
	Rebuild    func(source string) error
}

type browseModel struct {
	table       table.Model
	viewport    viewport.Model
	deps        BrowseDeps
	pages       []site.PageStatus
	err         error
	notice      string
	ready       bool
	showingDiff bool
	selected    *site.PageStatus
}

// InitBrowseModel creates a new page browser model
func InitBrowseModel(deps BrowseDeps) browseModel {
	columns := []table.Column{
		{Title: "Page", Width: 48},
		{Title: "Status", Width: 14},
		{Title: "Output", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		BorderBottom(true).
		Bold(false)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color(styles.Background)).
		Background(lipgloss.Color(styles.Yellow)).
		Bold(false)
	t.SetStyles(ts)

	vp := viewport.New(100, 20)
	vp.Style = styles.ViewportStyle

	return browseModel{
		table:    t,
		viewport: vp,
		deps:     deps,
	}
}

func (m browseModel) Init() tea.Cmd {
	return m.load()
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-10, 3))
		m.viewport.Width = max(msg.Width-4, 20)
		m.viewport.Height = max(msg.Height-8, 3)

	case tea.KeyMsg:
		if m.showingDiff {
			switch msg.String() {
			case "q", "esc":
				m.showingDiff = false
				return m, nil
			case "r":
				return m, m.rebuild()
			default:
				m.viewport, cmd = m.viewport.Update(msg)
				return m, cmd
			}
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter", "d":
			if m.selectCurrent() {
				m.showingDiff = true
				m.viewport.SetContent("Rendering diff...")
				return m, m.diff()
			}
			return m, nil
		case "r":
			if m.selectCurrent() {
				return m, m.rebuild()
			}
			return m, nil
		default:
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case BrowseMsg:
		m.ready = true
		m.err = msg.Err
		m.pages = msg.Pages
		m.table.SetRows(m.rows())
		return m, nil

	case DiffMsg:
		content := msg.Content
		if msg.Err != nil {
			content = styles.ErrorStyle.Render("✗ " + msg.Err.Error())
		} else if content == "" {
			content = styles.SuccessStyle.Render("✓ Output matches the source")
		}
		m.viewport.SetContent(content)
		m.viewport.GotoTop()
		return m, nil

	case RebuiltMsg:
		if msg.Err != nil {
			m.notice = styles.ErrorStyle.Render("✗ " + msg.Err.Error())
		} else {
			m.notice = styles.SuccessStyle.Render("✓ Rebuilt " + m.relative(msg.Source))
		}
		m.showingDiff = false
		return m, m.load()
	}

	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("mdsite Page Browser"))
	b.WriteString("\n\n")

	if m.err != nil {
		return styles.ErrorStyle.Render("✗ Error: "+m.err.Error()) + "\n"
	}

	if !m.ready {
		return b.String()
	}

	if m.showingDiff && m.selected != nil {
		b.WriteString(styles.LabelStyle.Render("Diff: " + m.relative(m.selected.Source)))
		b.WriteString("\n\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • r rebuild • esc/q back"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(styles.LabelStyle.Render(fmt.Sprintf("Pages: %d", len(m.pages))))
	b.WriteString("\n\n")
	b.WriteString(styles.TableStyle.Render(m.table.View()))
	b.WriteString("\n\n")
	if m.notice != "" {
		b.WriteString(m.notice)
		b.WriteString("\n")
	}
	b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • enter/d diff • r rebuild • q quit"))
	b.WriteString("\n")

	return b.String()
}

func (m *browseModel) selectCurrent() bool {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.pages) {
		return false
	}
	page := m.pages[i]
	m.selected = &page
	return true
}

func (m browseModel) rows() []table.Row {
	rows := make([]table.Row, 0, len(m.pages))
	for _, page := range m.pages {
		rows = append(rows, table.Row{
			m.relative(page.Source),
			statusIcon(page.Status) + " " + page.Status.String(),
			filepath.Base(page.Output),
		})
	}
	return rows
}

func (m browseModel) relative(path string) string {
	if m.deps.ContentDir == "" {
		return path
	}
	rel, err := filepath.Rel(m.deps.ContentDir, path)
	if err != nil {
		return path
	}
	return rel
}

func statusIcon(s site.Status) string {
	switch s {
	case site.StatusUpToDate:
		return "✓"
	case site.StatusStale:
		return "●"
	default:
		return "✗"
	}
}

// load creates a command that gathers page statuses
func (m browseModel) load() tea.Cmd {
	load := m.deps.Load
	return func() tea.Msg {
		if load == nil {
			return BrowseMsg{}
		}
		pages, err := load()
		return BrowseMsg{Pages: pages, Err: err}
	}
}

// diff creates a command that renders the selected page's diff
func (m browseModel) diff() tea.Cmd {
	diff, page := m.deps.Diff, m.selected
	return func() tea.Msg {
		if diff == nil || page == nil {
			return DiffMsg{}
		}
		content, err := diff(page.Source)
		return DiffMsg{Content: content, Err: err}
	}
}

// rebuild creates a command that regenerates the selected page
func (m browseModel) rebuild() tea.Cmd {
	rebuild, page := m.deps.Rebuild, m.selected
	return func() tea.Msg {
		if rebuild == nil || page == nil {
			return RebuiltMsg{}
		}
		return RebuiltMsg{Source: page.Source, Err: rebuild(page.Source)}
	}
}
