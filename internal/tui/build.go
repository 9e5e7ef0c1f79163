package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/gerunddev/mdsite/internal/site"
	"github.com/gerunddev/mdsite/internal/styles"
)

// BuildMsg is sent when a build completes
type BuildMsg struct {
	Result *site.BuildResult
	Err    error
}

// buildModel is the Bubble Tea model for the build progress display
type buildModel struct {
	spinner  spinner.Model
	status   string
	complete bool
	result   *site.BuildResult
	err      error
}

// InitBuildModel creates a new build progress model
func InitBuildModel(status string) buildModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	return buildModel{
		spinner: s,
		status:  status,
	}
}

func (m buildModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m buildModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case BuildMsg:
		m.complete = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m buildModel) View() string {
	if !m.complete {
		return fmt.Sprintf("\n%s %s\n\n", m.spinner.View(), m.status)
	}

	if m.err != nil {
		return styles.ErrorStyle.Render("✗ Build failed: "+m.err.Error()) + "\n"
	}

	r := m.result
	took := styles.HelpStyle.Render(fmt.Sprintf("Build %s completed in %v",
		r.BuildID, r.EndTime.Sub(r.StartTime).Round(time.Millisecond)))

	if r.PagesGenerated == 0 && len(r.Errors) == 0 {
		return styles.SuccessStyle.Render(fmt.Sprintf("✓ Nothing to build, %d page(s) up to date", r.PagesSkipped)) +
			"\n" + took + "\n"
	}

	msg := styles.SuccessStyle.Render(fmt.Sprintf("✓ Generated %d page(s)", r.PagesGenerated))
	if r.PagesSkipped > 0 {
		msg += ", " + styles.DimStyle.Render(fmt.Sprintf("%d unchanged", r.PagesSkipped))
	}
	if r.AssetsCopied > 0 {
		msg += ", " + styles.DimStyle.Render(fmt.Sprintf("%d asset(s)", r.AssetsCopied))
	}
	msg += ", " + styles.DimStyle.Render(humanize.Bytes(uint64(r.BytesWritten))+" written")
	if len(r.Errors) > 0 {
		msg += ", " + styles.ErrorStyle.Render(fmt.Sprintf("%d error(s)", len(r.Errors)))
		for _, err := range r.Errors {
			msg += "\n  " + styles.ErrorStyle.Render("✗ "+err.Error())
		}
	}

	return msg + "\n" + took + "\n"
}
