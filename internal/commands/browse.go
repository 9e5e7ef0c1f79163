package commands

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gerunddev/mdsite/internal/diff"
	"github.com/gerunddev/mdsite/internal/styles"
	"github.com/gerunddev/mdsite/internal/tui"
)

// Diff shows how a page's output would change if it were rebuilt
func Diff(args []string) {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	plain := fs.Bool("plain", false, "print the unified diff without styling")
	args, _ = parseArgs(fs, args) //nolint:errcheck // ExitOnError

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: No page specified")
		os.Exit(1)
	}

	source, err := filepath.Abs(args[0])
	if err != nil {
		fail("Error resolving page", err)
	}

	s := mustOpenSession(nil)
	defer s.cleanup()

	format := diff.FormatStyled
	if *plain {
		format = diff.FormatPlain
	}

	out, err := diff.Page(s.builder, source, format)
	if err != nil {
		fail("Error generating diff", err)
	}
	if out == "" {
		fmt.Println(styles.SuccessStyle.Render("✓ Output matches the source"))
		return
	}
	fmt.Print(out)
}

// Browse opens the interactive page browser
func Browse() {
	s := mustOpenSession(nil)
	defer s.cleanup()

	m := tui.InitBrowseModel(tui.BrowseDeps{
		ContentDir: s.config.ContentDir,
		Load:       s.builder.Statuses,
		Diff: func(source string) (string, error) {
			return diff.Page(s.builder, source, diff.FormatStyled)
		},
		Rebuild: func(source string) error {
			_, err := s.builder.BuildPage(source)
			return err
		},
	})
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Error: " + err.Error()))
		os.Exit(1)
	}
}
