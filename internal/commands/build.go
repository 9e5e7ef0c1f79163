package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gerunddev/mdsite/internal/logger"
	"github.com/gerunddev/mdsite/internal/site"
	"github.com/gerunddev/mdsite/internal/styles"
	"github.com/gerunddev/mdsite/internal/tui"
)

// Build generates the whole site once
func Build(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	incremental := fs.Bool("incremental", false, "skip unchanged pages and keep existing output")
	dryRun := fs.Bool("dry-run", false, "render every page without writing anything")
	_ = fs.Parse(args) //nolint:errcheck // ExitOnError

	s := mustOpenSession(nil)
	defer s.cleanup()

	if *incremental {
		s.config.Incremental = true
	}
	s.builder.DryRun = *dryRun

	status := "Building site..."
	if *dryRun {
		status = "Building site (dry run, nothing is written)..."
	}

	m := tui.InitBuildModel(status)
	p := tea.NewProgram(m, tea.WithInput(os.Stdin))

	done := make(chan tui.BuildMsg, 1)
	go func() {
		result, err := s.builder.Build()
		msg := tui.BuildMsg{Result: result, Err: err}
		done <- msg
		p.Send(msg)
	}()

	if _, err := p.Run(); err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Error: " + err.Error()))
		os.Exit(1)
	}

	// The program also quits on q before the build finishes
	msg := <-done
	if msg.Err != nil || len(msg.Result.Errors) > 0 {
		os.Exit(1)
	}
}

// Watch rebuilds changed pages until interrupted
func Watch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	interval := fs.Duration("interval", 0, "poll interval (default from config)")
	_ = fs.Parse(args) //nolint:errcheck // ExitOnError

	s := mustOpenSession(os.Stderr)
	defer s.cleanup()

	if *interval > 0 {
		s.config.Interval = *interval
	}
	s.config.Incremental = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(styles.TitleStyle.Render("mdsite watch"))
	fmt.Printf("%s → %s\n", styles.ValueStyle.Render(s.config.ContentDir), styles.ValueStyle.Render(s.config.PublicDir))
	fmt.Println(styles.DimStyle.Render(fmt.Sprintf("polling every %v, ctrl+c to stop", s.config.Interval)))
	fmt.Println()

	runWatch(ctx, s.builder, s.config.Interval, s.log)
	s.log.Info("watch stopped")
}

// runWatch builds once, then again on every tick, until ctx is done
func runWatch(ctx context.Context, b *site.Builder, interval time.Duration, log *logger.Logger) int {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	builds := 0
	rebuild := func() {
		builds++
		result, err := b.Build()
		if err != nil {
			log.Error("build failed", "error", err)
			return
		}
		if result.PagesGenerated > 0 || len(result.Errors) > 0 {
			log.Info(result.String())
		}
	}

	rebuild()
	for {
		select {
		case <-ticker.C:
			rebuild()
		case <-ctx.Done():
			return builds
		}
	}
}
