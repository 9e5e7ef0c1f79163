package commands

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gerunddev/mdsite/internal/config"
	"github.com/gerunddev/mdsite/internal/logger"
	"github.com/gerunddev/mdsite/internal/manifest"
	"github.com/gerunddev/mdsite/internal/site"
	"github.com/gerunddev/mdsite/internal/styles"
)

// session bundles what every site command loads before it runs
type session struct {
	config   *config.Config
	manifest *manifest.Manifest
	log      *logger.Logger
	builder  *site.Builder
	cleanup  func()
}

// openSession loads config, manifest and logger.
// Log entries go to console (when non-nil) and to the configured log file.
func openSession(console io.Writer) (*session, error) {
	path := config.ConfigPath()
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	log, cleanup, err := openLogger(cfg, console)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}
	log.ConfigLoaded(path, cfg.ContentDir, cfg.PublicDir)

	m, err := manifest.Load(cfg.ManifestFile)
	if err != nil {
		// A corrupt manifest only costs a full rebuild
		log.ManifestError("load", err)
		m = manifest.New()
	}

	b := site.NewBuilder(cfg, m)
	b.SetLogger(log)

	return &session{
		config:   cfg,
		manifest: m,
		log:      log,
		builder:  b,
		cleanup:  cleanup,
	}, nil
}

// mustOpenSession is openSession that exits on failure
func mustOpenSession(console io.Writer) *session {
	s, err := openSession(console)
	if err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ " + err.Error()))
		os.Exit(1)
	}
	return s
}

func openLogger(cfg *config.Config, console io.Writer) (*logger.Logger, func(), error) {
	level := cfg.Level()
	noop := func() {}

	if cfg.LogFile == "" {
		if console == nil {
			return logger.Discard(), noop, nil
		}
		return logger.NewWithLevel(console, level), noop, nil
	}

	if console == nil {
		return logger.NewFileLogger(cfg.LogFile, level)
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	return logger.NewMultiLogger(level, console, f), func() { f.Close() }, nil
}

// parseArgs parses flags anywhere in args, so "diff page.md --plain" works.
// Everything after a "--" terminator is positional.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// readInput returns the named file, or stdin when no file is given
func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(args[0])
	return string(data), err
}

func fail(msg string, err error) {
	fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+msg+": "+err.Error()))
	os.Exit(1)
}
