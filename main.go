package main

import (
	"fmt"
	"os"

	"github.com/gerunddev/mdsite/internal/commands"
	"github.com/gerunddev/mdsite/internal/config"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "build":
		commands.Build(os.Args[2:])
	case "watch":
		commands.Watch(os.Args[2:])
	case "render":
		commands.Render(os.Args[2:])
	case "title":
		commands.Title(os.Args[2:])
	case "tree":
		commands.Tree(os.Args[2:])
	case "diff":
		commands.Diff(os.Args[2:])
	case "browse", "pages":
		commands.Browse()
	case "init":
		commands.Init(os.Args[2:])
	case "version", "-v", "--version":
		fmt.Printf("mdsite v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	usage := fmt.Sprintf(`mdsite - Static site generator for a small Markdown dialect

Usage:
  mdsite <command> [options]

Commands:
  build       Generate the site (--incremental, --dry-run)
  watch       Rebuild changed pages until interrupted (--interval)
  render      Print the HTML of a Markdown file or stdin
  title       Print the title of a Markdown file or stdin
  tree        Dump the element tree of a Markdown file or stdin (--plain)
  diff        Show how a page's output would change (--plain, before or after the page)
  browse      Browse pages and their output status
  init        Write the default config (--local, --force)
  version     Show version information
  help        Show this help message

Examples:
  mdsite init --local
  mdsite build
  mdsite build --incremental
  mdsite watch --interval 5s
  mdsite render content/index.md
  echo '# Hello' | mdsite title
  mdsite diff content/blog/post.md
  mdsite browse

Configuration:
  Config file: %s
`, config.ConfigPath())
	fmt.Print(usage)
}
