package commands

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gerunddev/mdsite/internal/markdown"
	"github.com/k0kubun/pp"
)

// Render prints the HTML of a Markdown file, or of stdin
func Render(args []string) {
	doc, err := readInput(args)
	if err != nil {
		fail("Error reading input", err)
	}
	if err := writeHTML(os.Stdout, doc); err != nil {
		fail("Error rendering", err)
	}
}

// Title prints the title of a Markdown file, or of stdin
func Title(args []string) {
	doc, err := readInput(args)
	if err != nil {
		fail("Error reading input", err)
	}
	fmt.Println(markdown.ExtractTitle(doc))
}

// Tree dumps the element tree of a Markdown file, or of stdin
func Tree(args []string) {
	fs := flag.NewFlagSet("tree", flag.ExitOnError)
	plain := fs.Bool("plain", false, "disable colors")
	args, _ = parseArgs(fs, args) //nolint:errcheck // ExitOnError

	doc, err := readInput(args)
	if err != nil {
		fail("Error reading input", err)
	}
	if err := writeTree(os.Stdout, doc, !*plain); err != nil {
		fail("Error rendering", err)
	}
}

func writeHTML(w io.Writer, doc string) error {
	html, err := markdown.ToHTML(doc)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, html)
	return err
}

func writeTree(w io.Writer, doc string, color bool) error {
	root, err := markdown.ToHTMLNode(doc)
	if err != nil {
		return err
	}
	pp.ColoringEnabled = color
	_, err = pp.Fprintln(w, root)
	return err
}
