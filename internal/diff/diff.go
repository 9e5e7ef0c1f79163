package diff

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/gerunddev/mdsite/internal/site"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Format represents the output format for diffs
type Format int

const (
	// FormatStyled renders the diff through glamour (default)
	FormatStyled Format = iota
	// FormatPlain returns the unified diff in a diff code fence
	FormatPlain
)

// Unified returns the unified diff between two texts.
// It is empty when the texts are equal.
func Unified(oldName, newName, oldText, newText string) string {
	edits := myers.ComputeEdits(span.URIFromPath(oldName), oldText, newText)
	return fmt.Sprint(gotextdiff.ToUnified(oldName, newName, oldText, edits))
}

// Page diffs the page currently on disk against a fresh render of source.
// A page that was never generated is diffed against an empty file.
// The result is empty when the output is current.
func Page(b *site.Builder, source string, format Format) (string, error) {
	dest, err := b.Output(source)
	if err != nil {
		return "", err
	}

	current, err := os.ReadFile(dest)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read output: %w", err)
	}

	page, err := b.Preview(source)
	if err != nil {
		return "", err
	}

	name := filepath.Base(dest)
	unified := Unified(name+" (public)", name+" (rendered)", string(current), string(page.HTML))
	if unified == "" {
		return "", nil
	}

	return Render(unified, format)
}

// Render wraps a unified diff for display in the given format
func Render(unified string, format Format) (string, error) {
	// Wrap in diff code fence for proper syntax highlighting (+ in green, - in red)
	fenced := fmt.Sprintf("```diff\n%s```\n", unified)

	switch format {
	case FormatPlain:
		return fenced, nil
	case FormatStyled:
	default:
		return "", fmt.Errorf("unsupported diff format: %d", format)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		// Fallback to plain diff if glamour fails
		return fenced, nil
	}

	rendered, err := renderer.Render(fenced)
	if err != nil {
		// Fallback to plain diff if rendering fails
		return fenced, nil
	}

	return rendered, nil
}
