// Package markdown turns a Markdown document into an HTML element tree.
//
// A document is split into blocks on blank lines, each block is classified
// by its leading characters, and the block text is normalized and handed to
// the inline tokenizer. All blocks end up, in order, inside one root div.
//
// Supported syntax is deliberately small: ATX headings, fenced code, single
// level quotes and lists, paragraphs, and the inline kinds of package
// inline. The package performs no I/O and keeps no state between calls.
package markdown

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gerunddev/mdsite/internal/htmlnode"
	"github.com/gerunddev/mdsite/internal/inline"
)

// ErrUnknownBlockKind is returned for a block kind without an element rule
var ErrUnknownBlockKind = errors.New("unknown block kind")

// ToHTML renders a document to an HTML string wrapped in a single div
func ToHTML(doc string) (string, error) {
	root, err := ToHTMLNode(doc)
	if err != nil {
		return "", err
	}
	return root.HTML()
}

// ToHTMLNode builds the element tree for a document
func ToHTMLNode(doc string) (*htmlnode.Parent, error) {
	blocks := SplitBlocks(doc)
	children := make([]htmlnode.Node, 0, len(blocks))

	for i, block := range blocks {
		node, err := blockToHTMLNode(block, Classify(block))
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		children = append(children, node)
	}

	return htmlnode.NewParent("div", children), nil
}

func blockToHTMLNode(block string, kind BlockKind) (htmlnode.Node, error) {
	switch kind {
	case Paragraph:
		return wrapInline("p", paragraphText(block))
	case Heading:
		level, text := headingText(block)
		return wrapInline(fmt.Sprintf("h%d", level), text)
	case Code:
		code := htmlnode.NewLeaf("code", codeText(block))
		return htmlnode.NewParent("pre", []htmlnode.Node{code}), nil
	case Quote:
		return wrapInline("blockquote", quoteText(block))
	case UnorderedList:
		return listToHTMLNode("ul", listItems(block, kind))
	case OrderedList:
		return listToHTMLNode("ol", listItems(block, kind))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBlockKind, kind)
	}
}

func wrapInline(tag, text string) (htmlnode.Node, error) {
	children, err := inline.ToHTMLNodes(text)
	if err != nil {
		return nil, fmt.Errorf("<%s>: %w", tag, err)
	}
	return htmlnode.NewParent(tag, children), nil
}

func listToHTMLNode(tag string, items []string) (htmlnode.Node, error) {
	children := make([]htmlnode.Node, 0, len(items))
	for _, item := range items {
		li, err := wrapInline("li", item)
		if err != nil {
			return nil, fmt.Errorf("<%s>: %w", tag, err)
		}
		children = append(children, li)
	}
	return htmlnode.NewParent(tag, children), nil
}

// ExtractTitle returns the text of the first line that starts with "#",
// whatever its level, or "" when there is none.
func ExtractTitle(doc string) string {
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
	}
	return ""
}
