package markdown

import (
	"fmt"
	"strings"
)

// BlockKind is the structural classification of a block
type BlockKind int

const (
	Paragraph BlockKind = iota
	Heading
	Code
	Quote
	UnorderedList
	OrderedList
)

func (k BlockKind) String() string {
	switch k {
	case Paragraph:
		return "paragraph"
	case Heading:
		return "heading"
	case Code:
		return "code"
	case Quote:
		return "quote"
	case UnorderedList:
		return "unordered_list"
	case OrderedList:
		return "ordered_list"
	default:
		return fmt.Sprintf("block_kind(%d)", int(k))
	}
}

const codeFence = "```"

// SplitBlocks splits a document on blank lines. Every block is trimmed and
// empty blocks are dropped.
func SplitBlocks(doc string) []string {
	var blocks []string
	for _, raw := range strings.Split(doc, "\n\n") {
		block := strings.TrimSpace(raw)
		if block != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

// Classify determines the kind of a block from its leading characters
func Classify(block string) BlockKind {
	switch {
	case strings.HasPrefix(block, "#"):
		return Heading
	case strings.HasPrefix(block, codeFence):
		return Code
	case strings.HasPrefix(block, ">"):
		return Quote
	case strings.HasPrefix(block, "-"):
		return UnorderedList
	case len(block) >= 2 && isDigit(block[0]) && block[1] == '.':
		return OrderedList
	default:
		return Paragraph
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// headingText returns the heading level and the text after the marks
func headingText(block string) (int, string) {
	level := countLeadingChars(block, '#')
	return level, strings.TrimSpace(block[level:])
}

// codeText drops the fence lines and keeps everything else byte for byte
func codeText(block string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(block, "\n") {
		if strings.TrimSpace(line) == codeFence {
			continue
		}
		b.WriteString(line)
	}
	return b.String()
}

// quoteText strips one ">" per line and joins the lines with spaces
func quoteText(block string) string {
	var parts []string
	for _, line := range nonBlankLines(block) {
		line = strings.TrimSpace(strings.TrimPrefix(line, ">"))
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

// listItems returns one item per line with the list marker removed
func listItems(block string, kind BlockKind) []string {
	var items []string
	for _, line := range nonBlankLines(block) {
		switch kind {
		case UnorderedList:
			line = strings.TrimPrefix(line, "-")
		case OrderedList:
			line = line[countLeadingDigits(line):]
			line = strings.TrimPrefix(line, ".")
		}
		items = append(items, strings.TrimSpace(line))
	}
	return items
}

// paragraphText collapses hard line breaks into single spaces
func paragraphText(block string) string {
	return strings.Join(nonBlankLines(block), " ")
}

// nonBlankLines returns the trimmed lines of block that are not blank
func nonBlankLines(block string) []string {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func countLeadingChars(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

func countLeadingDigits(s string) int {
	n := 0
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	return n
}
