// Package inline splits a run of Markdown text into typed spans.
//
// Tokenizing is a fixed pipeline: links and images are pulled out first,
// then the still-plain spans are split on "**", "_" and "`" in that order.
// A span that an earlier pass classified is never looked at again, so
// emphasis inside a link label stays literal and overlapping emphasis
// ("**_x_**") is not supported.
package inline

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gerunddev/mdsite/internal/htmlnode"
)

// Kind is the inline classification of a span
type Kind int

const (
	Plain Kind = iota
	Bold
	Italic
	Code
	Link
	Image
)

// ErrUnknownKind is returned when a span has no element mapping
var ErrUnknownKind = errors.New("unknown span kind")

func (k Kind) String() string {
	switch k {
	case Plain:
		return "text"
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case Code:
		return "code"
	case Link:
		return "link"
	case Image:
		return "image"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Span is a contiguous run of text with one inline kind.
// URL is only set for Link and Image spans.
type Span struct {
	Text string
	Kind Kind
	URL  string
}

// Text creates a span of the given non-link kind
func Text(text string, kind Kind) Span {
	return Span{Text: text, Kind: kind}
}

// LinkTo creates a link span
func LinkTo(label, url string) Span {
	return Span{Text: label, Kind: Link, URL: url}
}

// ImageOf creates an image span
func ImageOf(alt, url string) Span {
	return Span{Text: alt, Kind: Image, URL: url}
}

func (s Span) String() string {
	if s.URL != "" {
		return fmt.Sprintf("Span(%q, %s, %s)", s.Text, s.Kind, s.URL)
	}
	return fmt.Sprintf("Span(%q, %s)", s.Text, s.Kind)
}

// linkPattern matches both [label](url) and ![alt](url)
var linkPattern = regexp.MustCompile(`(!)?\[(.*?)\]\((.*?)\)`)

// Tokenize converts raw text into an ordered sequence of spans.
// It never fails; unbalanced markers are kept as literal text or shift the
// classification of the remaining segments.
func Tokenize(text string) []Span {
	spans := SplitLinksAndImages([]Span{Text(text, Plain)})
	spans = SplitDelimiter(spans, "**", Bold)
	spans = SplitDelimiter(spans, "_", Italic)
	spans = SplitDelimiter(spans, "`", Code)
	return spans
}

// SplitLinksAndImages extracts links and images from every plain span in a
// single left-to-right sweep. Empty gaps between matches produce no span.
func SplitLinksAndImages(spans []Span) []Span {
	var out []Span

	for _, span := range spans {
		if span.Kind != Plain {
			out = append(out, span)
			continue
		}

		last := 0
		for _, m := range linkPattern.FindAllStringSubmatchIndex(span.Text, -1) {
			if m[0] > last {
				out = append(out, Text(span.Text[last:m[0]], span.Kind))
			}

			label := span.Text[m[4]:m[5]]
			url := span.Text[m[6]:m[7]]
			if m[2] >= 0 {
				out = append(out, ImageOf(label, url))
			} else {
				out = append(out, LinkTo(label, url))
			}
			last = m[1]
		}

		if last < len(span.Text) {
			out = append(out, Text(span.Text[last:], span.Kind))
		}
	}

	return out
}

// SplitDelimiter splits every plain span on delim. Segments at odd positions
// take kind, even positions stay plain. Empty plain segments are dropped.
func SplitDelimiter(spans []Span, delim string, kind Kind) []Span {
	var out []Span

	for _, span := range spans {
		if span.Kind != Plain {
			out = append(out, span)
			continue
		}

		for i, part := range strings.Split(span.Text, delim) {
			if i%2 == 0 {
				if part != "" {
					out = append(out, Text(part, Plain))
				}
				continue
			}
			out = append(out, Text(part, kind))
		}
	}

	return out
}

// HTMLNode converts the span into its element
func (s Span) HTMLNode() (htmlnode.Node, error) {
	switch s.Kind {
	case Plain:
		return htmlnode.Text(s.Text), nil
	case Bold:
		return htmlnode.NewLeaf("b", s.Text), nil
	case Italic:
		return htmlnode.NewLeaf("i", s.Text), nil
	case Code:
		return htmlnode.NewLeaf("code", s.Text), nil
	case Link:
		return htmlnode.NewLeaf("a", s.Text, htmlnode.Attr("href", s.URL)), nil
	case Image:
		return htmlnode.NewLeaf("img", "",
			htmlnode.Attr("src", s.URL),
			htmlnode.Attr("alt", s.Text)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, s.Kind)
	}
}

// ToHTMLNodes tokenizes text and converts every span to an element
func ToHTMLNodes(text string) ([]htmlnode.Node, error) {
	spans := Tokenize(text)
	nodes := make([]htmlnode.Node, 0, len(spans))
	for _, span := range spans {
		node, err := span.HTMLNode()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}
