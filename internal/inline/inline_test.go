package inline

import (
	"errors"
	"reflect"
	"testing"

	"github.com/gerunddev/mdsite/internal/htmlnode"
)

func TestSpanEquality(t *testing.T) {
	if Text("This is a text node", Bold) != Text("This is a text node", Bold) {
		t.Error("Spans with the same fields should be equal")
	}
	if Text("This is a text node", Bold) == Text("This is a different text node", Plain) {
		t.Error("Spans with different fields should not be equal")
	}
	if LinkTo("a", "u1") == LinkTo("a", "u2") {
		t.Error("Spans with different URLs should not be equal")
	}
}

func TestSpanString(t *testing.T) {
	tests := []struct {
		span     Span
		expected string
	}{
		{Text("This is a text node", Bold), `Span("This is a text node", bold)`},
		{LinkTo("x", "https://example.com"), `Span("x", link, https://example.com)`},
	}

	for _, tt := range tests {
		if actual := tt.span.String(); actual != tt.expected {
			t.Errorf("String() = %q, want %q", actual, tt.expected)
		}
	}
}

func TestSplitDelimiter(t *testing.T) {
	tests := []struct {
		name     string
		input    []Span
		delim    string
		kind     Kind
		expected []Span
	}{
		{
			name: "bold in several spans",
			input: []Span{
				Text("This is **bold** text", Plain),
				Text("This is **another bold** text", Plain),
			},
			delim: "**",
			kind:  Bold,
			expected: []Span{
				Text("This is ", Plain),
				Text("bold", Bold),
				Text(" text", Plain),
				Text("This is ", Plain),
				Text("another bold", Bold),
				Text(" text", Plain),
			},
		},
		{
			name:     "no spans",
			input:    nil,
			delim:    "**",
			kind:     Bold,
			expected: nil,
		},
		{
			name: "no delimiter",
			input: []Span{
				Text("This is a text node", Plain),
				Text("This is another text node", Plain),
			},
			delim: "**",
			kind:  Bold,
			expected: []Span{
				Text("This is a text node", Plain),
				Text("This is another text node", Plain),
			},
		},
		{
			name:     "delimiter at both ends",
			input:    []Span{Text("**bold**", Plain)},
			delim:    "**",
			kind:     Bold,
			expected: []Span{Text("bold", Bold)},
		},
		{
			name:  "odd delimiter count shifts classification",
			input: []Span{Text("a **b", Plain)},
			delim: "**",
			kind:  Bold,
			expected: []Span{
				Text("a ", Plain),
				Text("b", Bold),
			},
		},
		{
			name:  "empty delimited segment is kept",
			input: []Span{Text("x `` y", Plain)},
			delim: "`",
			kind:  Code,
			expected: []Span{
				Text("x ", Plain),
				Text("", Code),
				Text(" y", Plain),
			},
		},
		{
			name: "non-plain spans pass through",
			input: []Span{
				Text("_kept_", Bold),
				LinkTo("a_b_c", "u"),
			},
			delim: "_",
			kind:  Italic,
			expected: []Span{
				Text("_kept_", Bold),
				LinkTo("a_b_c", "u"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := SplitDelimiter(tt.input, tt.delim, tt.kind)
			if !reflect.DeepEqual(actual, tt.expected) {
				t.Errorf("SplitDelimiter() = %v, want %v", actual, tt.expected)
			}
		})
	}
}

func TestSplitLinksAndImages(t *testing.T) {
	tests := []struct {
		name     string
		input    []Span
		expected []Span
	}{
		{
			name: "links in several spans",
			input: []Span{
				Text("This is a [link](https://example.com)", Plain),
				Text("This is another [link](https://example2.com)", Plain),
			},
			expected: []Span{
				Text("This is a ", Plain),
				LinkTo("link", "https://example.com"),
				Text("This is another ", Plain),
				LinkTo("link", "https://example2.com"),
			},
		},
		{
			name: "images",
			input: []Span{
				Text("This is text with an ![image](https://i.imgur.com/zjjcJKZ.png) and another ![second image](https://i.imgur.com/3elNhQu.png)", Plain),
			},
			expected: []Span{
				Text("This is text with an ", Plain),
				ImageOf("image", "https://i.imgur.com/zjjcJKZ.png"),
				Text(" and another ", Plain),
				ImageOf("second image", "https://i.imgur.com/3elNhQu.png"),
			},
		},
		{
			name:  "adjacent matches leave no empty gap",
			input: []Span{Text("[a](u1)[b](u2)", Plain)},
			expected: []Span{
				LinkTo("a", "u1"),
				LinkTo("b", "u2"),
			},
		},
		{
			name:  "non-greedy url",
			input: []Span{Text("[a](u1)(x)", Plain)},
			expected: []Span{
				LinkTo("a", "u1"),
				Text("(x)", Plain),
			},
		},
		{
			name:     "unmatched bracket stays literal",
			input:    []Span{Text("see [this", Plain)},
			expected: []Span{Text("see [this", Plain)},
		},
		{
			name:     "non-plain spans pass through",
			input:    []Span{Text("[a](u)", Code)},
			expected: []Span{Text("[a](u)", Code)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := SplitLinksAndImages(tt.input)
			if !reflect.DeepEqual(actual, tt.expected) {
				t.Errorf("SplitLinksAndImages() = %v, want %v", actual, tt.expected)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Span
	}{
		{
			name:  "all kinds",
			input: "This is **text** with an _italic_ word and a `code block` and an ![obi wan image](https://i.imgur.com/fJRm4Vk.jpeg) and a [link](https://boot.dev)",
			expected: []Span{
				Text("This is ", Plain),
				Text("text", Bold),
				Text(" with an ", Plain),
				Text("italic", Italic),
				Text(" word and a ", Plain),
				Text("code block", Code),
				Text(" and an ", Plain),
				ImageOf("obi wan image", "https://i.imgur.com/fJRm4Vk.jpeg"),
				Text(" and a ", Plain),
				LinkTo("link", "https://boot.dev"),
			},
		},
		{
			name:  "leading delimiter",
			input: "**bold** and _it_ and `c`",
			expected: []Span{
				Text("bold", Bold),
				Text(" and ", Plain),
				Text("it", Italic),
				Text(" and ", Plain),
				Text("c", Code),
			},
		},
		{
			name:  "image then link",
			input: "![a](u1) and [b](u2)",
			expected: []Span{
				ImageOf("a", "u1"),
				Text(" and ", Plain),
				LinkTo("b", "u2"),
			},
		},
		{
			name:  "emphasis inside a link label is not reprocessed",
			input: "[**x**](https://example.com/a_b_c)",
			expected: []Span{
				LinkTo("**x**", "https://example.com/a_b_c"),
			},
		},
		{
			name:  "nested emphasis is not supported",
			input: "**_x_**",
			expected: []Span{
				Text("_x_", Bold),
			},
		},
		{
			name:     "plain text",
			input:    "nothing special here",
			expected: []Span{Text("nothing special here", Plain)},
		},
		{
			name:     "empty text",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := Tokenize(tt.input)
			if !reflect.DeepEqual(actual, tt.expected) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, actual, tt.expected)
			}
		})
	}
}

func TestTokenizePlainTextIsOneSpan(t *testing.T) {
	inputs := []string{
		"a",
		"Hello, world!",
		"Numbers 1. 2. 3 and # signs > arrows - dashes",
		"  surrounding spaces kept  ",
	}

	for _, input := range inputs {
		spans := Tokenize(input)
		if len(spans) != 1 || spans[0] != Text(input, Plain) {
			t.Errorf("Tokenize(%q) = %v, want a single plain span", input, spans)
		}
	}
}

func TestSpanHTMLNode(t *testing.T) {
	tests := []struct {
		name     string
		span     Span
		expected string
	}{
		{"plain", Text("This is a text node", Plain), "This is a text node"},
		{"bold", Text("This is a text node", Bold), "<b>This is a text node</b>"},
		{"italic", Text("it", Italic), "<i>it</i>"},
		{"code", Text("x := 1", Code), "<code>x := 1</code>"},
		{"link", LinkTo("This is a link", "https://example.com"), `<a href="https://example.com">This is a link</a>`},
		{"image", ImageOf("alt text", "/img.png"), `<img src="/img.png" alt="alt text"></img>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := tt.span.HTMLNode()
			if err != nil {
				t.Fatalf("HTMLNode() returned error: %v", err)
			}
			actual, err := node.HTML()
			if err != nil {
				t.Fatalf("HTML() returned error: %v", err)
			}
			if actual != tt.expected {
				t.Errorf("HTML() = %q, want %q", actual, tt.expected)
			}
		})
	}
}

func TestSpanHTMLNodeTags(t *testing.T) {
	node, err := Text("This is a text node", Plain).HTMLNode()
	if err != nil {
		t.Fatalf("HTMLNode() returned error: %v", err)
	}
	leaf, ok := node.(*htmlnode.Leaf)
	if !ok {
		t.Fatalf("Expected *htmlnode.Leaf, got %T", node)
	}
	if leaf.Tag != "" {
		t.Errorf("Plain span should have no tag, got %q", leaf.Tag)
	}
	if leaf.Value != "This is a text node" {
		t.Errorf("Unexpected value %q", leaf.Value)
	}
}

func TestSpanHTMLNodeUnknownKind(t *testing.T) {
	_, err := Span{Text: "x", Kind: Kind(42)}.HTMLNode()
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Expected ErrUnknownKind, got %v", err)
	}
}

func TestToHTMLNodes(t *testing.T) {
	nodes, err := ToHTMLNodes("This is **bold** text")
	if err != nil {
		t.Fatalf("ToHTMLNodes returned error: %v", err)
	}

	html, err := htmlnode.NewParent("p", nodes).HTML()
	if err != nil {
		t.Fatalf("HTML() returned error: %v", err)
	}
	if html != "<p>This is <b>bold</b> text</p>" {
		t.Errorf("Unexpected HTML: %q", html)
	}
}
