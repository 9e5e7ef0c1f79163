package markdown

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
)

// goldmarkReplacer maps goldmark's output onto the tags this package emits
var goldmarkReplacer = strings.NewReplacer(
	"\n", "",
	"<strong>", "<b>",
	"</strong>", "</b>",
	"<em>", "<i>",
	"</em>", "</i>",
)

// TestAgreesWithGoldmark checks the subset of syntax where CommonMark and
// this renderer agree, modulo whitespace between blocks and tag names.
func TestAgreesWithGoldmark(t *testing.T) {
	inputs := []string{
		"# Title\n\nBody text",
		"## Second level",
		"- a\n- b",
		"1. a\n2. b",
		"**bold** and _it_ and `c`",
		"see [the docs](/docs) now",
		"```\nx := 1\n```",
		"# Page\n\nIntro with **bold** text\n\n- item one\n- item two",
	}

	gm := goldmark.New()
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			var buf bytes.Buffer
			if err := gm.Convert([]byte(input), &buf); err != nil {
				t.Fatal(err)
			}
			want := "<div>" + goldmarkReplacer.Replace(buf.String()) + "</div>"

			have, err := ToHTML(input)
			if err != nil {
				t.Fatalf("ToHTML returned error: %v", err)
			}
			have = strings.ReplaceAll(have, "\n", "")

			if have != want {
				t.Errorf("have %q\nwant %q", have, want)
			}
		})
	}
}
