package markdown

import (
	"strings"
	"testing"
)

func TestExtractLinks_Basic(t *testing.T) {
	body := "See [x](http://y.com) and [local](guides/setup.md)."
	links := ExtractLinks(body)
	if len(links) != 2 {
		t.Fatalf("links = %d, want 2", len(links))
	}
	if links[0].Text != "x" || links[0].URL != "http://y.com" || !links[0].IsExternal {
		t.Errorf("links[0] = %+v", links[0])
	}
	if links[1].Text != "local" || links[1].URL != "guides/setup.md" || links[1].IsExternal {
		t.Errorf("links[1] = %+v", links[1])
	}
}

func TestExtractLinks_HTTPSExternal(t *testing.T) {
	links := ExtractLinks("[a](https://example.com)")
	if len(links) != 1 || !links[0].IsExternal {
		t.Fatalf("links = %+v", links)
	}
}

func TestExtractLinks_ImagesNotDistinguished(t *testing.T) {
	links := ExtractLinks("![alt](img.png)")
	if len(links) != 1 || links[0].Text != "alt" || links[0].URL != "img.png" {
		t.Fatalf("links = %+v, image syntax is extracted like a link", links)
	}
}

func TestStripMarkdown(t *testing.T) {
	body := "# Title\n\nSome **bold** and *italic* and `code`.\n\n" +
		"```go\nfmt.Println()\n```\n\n" +
		"![diagram](d.png) and [a link](http://x).\n\n" +
		"> quoted\n\n---\n\n- item one\n1. item two\n"
	got := StripMarkdown(body)

	for _, banned := range []string{"#", "*", "`", "fmt.Println", "](", ">", "---", "- item", "1. "} {
		if strings.Contains(got, banned) {
			t.Errorf("stripped output still contains %q: %q", banned, got)
		}
	}
	for _, want := range []string{"Title", "bold", "italic", "diagram", "a link", "quoted", "item one", "item two"} {
		if !strings.Contains(got, want) {
			t.Errorf("stripped output missing %q: %q", want, got)
		}
	}
}

func TestStripMarkdown_CollapsesNewlines(t *testing.T) {
	got := StripMarkdown("a\n\n\n\n\nb")
	if got != "a\n\nb" {
		t.Errorf("got %q", got)
	}
}

func TestExtractExcerpt_ShortUnchanged(t *testing.T) {
	if got := ExtractExcerpt("short text", 100); got != "short text" {
		t.Errorf("got %q", got)
	}
}

func TestExtractExcerpt_SentenceBreak(t *testing.T) {
	text := "First sentence is here. Second sentence is much longer and will be cut off entirely."
	got := ExtractExcerpt(text, 40)
	if got != "First sentence is here." {
		t.Errorf("got %q", got)
	}
}

func TestExtractExcerpt_WordBoundaryFallback(t *testing.T) {
	text := "no terminators here just words going on and on and on and on and on forever"
	got := ExtractExcerpt(text, 30)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis, got %q", got)
	}
	if len([]rune(got)) > 33 {
		t.Errorf("len = %d, want <= maxLength+3", len([]rune(got)))
	}
	if strings.Contains(strings.TrimSuffix(got, "..."), "  ") {
		t.Errorf("got %q", got)
	}
}

func TestExtractExcerpt_HardTruncate(t *testing.T) {
	text := strings.Repeat("x", 50)
	got := ExtractExcerpt(text, 10)
	if got != strings.Repeat("x", 10)+"..." {
		t.Errorf("got %q", got)
	}
}

func TestExtractExcerpt_EarlyTerminatorIgnored(t *testing.T) {
	// Terminator before the halfway mark: fall back to word boundary.
	text := "Hi. this continues with many more words than fit in the window at all"
	got := ExtractExcerpt(text, 30)
	if got == "Hi." {
		t.Errorf("terminator before maxLength/2 must not win: %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected word-boundary ellipsis, got %q", got)
	}
}

func TestExtractExcerpt_LengthBound(t *testing.T) {
	texts := []string{
		"A sentence. Another sentence that runs long.",
		strings.Repeat("word ", 40),
		strings.Repeat("y", 80),
	}
	for _, text := range texts {
		for _, max := range []int{10, 20, 35} {
			got := ExtractExcerpt(text, max)
			if n := len([]rune(got)); n > max+3 {
				t.Errorf("ExtractExcerpt(%q, %d) length %d exceeds bound", text, max, n)
			}
		}
	}
}
