package markdown

import "testing"

func TestExtractCodeBlocks_Basic(t *testing.T) {
	body := "intro\n```go\nfunc main() {}\n```\noutro\n"
	blocks := ExtractCodeBlocks(body)
	if len(blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(blocks))
	}
	b := blocks[0]
	if b.Language != "go" {
		t.Errorf("language = %q", b.Language)
	}
	if b.Code != "func main() {}" {
		t.Errorf("code = %q", b.Code)
	}
	if b.LineStart != 2 || b.LineEnd != 4 {
		t.Errorf("lines = %d..%d, want 2..4", b.LineStart, b.LineEnd)
	}
}

func TestExtractCodeBlocks_NoLanguageDefaultsText(t *testing.T) {
	blocks := ExtractCodeBlocks("```\nplain\n```\n")
	if len(blocks) != 1 || blocks[0].Language != "text" {
		t.Fatalf("blocks = %+v", blocks)
	}
}

func TestExtractCodeBlocks_MultilineJoined(t *testing.T) {
	blocks := ExtractCodeBlocks("```sh\necho a\necho b\n```\n")
	if len(blocks) != 1 {
		t.Fatalf("blocks = %d", len(blocks))
	}
	if blocks[0].Code != "echo a\necho b" {
		t.Errorf("code = %q", blocks[0].Code)
	}
}

func TestExtractCodeBlocks_BalancedPairs(t *testing.T) {
	body := "```a\n1\n```\ntext\n```b\n2\n```\n"
	blocks := ExtractCodeBlocks(body)
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(blocks))
	}
	if blocks[0].Language != "a" || blocks[1].Language != "b" {
		t.Errorf("languages = %q, %q", blocks[0].Language, blocks[1].Language)
	}
}

func TestExtractCodeBlocks_UnterminatedDiscarded(t *testing.T) {
	body := "```a\n1\n```\n```b\npartial"
	blocks := ExtractCodeBlocks(body)
	if len(blocks) != 1 {
		t.Fatalf("blocks = %d, want 1 (trailing fence discarded)", len(blocks))
	}
	if blocks[0].Language != "a" {
		t.Errorf("language = %q", blocks[0].Language)
	}
}

func TestExtractCodeBlocks_EmptyBlock(t *testing.T) {
	blocks := ExtractCodeBlocks("```\n```\n")
	if len(blocks) != 1 {
		t.Fatalf("blocks = %d", len(blocks))
	}
	if blocks[0].Code != "" {
		t.Errorf("code = %q, want empty", blocks[0].Code)
	}
}
