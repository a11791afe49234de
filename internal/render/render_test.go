package render

import (
	"strings"
	"testing"
)

func TestParseParagraphsAndHeadings(t *testing.T) {
	text := "Breakfast Ideas:\nOats are a good start.\n\nKeep portions small."
	blocks := Parse(text)

	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3: %+v", len(blocks), blocks)
	}
	if blocks[0].Kind != Heading || blocks[0].Text != "Breakfast Ideas:" {
		t.Errorf("block 0 = %+v, want heading", blocks[0])
	}
	if blocks[1].Kind != Paragraph {
		t.Errorf("block 1 kind = %v, want paragraph", blocks[1].Kind)
	}
	if blocks[2].Kind != Paragraph || blocks[2].Text != "Keep portions small." {
		t.Errorf("block 2 = %+v", blocks[2])
	}
}

func TestParseListGrouping(t *testing.T) {
	text := "* apples\n* berries\nSome advice.\n- walnuts\n- almonds"
	blocks := Parse(text)

	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3: %+v", len(blocks), blocks)
	}
	if blocks[0].Kind != List || len(blocks[0].Items) != 2 {
		t.Errorf("block 0 = %+v, want 2-item list", blocks[0])
	}
	if blocks[1].Kind != Paragraph {
		t.Errorf("block 1 kind = %v, want paragraph splitting the lists", blocks[1].Kind)
	}
	if blocks[2].Kind != List || len(blocks[2].Items) != 2 {
		// Lists separated by a non-list line must not merge.
		t.Errorf("block 2 = %+v, want distinct 2-item list", blocks[2])
	}
	if blocks[2].Items[0] != "walnuts" {
		t.Errorf("item = %q, want walnuts", blocks[2].Items[0])
	}
}

func TestParseRuleClosesList(t *testing.T) {
	text := "* one\n---\n* two"
	blocks := Parse(text)
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3: %+v", len(blocks), blocks)
	}
	if blocks[0].Kind != List || blocks[1].Kind != Rule || blocks[2].Kind != List {
		t.Errorf("kinds = %v %v %v, want list/rule/list", blocks[0].Kind, blocks[1].Kind, blocks[2].Kind)
	}
}

func TestParseBoldLineIsNotHeading(t *testing.T) {
	blocks := Parse("Important Note: **really**")
	if len(blocks) != 1 || blocks[0].Kind != Paragraph {
		t.Errorf("line with bold markers should stay a paragraph: %+v", blocks)
	}
}

func TestParseEmpty(t *testing.T) {
	if blocks := Parse(""); len(blocks) != 0 {
		t.Errorf("got %d blocks for empty input", len(blocks))
	}
}

func TestTelegramBold(t *testing.T) {
	out := Telegram(Parse("Use **whole grains** daily."))
	want := "Use <b>whole grains</b> daily."
	if out != want {
		t.Errorf("out = %q, want %q", out, want)
	}
}

func TestTelegramEscapesHTML(t *testing.T) {
	out := Telegram(Parse("keep sugar < 25g & carbs low"))
	if !strings.Contains(out, "&lt;") || !strings.Contains(out, "&amp;") {
		t.Errorf("HTML not escaped: %q", out)
	}
}

func TestTelegramList(t *testing.T) {
	out := Telegram(Parse("Snacks:\n* **nuts**\n* seeds"))
	if !strings.Contains(out, "<b>Snacks:</b>") {
		t.Errorf("heading not bolded: %q", out)
	}
	if !strings.Contains(out, "• <b>nuts</b>") || !strings.Contains(out, "• seeds") {
		t.Errorf("list items not rendered: %q", out)
	}
}
