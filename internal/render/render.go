// Package render parses the constrained markup the chat model is asked to
// emit (bold, bullets, rules, heading-like lines) into ordered display
// blocks, and formats those blocks for Telegram.
package render

import (
	"regexp"
	"strings"
)

// BlockKind discriminates Block variants.
type BlockKind int

const (
	Paragraph BlockKind = iota
	Heading
	List
	Rule
)

// Block is one display unit. Items is set for List blocks only.
type Block struct {
	Kind  BlockKind
	Text  string
	Items []string
}

var headingRe = regexp.MustCompile(`^[A-Z][a-zA-Z\s]+:`)

// Parse splits text line by line into blocks, preserving line order.
// Consecutive bullet lines form one List; a non-list line always closes the
// open list, so lists separated by other content stay separate blocks.
// Blank lines are dropped.
func Parse(text string) []Block {
	var blocks []Block
	var items []string

	flushList := func() {
		if len(items) > 0 {
			blocks = append(blocks, Block{Kind: List, Items: items})
			items = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if trimmed == "---" {
			flushList()
			blocks = append(blocks, Block{Kind: Rule})
			continue
		}

		if strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "- ") {
			items = append(items, trimmed[2:])
			continue
		}

		flushList()

		if trimmed == "" {
			continue
		}

		if headingRe.MatchString(trimmed) && !strings.Contains(trimmed, "**") {
			blocks = append(blocks, Block{Kind: Heading, Text: trimmed})
			continue
		}

		blocks = append(blocks, Block{Kind: Paragraph, Text: trimmed})
	}

	flushList()
	return blocks
}

// Telegram renders blocks as Telegram HTML. Bold spans marked with **...**
// become <b> tags; everything else is escaped.
func Telegram(blocks []Block) string {
	var b strings.Builder
	for i, block := range blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		switch block.Kind {
		case Rule:
			b.WriteString("———")
		case Heading:
			b.WriteString("<b>" + escape(block.Text) + "</b>")
		case List:
			for j, item := range block.Items {
				if j > 0 {
					b.WriteString("\n")
				}
				b.WriteString("• " + boldSpans(item))
			}
		default:
			b.WriteString(boldSpans(block.Text))
		}
	}
	return b.String()
}

var boldRe = regexp.MustCompile(`\*\*(.+?)\*\*`)

// boldSpans escapes a line and converts **text** runs to <b>text</b>.
func boldSpans(line string) string {
	var b strings.Builder
	last := 0
	for _, m := range boldRe.FindAllStringSubmatchIndex(line, -1) {
		b.WriteString(escape(line[last:m[0]]))
		b.WriteString("<b>" + escape(line[m[2]:m[3]]) + "</b>")
		last = m[1]
	}
	b.WriteString(escape(line[last:]))
	return b.String()
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
