package notion

import (
	"context"
	"fmt"
	"strings"
)

// DefaultDepth is how many levels of blocks are rendered, counting the
// page's own children as the first.
const DefaultDepth = 2

// ChildrenFunc returns every child block of a page or block.
type ChildrenFunc func(ctx context.Context, blockID string) ([]BlockDTO, error)

// Exporter renders Notion blocks as Markdown.
type Exporter struct {
	Children ChildrenFunc
	Depth    int
}

// Export renders page content. Nested blocks below e.Depth are skipped.
func (e *Exporter) Export(ctx context.Context, pageID string) (string, error) {
	blocks, err := e.Children(ctx, pageID)
	if err != nil {
		return "", err
	}
	lines, err := e.render(ctx, blocks, 1)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n"), nil
}

func (e *Exporter) render(ctx context.Context, blocks []BlockDTO, depth int) ([]string, error) {
	var out []string
	number := 0
	for i, b := range blocks {
		if b.Type == "numbered_list_item" {
			number++
		} else {
			number = 0
		}

		text, ok := renderBlock(b, number)
		if !ok {
			continue
		}
		out = append(out, text...)

		if b.HasChildren && depth < e.Depth && e.Children != nil {
			children, err := e.Children(ctx, b.ID)
			if err != nil {
				return nil, fmt.Errorf("block %s children: %w", b.ID, err)
			}
			nested, err := e.render(ctx, children, depth+1)
			if err != nil {
				return nil, err
			}
			for _, line := range nested {
				if line == "" {
					out = append(out, line)
					continue
				}
				out = append(out, "    "+line)
			}
		}

		if !isListItem(b.Type) || i+1 == len(blocks) || blocks[i+1].Type != b.Type {
			out = append(out, "")
		}
	}
	return out, nil
}

func isListItem(t string) bool {
	switch t {
	case "bulleted_list_item", "numbered_list_item", "to_do":
		return true
	}
	return false
}

func renderBlock(b BlockDTO, number int) ([]string, bool) {
	c := b.Content
	text := richText(c.RichText)
	switch b.Type {
	case "paragraph":
		return []string{text}, true
	case "heading_1":
		return []string{"# " + text}, true
	case "heading_2":
		return []string{"## " + text}, true
	case "heading_3":
		return []string{"### " + text}, true
	case "bulleted_list_item":
		return []string{"- " + text}, true
	case "numbered_list_item":
		return []string{fmt.Sprintf("%d. %s", number, text)}, true
	case "to_do":
		box := "[ ]"
		if c.Checked {
			box = "[x]"
		}
		return []string{"- " + box + " " + text}, true
	case "quote":
		return []string{"> " + text}, true
	case "toggle":
		return []string{"- " + text}, true
	case "callout":
		if c.Icon != nil && c.Icon.Emoji != "" {
			text = c.Icon.Emoji + " " + text
		}
		return []string{"> " + text}, true
	case "code":
		lines := []string{"```" + c.Language}
		lines = append(lines, strings.Split(plainText(c.RichText), "\n")...)
		return append(lines, "```"), true
	case "divider":
		return []string{"---"}, true
	case "image":
		return []string{fmt.Sprintf("![%s](%s)", plainText(c.Caption), fileURL(c))}, true
	case "bookmark", "embed", "link_preview":
		label := plainText(c.Caption)
		if label == "" {
			label = c.URL
		}
		return []string{fmt.Sprintf("[%s](%s)", label, c.URL)}, true
	default:
		return nil, false
	}
}

func fileURL(c BlockContentDTO) string {
	if c.External != nil {
		return c.External.URL
	}
	if c.File != nil {
		return c.File.URL
	}
	return ""
}

func richText(parts []RichTextDTO) string {
	var sb strings.Builder
	for _, p := range parts {
		s := p.PlainText
		if s == "" {
			continue
		}
		a := p.Annotations
		if a.Code {
			s = "`" + s + "`"
		}
		if a.Bold {
			s = "**" + s + "**"
		}
		if a.Italic {
			s = "_" + s + "_"
		}
		if a.Strikethrough {
			s = "~~" + s + "~~"
		}
		if p.Href != nil && *p.Href != "" {
			s = "[" + s + "](" + *p.Href + ")"
		}
		sb.WriteString(s)
	}
	return sb.String()
}
