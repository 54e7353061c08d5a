package pestel

import (
	"regexp"
	"strings"
)

// BlockKind Markdown-lite 块类型
type BlockKind string

const (
	BlockHeading      BlockKind = "heading"
	BlockBulletList   BlockKind = "bullet_list"
	BlockNumberedList BlockKind = "numbered_list"
	BlockParagraph    BlockKind = "paragraph"
)

// Block 渲染结果中的一个块。标题使用 Level 与 Text，列表使用 Items，段落使用 Text。
type Block struct {
	Kind  BlockKind `json:"kind" yaml:"kind"`
	Level int       `json:"level,omitempty" yaml:"level,omitempty"`
	Text  string    `json:"text,omitempty" yaml:"text,omitempty"`
	Items []string  `json:"items,omitempty" yaml:"items,omitempty"`
}

var (
	boldRe     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	numberedRe = regexp.MustCompile(`^\d+\.\s+`)
)

func stripBold(s string) string {
	return boldRe.ReplaceAllString(s, "$1")
}

// Render 将报告文本转换为块序列。只识别 "## "/"### " 标题、"- "/"* " 无序列表、
// "1. " 有序列表和 **粗体**，其余一律视为段落。
func Render(text string) []Block {
	var blocks []Block
	for _, chunk := range splitChunks(text) {
		blocks = append(blocks, renderChunk(chunk)...)
	}
	return blocks
}

// splitChunks 以空行切分
func splitChunks(text string) [][]string {
	var (
		chunks [][]string
		cur    []string
	)
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			if len(cur) > 0 {
				chunks = append(chunks, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		chunks = append(chunks, cur)
	}
	return chunks
}

func renderChunk(lines []string) []Block {
	var (
		out   []Block
		cur   *Block
		paras []string
	)
	flush := func() {
		if cur == nil {
			return
		}
		if cur.Kind == BlockParagraph {
			cur.Text = stripBold(strings.Join(paras, "\n"))
			paras = nil
		}
		out = append(out, *cur)
		cur = nil
	}
	list := func(kind BlockKind, item string) {
		if cur == nil || cur.Kind != kind {
			flush()
			cur = &Block{Kind: kind}
		}
		cur.Items = append(cur.Items, stripBold(strings.TrimSpace(item)))
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "### "):
			flush()
			out = append(out, Block{Kind: BlockHeading, Level: 3, Text: stripBold(strings.TrimSpace(trimmed[4:]))})
		case strings.HasPrefix(trimmed, "## "):
			flush()
			out = append(out, Block{Kind: BlockHeading, Level: 2, Text: stripBold(strings.TrimSpace(trimmed[3:]))})
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			list(BlockBulletList, trimmed[2:])
		case numberedRe.MatchString(trimmed):
			list(BlockNumberedList, numberedRe.ReplaceAllString(trimmed, ""))
		default:
			// 列表项的续行并入上一项
			if cur != nil && cur.Kind != BlockParagraph && len(cur.Items) > 0 {
				last := len(cur.Items) - 1
				cur.Items[last] = cur.Items[last] + " " + stripBold(trimmed)
				continue
			}
			if cur == nil || cur.Kind != BlockParagraph {
				flush()
				cur = &Block{Kind: BlockParagraph}
			}
			paras = append(paras, trimmed)
		}
	}
	flush()
	return out
}
