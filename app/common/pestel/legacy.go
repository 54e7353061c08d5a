package pestel

import (
	"regexp"
	"strings"
)

type legacySection int

const (
	legacySummary legacySection = iota
	legacyIntroduction
	legacyPestel
	legacyImplications
	legacyMatrix
	legacyRecommendations
	legacyConclusion
)

var legacyTitles = map[string]legacySection{
	"executive summary":                legacySummary,
	"introduction":                     legacyIntroduction,
	"pestel analysis":                  legacyPestel,
	"strategic implications":           legacyImplications,
	"opportunities and threats matrix": legacyMatrix,
	"opportunities and threats":        legacyMatrix,
	"strategic recommendations":        legacyRecommendations,
	"conclusion":                       legacyConclusion,
}

var (
	headingNumberRe = regexp.MustCompile(`^\d+[.)]\s*`)
	spacesRe        = regexp.MustCompile(`\s+`)
	cellNumberRe    = regexp.MustCompile(`(?:^|\s)\d{1,2}[.)]\s+`)
	separatorCellRe = regexp.MustCompile(`^:?-{2,}:?$`)
)

type headingBlock struct {
	title string
	body  string
}

// splitHeadings 以行首 marker（"## " 或 "### "）切分文本，第一个标题之前的内容忽略
func splitHeadings(text, marker string) []headingBlock {
	var (
		out  []headingBlock
		cur  *headingBlock
		body []string
	)
	flush := func() {
		if cur != nil {
			cur.body = strings.TrimSpace(strings.Join(body, "\n"))
			out = append(out, *cur)
		}
		body = body[:0]
	}
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, marker) {
			flush()
			cur = &headingBlock{title: strings.TrimSpace(strings.TrimPrefix(trimmed, marker))}
			continue
		}
		if cur != nil {
			body = append(body, line)
		}
	}
	flush()
	return out
}

// normalizeHeading 标题归一：小写、去粗体与序号、& 视为 and、合并空白、去掉结尾冒号
func normalizeHeading(title string) string {
	t := strings.ReplaceAll(title, "**", "")
	t = strings.TrimSpace(t)
	t = headingNumberRe.ReplaceAllString(t, "")
	t = strings.ToLower(t)
	t = strings.ReplaceAll(t, "&", " and ")
	t = spacesRe.ReplaceAllString(t, " ")
	return strings.TrimSuffix(strings.TrimSpace(t), ":")
}

// extractLegacy 按 "## " 标题切分旧版 Markdown 报告，返回是否识别到任何已知段落
func extractLegacy(r *CanonicalReport, text string) bool {
	found := false
	for _, sec := range splitHeadings(text, "## ") {
		kind, ok := legacyTitles[normalizeHeading(sec.title)]
		if !ok {
			continue
		}
		found = true
		switch kind {
		case legacySummary:
			setText(&r.ExecutiveSummary, sec.body)
		case legacyIntroduction:
			setText(&r.Introduction, sec.body)
		case legacyConclusion:
			setText(&r.Conclusion, sec.body)
		case legacyPestel:
			if !extractDimensionBlocks(r, sec.body) && sec.body != "" {
				keepOpaque(r, sec.body)
			}
		case legacyImplications:
			if !r.StrategicImplications.Present {
				r.StrategicImplications = List[Implication]{Present: true, Items: legacyImplicationsOf(sec.body)}
			}
		case legacyMatrix:
			if r.OpportunitiesThreatsMatrix.Present {
				continue
			}
			if rows, ok := parseMatrixTable(sec.body); ok {
				r.OpportunitiesThreatsMatrix = List[MatrixRow]{Present: true, Items: rows}
			} else {
				setText(&r.MatrixText, sec.body)
			}
		case legacyRecommendations:
			if !r.StrategicRecommendations.Present {
				r.StrategicRecommendations = List[Recommendation]{Present: true, Items: legacyRecommendationsOf(sec.body)}
			}
		}
	}
	return found
}

// extractDimensionBlocks 解析 "### Political Factors" 形式的维度小节
func extractDimensionBlocks(r *CanonicalReport, text string) bool {
	found := false
	for _, sec := range splitHeadings(text, "### ") {
		d, ok := ParseDimension(normalizeHeading(sec.title))
		if !ok {
			continue
		}
		found = true
		setText(&r.dimension(d).Synthesis, sec.body)
	}
	return found
}

func legacyImplicationsOf(body string) []Implication {
	subs := splitHeadings(body, "### ")
	if len(subs) == 0 {
		if body == "" {
			return []Implication{}
		}
		return []Implication{{Analysis: body, AffectedDimensions: []string{}}}
	}
	out := make([]Implication, 0, len(subs))
	for _, sub := range subs {
		out = append(out, Implication{
			Title:              stripBold(sub.title),
			Analysis:           sub.body,
			AffectedDimensions: []string{},
		})
	}
	return out
}

func legacyRecommendationsOf(body string) []Recommendation {
	var out []Recommendation
	for _, b := range Render(body) {
		switch b.Kind {
		case BlockNumberedList, BlockBulletList:
			for _, item := range b.Items {
				rec := Recommendation{Description: item}
				if b.Kind == BlockNumberedList {
					rec.Number = len(out) + 1
				}
				out = append(out, rec)
			}
		}
	}
	if len(out) == 0 && body != "" {
		out = append(out, Recommendation{Description: body})
	}
	if out == nil {
		out = []Recommendation{}
	}
	return out
}

// parseMatrixTable 解析以 | 分隔的表格（Dimension / Opportunities / Threats），
// 找不到表格或没有数据行时返回 false，由调用方退回纯文本
func parseMatrixTable(text string) ([]MatrixRow, bool) {
	var rows [][]string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "|") {
			continue
		}
		line = strings.TrimSuffix(strings.TrimPrefix(line, "|"), "|")
		cells := strings.Split(line, "|")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return nil, false
	}

	dimIdx, oppIdx, thrIdx := 0, 1, 2
	start := 0
	if d, o, t, ok := matrixHeader(rows[0]); ok {
		dimIdx, oppIdx, thrIdx = d, o, t
		start = 1
	} else if len(rows) > 1 && isSeparatorRow(rows[1]) {
		start = 1
	}
	width := max(dimIdx, oppIdx, thrIdx) + 1

	var out []MatrixRow
	for _, cells := range rows[start:] {
		if isSeparatorRow(cells) || len(cells) < width {
			continue
		}
		out = append(out, MatrixRow{
			Dimension:     canonicalLabel(stripBold(cells[dimIdx])),
			Opportunities: splitCell(cells[oppIdx]),
			Threats:       splitCell(cells[thrIdx]),
		})
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func matrixHeader(cells []string) (dim, opp, thr int, ok bool) {
	dim, opp, thr = -1, -1, -1
	for i, c := range cells {
		c = strings.ToLower(c)
		switch {
		case strings.Contains(c, "opportunit"):
			opp = i
		case strings.Contains(c, "threat"):
			thr = i
		case strings.Contains(c, "dimension") || strings.Contains(c, "factor"):
			dim = i
		}
	}
	return dim, opp, thr, dim >= 0 && opp >= 0 && thr >= 0
}

func isSeparatorRow(cells []string) bool {
	for _, c := range cells {
		if !separatorCellRe.MatchString(c) {
			return false
		}
	}
	return len(cells) > 0
}

// splitCell 按 ";"、<br> 或内嵌的 "1. " 序号拆分单元格，保持原有顺序
func splitCell(cell string) []string {
	for _, br := range []string{"<br />", "<br/>", "<br>"} {
		cell = strings.ReplaceAll(cell, br, ";")
	}
	out := []string{}
	for _, part := range strings.Split(cell, ";") {
		for _, item := range cellNumberRe.Split(part, -1) {
			item = strings.TrimSpace(stripBold(item))
			item = strings.TrimSpace(strings.TrimLeft(item, "-•*"))
			if item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}
