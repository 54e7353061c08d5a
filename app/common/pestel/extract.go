package pestel

import (
	"strconv"
	"strings"
)

// 单维度报告字段
const (
	fieldExecutiveSummary    = "executive_summary"
	fieldFactorsAnalysis     = "factors_analysis"
	fieldRisksOpportunities  = "risks_opportunities"
	fieldRisks               = "risks"
	fieldOpportunities       = "opportunities"
	fieldRegionalDynamics    = "regional_dynamics"
	fieldScenarioAnalysis    = "scenario_analysis"
	fieldRecommendations     = "recommendations"
	fieldIntroduction        = "introduction"
	fieldPestelAnalysis      = "pestel_analysis"
	fieldImplications        = "strategic_implications"
	fieldMatrix              = "opportunities_threats_matrix"
	fieldMatrixDimensions    = "dimensions"
	fieldStrategicRecommends = "strategic_recommendations"
	fieldConclusion          = "conclusion"
)

// extractIndividual 处理 individual_reports：六个固定键逐一查找，与输入顺序无关
func extractIndividual(r *CanonicalReport, raw any) {
	c := Coerce(raw)
	switch c.Kind {
	case Absent:
		return
	case Opaque:
		keepOpaque(r, c.Text)
		return
	}
	for _, d := range Dimensions {
		v, ok := c.Object[d.ReportKey()]
		if !ok {
			continue
		}
		dc := Coerce(v)
		switch dc.Kind {
		case Absent:
			continue
		case Opaque:
			dr := r.dimension(d)
			if !dr.Opaque.Present {
				dr.Opaque = Text{Present: true, Value: dc.Text}
			}
		case Parsed:
			fillDimension(r.dimension(d), dc.Object)
		}
	}
}

func fillDimension(dr *DimensionReport, obj map[string]any) {
	setText(&dr.ExecutiveSummary, obj[fieldExecutiveSummary])

	if list, ok := items(obj, fieldFactorsAnalysis); ok && !dr.Factors.Present {
		dr.Factors = List[Factor]{Present: true, Items: mapItems(list, factorOf)}
	}

	if v, ok := obj[fieldRisksOpportunities]; ok && v != nil {
		ro := Coerce(v)
		switch ro.Kind {
		case Parsed:
			if list, ok := items(ro.Object, fieldRisks); ok && !dr.Risks.Present {
				dr.Risks = List[Risk]{Present: true, Items: mapItems(list, riskOf)}
			}
			if list, ok := items(ro.Object, fieldOpportunities); ok && !dr.Opportunities.Present {
				dr.Opportunities = List[Opportunity]{Present: true, Items: mapItems(list, opportunityOf)}
			}
		case Opaque:
			if !dr.Risks.Present {
				dr.Risks = List[Risk]{Present: true, Items: []Risk{{Description: ro.Text}}}
			}
		}
	}

	if list, ok := items(obj, fieldRegionalDynamics); ok && !dr.RegionalDynamics.Present {
		dr.RegionalDynamics = List[Region]{Present: true, Items: mapItems(list, regionOf)}
	}
	if list, ok := items(obj, fieldScenarioAnalysis); ok && !dr.Scenarios.Present {
		dr.Scenarios = List[Scenario]{Present: true, Items: mapItems(list, scenarioOf)}
	}
	if list, ok := items(obj, fieldRecommendations); ok && !dr.Recommendations.Present {
		dr.Recommendations = List[Recommendation]{Present: true, Items: mapItems(list, dimensionRecommendationOf)}
	}
}

// extractCross 处理 final_report / report 的跨维度结构，先到者优先
func extractCross(r *CanonicalReport, raw any) {
	c := Coerce(raw)
	switch c.Kind {
	case Absent:
		return
	case Opaque:
		// 生成器偶尔直接返回 Markdown 报告，按旧版文本处理
		if !extractLegacy(r, c.Text) {
			keepOpaque(r, c.Text)
		}
		return
	}
	obj := c.Object

	setText(&r.ExecutiveSummary, obj[fieldExecutiveSummary])
	setText(&r.Introduction, obj[fieldIntroduction])
	setText(&r.Conclusion, obj[fieldConclusion])

	extractCrossLists(r, obj)

	if v, ok := obj[fieldPestelAnalysis]; ok && v != nil {
		pa := Coerce(v)
		switch pa.Kind {
		case Parsed:
			for _, d := range Dimensions {
				fv, ok := pa.Object[d.FactorsKey()]
				if !ok || fv == nil {
					continue
				}
				setText(&r.dimension(d).Synthesis, fv)
			}
			// 部分版本把战略影响和矩阵嵌在 pestel_analysis 之下
			extractCrossLists(r, pa.Object)
		case Opaque:
			if !extractDimensionBlocks(r, pa.Text) {
				keepOpaque(r, pa.Text)
			}
		}
	}
}

func extractCrossLists(r *CanonicalReport, obj map[string]any) {
	if list, ok := items(obj, fieldImplications); ok && !r.StrategicImplications.Present {
		r.StrategicImplications = List[Implication]{Present: true, Items: mapItems(list, implicationOf)}
	}

	if v, ok := obj[fieldMatrix]; ok && v != nil && !r.OpportunitiesThreatsMatrix.Present {
		extractMatrix(r, v)
	}

	if list, ok := items(obj, fieldStrategicRecommends); ok && !r.StrategicRecommendations.Present {
		r.StrategicRecommendations = List[Recommendation]{Present: true, Items: mapItems(list, strategicRecommendationOf)}
	}
}

func extractMatrix(r *CanonicalReport, v any) {
	if list, ok := coerceList(v); ok {
		r.OpportunitiesThreatsMatrix = List[MatrixRow]{Present: true, Items: mapItems(list, matrixRowOf)}
		return
	}
	m := Coerce(v)
	switch m.Kind {
	case Parsed:
		if list, ok := items(m.Object, fieldMatrixDimensions); ok {
			r.OpportunitiesThreatsMatrix = List[MatrixRow]{Present: true, Items: mapItems(list, matrixRowOf)}
		}
	case Opaque:
		if rows, ok := parseMatrixTable(m.Text); ok {
			r.OpportunitiesThreatsMatrix = List[MatrixRow]{Present: true, Items: rows}
		} else if !r.MatrixText.Present {
			r.MatrixText = someText(strings.TrimSpace(m.Text))
		}
	}
}

func extractNews(r *CanonicalReport, raw any) {
	c := Coerce(raw)
	if c.Kind != Parsed {
		return
	}
	for _, d := range Dimensions {
		if list, ok := items(c.Object, d.NewsKey()); ok && !r.News[d].Present {
			r.News[d] = List[NewsItem]{Present: true, Items: mapItems(list, newsItemOf)}
		}
	}
}

func keepOpaque(r *CanonicalReport, text string) {
	if !r.Opaque.Present {
		r.Opaque = Text{Present: true, Value: text}
	}
}

func setText(dst *Text, v any) {
	if dst.Present {
		return
	}
	if s, ok := textOf(v); ok {
		*dst = someText(s)
	}
}

// items 取列表字段：缺失或 null 返回 false；数组（含 JSON 字符串形式）逐项返回；
// 单个对象或无法解析的文本作为唯一条目保留
func items(obj map[string]any, key string) ([]any, bool) {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil, false
	}
	if list, ok := coerceList(v); ok {
		return list, true
	}
	return []any{v}, true
}

func mapItems[T any](list []any, fn func(map[string]any, string) T) []T {
	out := make([]T, 0, len(list))
	for _, item := range list {
		if item == nil {
			continue
		}
		c := Coerce(item)
		switch c.Kind {
		case Parsed:
			out = append(out, fn(c.Object, ""))
		case Opaque:
			out = append(out, fn(nil, strings.TrimSpace(c.Text)))
		}
	}
	return out
}

func str(m map[string]any, key string) string {
	s, _ := textOf(m[key])
	return s
}

func factorOf(m map[string]any, text string) Factor {
	if m == nil {
		return Factor{Analysis: text}
	}
	indicators, _ := stringsOf(m["key_indicators"])
	return Factor{
		Name:          str(m, "factor_name"),
		Analysis:      str(m, "analysis"),
		KeyIndicators: indicators,
	}
}

func riskOf(m map[string]any, text string) Risk {
	if m == nil {
		return Risk{Description: text}
	}
	level := str(m, "impact_level")
	return Risk{
		Title:       str(m, "risk_title"),
		Description: str(m, "description"),
		ImpactLevel: level,
		Severity:    ParseSeverity(level),
	}
}

func opportunityOf(m map[string]any, text string) Opportunity {
	if m == nil {
		return Opportunity{Description: text}
	}
	benefit := str(m, "potential_benefit")
	return Opportunity{
		Title:            str(m, "opportunity_title"),
		Description:      str(m, "description"),
		PotentialBenefit: benefit,
		Severity:         ParseSeverity(benefit),
	}
}

func regionOf(m map[string]any, text string) Region {
	if m == nil {
		return Region{Analysis: text}
	}
	return Region{Region: str(m, "region"), Analysis: str(m, "analysis")}
}

func scenarioOf(m map[string]any, text string) Scenario {
	if m == nil {
		return Scenario{Outcome: text}
	}
	probability := str(m, "probability")
	return Scenario{
		Name:        str(m, "scenario_name"),
		Drivers:     str(m, "drivers"),
		Outcome:     str(m, "outcome"),
		Probability: probability,
		Severity:    ParseSeverity(probability),
	}
}

func dimensionRecommendationOf(m map[string]any, text string) Recommendation {
	if m == nil {
		return Recommendation{Description: text}
	}
	steps, _ := stringsOf(m["implementation_steps"])
	priority := str(m, "priority")
	return Recommendation{
		Title:               str(m, "recommendation_title"),
		Description:         str(m, "description"),
		ImplementationSteps: steps,
		Priority:            priority,
		Severity:            ParseSeverity(priority),
	}
}

func strategicRecommendationOf(m map[string]any, text string) Recommendation {
	if m == nil {
		return Recommendation{Description: text}
	}
	priority := str(m, "implementation_priority")
	return Recommendation{
		Number:            intOf(m["recommendation_number"]),
		Description:       str(m, "recommendation"),
		RelatedDimensions: dimensionNames(m["related_dimensions"]),
		Priority:          priority,
		Severity:          ParseSeverity(priority),
	}
}

func implicationOf(m map[string]any, text string) Implication {
	if m == nil {
		return Implication{Analysis: text}
	}
	return Implication{
		Title:              str(m, "implication_title"),
		Analysis:           str(m, "analysis"),
		AffectedDimensions: dimensionNames(m["affected_dimensions"]),
	}
}

func matrixRowOf(m map[string]any, text string) MatrixRow {
	if m == nil {
		return MatrixRow{Dimension: text}
	}
	return MatrixRow{
		Dimension:     canonicalLabel(str(m, "dimension")),
		Opportunities: cellItems(m["opportunities"]),
		Threats:       cellItems(m["threats"]),
	}
}

func newsItemOf(m map[string]any, text string) NewsItem {
	if m == nil {
		return NewsItem{Title: text}
	}
	return NewsItem{Title: str(m, "title"), URL: str(m, "url")}
}

// cellItems 矩阵单元格既可能是数组，也可能是需要拆分的单个字符串
func cellItems(v any) []string {
	if s, ok := v.(string); ok {
		if list, isList := coerceList(s); isList {
			v = list
		} else {
			return splitCell(s)
		}
	}
	out, _ := stringsOf(v)
	if out == nil {
		out = []string{}
	}
	return out
}

// dimensionNames 将维度名规范为 PESTEL 标准写法，无法识别的保留原文
func dimensionNames(v any) []string {
	var raw []string
	if s, ok := v.(string); ok {
		if list, isList := coerceList(s); isList {
			raw, _ = stringsOf(list)
		} else {
			raw = strings.Split(s, ",")
		}
	} else {
		raw, _ = stringsOf(v)
	}
	out := make([]string, 0, len(raw))
	for _, label := range raw {
		if label = canonicalLabel(label); label != "" {
			out = append(out, label)
		}
	}
	return out
}

func canonicalLabel(s string) string {
	s = strings.TrimSpace(s)
	if d, ok := ParseDimension(s); ok {
		return d.String()
	}
	return s
}

func intOf(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err == nil {
			return n
		}
	}
	return 0
}
