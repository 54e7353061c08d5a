package pestel

// Text 可选文本段落，Present 与内容是否为空相互独立
type Text struct {
	Present bool   `json:"present" yaml:"present"`
	Value   string `json:"value,omitempty" yaml:"value,omitempty"`
}

func someText(s string) Text { return Text{Present: true, Value: s} }

// List 可选列表段落：Present=false 表示载荷中没有该字段，Present=true 且 Items 为空表示字段存在但为空
type List[T any] struct {
	Present bool `json:"present" yaml:"present"`
	Items   []T  `json:"items" yaml:"items"`
}

// Len 返回条目数
func (l List[T]) Len() int { return len(l.Items) }

// Empty 字段存在但没有条目
func (l List[T]) Empty() bool { return l.Present && len(l.Items) == 0 }

// Factor 单个因素分析
type Factor struct {
	Name          string   `json:"name" yaml:"name"`
	Analysis      string   `json:"analysis" yaml:"analysis"`
	KeyIndicators []string `json:"key_indicators" yaml:"key_indicators"`
}

// Risk 风险条目
type Risk struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	ImpactLevel string   `json:"impact_level" yaml:"impact_level"`
	Severity    Severity `json:"severity" yaml:"severity"`
}

// Opportunity 机遇条目
type Opportunity struct {
	Title            string   `json:"title" yaml:"title"`
	Description      string   `json:"description" yaml:"description"`
	PotentialBenefit string   `json:"potential_benefit" yaml:"potential_benefit"`
	Severity         Severity `json:"severity" yaml:"severity"`
}

// Region 区域动态
type Region struct {
	Region   string `json:"region" yaml:"region"`
	Analysis string `json:"analysis" yaml:"analysis"`
}

// Scenario 情景分析
type Scenario struct {
	Name        string   `json:"name" yaml:"name"`
	Drivers     string   `json:"drivers" yaml:"drivers"`
	Outcome     string   `json:"outcome" yaml:"outcome"`
	Probability string   `json:"probability" yaml:"probability"`
	Severity    Severity `json:"severity" yaml:"severity"`
}

// Recommendation 建议条目，同时承载单维度建议和跨维度战略建议
type Recommendation struct {
	Number              int      `json:"number,omitempty" yaml:"number,omitempty"`
	Title               string   `json:"title,omitempty" yaml:"title,omitempty"`
	Description         string   `json:"description" yaml:"description"`
	ImplementationSteps []string `json:"implementation_steps,omitempty" yaml:"implementation_steps,omitempty"`
	RelatedDimensions   []string `json:"related_dimensions,omitempty" yaml:"related_dimensions,omitempty"`
	Priority            string   `json:"priority" yaml:"priority"`
	Severity            Severity `json:"severity" yaml:"severity"`
}

// Implication 跨维度战略影响
type Implication struct {
	Title              string   `json:"title" yaml:"title"`
	Analysis           string   `json:"analysis" yaml:"analysis"`
	AffectedDimensions []string `json:"affected_dimensions" yaml:"affected_dimensions"`
}

// MatrixRow 机遇与威胁矩阵中的一行
type MatrixRow struct {
	Dimension     string   `json:"dimension" yaml:"dimension"`
	Opportunities []string `json:"opportunities" yaml:"opportunities"`
	Threats       []string `json:"threats" yaml:"threats"`
}

// NewsItem 生成报告时引用的新闻来源
type NewsItem struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
}

// DimensionReport 单个维度的规范化报告
type DimensionReport struct {
	Dimension Dimension `json:"dimension" yaml:"dimension"`
	// ExecutiveSummary 来自 individual_reports 的维度摘要
	ExecutiveSummary Text `json:"executive_summary" yaml:"executive_summary"`
	// Synthesis 来自 pestel_analysis.{dimension}_factors 的综合文本
	Synthesis Text `json:"synthesis" yaml:"synthesis"`
	// Opaque 维度载荷无法解析时保留的原文
	Opaque           Text                 `json:"opaque" yaml:"opaque"`
	Factors          List[Factor]         `json:"factors" yaml:"factors"`
	Risks            List[Risk]           `json:"risks" yaml:"risks"`
	Opportunities    List[Opportunity]    `json:"opportunities" yaml:"opportunities"`
	RegionalDynamics List[Region]         `json:"regional_dynamics" yaml:"regional_dynamics"`
	Scenarios        List[Scenario]       `json:"scenarios" yaml:"scenarios"`
	Recommendations  List[Recommendation] `json:"recommendations" yaml:"recommendations"`
}

// Summary 优先返回维度摘要，没有时退回综合文本
func (d *DimensionReport) Summary() Text {
	if d.ExecutiveSummary.Present {
		return d.ExecutiveSummary
	}
	if d.Synthesis.Present {
		return d.Synthesis
	}
	return d.Opaque
}

// CanonicalReport 所有载荷形态归一后的报告。Dimensions 以维度为下标，nil 表示该维度缺失。
type CanonicalReport struct {
	Shape                      Shape                            `json:"shape" yaml:"shape"`
	ExecutiveSummary           Text                             `json:"executive_summary" yaml:"executive_summary"`
	Introduction               Text                             `json:"introduction" yaml:"introduction"`
	Dimensions                 [DimensionCount]*DimensionReport `json:"dimensions" yaml:"dimensions"`
	StrategicImplications      List[Implication]                `json:"strategic_implications" yaml:"strategic_implications"`
	OpportunitiesThreatsMatrix List[MatrixRow]                  `json:"opportunities_threats_matrix" yaml:"opportunities_threats_matrix"`
	// MatrixText 旧版文本中矩阵无法按表格解析时保留的原文
	MatrixText               Text                         `json:"matrix_text" yaml:"matrix_text"`
	StrategicRecommendations List[Recommendation]         `json:"strategic_recommendations" yaml:"strategic_recommendations"`
	Conclusion               Text                         `json:"conclusion" yaml:"conclusion"`
	News                     [DimensionCount]List[NewsItem] `json:"news" yaml:"news"`
	// Opaque 整份报告无法解析且不含已知标题时保留的原文
	Opaque Text `json:"opaque" yaml:"opaque"`
}

// Dimension 返回某维度的报告，缺失时为 nil
func (r *CanonicalReport) Dimension(d Dimension) *DimensionReport {
	if d < 0 || int(d) >= DimensionCount {
		return nil
	}
	return r.Dimensions[d]
}

// PresentDimensions 按 PESTEL 顺序返回存在的维度报告
func (r *CanonicalReport) PresentDimensions() []*DimensionReport {
	out := make([]*DimensionReport, 0, DimensionCount)
	for _, d := range Dimensions {
		if r.Dimensions[d] != nil {
			out = append(out, r.Dimensions[d])
		}
	}
	return out
}

// dimension 取得或创建某维度的报告
func (r *CanonicalReport) dimension(d Dimension) *DimensionReport {
	if r.Dimensions[d] == nil {
		r.Dimensions[d] = &DimensionReport{Dimension: d}
	}
	return r.Dimensions[d]
}

// Empty 所有段落均缺失
func (r *CanonicalReport) Empty() bool {
	for _, s := range r.Sections() {
		if s.Present {
			return false
		}
	}
	return true
}

// SectionKey 展示段落的标识
type SectionKey string

const (
	SectionExecutiveSummary         SectionKey = "executive_summary"
	SectionIntroduction             SectionKey = "introduction"
	SectionStrategicImplications    SectionKey = "strategic_implications"
	SectionOpportunitiesThreats     SectionKey = "opportunities_threats_matrix"
	SectionStrategicRecommendations SectionKey = "strategic_recommendations"
	SectionConclusion               SectionKey = "conclusion"
	SectionRaw                      SectionKey = "raw"
)

// DimensionSection 维度段落的标识，例如 "pestel_political"
func DimensionSection(d Dimension) SectionKey { return SectionKey("pestel_" + d.Key()) }

// Section 有序段落列表中的一项。Present=false 时展示层应省略该段，
// Present=true 且 Empty=true 时展示"暂无数据"占位。
type Section struct {
	Key     SectionKey `json:"key" yaml:"key"`
	Title   string     `json:"title" yaml:"title"`
	Present bool       `json:"present" yaml:"present"`
	Empty   bool       `json:"empty" yaml:"empty"`
	// Body 文本类段落的正文，供 Markdown-lite 渲染
	Body string `json:"body,omitempty" yaml:"body,omitempty"`
}

func textSection(key SectionKey, title string, t Text) Section {
	return Section{Key: key, Title: title, Present: t.Present, Empty: t.Present && t.Value == "", Body: t.Value}
}

// Sections 按固定顺序返回全部段落：摘要、引言、六个维度、战略影响、矩阵、战略建议、结论
func (r *CanonicalReport) Sections() []Section {
	out := make([]Section, 0, 12)
	out = append(out,
		textSection(SectionExecutiveSummary, "Executive Summary", r.ExecutiveSummary),
		textSection(SectionIntroduction, "Introduction", r.Introduction),
	)
	for _, d := range Dimensions {
		sec := Section{Key: DimensionSection(d), Title: d.String() + " Analysis"}
		if dr := r.Dimensions[d]; dr != nil {
			summary := dr.Summary()
			sec.Present = true
			sec.Body = summary.Value
			sec.Empty = summary.Value == "" && dr.Factors.Len() == 0 && dr.Risks.Len() == 0 &&
				dr.Opportunities.Len() == 0 && dr.RegionalDynamics.Len() == 0 &&
				dr.Scenarios.Len() == 0 && dr.Recommendations.Len() == 0
		}
		out = append(out, sec)
	}
	out = append(out,
		Section{
			Key:     SectionStrategicImplications,
			Title:   "Strategic Implications",
			Present: r.StrategicImplications.Present,
			Empty:   r.StrategicImplications.Empty(),
		},
		Section{
			Key:     SectionOpportunitiesThreats,
			Title:   "Opportunities & Threats Matrix",
			Present: r.OpportunitiesThreatsMatrix.Present || r.MatrixText.Present,
			Empty:   r.OpportunitiesThreatsMatrix.Len() == 0 && r.MatrixText.Value == "",
			Body:    r.MatrixText.Value,
		},
		Section{
			Key:     SectionStrategicRecommendations,
			Title:   "Strategic Recommendations",
			Present: r.StrategicRecommendations.Present,
			Empty:   r.StrategicRecommendations.Empty(),
		},
		textSection(SectionConclusion, "Conclusion", r.Conclusion),
	)
	if r.Opaque.Present {
		out = append(out, textSection(SectionRaw, "Report", r.Opaque))
	}
	return out
}
