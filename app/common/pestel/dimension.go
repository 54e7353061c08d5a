package pestel

import (
	"encoding/json"
	"strings"
)

// Dimension PESTEL 六个分析维度之一，数值即固定的展示顺序
type Dimension int

const (
	Political Dimension = iota
	Economic
	Social
	Technological
	Environmental
	Legal

	// DimensionCount 维度总数
	DimensionCount = 6
)

// Dimensions 按 PESTEL 顺序排列的全部维度
var Dimensions = [DimensionCount]Dimension{Political, Economic, Social, Technological, Environmental, Legal}

var dimensionLabels = [DimensionCount]string{"Political", "Economic", "Social", "Technological", "Environmental", "Legal"}

// String 返回维度的展示名称，例如 "Political"
func (d Dimension) String() string {
	if d < 0 || int(d) >= DimensionCount {
		return "Unknown"
	}
	return dimensionLabels[d]
}

// Key 返回载荷中使用的小写键名，例如 "political"
func (d Dimension) Key() string {
	return strings.ToLower(d.String())
}

// ReportKey individual_reports 下的键名
func (d Dimension) ReportKey() string { return d.Key() + "_report" }

// FactorsKey pestel_analysis 与表单中的键名
func (d Dimension) FactorsKey() string { return d.Key() + "_factors" }

// NewsKey news 下的键名
func (d Dimension) NewsKey() string { return d.Key() + "_news" }

// ParseDimension 大小写不敏感地解析维度名，兼容 "Political Factors"、"political_report" 等写法
func ParseDimension(s string) (Dimension, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, "_report")
	s = strings.TrimSuffix(s, "_factors")
	s = strings.TrimSuffix(s, " factors")
	s = strings.TrimSuffix(s, " analysis")
	s = strings.TrimSpace(s)
	for _, d := range Dimensions {
		if s == d.Key() {
			return d, true
		}
	}
	return 0, false
}

func (d Dimension) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d Dimension) MarshalYAML() (interface{}, error) { return d.String(), nil }

// Severity 优先级/影响程度的规范分档，仅用于展示强调
type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityCritical
	SeverityHigh
	SeverityMedium
	SeverityLow
	SeverityLongTerm
)

var severityNames = map[Severity]string{
	SeverityUnknown:  "Unknown",
	SeverityCritical: "Critical",
	SeverityHigh:     "High",
	SeverityMedium:   "Medium",
	SeverityLow:      "Low",
	SeverityLongTerm: "LongTerm",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return severityNames[SeverityUnknown]
}

func (s Severity) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s Severity) MarshalYAML() (interface{}, error) { return s.String(), nil }

// ParseSeverity 将自由文本的优先级标签映射到六个分档之一，对任意输入都有定义
func ParseSeverity(label string) Severity {
	p := strings.ToLower(strings.TrimSpace(label))
	switch {
	case strings.Contains(p, "immediate") || strings.Contains(p, "critical"):
		return SeverityCritical
	case p == "high" || p == "transformative":
		return SeverityHigh
	case p == "medium":
		return SeverityMedium
	case p == "low":
		return SeverityLow
	case strings.Contains(p, "long-term"):
		return SeverityLongTerm
	default:
		return SeverityUnknown
	}
}

// SeverityOf 对未经校验的载荷值取分档，nil 与非文本值归为 Unknown
func SeverityOf(v any) Severity {
	s, ok := v.(string)
	if !ok {
		return SeverityUnknown
	}
	return ParseSeverity(s)
}
