package pestel

import (
	"encoding/json"
	"strings"
)

// Shape 报告载荷的历史形态，按位组合：同一载荷可能同时含有多种形态
type Shape uint8

const (
	ShapeFinal Shape = 1 << iota
	ShapeUnified
	ShapeIndividualReports
	ShapeLegacyText

	// ShapeUnknown 不匹配任何已知形态
	ShapeUnknown Shape = 0
)

var shapeNames = []struct {
	shape Shape
	name  string
}{
	{ShapeFinal, "final"},
	{ShapeUnified, "unified"},
	{ShapeIndividualReports, "individual_reports"},
	{ShapeLegacyText, "legacy_text"},
}

// Has 是否包含某种形态
func (s Shape) Has(x Shape) bool { return s&x != 0 }

// Compound 是否同时包含多种形态
func (s Shape) Compound() bool { return s != 0 && s&(s-1) != 0 }

func (s Shape) String() string {
	if s == ShapeUnknown {
		return "unknown"
	}
	var parts []string
	for _, n := range shapeNames {
		if s.Has(n.shape) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "+")
}

func (s Shape) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s Shape) MarshalYAML() (interface{}, error) { return s.String(), nil }

const (
	keyFinalReport       = "final_report"
	keyReport            = "report"
	keyIndividualReports = "individual_reports"
	keyNews              = "news"
	keyMessage           = "message"
)

// Classified 形态分类结果，保存各形态对应的原始字段，供提取阶段分别处理
type Classified struct {
	Shape      Shape
	Final      any
	Unified    any
	Individual any
	News       any
	Legacy     string
}

// Classify 仅依据顶层键是否存在（且非 null）判定形态，不做启发式打分。
// 裸字符串只有在没有任何结构化键时才视为旧版文本。
func Classify(payload any) Classified {
	var c Classified
	switch t := payload.(type) {
	case string:
		if strings.TrimSpace(t) != "" {
			c.Shape = ShapeLegacyText
			c.Legacy = t
		}
	case map[string]any:
		if v, ok := t[keyFinalReport]; ok && v != nil {
			c.Shape |= ShapeFinal
			c.Final = v
		}
		if v, ok := t[keyReport]; ok && v != nil {
			c.Shape |= ShapeUnified
			c.Unified = v
		}
		if v, ok := t[keyIndividualReports]; ok && v != nil {
			c.Shape |= ShapeIndividualReports
			c.Individual = v
		}
		c.News = t[keyNews]
		if c.Shape == ShapeUnknown {
			// 早期聊天式接口把整份报告放在 message 字段中
			if msg, ok := t[keyMessage].(string); ok && strings.TrimSpace(msg) != "" {
				c.Shape = ShapeLegacyText
				c.Legacy = msg
			}
		}
	}
	return c
}
