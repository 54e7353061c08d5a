package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/iWorld-y/pestel_radar/app/common/pestel"
)

// Article 检索到的文章，Content 仅用于 LLM 分析
type Article struct {
	Title   string
	Link    string
	Source  string
	PubDate string
	Content string
}

// NewsItem 报告中引用的新闻来源
type NewsItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// 表单中的时间范围选项
const (
	TimeFrameShort = "Short-term (1-2 years)"
	TimeFrameLong  = "Long-term (5+ years)"
)

// PoliticalFactorKeys 政治维度表单中固定的勾选项
var PoliticalFactorKeys = []string{
	"government_policies",
	"political_stability",
	"tax_regulations",
	"industry_regulations",
	"global_trade_agreements",
}

// FactorSelection 单个维度的勾选项与备注。
// JSON 形式为扁平对象：{"government_policies": true, ..., "notes": ""}
type FactorSelection struct {
	Factors map[string]bool
	Notes   string
}

// DefaultPoliticalFactors 政治维度的默认表单：全部未勾选
func DefaultPoliticalFactors() *FactorSelection {
	f := &FactorSelection{Factors: make(map[string]bool, len(PoliticalFactorKeys))}
	for _, k := range PoliticalFactorKeys {
		f.Factors[k] = false
	}
	return f
}

// Selected 返回已勾选的因素，按键名排序
func (f *FactorSelection) Selected() []string {
	if f == nil {
		return nil
	}
	var out []string
	for k, v := range f.Factors {
		if v {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func (f FactorSelection) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(f.Factors)+1)
	for k, v := range f.Factors {
		m[k] = v
	}
	m["notes"] = f.Notes
	return json.Marshal(m)
}

// UnmarshalJSON 兼容 true/false 以及 "true"/"false" 两种写法
func (f *FactorSelection) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	f.Factors = make(map[string]bool, len(raw))
	f.Notes = ""
	for k, v := range raw {
		if k == "notes" {
			s, _ := v.(string)
			f.Notes = s
			continue
		}
		switch t := v.(type) {
		case bool:
			f.Factors[k] = t
		case string:
			on, err := strconv.ParseBool(strings.TrimSpace(t))
			if err != nil {
				return fmt.Errorf("factor %s: invalid value %q", k, t)
			}
			f.Factors[k] = on
		case nil:
			f.Factors[k] = false
		default:
			return fmt.Errorf("factor %s: unsupported type %T", k, v)
		}
	}
	return nil
}

// Form PESTEL 分析表单，是报告生成器的输入
type Form struct {
	Email                string           `json:"email,omitempty"`
	BusinessName         string           `json:"business_name"`
	Industry             string           `json:"industry"`
	GeographicalFocus    string           `json:"geographical_focus"`
	TargetMarket         string           `json:"target_market"`
	Competitors          string           `json:"competitors"`
	TimeFrame            string           `json:"time_frame"`
	PoliticalFactors     *FactorSelection `json:"political_factors,omitempty"`
	EconomicFactors      *FactorSelection `json:"economic_factors,omitempty"`
	SocialFactors        *FactorSelection `json:"social_factors,omitempty"`
	TechnologicalFactors *FactorSelection `json:"technological_factors,omitempty"`
	EnvironmentalFactors *FactorSelection `json:"environmental_factors,omitempty"`
	LegalFactors         *FactorSelection `json:"legal_factors,omitempty"`
	AdditionalNotes      string           `json:"additional_notes,omitempty"`
}

// Factors 返回某维度的勾选项，未填写时为 nil
func (f *Form) Factors(d pestel.Dimension) *FactorSelection {
	switch d {
	case pestel.Political:
		return f.PoliticalFactors
	case pestel.Economic:
		return f.EconomicFactors
	case pestel.Social:
		return f.SocialFactors
	case pestel.Technological:
		return f.TechnologicalFactors
	case pestel.Environmental:
		return f.EnvironmentalFactors
	case pestel.Legal:
		return f.LegalFactors
	}
	return nil
}

// Submission 转换为外部生成服务接受的表单：去掉邮箱，勾选项写成 "true"/"false" 字符串
func (f *Form) Submission() map[string]any {
	out := map[string]any{
		"business_name":      f.BusinessName,
		"industry":           f.Industry,
		"geographical_focus": f.GeographicalFocus,
		"target_market":      f.TargetMarket,
		"competitors":        f.Competitors,
		"time_frame":         f.TimeFrame,
	}
	if f.AdditionalNotes != "" {
		out["additional_notes"] = f.AdditionalNotes
	}
	for _, d := range pestel.Dimensions {
		sel := f.Factors(d)
		if sel == nil {
			continue
		}
		m := make(map[string]any, len(sel.Factors)+1)
		for k, v := range sel.Factors {
			m[k] = strconv.FormatBool(v)
		}
		m["notes"] = sel.Notes
		out[d.FactorsKey()] = m
	}
	return out
}

// Describe 生成用于提示词的表单描述
func (f *Form) Describe() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "Business: %s\n", f.BusinessName)
	fmt.Fprintf(&b, "Industry: %s\n", f.Industry)
	fmt.Fprintf(&b, "Geographical focus: %s\n", f.GeographicalFocus)
	fmt.Fprintf(&b, "Target market: %s\n", f.TargetMarket)
	if f.Competitors != "" {
		fmt.Fprintf(&b, "Competitors: %s\n", f.Competitors)
	}
	fmt.Fprintf(&b, "Time frame: %s\n", f.TimeFrame)
	return b.String()
}

// FactorTitle 将 "tax_regulations" 转为 "Tax Regulations"
func FactorTitle(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
