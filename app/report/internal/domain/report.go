package domain

import (
	"encoding/json"
	"time"

	"github.com/iWorld-y/pestel_radar/app/common/pestel"
	"github.com/iWorld-y/pestel_radar/app/generator/pkg/model"
)

// Analysis 用户提交的 PESTEL 分析表单，Email 即所属用户
type Analysis struct {
	ID int64 `json:"id"`
	model.Form
	CreatedAt time.Time `json:"created_at"`
}

// Report 已保存的原始报告载荷。载荷按原样存储，读取时再归一化
type Report struct {
	ID         int64           `json:"id"`
	AnalysisID int64           `json:"analysis_id"`
	Shape      string          `json:"shape"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ReportSummary 报告列表项
type ReportSummary struct {
	ID           int64     `json:"id"`
	AnalysisID   int64     `json:"analysis_id"`
	BusinessName string    `json:"business_name"`
	Industry     string    `json:"industry"`
	Shape        string    `json:"shape"`
	CreatedAt    time.Time `json:"created_at"`
}

// SectionView 展示段落，文本正文附带 Markdown-lite 块
type SectionView struct {
	pestel.Section
	Blocks []pestel.Block `json:"blocks,omitempty"`
}

// ReportView 报告详情页所需的全部数据
type ReportView struct {
	ID         int64                   `json:"id"`
	AnalysisID int64                   `json:"analysis_id"`
	CreatedAt  time.Time               `json:"created_at"`
	Report     *pestel.CanonicalReport `json:"report"`
	Sections   []SectionView           `json:"sections"`
	Payload    json.RawMessage         `json:"payload"`
}

// NewReportView 归一化载荷并生成有序段落
func NewReportView(r *Report) *ReportView {
	v := &ReportView{
		ID:         r.ID,
		AnalysisID: r.AnalysisID,
		CreatedAt:  r.CreatedAt,
		Payload:    r.Payload,
	}
	canonical, ok := pestel.NormalizeJSON(r.Payload)
	if !ok {
		canonical = &pestel.CanonicalReport{}
	}
	v.Report = canonical
	for _, s := range canonical.Sections() {
		sv := SectionView{Section: s}
		if s.Present && s.Body != "" {
			sv.Blocks = pestel.Render(s.Body)
		}
		v.Sections = append(v.Sections, sv)
	}
	return v
}
