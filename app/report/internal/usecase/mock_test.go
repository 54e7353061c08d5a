package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/pestel_radar/app/generator/pkg/model"
	"github.com/iWorld-y/pestel_radar/app/report/internal/domain"
)

// mockAnalysisRepo 模拟表单仓库
type mockAnalysisRepo struct {
	items map[int64]*domain.Analysis
}

func newMockAnalysisRepo() *mockAnalysisRepo {
	return &mockAnalysisRepo{items: map[int64]*domain.Analysis{}}
}

func (m *mockAnalysisRepo) CreateAnalysis(ctx context.Context, a *domain.Analysis) error {
	a.ID = int64(len(m.items) + 1)
	a.CreatedAt = time.Now()
	m.items[a.ID] = a
	return nil
}

func (m *mockAnalysisRepo) GetAnalysis(ctx context.Context, id int64) (*domain.Analysis, error) {
	a, ok := m.items[id]
	if !ok {
		return nil, errors.NotFound("ANALYSIS_NOT_FOUND", "analysis not found")
	}
	return a, nil
}

func (m *mockAnalysisRepo) ListAnalyses(ctx context.Context, email string) ([]*domain.Analysis, error) {
	var out []*domain.Analysis
	for _, a := range m.items {
		if a.Email == email {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// mockReportRepo 模拟报告仓库
type mockReportRepo struct {
	reports  []*domain.Report
	listArgs []any
}

func (m *mockReportRepo) SaveReport(ctx context.Context, r *domain.Report) error {
	r.ID = int64(len(m.reports) + 1)
	r.CreatedAt = time.Now()
	m.reports = append(m.reports, r)
	return nil
}

func (m *mockReportRepo) GetReport(ctx context.Context, id int64) (*domain.Report, error) {
	for _, r := range m.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, errors.NotFound("REPORT_NOT_FOUND", "report not found")
}

func (m *mockReportRepo) LatestReport(ctx context.Context, analysisID int64) (*domain.Report, error) {
	for i := len(m.reports) - 1; i >= 0; i-- {
		if m.reports[i].AnalysisID == analysisID {
			return m.reports[i], nil
		}
	}
	return nil, errors.NotFound("REPORT_NO_DATA", "no report")
}

func (m *mockReportRepo) ListReports(ctx context.Context, email string, analysisID int64, page, pageSize int) ([]*domain.ReportSummary, int, error) {
	m.listArgs = []any{email, analysisID, page, pageSize}
	var out []*domain.ReportSummary
	for _, r := range m.reports {
		if analysisID == 0 || r.AnalysisID == analysisID {
			out = append(out, &domain.ReportSummary{ID: r.ID, AnalysisID: r.AnalysisID, Shape: r.Shape})
		}
	}
	return out, len(out), nil
}

// mockGenerator 记录收到的表单并返回固定载荷
type mockGenerator struct {
	payload json.RawMessage
	err     error
	form    *model.Form
}

func (m *mockGenerator) Generate(ctx context.Context, form *model.Form) (json.RawMessage, error) {
	m.form = form
	return m.payload, m.err
}

var testLogger = log.DefaultLogger

func validForm() *model.Form {
	return &model.Form{
		BusinessName:      " Volt Motors ",
		Industry:          "EV",
		GeographicalFocus: "China",
		TargetMarket:      "Urban commuters",
		EconomicFactors:   &model.FactorSelection{Factors: map[string]bool{"inflation": true}},
	}
}
