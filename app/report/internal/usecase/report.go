package usecase

import (
	"context"
	"encoding/json"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/pestel_radar/app/common/pestel"
	"github.com/iWorld-y/pestel_radar/app/generator/pkg/generator"
	"github.com/iWorld-y/pestel_radar/app/report/internal/domain"
	"github.com/iWorld-y/pestel_radar/app/report/internal/repo"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ReportUseCase 报告业务逻辑
type ReportUseCase struct {
	repo      repo.ReportRepo
	analyses  *AnalysisUseCase
	generator generator.Generator
	log       *log.Helper
}

// NewReportUseCase 创建报告业务逻辑实例，gen 为 nil 时只能保存外部提交的载荷
func NewReportUseCase(repo repo.ReportRepo, analyses *AnalysisUseCase, gen generator.Generator, logger log.Logger) *ReportUseCase {
	return &ReportUseCase{repo: repo, analyses: analyses, generator: gen, log: log.NewHelper(logger)}
}

// Generate 调用生成器为表单生成报告并保存原始载荷
func (uc *ReportUseCase) Generate(ctx context.Context, owner string, analysisID int64) (*domain.ReportView, error) {
	a, err := uc.analyses.Get(ctx, owner, analysisID)
	if err != nil {
		return nil, err
	}
	if uc.generator == nil {
		return nil, errors.ServiceUnavailable("GENERATOR_FAILED", "report generator is not configured")
	}

	form := a.Form
	payload, err := uc.generator.Generate(ctx, &form)
	if err != nil {
		uc.log.Errorf("generate report for analysis %d failed: %v", analysisID, err)
		return nil, errors.InternalServer("GENERATOR_FAILED", "failed to generate report").WithCause(err)
	}
	return uc.save(ctx, analysisID, payload)
}

// Save 保存客户端提交的载荷，任意历史形态均可
func (uc *ReportUseCase) Save(ctx context.Context, owner string, analysisID int64, payload json.RawMessage) (*domain.ReportView, error) {
	if _, err := uc.analyses.Get(ctx, owner, analysisID); err != nil {
		return nil, err
	}
	return uc.save(ctx, analysisID, payload)
}

func (uc *ReportUseCase) save(ctx context.Context, analysisID int64, payload json.RawMessage) (*domain.ReportView, error) {
	canonical, ok := pestel.NormalizeJSON(payload)
	if !ok {
		return nil, errors.BadRequest("EMPTY_PAYLOAD", "report payload is empty")
	}
	if !json.Valid(payload) {
		// 非 JSON 文本按旧版报告保存为 JSON 字符串
		wrapped, err := json.Marshal(string(payload))
		if err != nil {
			return nil, err
		}
		payload = wrapped
	}

	rp := &domain.Report{AnalysisID: analysisID, Shape: canonical.Shape.String(), Payload: payload}
	if err := uc.repo.SaveReport(ctx, rp); err != nil {
		return nil, err
	}
	if canonical.Empty() {
		uc.log.Warnf("report %d has no recognizable section (shape=%s)", rp.ID, rp.Shape)
	}
	return domain.NewReportView(rp), nil
}

// List 分页列出当前用户的报告，analysisID 非 0 时只列该表单的报告
func (uc *ReportUseCase) List(ctx context.Context, owner string, analysisID int64, page, pageSize int) ([]*domain.ReportSummary, int, error) {
	if analysisID != 0 {
		if _, err := uc.analyses.Get(ctx, owner, analysisID); err != nil {
			return nil, 0, err
		}
	}
	page, pageSize = Paging(page, pageSize)
	return uc.repo.ListReports(ctx, owner, analysisID, page, pageSize)
}

// Paging 补齐分页参数：页码从 1 开始，每页默认 10 条，最多 100 条
func Paging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// Get 获取报告详情
func (uc *ReportUseCase) Get(ctx context.Context, owner string, id int64) (*domain.ReportView, error) {
	rp, err := uc.repo.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := uc.analyses.Get(ctx, owner, rp.AnalysisID); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("REPORT_NOT_FOUND", "report not found")
		}
		return nil, err
	}
	return domain.NewReportView(rp), nil
}

// Latest 获取表单最新的报告，尚未生成时返回 REPORT_NO_DATA
func (uc *ReportUseCase) Latest(ctx context.Context, owner string, analysisID int64) (*domain.ReportView, error) {
	if _, err := uc.analyses.Get(ctx, owner, analysisID); err != nil {
		return nil, err
	}
	rp, err := uc.repo.LatestReport(ctx, analysisID)
	if err != nil {
		return nil, err
	}
	return domain.NewReportView(rp), nil
}
