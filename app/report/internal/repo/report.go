package repo

import (
	"context"

	"github.com/iWorld-y/pestel_radar/app/report/internal/domain"
)

// AnalysisRepo 分析表单仓库接口
type AnalysisRepo interface {
	// CreateAnalysis 保存表单并回填 ID 与创建时间
	CreateAnalysis(ctx context.Context, a *domain.Analysis) error
	// GetAnalysis 根据ID获取表单，不存在时返回 ANALYSIS_NOT_FOUND
	GetAnalysis(ctx context.Context, id int64) (*domain.Analysis, error)
	// ListAnalyses 按创建时间倒序列出某用户的表单
	ListAnalyses(ctx context.Context, email string) ([]*domain.Analysis, error)
}

// ReportRepo 报告仓库接口
type ReportRepo interface {
	// SaveReport 保存原始载荷并回填 ID 与创建时间
	SaveReport(ctx context.Context, r *domain.Report) error
	// GetReport 根据ID获取报告，不存在时返回 REPORT_NOT_FOUND
	GetReport(ctx context.Context, id int64) (*domain.Report, error)
	// LatestReport 获取某表单最新的报告，没有时返回 REPORT_NO_DATA
	LatestReport(ctx context.Context, analysisID int64) (*domain.Report, error)
	// ListReports 分页获取某用户的报告摘要，analysisID 为 0 时不过滤
	ListReports(ctx context.Context, email string, analysisID int64, page, pageSize int) ([]*domain.ReportSummary, int, error)
}
