package service

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/pestel_radar/app/generator/pkg/model"
	"github.com/iWorld-y/pestel_radar/app/report/internal/domain"
	"github.com/iWorld-y/pestel_radar/app/report/internal/usecase"
)

const (
	OperationCreateAnalysis = "/pestel.report.v1.Report/CreateAnalysis"
	OperationListAnalyses   = "/pestel.report.v1.Report/ListAnalyses"
	OperationGetAnalysis    = "/pestel.report.v1.Report/GetAnalysis"
	OperationGenerateReport = "/pestel.report.v1.Report/GenerateReport"
	OperationLatestReport   = "/pestel.report.v1.Report/LatestReport"
	OperationSaveReport     = "/pestel.report.v1.Report/SaveReport"
	OperationListReports    = "/pestel.report.v1.Report/ListReports"
	OperationGetReport      = "/pestel.report.v1.Report/GetReport"
)

// SaveReportReq 客户端提交的载荷，payload 可以是任意历史形态
type SaveReportReq struct {
	AnalysisID int64           `json:"analysis_id"`
	Payload    json.RawMessage `json:"payload"`
}

type ListAnalysesReply struct {
	Analyses []*domain.Analysis `json:"analyses"`
}

type ListReportsReply struct {
	Reports  []*domain.ReportSummary `json:"reports"`
	Total    int                     `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"page_size"`
}

type ReportService struct {
	ucAnalysis *usecase.AnalysisUseCase
	ucReport   *usecase.ReportUseCase
	log        *log.Helper
}

func NewReportService(ucAnalysis *usecase.AnalysisUseCase, ucReport *usecase.ReportUseCase, logger log.Logger) *ReportService {
	return &ReportService{
		ucAnalysis: ucAnalysis,
		ucReport:   ucReport,
		log:        log.NewHelper(logger),
	}
}

// RegisterReportHTTPServer 注册 /v1 下的全部路由
func RegisterReportHTTPServer(s *http.Server, srv *ReportService) {
	r := s.Route("/v1")
	r.POST("/analyses", srv.createAnalysis)
	r.GET("/analyses", srv.listAnalyses)
	r.GET("/analyses/{id}", srv.getAnalysis)
	r.POST("/analyses/{id}/reports", srv.generateReport)
	r.GET("/analyses/{id}/report", srv.latestReport)
	r.POST("/reports", srv.saveReport)
	r.GET("/reports", srv.listReports)
	r.GET("/reports/{id}", srv.getReport)
}

// handle 经过服务端中间件（鉴权、日志）后以当前用户身份执行 fn
func handle(ctx http.Context, operation string, req interface{}, fn func(ctx context.Context, owner string) (interface{}, error)) error {
	http.SetOperation(ctx, operation)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		owner, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		return fn(ctx, owner)
	})
	out, err := h(ctx, req)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func pathID(ctx http.Context) (int64, error) {
	raw := ctx.Vars().Get("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.BadRequest("INVALID_ID", "invalid id: "+raw)
	}
	return id, nil
}

func queryInt(ctx http.Context, key string) (int, error) {
	raw := ctx.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.BadRequest("INVALID_QUERY", "invalid "+key+": "+raw)
	}
	return n, nil
}

func (s *ReportService) createAnalysis(ctx http.Context) error {
	var form model.Form
	if err := ctx.Bind(&form); err != nil {
		return errors.BadRequest("INVALID_BODY", err.Error())
	}
	return handle(ctx, OperationCreateAnalysis, &form, func(ctx context.Context, owner string) (interface{}, error) {
		return s.ucAnalysis.Create(ctx, owner, &form)
	})
}

func (s *ReportService) listAnalyses(ctx http.Context) error {
	return handle(ctx, OperationListAnalyses, nil, func(ctx context.Context, owner string) (interface{}, error) {
		list, err := s.ucAnalysis.List(ctx, owner)
		if err != nil {
			return nil, err
		}
		if list == nil {
			list = []*domain.Analysis{}
		}
		return &ListAnalysesReply{Analyses: list}, nil
	})
}

func (s *ReportService) getAnalysis(ctx http.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	return handle(ctx, OperationGetAnalysis, nil, func(ctx context.Context, owner string) (interface{}, error) {
		return s.ucAnalysis.Get(ctx, owner, id)
	})
}

func (s *ReportService) generateReport(ctx http.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	return handle(ctx, OperationGenerateReport, nil, func(ctx context.Context, owner string) (interface{}, error) {
		return s.ucReport.Generate(ctx, owner, id)
	})
}

func (s *ReportService) latestReport(ctx http.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	return handle(ctx, OperationLatestReport, nil, func(ctx context.Context, owner string) (interface{}, error) {
		return s.ucReport.Latest(ctx, owner, id)
	})
}

func (s *ReportService) saveReport(ctx http.Context) error {
	var req SaveReportReq
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest("INVALID_BODY", err.Error())
	}
	if req.AnalysisID <= 0 {
		return errors.BadRequest("MISSING_FIELDS", "analysis_id is required")
	}
	return handle(ctx, OperationSaveReport, &req, func(ctx context.Context, owner string) (interface{}, error) {
		return s.ucReport.Save(ctx, owner, req.AnalysisID, req.Payload)
	})
}

func (s *ReportService) listReports(ctx http.Context) error {
	analysisID, err := queryInt(ctx, "analysis_id")
	if err != nil {
		return err
	}
	page, err := queryInt(ctx, "page")
	if err != nil {
		return err
	}
	pageSize, err := queryInt(ctx, "page_size")
	if err != nil {
		return err
	}
	return handle(ctx, OperationListReports, nil, func(ctx context.Context, owner string) (interface{}, error) {
		list, total, err := s.ucReport.List(ctx, owner, int64(analysisID), page, pageSize)
		if err != nil {
			return nil, err
		}
		if list == nil {
			list = []*domain.ReportSummary{}
		}
		page, pageSize := usecase.Paging(page, pageSize)
		return &ListReportsReply{Reports: list, Total: total, Page: page, PageSize: pageSize}, nil
	})
}

func (s *ReportService) getReport(ctx http.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	return handle(ctx, OperationGetReport, nil, func(ctx context.Context, owner string) (interface{}, error) {
		return s.ucReport.Get(ctx, owner, id)
	})
}
