package usecase

import (
	"context"
	"net/mail"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/pestel_radar/app/generator/pkg/model"
	"github.com/iWorld-y/pestel_radar/app/report/internal/domain"
	"github.com/iWorld-y/pestel_radar/app/report/internal/repo"
)

// AnalysisUseCase 分析表单业务逻辑
type AnalysisUseCase struct {
	repo repo.AnalysisRepo
	log  *log.Helper
}

// NewAnalysisUseCase 创建分析表单业务逻辑实例
func NewAnalysisUseCase(repo repo.AnalysisRepo, logger log.Logger) *AnalysisUseCase {
	return &AnalysisUseCase{repo: repo, log: log.NewHelper(logger)}
}

// Create 校验并保存表单，owner 为当前登录用户的邮箱
func (uc *AnalysisUseCase) Create(ctx context.Context, owner string, form *model.Form) (*domain.Analysis, error) {
	if _, err := mail.ParseAddress(owner); err != nil {
		return nil, errors.BadRequest("INVALID_EMAIL", "invalid owner email")
	}
	if form.Email != "" && !strings.EqualFold(form.Email, owner) {
		return nil, errors.BadRequest("INVALID_EMAIL", "email does not match the signed-in user")
	}
	if err := normalizeForm(form); err != nil {
		return nil, err
	}
	form.Email = owner

	a := &domain.Analysis{Form: *form}
	if err := uc.repo.CreateAnalysis(ctx, a); err != nil {
		return nil, err
	}
	uc.log.Infof("analysis %d created for %s (%s)", a.ID, a.BusinessName, a.Industry)
	return a, nil
}

// Get 获取当前用户的表单，其他用户的表单按不存在处理
func (uc *AnalysisUseCase) Get(ctx context.Context, owner string, id int64) (*domain.Analysis, error) {
	a, err := uc.repo.GetAnalysis(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(a.Email, owner) {
		return nil, errors.NotFound("ANALYSIS_NOT_FOUND", "analysis not found")
	}
	return a, nil
}

// List 列出当前用户的全部表单
func (uc *AnalysisUseCase) List(ctx context.Context, owner string) ([]*domain.Analysis, error) {
	return uc.repo.ListAnalyses(ctx, owner)
}

// normalizeForm 去除首尾空白，补齐默认的时间范围与政治维度勾选项
func normalizeForm(f *model.Form) error {
	for _, s := range []*string{
		&f.BusinessName, &f.Industry, &f.GeographicalFocus, &f.TargetMarket,
		&f.Competitors, &f.TimeFrame, &f.AdditionalNotes,
	} {
		*s = strings.TrimSpace(*s)
	}

	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"business_name", f.BusinessName},
		{"industry", f.Industry},
		{"geographical_focus", f.GeographicalFocus},
		{"target_market", f.TargetMarket},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return errors.BadRequest("MISSING_FIELDS", "missing required fields: "+strings.Join(missing, ", ")).
			WithMetadata(map[string]string{"fields": strings.Join(missing, ",")})
	}

	switch f.TimeFrame {
	case "":
		f.TimeFrame = model.TimeFrameShort
	case model.TimeFrameShort, model.TimeFrameLong:
	default:
		return errors.BadRequest("INVALID_TIME_FRAME", "unsupported time frame: "+f.TimeFrame)
	}

	if f.PoliticalFactors == nil {
		f.PoliticalFactors = model.DefaultPoliticalFactors()
	}
	return nil
}
