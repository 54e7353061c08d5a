package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/pestel_radar/app/report/internal/domain"
	"github.com/iWorld-y/pestel_radar/app/report/internal/repo"
)

type analysisRepo struct {
	data *Data
	log  *log.Helper
}

func NewAnalysisRepo(data *Data, logger log.Logger) repo.AnalysisRepo {
	return &analysisRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *analysisRepo) CreateAnalysis(ctx context.Context, a *domain.Analysis) error {
	form, err := json.Marshal(a.Form)
	if err != nil {
		return fmt.Errorf("failed to encode form: %w", err)
	}
	// lib/pq 会把 []byte 当作 bytea 发送，JSONB 参数必须传字符串
	err = r.data.db.QueryRowContext(ctx,
		`INSERT INTO analyses (email, business_name, industry, time_frame, form)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		a.Email, a.BusinessName, a.Industry, a.TimeFrame, string(form),
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

func (r *analysisRepo) GetAnalysis(ctx context.Context, id int64) (*domain.Analysis, error) {
	row := r.data.db.QueryRowContext(ctx,
		`SELECT id, form, created_at FROM analyses WHERE id = $1`, id)
	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kerrors.NotFound("ANALYSIS_NOT_FOUND", "analysis not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis %d: %w", id, err)
	}
	return a, nil
}

func (r *analysisRepo) ListAnalyses(ctx context.Context, email string) ([]*domain.Analysis, error) {
	rows, err := r.data.db.QueryContext(ctx,
		`SELECT id, form, created_at FROM analyses WHERE email = $1 ORDER BY created_at DESC, id DESC`, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var out []*domain.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(s scanner) (*domain.Analysis, error) {
	var (
		a    domain.Analysis
		form []byte
	)
	if err := s.Scan(&a.ID, &form, &a.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(form, &a.Form); err != nil {
		return nil, fmt.Errorf("corrupt form: %w", err)
	}
	return &a, nil
}
