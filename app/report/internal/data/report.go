package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/pestel_radar/app/report/internal/domain"
	"github.com/iWorld-y/pestel_radar/app/report/internal/repo"
)

type reportRepo struct {
	data *Data
	log  *log.Helper
}

func NewReportRepo(data *Data, logger log.Logger) repo.ReportRepo {
	return &reportRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *reportRepo) SaveReport(ctx context.Context, rp *domain.Report) error {
	err := r.data.db.QueryRowContext(ctx,
		`INSERT INTO reports (analysis_id, shape, payload) VALUES ($1, $2, $3) RETURNING id, created_at`,
		rp.AnalysisID, rp.Shape, string(rp.Payload),
	).Scan(&rp.ID, &rp.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	r.log.Infof("saved report %d for analysis %d (shape=%s)", rp.ID, rp.AnalysisID, rp.Shape)
	return nil
}

func (r *reportRepo) GetReport(ctx context.Context, id int64) (*domain.Report, error) {
	row := r.data.db.QueryRowContext(ctx,
		`SELECT id, analysis_id, shape, payload, created_at FROM reports WHERE id = $1`, id)
	rp, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kerrors.NotFound("REPORT_NOT_FOUND", "report not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query report %d: %w", id, err)
	}
	return rp, nil
}

func (r *reportRepo) LatestReport(ctx context.Context, analysisID int64) (*domain.Report, error) {
	row := r.data.db.QueryRowContext(ctx,
		`SELECT id, analysis_id, shape, payload, created_at FROM reports
		WHERE analysis_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1`, analysisID)
	rp, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kerrors.NotFound("REPORT_NO_DATA", "no report generated for this analysis yet")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest report of analysis %d: %w", analysisID, err)
	}
	return rp, nil
}

func (r *reportRepo) ListReports(ctx context.Context, email string, analysisID int64, page, pageSize int) ([]*domain.ReportSummary, int, error) {
	offset := (page - 1) * pageSize

	var total int
	err := r.data.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reports r JOIN analyses a ON a.id = r.analysis_id
		WHERE a.email = $1 AND ($2::BIGINT = 0 OR r.analysis_id = $2)`,
		email, analysisID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	rows, err := r.data.db.QueryContext(ctx,
		`SELECT r.id, r.analysis_id, a.business_name, a.industry, r.shape, r.created_at
		FROM reports r JOIN analyses a ON a.id = r.analysis_id
		WHERE a.email = $1 AND ($2::BIGINT = 0 OR r.analysis_id = $2)
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $3 OFFSET $4`,
		email, analysisID, pageSize, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var summaries []*domain.ReportSummary
	for rows.Next() {
		var s domain.ReportSummary
		if err := rows.Scan(&s.ID, &s.AnalysisID, &s.BusinessName, &s.Industry, &s.Shape, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan report summary: %w", err)
		}
		summaries = append(summaries, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

func scanReport(s scanner) (*domain.Report, error) {
	var (
		rp      domain.Report
		payload []byte
	)
	if err := s.Scan(&rp.ID, &rp.AnalysisID, &rp.Shape, &payload, &rp.CreatedAt); err != nil {
		return nil, err
	}
	rp.Payload = payload
	return &rp, nil
}
