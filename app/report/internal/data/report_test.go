package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/pestel_radar/app/report/internal/domain"
)

var reportColumns = []string{"id", "analysis_id", "shape", "payload", "created_at"}

func TestReportRepo_SaveReport(t *testing.T) {
	d, mock := newMockData(t)
	repo := NewReportRepo(d, testLogger)
	payload := json.RawMessage(`{"report": {"conclusion": "ok"}}`)

	mock.ExpectQuery("INSERT INTO reports").
		WithArgs(int64(3), "unified", string(payload)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(11), time.Now()))

	rp := &domain.Report{AnalysisID: 3, Shape: "unified", Payload: payload}
	require.NoError(t, repo.SaveReport(context.Background(), rp))
	assert.Equal(t, int64(11), rp.ID)
}

func TestReportRepo_GetReport(t *testing.T) {
	d, mock := newMockData(t)
	repo := NewReportRepo(d, testLogger)

	mock.ExpectQuery("FROM reports WHERE id").
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(reportColumns).
			AddRow(int64(11), int64(3), "legacy_text", []byte(`"## Executive Summary\nText"`), time.Now()))

	rp, err := repo.GetReport(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, int64(3), rp.AnalysisID)
	assert.JSONEq(t, `"## Executive Summary\nText"`, string(rp.Payload))

	mock.ExpectQuery("FROM reports WHERE id").WithArgs(int64(12)).WillReturnError(sql.ErrNoRows)
	_, err = repo.GetReport(context.Background(), 12)
	assert.Equal(t, "REPORT_NOT_FOUND", kerrors.Reason(err))
}

func TestReportRepo_LatestReport(t *testing.T) {
	d, mock := newMockData(t)
	repo := NewReportRepo(d, testLogger)

	mock.ExpectQuery("WHERE analysis_id = \\$1 ORDER BY created_at DESC").
		WithArgs(int64(3)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.LatestReport(context.Background(), 3)
	assert.Equal(t, "REPORT_NO_DATA", kerrors.Reason(err))
	assert.True(t, kerrors.IsNotFound(err))
}

func TestReportRepo_ListReports(t *testing.T) {
	d, mock := newMockData(t)
	repo := NewReportRepo(d, testLogger)
	created := time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("owner@example.com", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
	mock.ExpectQuery("SELECT r.id, r.analysis_id, a.business_name").
		WithArgs("owner@example.com", int64(0), 10, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "analysis_id", "business_name", "industry", "shape", "created_at"}).
			AddRow(int64(1), int64(3), "Volt Motors", "EV", "unified+individual_reports", created))

	list, total, err := repo.ListReports(context.Background(), "owner@example.com", 0, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, 21, total)
	require.Len(t, list, 1)
	assert.Equal(t, "Volt Motors", list[0].BusinessName)
	assert.Equal(t, created, list[0].CreatedAt)
}
