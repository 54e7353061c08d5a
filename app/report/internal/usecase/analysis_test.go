package usecase

import (
	"context"
	"testing"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/pestel_radar/app/generator/pkg/model"
)

const owner = "owner@example.com"

func TestAnalysisUseCase_Create(t *testing.T) {
	uc := NewAnalysisUseCase(newMockAnalysisRepo(), testLogger)

	a, err := uc.Create(context.Background(), owner, validForm())
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, owner, a.Email)
	assert.Equal(t, "Volt Motors", a.BusinessName)
	assert.Equal(t, model.TimeFrameShort, a.TimeFrame)
	require.NotNil(t, a.PoliticalFactors)
	assert.Len(t, a.PoliticalFactors.Factors, len(model.PoliticalFactorKeys))
	assert.Empty(t, a.PoliticalFactors.Selected())
}

func TestAnalysisUseCase_Create_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		owner  string
		mutate func(f *model.Form)
		reason string
	}{
		{"missing fields", owner, func(f *model.Form) { f.Industry = "  "; f.TargetMarket = "" }, "MISSING_FIELDS"},
		{"bad time frame", owner, func(f *model.Form) { f.TimeFrame = "Mid-term" }, "INVALID_TIME_FRAME"},
		{"bad owner", "not-an-email", func(f *model.Form) {}, "INVALID_EMAIL"},
		{"other owner", owner, func(f *model.Form) { f.Email = "someone@example.com" }, "INVALID_EMAIL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewAnalysisUseCase(newMockAnalysisRepo(), testLogger)
			f := validForm()
			tt.mutate(f)
			_, err := uc.Create(context.Background(), tt.owner, f)
			require.Error(t, err)
			assert.Equal(t, tt.reason, errors.Reason(err))
			assert.True(t, errors.IsBadRequest(err))
		})
	}
}

func TestAnalysisUseCase_Create_MissingFieldsMetadata(t *testing.T) {
	uc := NewAnalysisUseCase(newMockAnalysisRepo(), testLogger)
	f := validForm()
	f.BusinessName = ""
	f.GeographicalFocus = ""

	_, err := uc.Create(context.Background(), owner, f)
	assert.Equal(t, "business_name,geographical_focus", errors.FromError(err).Metadata["fields"])
}

func TestAnalysisUseCase_Get_OtherOwner(t *testing.T) {
	uc := NewAnalysisUseCase(newMockAnalysisRepo(), testLogger)
	a, err := uc.Create(context.Background(), owner, validForm())
	require.NoError(t, err)

	got, err := uc.Get(context.Background(), "OWNER@example.com", a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = uc.Get(context.Background(), "intruder@example.com", a.ID)
	assert.Equal(t, "ANALYSIS_NOT_FOUND", errors.Reason(err))
}

func TestAnalysisUseCase_List(t *testing.T) {
	uc := NewAnalysisUseCase(newMockAnalysisRepo(), testLogger)
	for i := 0; i < 2; i++ {
		_, err := uc.Create(context.Background(), owner, validForm())
		require.NoError(t, err)
	}
	_, err := uc.Create(context.Background(), "other@example.com", validForm())
	require.NoError(t, err)

	list, err := uc.List(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID)
}
