package pestel

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return b
}

func decodeFixture(t *testing.T, name string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal(loadFixture(t, name), &v))
	return v
}

func TestNormalize_Missing(t *testing.T) {
	r, ok := Normalize(nil)
	assert.False(t, ok)
	assert.Nil(t, r)

	_, ok = NormalizeJSON([]byte("  \n"))
	assert.False(t, ok)

	_, ok = NormalizeJSON([]byte("null"))
	assert.False(t, ok)
}

func TestNormalize_UnknownShape(t *testing.T) {
	r, ok := Normalize(map[string]any{"success": false, "error": "timeout"})
	require.True(t, ok)
	assert.Equal(t, ShapeUnknown, r.Shape)
	assert.True(t, r.Empty())
	assert.Empty(t, r.PresentDimensions())
}

func TestNormalize_Idempotent(t *testing.T) {
	payload := decodeFixture(t, "unified.json")

	first, ok := Normalize(payload)
	require.True(t, ok)
	second, ok := Normalize(payload)
	require.True(t, ok)
	assert.Equal(t, first, second)

	fromBytes, ok := NormalizeJSON(loadFixture(t, "unified.json"))
	require.True(t, ok)
	assert.Equal(t, first, fromBytes)
}

func TestNormalize_DimensionOrder(t *testing.T) {
	payload := map[string]any{
		"individual_reports": map[string]any{
			"legal_report":     map[string]any{"executive_summary": "L"},
			"political_report": map[string]any{"executive_summary": "P"},
			"social_report":    `{"executive_summary": "S"}`,
		},
	}
	for i := 0; i < 20; i++ {
		r, ok := Normalize(payload)
		require.True(t, ok)
		var got []Dimension
		for _, dr := range r.PresentDimensions() {
			got = append(got, dr.Dimension)
		}
		require.Equal(t, []Dimension{Political, Social, Legal}, got)
	}
}

func TestNormalize_InvalidDimensionJSON(t *testing.T) {
	r, ok := Normalize(map[string]any{
		"individual_reports": map[string]any{"political_report": "{not valid json"},
	})
	require.True(t, ok)

	dr := r.Dimension(Political)
	require.NotNil(t, dr)
	assert.Equal(t, Text{Present: true, Value: "{not valid json"}, dr.Opaque)
	assert.Equal(t, "{not valid json", dr.Summary().Value)
	assert.False(t, dr.Factors.Present)
}

func TestNormalize_Unified(t *testing.T) {
	r, ok := Normalize(decodeFixture(t, "unified.json"))
	require.True(t, ok)

	assert.Equal(t, ShapeUnified|ShapeIndividualReports, r.Shape)
	assert.Equal(t, someText("The EV market is expanding quickly."), r.ExecutiveSummary)
	assert.Equal(t, someText("This report covers the Chinese EV market."), r.Introduction)
	assert.Equal(t, someText("The outlook is positive."), r.Conclusion)

	synthesis := map[Dimension]string{
		Political:     "Subsidy policy remains supportive.",
		Economic:      "Consumer credit is tightening.",
		Social:        "Urban buyers prefer EVs.",
		Technological: "Battery density keeps improving.",
		Environmental: "Emission targets are strict.",
		Legal:         "Data rules affect connected cars.",
	}
	for d, want := range synthesis {
		dr := r.Dimension(d)
		require.NotNil(t, dr, d.String())
		assert.Equal(t, someText(want), dr.Synthesis, d.String())
	}

	require.Len(t, r.StrategicImplications.Items, 2)
	assert.Equal(t, Implication{
		Title:              "Policy-driven demand",
		Analysis:           "Demand tracks subsidy cycles.",
		AffectedDimensions: []string{"Political", "Economic"},
	}, r.StrategicImplications.Items[0])
	assert.Equal(t, []string{"Technological", "Environmental"}, r.StrategicImplications.Items[1].AffectedDimensions)

	assert.Equal(t, []MatrixRow{
		{Dimension: "Political", Opportunities: []string{"Growth in EV demand", "Favorable subsidies"}, Threats: []string{"Trade tariffs"}},
		{Dimension: "Economic", Opportunities: []string{"Cheaper batteries", "Export markets"}, Threats: []string{"Price war"}},
	}, r.OpportunitiesThreatsMatrix.Items)

	recs := r.StrategicRecommendations.Items
	require.Len(t, recs, 3)
	assert.Equal(t, Recommendation{
		Number:            1,
		Description:       "Lock in battery supply.",
		RelatedDimensions: []string{"Technological"},
		Priority:          "Critical",
		Severity:          SeverityCritical,
	}, recs[0])
	assert.Equal(t, SeverityHigh, recs[1].Severity)
	assert.Equal(t, 3, recs[2].Number)
	assert.Equal(t, SeverityLongTerm, recs[2].Severity)
}

func TestNormalize_IndividualReports(t *testing.T) {
	r, ok := Normalize(decodeFixture(t, "unified.json"))
	require.True(t, ok)

	political := r.Dimension(Political)
	require.NotNil(t, political)
	assert.Equal(t, "Policy support is stable.", political.Summary().Value)
	assert.Equal(t, []Factor{{
		Name:          "Subsidies",
		Analysis:      "Purchase subsidies extended to 2027.",
		KeyIndicators: []string{"Subsidy amount", "Quota"},
	}}, political.Factors.Items)
	assert.Equal(t, []Risk{{
		Title: "Tariffs", Description: "Export tariffs may rise.", ImpactLevel: "High", Severity: SeverityHigh,
	}}, political.Risks.Items)
	assert.Equal(t, SeverityHigh, political.Opportunities.Items[0].Severity)
	assert.Equal(t, []Region{{Region: "EU", Analysis: "Anti-subsidy probe."}}, political.RegionalDynamics.Items)
	assert.Equal(t, SeverityMedium, political.Scenarios.Items[0].Severity)
	assert.Equal(t, Recommendation{
		Title:               "Localize production",
		Description:         "Build plants abroad.",
		ImplementationSteps: []string{"Pick site", "Hire staff"},
		Priority:            "Immediate",
		Severity:            SeverityCritical,
	}, political.Recommendations.Items[0])

	// 摘要优先于综合文本
	assert.Equal(t, "Consumer credit is tightening.", r.Dimension(Economic).Summary().Value)
	assert.Equal(t, "Data law is tightening.", r.Dimension(Legal).Summary().Value)
	assert.Equal(t, someText("{not valid json"), r.Dimension(Social).Opaque)

	assert.Equal(t, []NewsItem{{Title: "Subsidies extended", URL: "https://example.com/a"}}, r.News[Political].Items)
	assert.False(t, r.News[Economic].Present)
}

func TestNormalize_EmptyVersusAbsent(t *testing.T) {
	r, ok := NormalizeJSON([]byte(`{"individual_reports": {
		"political_report": {"factors_analysis": []},
		"economic_report": {"executive_summary": "E"}
	}}`))
	require.True(t, ok)

	political := r.Dimension(Political).Factors
	assert.True(t, political.Present)
	assert.True(t, political.Empty())

	economic := r.Dimension(Economic).Factors
	assert.False(t, economic.Present)
	assert.False(t, economic.Empty())

	sections := sectionsByKey(r)
	assert.True(t, sections[DimensionSection(Political)].Present)
	assert.True(t, sections[DimensionSection(Political)].Empty)
	assert.False(t, sections[DimensionSection(Economic)].Empty)
	assert.False(t, sections[DimensionSection(Social)].Present)
}

func TestNormalize_FinalTakesPrecedence(t *testing.T) {
	r, ok := Normalize(map[string]any{
		"final_report": map[string]any{"conclusion": "from final"},
		"report":       map[string]any{"conclusion": "from report", "introduction": "intro"},
	})
	require.True(t, ok)
	assert.Equal(t, ShapeFinal|ShapeUnified, r.Shape)
	assert.Equal(t, "from final", r.Conclusion.Value)
	assert.Equal(t, "intro", r.Introduction.Value)
}

func TestNormalize_NestedCrossLists(t *testing.T) {
	r, ok := Normalize(map[string]any{
		"final_report": map[string]any{
			"pestel_analysis": map[string]any{
				"legal_factors":          "Compliance costs rise.",
				"strategic_implications": []any{map[string]any{"implication_title": "Cost", "analysis": "Margins shrink."}},
				"opportunities_threats_matrix": `{"dimensions": [{"dimension": "legal", "opportunities": [], "threats": ["Fines"]}]}`,
			},
		},
	})
	require.True(t, ok)
	assert.Equal(t, "Compliance costs rise.", r.Dimension(Legal).Synthesis.Value)
	require.Len(t, r.StrategicImplications.Items, 1)
	assert.Equal(t, "Cost", r.StrategicImplications.Items[0].Title)
	assert.Equal(t, []MatrixRow{{Dimension: "Legal", Opportunities: []string{}, Threats: []string{"Fines"}}}, r.OpportunitiesThreatsMatrix.Items)
}

func TestNormalize_OpaqueRisks(t *testing.T) {
	r, ok := Normalize(map[string]any{
		"individual_reports": map[string]any{
			"environmental_report": map[string]any{"risks_opportunities": "Floods may disrupt supply."},
		},
	})
	require.True(t, ok)
	dr := r.Dimension(Environmental)
	assert.Equal(t, []Risk{{Description: "Floods may disrupt supply."}}, dr.Risks.Items)
	assert.False(t, dr.Opportunities.Present)
}

func TestNormalize_OpaqueReportText(t *testing.T) {
	r, ok := Normalize(map[string]any{"report": "## Introduction\nHello there."})
	require.True(t, ok)
	assert.Equal(t, "Hello there.", r.Introduction.Value)
	assert.False(t, r.Opaque.Present)

	r, ok = Normalize(map[string]any{"report": "The generator returned prose only."})
	require.True(t, ok)
	assert.Equal(t, someText("The generator returned prose only."), r.Opaque)
	sections := r.Sections()
	assert.Equal(t, SectionRaw, sections[len(sections)-1].Key)
	assert.False(t, r.Empty())
}

func TestNormalize_StringPayload(t *testing.T) {
	r, ok := Normalize(`{"report": {"conclusion": "Done."}}`)
	require.True(t, ok)
	assert.Equal(t, ShapeUnified, r.Shape)
	assert.Equal(t, "Done.", r.Conclusion.Value)
}

func TestNormalizeJSON_PlainText(t *testing.T) {
	r, ok := NormalizeJSON([]byte("## Conclusion\nDone."))
	require.True(t, ok)
	assert.Equal(t, ShapeLegacyText, r.Shape)
	assert.Equal(t, "Done.", r.Conclusion.Value)
}

func TestNormalize_MessageKey(t *testing.T) {
	r, ok := Normalize(map[string]any{"message": "## Executive Summary\nShort."})
	require.True(t, ok)
	assert.Equal(t, ShapeLegacyText, r.Shape)
	assert.Equal(t, "Short.", r.ExecutiveSummary.Value)
}

func TestSections_Order(t *testing.T) {
	r, ok := Normalize(decodeFixture(t, "unified.json"))
	require.True(t, ok)

	var keys []SectionKey
	for _, s := range r.Sections() {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []SectionKey{
		SectionExecutiveSummary,
		SectionIntroduction,
		"pestel_political",
		"pestel_economic",
		"pestel_social",
		"pestel_technological",
		"pestel_environmental",
		"pestel_legal",
		SectionStrategicImplications,
		SectionOpportunitiesThreats,
		SectionStrategicRecommendations,
		SectionConclusion,
	}, keys)
}

func sectionsByKey(r *CanonicalReport) map[SectionKey]Section {
	out := make(map[SectionKey]Section)
	for _, s := range r.Sections() {
		out[s.Key] = s
	}
	return out
}
