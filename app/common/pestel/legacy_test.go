package pestel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacy_HeadingSplit(t *testing.T) {
	r, ok := Normalize("## Executive Summary\nFoo bar.\n\n## Conclusion\nDone.")
	require.True(t, ok)

	assert.Equal(t, someText("Foo bar."), r.ExecutiveSummary)
	assert.Equal(t, someText("Done."), r.Conclusion)
	for _, s := range r.Sections() {
		switch s.Key {
		case SectionExecutiveSummary, SectionConclusion:
			assert.True(t, s.Present, s.Key)
		default:
			assert.False(t, s.Present, s.Key)
		}
	}
}

func TestLegacy_FullReport(t *testing.T) {
	r, ok := NormalizeJSON(loadFixture(t, "legacy.md"))
	require.True(t, ok)

	assert.Equal(t, ShapeLegacyText, r.Shape)
	assert.Equal(t, "The EV market is expanding quickly.", r.ExecutiveSummary.Value)
	assert.False(t, r.Introduction.Present)
	assert.Equal(t, "The outlook is positive.", r.Conclusion.Value)
	assert.False(t, r.Opaque.Present)

	assert.Equal(t, "Subsidy policy remains supportive.", r.Dimension(Political).Synthesis.Value)
	assert.Equal(t, "Consumer credit is tightening.", r.Dimension(Economic).Synthesis.Value)
	assert.Nil(t, r.Dimension(Social))

	assert.Equal(t, []Implication{
		{Title: "Policy-driven demand", Analysis: "Demand tracks subsidy cycles.", AffectedDimensions: []string{}},
		{Title: "Technology race", Analysis: "Battery cost drives margins.", AffectedDimensions: []string{}},
	}, r.StrategicImplications.Items)

	assert.Equal(t, []MatrixRow{
		{
			Dimension:     "Political",
			Opportunities: []string{"Growth in EV demand", "Favorable subsidies"},
			Threats:       []string{"Trade tariffs"},
		},
		{
			Dimension:     "Economic",
			Opportunities: []string{"Cheaper batteries", "Export markets"},
			Threats:       []string{"Price war", "Credit squeeze"},
		},
	}, r.OpportunitiesThreatsMatrix.Items)
	assert.False(t, r.MatrixText.Present)

	assert.Equal(t, []Recommendation{
		{Number: 1, Description: "Lock in battery supply."},
		{Number: 2, Description: "Diversify export markets across Asia."},
	}, r.StrategicRecommendations.Items)
}

func TestLegacy_MatrixFallsBackToText(t *testing.T) {
	r, ok := Normalize("## Opportunities & Threats Matrix\nNo table was produced.")
	require.True(t, ok)

	assert.False(t, r.OpportunitiesThreatsMatrix.Present)
	assert.Equal(t, someText("No table was produced."), r.MatrixText)

	s := sectionsByKey(r)[SectionOpportunitiesThreats]
	assert.True(t, s.Present)
	assert.False(t, s.Empty)
	assert.Equal(t, "No table was produced.", s.Body)
}

func TestLegacy_NoKnownHeadings(t *testing.T) {
	text := "Just a paragraph.\n\n## Appendix\nNothing here."
	r, ok := Normalize(text)
	require.True(t, ok)
	assert.Equal(t, someText(text), r.Opaque)
}

func TestLegacy_RecommendationsWithoutList(t *testing.T) {
	r, ok := Normalize("## Strategic Recommendations\nInvest early.")
	require.True(t, ok)
	assert.Equal(t, []Recommendation{{Description: "Invest early."}}, r.StrategicRecommendations.Items)
}

func TestSplitCell(t *testing.T) {
	assert.Equal(t, []string{"Growth in EV demand", "Favorable subsidies"}, splitCell("Growth in EV demand; Favorable subsidies"))
	assert.Equal(t, []string{"Cheaper batteries", "Export markets"}, splitCell("1. Cheaper batteries 2. Export markets"))
	assert.Equal(t, []string{"A", "B"}, splitCell(" A <br/> B ;"))
	assert.Equal(t, []string{"Rates rose 5.5 percent"}, splitCell("Rates rose 5.5 percent"))
	assert.Empty(t, splitCell("  "))
}

func TestParseMatrixTable(t *testing.T) {
	t.Run("header columns located by name", func(t *testing.T) {
		rows, ok := parseMatrixTable("| Threats | Dimension | Opportunities |\n|:---|---|---:|\n| Fines | legal | Compliance tools |")
		require.True(t, ok)
		assert.Equal(t, []MatrixRow{{Dimension: "Legal", Opportunities: []string{"Compliance tools"}, Threats: []string{"Fines"}}}, rows)
	})

	t.Run("header only", func(t *testing.T) {
		_, ok := parseMatrixTable("| Dimension | Opportunities | Threats |\n|---|---|---|")
		assert.False(t, ok)
	})

	t.Run("no table", func(t *testing.T) {
		_, ok := parseMatrixTable("Political: more subsidies")
		assert.False(t, ok)
	})
}

func TestNormalizeHeading(t *testing.T) {
	assert.Equal(t, "executive summary", normalizeHeading("1. **Executive Summary**:"))
	assert.Equal(t, "opportunities and threats matrix", normalizeHeading("Opportunities & Threats   Matrix"))
}
