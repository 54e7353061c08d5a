package engine

const jsonSystemPrompt = "You are a JSON generator. Output a single JSON object and nothing else."

// dimensionPromptTpl 参数：维度、表单描述、勾选因素、备注、补充说明、文章
const dimensionPromptTpl = `You are a %[1]s analyst specializing in PESTEL framework analysis.
Write a %[1]s report for the business below, using ONLY the provided context.
Do not fabricate information; if the context has gaps, say so.

Business profile:
%[2]s
Focus ONLY on these %[1]s factors selected by the user:
%[3]s
Notes for this dimension: %[4]s
Additional notes from user: %[5]s

Context articles:
%[6]s

Return JSON with exactly this structure, no markdown fences:
{
  "executive_summary": "overview of the %[1]s landscape (250-350 words)",
  "factors_analysis": [
    {"factor_name": "...", "analysis": "...", "key_indicators": ["..."]}
  ],
  "risks_opportunities": {
    "risks": [{"risk_title": "...", "description": "...", "impact_level": "Low|Medium|High|Critical"}],
    "opportunities": [{"opportunity_title": "...", "description": "...", "potential_benefit": "Low|Medium|High|Transformative"}]
  },
  "regional_dynamics": [{"region": "...", "analysis": "..."}],
  "scenario_analysis": [{"scenario_name": "...", "drivers": "...", "outcome": "...", "probability": "Low|Medium|High"}],
  "recommendations": [
    {"recommendation_title": "...", "description": "...", "implementation_steps": ["..."], "priority": "Immediate|High|Medium|Long-term"}
  ]
}`

// finalPromptTpl 参数：表单描述、补充说明、各维度报告
const finalPromptTpl = `You are a strategic business consultant. Synthesize the individual PESTEL
reports below into one cohesive final report. Only cover dimensions that have a report.

Business profile:
%s
Additional notes from user: %s

Individual reports:
%s

Return JSON with exactly this structure, no markdown fences:
{
  "executive_summary": "...",
  "introduction": "...",
  "pestel_analysis": {
    "political_factors": "...", "economic_factors": "...", "social_factors": "...",
    "technological_factors": "...", "environmental_factors": "...", "legal_factors": "..."
  },
  "strategic_implications": [
    {"implication_title": "...", "analysis": "...", "affected_dimensions": ["Political"]}
  ],
  "opportunities_threats_matrix": {
    "dimensions": [{"dimension": "Political", "opportunities": ["..."], "threats": ["..."]}]
  },
  "strategic_recommendations": [
    {"recommendation_number": 1, "recommendation": "...", "related_dimensions": ["Economic"], "implementation_priority": "Critical|High|Medium|Low|Long-term"}
  ],
  "conclusion": "..."
}`
