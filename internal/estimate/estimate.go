package estimate

import (
	"math"

	"rebatescout/internal/model"
)

// Tuning constants for the mocked estimate. The numbers are marketing
// placeholders, not program data; the only hard requirement is that the
// same answers always produce the same output.
const (
	// MinimumBaseline floors the total regardless of inputs.
	MinimumBaseline = 8000

	savingsRate     = 0.18 // annual savings as a share of the total
	carbonPerDollar = 100  // dollars of rebate per tonne of CO2 reduced
)

// federal incentives keyed by heating system (heat pump conversion).
var federalByHeating = map[string]int{
	"oil":     15000,
	"propane": 10000,
	"gas":     6500,
}

// provincial retrofit incentives keyed by home age.
var provincialByAge = map[string]int{
	"heritage":    5000,
	"mature":      3500,
	"established": 2000,
}

// municipal envelope incentives keyed by property type.
var municipalByProperty = map[string]int{
	"detached":  3000,
	"semi":      1500,
	"townhouse": 1500,
}

// utility insulation incentives keyed by insulation level.
var utilityByInsulation = map[string]int{
	"poor": 4000,
	"fair": 2500,
}

// Estimate computes the rebate estimate for a completed answer set. Pure
// and deterministic: a fixed rule table summed into four buckets, floored
// at MinimumBaseline, with derived metrics as fixed ratios of the total.
func Estimate(answers model.AnswerSet) model.RebateEstimate {
	breakdown := model.Breakdown{
		Federal:    federalByHeating[answers[model.FieldHeatingSystem]],
		Provincial: provincialByAge[answers[model.FieldHomeAge]],
		Municipal:  municipalByProperty[answers[model.FieldPropertyType]],
		Utility:    utilityByInsulation[answers[model.FieldInsulationLevel]],
	}

	total := breakdown.Federal + breakdown.Provincial + breakdown.Municipal + breakdown.Utility
	if total < MinimumBaseline {
		total = MinimumBaseline
	}

	annual := int(math.Round(float64(total) * savingsRate))
	payback := 0
	if annual > 0 {
		payback = int(math.Round(float64(total) / float64(annual)))
	}

	return model.RebateEstimate{
		Total:                 total,
		Breakdown:             breakdown,
		AnnualSavings:         annual,
		CarbonReductionTonnes: total / carbonPerDollar,
		PaybackYears:          payback,
	}
}

// Recommendations returns the upgrade suggestions shown with the results,
// as i18n key pairs. The heat pump entry appears only for oil heat; the
// insulation and window entries are always shown.
func Recommendations(answers model.AnswerSet) []model.Recommendation {
	var recs []model.Recommendation
	if answers[model.FieldHeatingSystem] == "oil" {
		recs = append(recs, model.Recommendation{
			Title:       "recommendation.heatpump.title",
			Description: "recommendation.heatpump.body",
		})
	}
	recs = append(recs,
		model.Recommendation{
			Title:       "recommendation.insulation.title",
			Description: "recommendation.insulation.body",
		},
		model.Recommendation{
			Title:       "recommendation.windows.title",
			Description: "recommendation.windows.body",
		},
	)
	return recs
}
