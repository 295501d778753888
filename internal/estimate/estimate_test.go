package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rebatescout/internal/model"
)

func answersWith(values map[model.FieldKey]string) model.AnswerSet {
	answers := model.NewAnswerSet()
	for k, v := range values {
		answers[k] = v
	}
	return answers
}

func TestEstimateBaselineFloor(t *testing.T) {
	est := Estimate(model.NewAnswerSet())
	assert.Equal(t, MinimumBaseline, est.Total, "empty answers floor at the baseline")
	assert.Equal(t, model.Breakdown{}, est.Breakdown)
}

func TestEstimateRuleTable(t *testing.T) {
	est := Estimate(answersWith(map[model.FieldKey]string{
		model.FieldHeatingSystem:   "oil",
		model.FieldHomeAge:         "heritage",
		model.FieldPropertyType:    "detached",
		model.FieldInsulationLevel: "poor",
	}))

	assert.Equal(t, 15000, est.Breakdown.Federal)
	assert.Equal(t, 5000, est.Breakdown.Provincial)
	assert.Equal(t, 3000, est.Breakdown.Municipal)
	assert.Equal(t, 4000, est.Breakdown.Utility)
	assert.Equal(t, 27000, est.Total)

	assert.Equal(t, 4860, est.AnnualSavings, "18 percent of total")
	assert.Equal(t, 6, est.PaybackYears, "total over annual savings, rounded")
	assert.Equal(t, 270, est.CarbonReductionTonnes)
}

func TestEstimateBucketsIndependent(t *testing.T) {
	est := Estimate(answersWith(map[model.FieldKey]string{
		model.FieldHeatingSystem: "electric", // no federal line item
		model.FieldHomeAge:       "mature",
		model.FieldPropertyType:  "condo", // no municipal line item
	}))

	assert.Equal(t, 0, est.Breakdown.Federal)
	assert.Equal(t, 3500, est.Breakdown.Provincial)
	assert.Equal(t, 0, est.Breakdown.Municipal)
	assert.Equal(t, 0, est.Breakdown.Utility)
	assert.Equal(t, MinimumBaseline, est.Total, "below-baseline sums floor up")
}

func TestEstimateDeterministic(t *testing.T) {
	answers := answersWith(map[model.FieldKey]string{
		model.FieldHeatingSystem:   "propane",
		model.FieldHomeAge:         "established",
		model.FieldPropertyType:    "semi",
		model.FieldInsulationLevel: "fair",
	})

	first := Estimate(answers)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Estimate(answers))
	}
}

func TestRecommendations(t *testing.T) {
	oil := Recommendations(answersWith(map[model.FieldKey]string{
		model.FieldHeatingSystem: "oil",
	}))
	assert.Len(t, oil, 3)
	assert.Equal(t, "recommendation.heatpump.title", oil[0].Title)

	gas := Recommendations(answersWith(map[model.FieldKey]string{
		model.FieldHeatingSystem: "gas",
	}))
	assert.Len(t, gas, 2, "heat pump suggested only for oil heat")
	assert.Equal(t, "recommendation.insulation.title", gas[0].Title)
}
