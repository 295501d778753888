package model

// Breakdown splits a rebate total by incentive source, in whole dollars.
type Breakdown struct {
	Federal    int `json:"federal"`
	Provincial int `json:"provincial"`
	Municipal  int `json:"municipal"`
	Utility    int `json:"utility"`
}

// RebateEstimate is the mocked incentive estimate computed from a completed
// AnswerSet. Derived fields are fixed-ratio functions of the total; the
// whole record is recomputed on demand and never persisted with the session.
type RebateEstimate struct {
	Total                 int       `json:"total" bson:"total"`
	Breakdown             Breakdown `json:"breakdown" bson:"breakdown"`
	AnnualSavings         int       `json:"annualSavings" bson:"annualSavings"`
	CarbonReductionTonnes int       `json:"carbonReductionTonnes" bson:"carbonReductionTonnes"`
	PaybackYears          int       `json:"paybackYears" bson:"paybackYears"`
}

// Recommendation is an upgrade suggestion shown with the results.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
