package models

// RiskLevel classifies the overall security posture of a batch of findings.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// riskRank orders levels for threshold comparisons.
var riskRank = map[RiskLevel]int{
	RiskLow:      1,
	RiskMedium:   2,
	RiskHigh:     3,
	RiskCritical: 4,
}

// AtLeast reports whether l is as severe as min. Unknown levels rank
// below LOW.
func (l RiskLevel) AtLeast(min RiskLevel) bool {
	return riskRank[l] >= riskRank[min]
}

// RiskAssessment summarizes the security posture derived from the current
// vulnerability batch: a qualitative level, a weighted score and the
// finding counts that drove the classification.
type RiskAssessment struct {
	Level   RiskLevel `json:"level"`
	Score   float64   `json:"score"`
	Drivers []string  `json:"drivers"`
}
