package predictor

// RiskLevel is the discretised no-show risk.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Score thresholds, inclusive.
const (
	highRiskScore   = 70
	mediumRiskScore = 40
)

// LevelForScore maps a 0-100 risk score to a level.
func LevelForScore(score int) RiskLevel {
	switch {
	case score >= highRiskScore:
		return RiskHigh
	case score >= mediumRiskScore:
		return RiskMedium
	default:
		return RiskLow
	}
}

var recommendations = map[RiskLevel]string{
	RiskHigh:   "Send 3 reminders: 7 days, 3 days, and 1 day before. Consider phone call confirmation.",
	RiskMedium: "Send 2 reminders: 3 days and 1 day before appointment.",
	RiskLow:    "Send 1 reminder: 1 day before appointment.",
}

// Recommendation is the reminder plan for a risk level. Unknown levels get
// the low-risk plan.
func Recommendation(level RiskLevel) string {
	if r, ok := recommendations[level]; ok {
		return r
	}
	return recommendations[RiskLow]
}
