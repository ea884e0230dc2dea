package analytics

// score.go — agregación del score global y clasificación de riesgo.

import "betsight/internal/domain"

// Puntos de corte del nivel de riesgo. Step function sobre el score:
// >= 80 Low, >= 60 Medium, >= 40 High, resto Very High.
const (
	riskLowMin    = 80.0
	riskMediumMin = 60.0
	riskHighMin   = 40.0
)

// ResponsibleScore parte de 100 y resta penalizaciones ponderadas por apuesta
// rápida, apuestas grandes, persecución de pérdidas y duración de sesión.
// El resultado queda recortado a [0, 100] sean cuales sean los inputs.
func (e *Engine) ResponsibleScore(rapidPct, stakesPct, chasing, sessionHours float64) float64 {
	score := 100.0
	score -= rapidPct * e.cfg.RapidBettingWeight
	score -= stakesPct * e.cfg.LargeStakesWeight
	score -= chasing * e.cfg.LossChasingWeight

	responsibleHours := e.cfg.ResponsibleDuration.Hours()
	if sessionHours > responsibleHours {
		penalty := (sessionHours - responsibleHours) * e.cfg.SessionPenaltyPerHour
		if penalty > e.cfg.SessionPenaltyCap {
			penalty = e.cfg.SessionPenaltyCap
		}
		score -= penalty
	}

	return clamp(score, 0, 100)
}

// RiskLevelFor mapea el score a su clasificación cualitativa.
func RiskLevelFor(score float64) domain.RiskLevel {
	switch {
	case score >= riskLowMin:
		return domain.RiskLow
	case score >= riskMediumMin:
		return domain.RiskMedium
	case score >= riskHighMin:
		return domain.RiskHigh
	default:
		return domain.RiskVeryHigh
	}
}
