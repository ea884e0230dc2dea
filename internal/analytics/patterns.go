package analytics

// patterns.go — el motor de reglas de detección de patrones.
//
// Conjunto fijo y ordenado de reglas independientes: cada una se evalúa
// contra la lista completa de eventos y emite cero o un hallazgo. El orden de
// los hallazgos es el orden de evaluación. Ninguna regla lee el resultado de
// otra — la independencia es parte del contrato (ver tests).

import (
	"fmt"
	"time"

	"betsight/internal/domain"
)

// minEventsForPatterns: con menos de 2 eventos no hay gaps ni transiciones
// que analizar; ninguna regla dispara.
const minEventsForPatterns = 2

// detectPatterns evalúa todas las reglas en orden contra la sesión.
func (e *Engine) detectPatterns(s domain.GameSession, now time.Time) []domain.PatternFinding {
	if len(s.Events) < minEventsForPatterns {
		return nil
	}

	gaps := TimeBetweenBets(s.Events)
	rapidPct := RapidBettingPct(gaps, e.cfg.RapidBetThreshold)
	stakesPct := LargeStakesPct(s.Events, e.cfg.HighRiskBetPct)
	chasing := LossChasingScore(s.Events, e.cfg.RapidBetThreshold, e.cfg.RapidRebetPenalty)
	duration := s.Duration(now)

	var findings []domain.PatternFinding
	if f, ok := e.ruleRapidBetting(rapidPct); ok {
		findings = append(findings, f)
	}
	if f, ok := e.ruleLargeStakes(stakesPct); ok {
		findings = append(findings, f)
	}
	if f, ok := e.ruleLossChasing(chasing); ok {
		findings = append(findings, f)
	}
	if f, ok := e.ruleExtendedSession(duration); ok {
		findings = append(findings, f)
	}
	return findings
}

// ruleRapidBetting dispara cuando una fracción alta de los gaps entre
// apuestas queda por debajo del umbral de apuesta rápida.
func (e *Engine) ruleRapidBetting(rapidPct float64) (domain.PatternFinding, bool) {
	secs := int(e.cfg.RapidBetThreshold.Seconds())
	switch {
	case rapidPct > e.cfg.RapidHighPct:
		return domain.PatternFinding{
			ID:       "rapid-betting",
			Title:    "Rapid Betting Pattern",
			Severity: domain.SeverityHigh,
			Description: fmt.Sprintf(
				"%.0f%% of your bets are placed within %d seconds of the previous bet. This may indicate impulsive betting.",
				rapidPct, secs),
			Recommendation: "Take more time between bets to make thoughtful decisions. Consider setting a 1-minute cooling-off period between bets.",
		}, true
	case rapidPct > e.cfg.RapidMediumPct:
		return domain.PatternFinding{
			ID:       "rapid-betting",
			Title:    "Occasional Rapid Betting",
			Severity: domain.SeverityMedium,
			Description: fmt.Sprintf(
				"%.0f%% of your bets are placed very quickly after the previous bet.", rapidPct),
			Recommendation: "Consider taking more time between bets to evaluate your decisions.",
		}, true
	}
	return domain.PatternFinding{}, false
}

// ruleLargeStakes dispara cuando demasiadas apuestas superan el % de bankroll
// de alto riesgo.
func (e *Engine) ruleLargeStakes(stakesPct float64) (domain.PatternFinding, bool) {
	switch {
	case stakesPct > e.cfg.StakesHighPct:
		return domain.PatternFinding{
			ID:       "large-stakes",
			Title:    "High-Risk Betting Pattern",
			Severity: domain.SeverityHigh,
			Description: fmt.Sprintf(
				"%.0f%% of your bets exceed %.0f%% of your bankroll. Large stakes increase your risk of significant losses.",
				stakesPct, e.cfg.HighRiskBetPct),
			Recommendation: "Limit your bet sizes to 5-10% of your bankroll to ensure longevity and reduce the impact of losing streaks.",
		}, true
	case stakesPct > e.cfg.StakesMediumPct:
		return domain.PatternFinding{
			ID:       "large-stakes",
			Title:    "Occasional High-Risk Bets",
			Severity: domain.SeverityMedium,
			Description: fmt.Sprintf(
				"%.0f%% of your bets are considered high-risk based on your bankroll.", stakesPct),
			Recommendation: "Consider setting a maximum bet limit of 10% of your bankroll.",
		}, true
	}
	return domain.PatternFinding{}, false
}

// ruleLossChasing dispara sobre el score de persecución de pérdidas.
func (e *Engine) ruleLossChasing(chasing float64) (domain.PatternFinding, bool) {
	switch {
	case chasing > e.cfg.ChasingHighScore:
		return domain.PatternFinding{
			ID:             "loss-chasing",
			Title:          "Loss Chasing Detected",
			Severity:       domain.SeverityHigh,
			Description:    "You tend to increase your bet size after losing, which is a common sign of chasing losses.",
			Recommendation: "Set a consistent bet size regardless of previous results, and take a break after a series of losses.",
		}, true
	case chasing > e.cfg.ChasingMedScore:
		return domain.PatternFinding{
			ID:             "loss-chasing",
			Title:          "Mild Loss Chasing",
			Severity:       domain.SeverityMedium,
			Description:    "You occasionally increase your bet size after losses.",
			Recommendation: "Be mindful of your betting decisions after losses to avoid chasing losses.",
		}, true
	}
	return domain.PatternFinding{}, false
}

// ruleExtendedSession dispara sobre la duración de la sesión (cerrada o
// abierta) frente al umbral de sesión responsable.
func (e *Engine) ruleExtendedSession(duration time.Duration) (domain.PatternFinding, bool) {
	switch {
	case duration > 2*e.cfg.ResponsibleDuration:
		return domain.PatternFinding{
			ID:       "extended-session",
			Title:    "Extended Gambling Session",
			Severity: domain.SeverityHigh,
			Description: fmt.Sprintf(
				"Your gambling session lasted over %.0f hours, which can lead to fatigue and poor decision making.",
				duration.Hours()),
			Recommendation: "Set a time limit for your gambling sessions, and take regular breaks.",
		}, true
	case duration > e.cfg.ResponsibleDuration:
		return domain.PatternFinding{
			ID:             "extended-session",
			Title:          "Long Gambling Session",
			Severity:       domain.SeverityMedium,
			Description:    "Your gambling session lasted over an hour.",
			Recommendation: "Consider taking regular breaks during gambling sessions.",
		}, true
	}
	return domain.PatternFinding{}, false
}
