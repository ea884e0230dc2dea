package analytics

// assess.go — evaluación de riesgo previa a la apuesta ("what-if").
//
// Función secundaria e independiente del snapshot: puntúa una apuesta
// PROPUESTA (aún no colocada) contra el historial. Read-only por contrato —
// no toca ningún estado de sesión.

import (
	"fmt"
	"time"

	"betsight/internal/domain"
)

// Pesos fijos de los cuatro factores de riesgo.
const (
	weightBetSize      = 0.4
	weightWinChance    = 0.2
	weightRecentLosses = 0.2
	weightSessionTime  = 0.2
)

// recentLossWindow: cuántas apuestas recientes se miran para la racha.
const recentLossWindow = 3

// AssessBet evalúa una apuesta propuesta contra el historial y el bankroll
// actual. Devuelve los cuatro factores puntuados 0–100, el riesgo global
// ponderado y una recomendación cualitativa.
func (e *Engine) AssessBet(history []domain.GameEvent, currentBankroll float64, bet domain.ProposedBet) domain.BetAssessment {
	return e.assessBetAt(history, currentBankroll, bet, time.Now().UTC())
}

func (e *Engine) assessBetAt(history []domain.GameEvent, currentBankroll float64, bet domain.ProposedBet, now time.Time) domain.BetAssessment {
	bankrollPct := 0.0
	if currentBankroll > 0 {
		bankrollPct = bet.BetAmount / currentBankroll * 100
	}

	factors := []domain.RiskFactor{
		betSizeFactor(bankrollPct),
		winChanceFactor(bet.WinChance),
		recentLossesFactor(history),
		sessionTimeFactor(history, now),
	}

	overall := factors[0].Value*weightBetSize +
		factors[1].Value*weightWinChance +
		factors[2].Value*weightRecentLosses +
		factors[3].Value*weightSessionTime

	return domain.BetAssessment{
		RiskFactors:    factors,
		OverallRisk:    overall,
		Recommendation: recommendationFor(overall),
	}
}

// betSizeFactor puntúa el tamaño de la apuesta relativo al bankroll.
// Escalera: >50% → 100, >25% → 75, >10% → 50, >5% → 25, resto 0.
func betSizeFactor(bankrollPct float64) domain.RiskFactor {
	value := 0.0
	switch {
	case bankrollPct > 50:
		value = 100
	case bankrollPct > 25:
		value = 75
	case bankrollPct > 10:
		value = 50
	case bankrollPct > 5:
		value = 25
	}
	return domain.RiskFactor{
		ID:          "bet-size",
		Name:        "Bet Size Risk",
		Value:       value,
		Description: fmt.Sprintf("This bet is %.1f%% of your bankroll.", bankrollPct),
		Color:       factorColor(value, 70, 40),
	}
}

// winChanceFactor es el inverso de la probabilidad de ganar.
func winChanceFactor(winChance float64) domain.RiskFactor {
	value := clamp(100-winChance, 0, 100)
	return domain.RiskFactor{
		ID:          "win-probability",
		Name:        "Win Probability",
		Value:       value,
		Description: fmt.Sprintf("This bet has a %.1f%% chance of winning.", winChance),
		Color:       factorColor(value, 70, 40),
	}
}

// recentLossesFactor puntúa la racha de pérdidas en las últimas apuestas.
func recentLossesFactor(history []domain.GameEvent) domain.RiskFactor {
	value := 0.0
	if len(history) >= recentLossWindow {
		recent := SortedByTime(history)
		recent = recent[len(recent)-recentLossWindow:]
		losses := 0
		for _, e := range recent {
			if e.Result == domain.ResultLoss {
				losses++
			}
		}
		value = float64(losses) / recentLossWindow * 100
	}

	desc := "Your recent betting history looks good."
	switch {
	case value > 66:
		desc = "You've lost most of your recent bets. Be cautious of chasing losses."
	case value > 33:
		desc = "Some of your recent bets were losses."
	}

	return domain.RiskFactor{
		ID:          "recent-losses",
		Name:        "Recent Losses",
		Value:       value,
		Description: desc,
		Color:       factorColor(value, 66, 33),
	}
}

// sessionTimeFactor puntúa cuánto lleva corriendo la sesión, medido desde la
// primera apuesta del historial. Escalera: >2h → 100, >1h → 50, >30m → 25.
func sessionTimeFactor(history []domain.GameEvent, now time.Time) domain.RiskFactor {
	value := 0.0
	if len(history) > 0 {
		start := SortedByTime(history)[0].Timestamp
		hours := now.Sub(start).Hours()
		switch {
		case hours > 2:
			value = 100
		case hours > 1:
			value = 50
		case hours > 0.5:
			value = 25
		}
	}

	desc := "Your session length is still within healthy limits."
	switch {
	case value > 75:
		desc = "Your session has been running for a long time. Consider taking a break."
	case value > 25:
		desc = "Your session is getting lengthy."
	}

	return domain.RiskFactor{
		ID:          "session-duration",
		Name:        "Session Duration",
		Value:       value,
		Description: desc,
		Color:       factorColor(value, 75, 25),
	}
}

func recommendationFor(overall float64) string {
	switch {
	case overall > 75:
		return "This is a high-risk bet. Consider reducing your bet size or taking a break."
	case overall > 50:
		return "This bet carries moderate risk. Be mindful of your bankroll management."
	case overall > 25:
		return "This bet has some risk factors to be aware of, but appears generally reasonable."
	default:
		return "This bet appears to be within responsible gambling parameters."
	}
}

func factorColor(value, redAbove, yellowAbove float64) string {
	switch {
	case value > redAbove:
		return "red"
	case value > yellowAbove:
		return "yellow"
	default:
		return "green"
	}
}
