package analytics

// metrics.go — calculadoras puras sobre la lista de eventos.
//
// Todas las funciones son totales: inputs degenerados (cero eventos, cero
// pérdidas, apuestas de importe cero) devuelven centinelas finitos en lugar
// de propagar Inf/NaN hacia la capa de presentación.

import (
	"math"
	"sort"
	"time"

	"betsight/internal/domain"
)

// WinLossRatio devuelve wins/losses, con el convenio documentado de que
// losses == 0 produce el centinela finito `wins` (nunca Inf ni NaN).
func WinLossRatio(wins, losses int) float64 {
	if losses == 0 {
		return float64(wins)
	}
	return float64(wins) / float64(losses)
}

// ROI devuelve el retorno porcentual sobre el balance inicial.
// Con initial <= 0 la métrica no está definida y devuelve 0.
func ROI(netProfit, initialBalance float64) float64 {
	if initialBalance <= 0 {
		return 0
	}
	return netProfit / initialBalance * 100
}

// SortedByTime devuelve los eventos ordenados cronológicamente. El orden de
// inserción suele ser cronológico, pero no está garantizado: toda métrica
// basada en deltas de tiempo debe pasar por aquí primero.
func SortedByTime(events []domain.GameEvent) []domain.GameEvent {
	out := make([]domain.GameEvent, len(events))
	copy(out, events)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// TimeBetweenBets devuelve los gaps sucesivos entre apuestas, en orden
// cronológico. Con 0 o 1 eventos devuelve nil.
func TimeBetweenBets(events []domain.GameEvent) []time.Duration {
	if len(events) <= 1 {
		return nil
	}
	sorted := SortedByTime(events)
	gaps := make([]time.Duration, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, sorted[i].Timestamp.Sub(sorted[i-1].Timestamp))
	}
	return gaps
}

// MaxDrawdown devuelve la máxima caída porcentual desde el pico de balance,
// escaneando los eventos en orden cronológico. El pico arranca en el balance
// inicial, así que el resultado es no-decreciente al añadir eventos.
func MaxDrawdown(events []domain.GameEvent, initialBalance float64) float64 {
	peak := initialBalance
	balance := initialBalance
	maxDD := 0.0

	for _, e := range SortedByTime(events) {
		balance += e.BalanceChange
		if balance > peak {
			peak = balance
		}
		if peak <= 0 {
			continue
		}
		dd := (peak - balance) / peak * 100
		if dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// Volatility devuelve la desviación estándar de los ratios de retorno por
// evento (balanceChange/betAmount), escalada ×100. Los eventos con importe
// cero se excluyen del cálculo en vez de dividir por cero.
func Volatility(events []domain.GameEvent) float64 {
	var returns []float64
	for _, e := range events {
		if e.BetAmount <= 0 {
			continue
		}
		returns = append(returns, e.BalanceChange/e.BetAmount)
	}
	if len(returns) == 0 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))

	return math.Sqrt(variance) * 100
}

// LossChasingScore puntúa 0–100 la tendencia a perseguir pérdidas: para cada
// apuesta que sigue a una pérdida acumula el incremento porcentual del % de
// bankroll apostado, más una penalización fija si la re-apuesta llegó dentro
// del umbral de apuesta rápida. El acumulado se promedia sobre el número de
// pérdidas seguidas de otra apuesta y se recorta a [0, 100].
func LossChasingScore(events []domain.GameEvent, rapidThreshold time.Duration, rapidPenalty float64) float64 {
	if len(events) <= 1 {
		return 0
	}

	sorted := SortedByTime(events)
	chasing := 0.0
	lossCount := 0

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.Result != domain.ResultLoss {
			continue
		}
		lossCount++

		if prev.BankrollPct > 0 && cur.BankrollPct > prev.BankrollPct {
			chasing += (cur.BankrollPct/prev.BankrollPct - 1) * 100
		}
		if cur.Timestamp.Sub(prev.Timestamp) < rapidThreshold {
			chasing += rapidPenalty
		}
	}

	if lossCount == 0 {
		return 0
	}
	return math.Min(100, chasing/float64(lossCount))
}

// RiskIncreases devuelve el incremento porcentual medio del % de bankroll
// apostado tras una pérdida y tras una victoria. Solo cuentan los
// incrementos: una reducción aporta cero, no negativo.
func RiskIncreases(events []domain.GameEvent) (afterLoss, afterWin float64) {
	sorted := SortedByTime(events)

	var lossTotal, winTotal float64
	var lossN, winN int

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.BankrollPct <= 0 {
			continue
		}
		change := (cur.BankrollPct/prev.BankrollPct - 1) * 100
		if change < 0 {
			change = 0
		}
		if prev.Result == domain.ResultLoss {
			lossN++
			lossTotal += change
		} else {
			winN++
			winTotal += change
		}
	}

	if lossN > 0 {
		afterLoss = lossTotal / float64(lossN)
	}
	if winN > 0 {
		afterWin = winTotal / float64(winN)
	}
	return afterLoss, afterWin
}

// RapidBettingPct devuelve el % de gaps entre apuestas por debajo del umbral.
func RapidBettingPct(gaps []time.Duration, threshold time.Duration) float64 {
	if len(gaps) == 0 {
		return 0
	}
	rapid := 0
	for _, g := range gaps {
		if g < threshold {
			rapid++
		}
	}
	return float64(rapid) / float64(len(gaps)) * 100
}

// LargeStakesPct devuelve el % de apuestas por encima del umbral de % de
// bankroll considerado de alto riesgo.
func LargeStakesPct(events []domain.GameEvent, highRiskPct float64) float64 {
	if len(events) == 0 {
		return 0
	}
	high := 0
	for _, e := range events {
		if e.BankrollPct > highRiskPct {
			high++
		}
	}
	return float64(high) / float64(len(events)) * 100
}

// GameSwitchingFreq devuelve con qué frecuencia el jugador cambia de tipo de
// apuesta, como % de las transiciones posibles.
func GameSwitchingFreq(events []domain.GameEvent) float64 {
	if len(events) <= 1 {
		return 0
	}
	unique := make(map[string]struct{}, len(events))
	for _, e := range events {
		unique[e.GameType] = struct{}{}
	}
	return float64(len(unique)-1) / float64(len(events)-1) * 100
}

func meanDuration(ds []time.Duration) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range ds {
		total += d
	}
	return total / time.Duration(len(ds))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
