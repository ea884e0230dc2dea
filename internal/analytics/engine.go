package analytics

// engine.go — ensamblado del snapshot.
//
// El motor es una transformación pura e idempotente de
// (eventos, balance inicial, balance final-o-actual) a AnalyticsSnapshot:
// mismos inputs, mismo output. Sin RNG oculto, sin I/O, sin cachés a medias —
// el snapshot se recalcula entero en cada invocación.

import (
	"time"

	"betsight/internal/domain"
)

// Banda de comparación de la tendencia de duración de sesión frente a la
// media histórica: fuera de ±25% se considera increasing/decreasing.
const sessionTrendBand = 0.25

// Engine deriva snapshots de analítica a partir de sesiones.
type Engine struct {
	cfg Config
}

// New crea un motor con la política dada.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Snapshot calcula el snapshot completo de la sesión. Las sesiones previas
// (opcionales) solo alimentan la tendencia de duración entre sesiones.
//
// Caso base obligatorio: cero eventos → métricas neutras, score 100,
// riesgo Low, sin patrones.
func (e *Engine) Snapshot(s domain.GameSession, prior ...domain.GameSession) domain.AnalyticsSnapshot {
	return e.snapshotAt(s, time.Now().UTC(), prior)
}

func (e *Engine) snapshotAt(s domain.GameSession, now time.Time, prior []domain.GameSession) domain.AnalyticsSnapshot {
	if len(s.Events) == 0 {
		return emptySnapshot(now)
	}

	events := s.Events
	initial := s.InitialBalance
	final := s.EffectiveFinalBalance()

	// Métricas base
	wins := 0
	for _, ev := range events {
		if ev.Won() {
			wins++
		}
	}
	losses := len(events) - wins
	netProfit := final - initial

	// Dimensionado de apuestas
	var totalBet, totalPct, maxBet, maxPct float64
	for _, ev := range events {
		totalBet += ev.BetAmount
		totalPct += ev.BankrollPct
		if ev.BetAmount > maxBet {
			maxBet = ev.BetAmount
		}
		if ev.BankrollPct > maxPct {
			maxPct = ev.BankrollPct
		}
	}
	n := float64(len(events))

	// Comportamiento
	duration := s.Duration(now)
	betsPerHour := 0.0
	if duration > 0 {
		betsPerHour = n / duration.Hours()
	}
	gaps := TimeBetweenBets(events)
	avgGap := meanDuration(gaps)

	chasing := LossChasingScore(events, e.cfg.RapidBetThreshold, e.cfg.RapidRebetPenalty)
	afterLoss, afterWin := RiskIncreases(events)
	rapidPct := RapidBettingPct(gaps, e.cfg.RapidBetThreshold)
	stakesPct := LargeStakesPct(events, e.cfg.HighRiskBetPct)

	score := e.ResponsibleScore(rapidPct, stakesPct, chasing, duration.Hours())

	return domain.AnalyticsSnapshot{
		NetProfit:       netProfit,
		ROI:             ROI(netProfit, initial),
		WinRate:         float64(wins) / n * 100,
		WinLossRatio:    WinLossRatio(wins, losses),
		AvgBetSize:      totalBet / n,
		AvgBetPct:       totalPct / n,
		MaxBetSize:      maxBet,
		MaxBetPct:       maxPct,
		MaxDrawdown:     MaxDrawdown(events, initial),
		VolatilityIndex: Volatility(events),

		BetsPerHour:           betsPerHour,
		SessionDurationMins:   duration.Minutes(),
		AvgTimeBetweenBets:    avgGap.Seconds(),
		BetFrequencyTrend:     e.frequencyTrend(betsPerHour),
		LossChasing:           chasing,
		RiskIncreaseAfterLoss: afterLoss,
		RiskIncreaseAfterWin:  afterWin,

		RapidBettingPct:    rapidPct,
		LargeStakesPct:     stakesPct,
		GameSwitchingFreq:  GameSwitchingFreq(events),
		SessionLengthTrend: sessionLengthTrend(duration, prior),

		ResponsibleGamblingScore: score,
		RiskLevel:                RiskLevelFor(score),
		DetectedPatterns:         e.detectPatterns(s, now),
		ComputedAt:               now,
	}
}

// frequencyTrend clasifica el ritmo de apuestas contra las bandas de config.
func (e *Engine) frequencyTrend(betsPerHour float64) domain.Trend {
	switch {
	case betsPerHour > e.cfg.FrequencyIncreasing:
		return domain.TrendIncreasing
	case betsPerHour < e.cfg.FrequencyDecreasing:
		return domain.TrendDecreasing
	default:
		return domain.TrendSteady
	}
}

// sessionLengthTrend compara la duración actual con la media de las sesiones
// previas archivadas. Sin histórico no hay tendencia que medir: steady.
func sessionLengthTrend(current time.Duration, prior []domain.GameSession) domain.Trend {
	if len(prior) == 0 {
		return domain.TrendSteady
	}

	var total time.Duration
	counted := 0
	for _, p := range prior {
		if p.EndTime == nil {
			continue
		}
		total += p.EndTime.Sub(p.StartTime)
		counted++
	}
	if counted == 0 || total <= 0 {
		return domain.TrendSteady
	}

	mean := float64(total) / float64(counted)
	ratio := float64(current) / mean
	switch {
	case ratio > 1+sessionTrendBand:
		return domain.TrendIncreasing
	case ratio < 1-sessionTrendBand:
		return domain.TrendDecreasing
	default:
		return domain.TrendSteady
	}
}

// emptySnapshot es el caso base de cero eventos: todo neutro, score perfecto.
func emptySnapshot(now time.Time) domain.AnalyticsSnapshot {
	return domain.AnalyticsSnapshot{
		BetFrequencyTrend:        domain.TrendSteady,
		SessionLengthTrend:       domain.TrendSteady,
		ResponsibleGamblingScore: 100,
		RiskLevel:                domain.RiskLow,
		ComputedAt:               now,
	}
}
