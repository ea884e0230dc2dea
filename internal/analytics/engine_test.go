package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"betsight/internal/domain"
)

func closedSession(start time.Time, duration time.Duration, initial float64, events []domain.GameEvent) domain.GameSession {
	end := start.Add(duration)
	s := domain.GameSession{
		ID:             "test-session",
		StartTime:      start,
		EndTime:        &end,
		InitialBalance: initial,
		Events:         events,
	}
	final := s.EffectiveFinalBalance()
	s.FinalBalance = &final
	return s
}

func findPattern(snap domain.AnalyticsSnapshot, id string) *domain.PatternFinding {
	for i := range snap.DetectedPatterns {
		if snap.DetectedPatterns[i].ID == id {
			return &snap.DetectedPatterns[i]
		}
	}
	return nil
}

// --- P1: caso base de cero eventos ---

func TestSnapshot_EmptySession(t *testing.T) {
	e := New(DefaultConfig())
	for _, initial := range []float64{0, 100, 1000, 1e9} {
		s := domain.GameSession{ID: "empty", StartTime: t0, InitialBalance: initial}
		snap := e.snapshotAt(s, t0.Add(time.Minute), nil)

		assert.Equal(t, 100.0, snap.ResponsibleGamblingScore)
		assert.Equal(t, domain.RiskLow, snap.RiskLevel)
		assert.Empty(t, snap.DetectedPatterns)
		assert.Equal(t, 0.0, snap.NetProfit)
		assert.Equal(t, 0.0, snap.ROI)
		assert.Equal(t, 0.0, snap.WinRate)
		assert.Equal(t, domain.TrendSteady, snap.BetFrequencyTrend)
	}
}

// --- P2: conservación del balance ---

func TestSnapshot_BalanceConservation(t *testing.T) {
	events := []domain.GameEvent{
		eventAt(t0, domain.ResultWin, 100, 250, 10),
		eventAt(t0.Add(time.Minute), domain.ResultLoss, 80, 0, 8),
		eventAt(t0.Add(2*time.Minute), domain.ResultLoss, 120, 0, 12),
		eventAt(t0.Add(3*time.Minute), domain.ResultWin, 60, 180, 6),
	}
	s := domain.GameSession{ID: "open", StartTime: t0, InitialBalance: 1000, Events: events}

	var sum float64
	for _, ev := range events {
		sum += ev.BalanceChange
	}
	assert.InDelta(t, 1000+sum, s.EffectiveFinalBalance(), 0.001)

	e := New(DefaultConfig())
	snap := e.snapshotAt(s, t0.Add(4*time.Minute), nil)
	assert.InDelta(t, sum, snap.NetProfit, 0.001)
}

// --- P6: clamp del score ---

func TestResponsibleScore_ClampedToRange(t *testing.T) {
	e := New(DefaultConfig())
	assert.Equal(t, 0.0, e.ResponsibleScore(1000, 1000, 1000, 50))
	assert.Equal(t, 100.0, e.ResponsibleScore(0, 0, 0, 0))
	assert.Equal(t, 100.0, e.ResponsibleScore(-50, -50, -50, 0.5))
}

// --- Scenario A: apuesta rápida sostenida ---

func TestSnapshot_ScenarioA_RapidBetting(t *testing.T) {
	// 10 apuestas con gaps de 5s, 6 wins / 4 losses, $50 fijos (5% de $1000),
	// balance final $1050
	winDelta := 250.0 / 6.0 // 6 × winDelta − 4 × 50 = +50 neto
	var events []domain.GameEvent
	for i := 0; i < 10; i++ {
		at := t0.Add(time.Duration(i) * 5 * time.Second)
		if i < 6 {
			events = append(events, eventAt(at, domain.ResultWin, 50, 50+winDelta, 5))
		} else {
			events = append(events, eventAt(at, domain.ResultLoss, 50, 0, 5))
		}
	}
	s := closedSession(t0, 45*time.Second, 1000, events)

	e := New(DefaultConfig())
	snap := e.snapshotAt(s, *s.EndTime, nil)

	assert.InDelta(t, 60.0, snap.WinRate, 0.001)
	assert.InDelta(t, 100.0, snap.RapidBettingPct, 0.001)
	assert.InDelta(t, 50.0, snap.NetProfit, 0.001)

	rapid := findPattern(snap, "rapid-betting")
	require.NotNil(t, rapid, "rapid betting finding expected")
	assert.Equal(t, "Rapid Betting Pattern", rapid.Title)
	assert.Equal(t, domain.SeverityHigh, rapid.Severity)
}

// --- Scenario B: evento único ganador ---

func TestSnapshot_ScenarioB_SingleWin(t *testing.T) {
	// $100 al 2x sobre bankroll de $1000: payout $200, balanceChange +100
	events := []domain.GameEvent{eventAt(t0, domain.ResultWin, 100, 200, 10)}
	s := domain.GameSession{ID: "single", StartTime: t0, InitialBalance: 1000, Events: events}

	e := New(DefaultConfig())
	snap := e.snapshotAt(s, t0.Add(time.Minute), nil)

	assert.InDelta(t, 100.0, snap.NetProfit, 0.001)
	assert.InDelta(t, 10.0, snap.ROI, 0.001)
	assert.InDelta(t, 100.0, snap.WinRate, 0.001)
	// centinela de cero pérdidas: ratio = wins
	assert.Equal(t, 1.0, snap.WinLossRatio)
	assert.Empty(t, snap.DetectedPatterns, "single event never triggers patterns")
}

// --- Scenario C: persecución de pérdidas ---

func TestSnapshot_ScenarioC_LossChasing(t *testing.T) {
	// 5 pérdidas consecutivas, cada una seguida en <10s por una apuesta un
	// 60% mayor en % de bankroll
	pcts := []float64{2, 3.2, 5.12, 8.19, 13.1, 18.9}
	var events []domain.GameEvent
	for i, pct := range pcts {
		at := t0.Add(time.Duration(i) * 5 * time.Second)
		events = append(events, eventAt(at, domain.ResultLoss, pct*10, 0, pct))
	}
	s := closedSession(t0, 30*time.Second, 1000, events)

	e := New(DefaultConfig())
	snap := e.snapshotAt(s, *s.EndTime, nil)

	assert.Greater(t, snap.LossChasing, 60.0)
	chasing := findPattern(snap, "loss-chasing")
	require.NotNil(t, chasing, "loss chasing finding expected")
	assert.Equal(t, "Loss Chasing Detected", chasing.Title)
	assert.Equal(t, domain.SeverityHigh, chasing.Severity)
}

// --- Scenario D: sesión larga con pocas apuestas ---

func TestSnapshot_ScenarioD_ExtendedSession(t *testing.T) {
	events := []domain.GameEvent{
		eventAt(t0.Add(10*time.Minute), domain.ResultWin, 50, 100, 5),
		eventAt(t0.Add(2*time.Hour), domain.ResultLoss, 50, 0, 5),
	}
	s := closedSession(t0, 3*time.Hour, 1000, events)

	e := New(DefaultConfig())
	snap := e.snapshotAt(s, *s.EndTime, nil)

	// 2 apuestas en 3h → ritmo decreciente, nunca increasing
	assert.Equal(t, domain.TrendDecreasing, snap.BetFrequencyTrend)
	assert.NotEqual(t, domain.TrendIncreasing, snap.SessionLengthTrend)

	extended := findPattern(snap, "extended-session")
	require.NotNil(t, extended, "extended session finding expected")
	assert.Equal(t, "Extended Gambling Session", extended.Title)
	assert.Equal(t, domain.SeverityHigh, extended.Severity)
}

// --- Tendencias ---

func TestSnapshot_FrequencyTrend_Increasing(t *testing.T) {
	// 40 apuestas en 1h → >30/h
	var events []domain.GameEvent
	for i := 0; i < 40; i++ {
		events = append(events, eventAt(t0.Add(time.Duration(i)*90*time.Second), domain.ResultLoss, 10, 0, 1))
	}
	s := closedSession(t0, time.Hour, 1000, events)

	e := New(DefaultConfig())
	snap := e.snapshotAt(s, *s.EndTime, nil)
	assert.Equal(t, domain.TrendIncreasing, snap.BetFrequencyTrend)
}

func TestSnapshot_SessionLengthTrend_AgainstHistory(t *testing.T) {
	e := New(DefaultConfig())
	events := []domain.GameEvent{
		eventAt(t0, domain.ResultWin, 50, 100, 5),
		eventAt(t0.Add(5*time.Minute), domain.ResultLoss, 50, 0, 5),
	}

	// sesiones previas de ~30 min
	var prior []domain.GameSession
	for i := 0; i < 3; i++ {
		prior = append(prior, closedSession(t0.Add(-time.Duration(i+1)*24*time.Hour), 30*time.Minute, 1000, nil))
	}

	long := closedSession(t0, 2*time.Hour, 1000, events)
	assert.Equal(t, domain.TrendIncreasing, e.snapshotAt(long, *long.EndTime, prior).SessionLengthTrend)

	short := closedSession(t0, 10*time.Minute, 1000, events)
	assert.Equal(t, domain.TrendDecreasing, e.snapshotAt(short, *short.EndTime, prior).SessionLengthTrend)

	similar := closedSession(t0, 30*time.Minute, 1000, events)
	assert.Equal(t, domain.TrendSteady, e.snapshotAt(similar, *similar.EndTime, prior).SessionLengthTrend)

	// sin histórico no hay tendencia que medir
	assert.Equal(t, domain.TrendSteady, e.snapshotAt(long, *long.EndTime, nil).SessionLengthTrend)
}

// --- Determinismo ---

func TestSnapshot_Idempotent(t *testing.T) {
	events := []domain.GameEvent{
		eventAt(t0, domain.ResultWin, 100, 250, 10),
		eventAt(t0.Add(time.Minute), domain.ResultLoss, 80, 0, 8),
	}
	s := closedSession(t0, 2*time.Minute, 1000, events)

	e := New(DefaultConfig())
	now := *s.EndTime
	first := e.snapshotAt(s, now, nil)
	second := e.snapshotAt(s, now, nil)
	assert.Equal(t, first, second)
}
