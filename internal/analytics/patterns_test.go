package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"betsight/internal/domain"
)

// --- tiers por regla ---

func TestRuleRapidBetting_Tiers(t *testing.T) {
	e := New(DefaultConfig())

	_, ok := e.ruleRapidBetting(40)
	assert.False(t, ok, "at the medium threshold no finding fires")

	f, ok := e.ruleRapidBetting(41)
	require.True(t, ok)
	assert.Equal(t, domain.SeverityMedium, f.Severity)

	f, ok = e.ruleRapidBetting(71)
	require.True(t, ok)
	assert.Equal(t, domain.SeverityHigh, f.Severity)
	assert.Contains(t, f.Description, "71%")
	assert.Contains(t, f.Description, "10 seconds")
}

func TestRuleLargeStakes_Tiers(t *testing.T) {
	e := New(DefaultConfig())

	_, ok := e.ruleLargeStakes(20)
	assert.False(t, ok)

	f, ok := e.ruleLargeStakes(35)
	require.True(t, ok)
	assert.Equal(t, domain.SeverityMedium, f.Severity)

	f, ok = e.ruleLargeStakes(80)
	require.True(t, ok)
	assert.Equal(t, domain.SeverityHigh, f.Severity)
	assert.Contains(t, f.Description, "80%")
	assert.Contains(t, f.Description, "20%")
}

func TestRuleLossChasing_Tiers(t *testing.T) {
	e := New(DefaultConfig())

	_, ok := e.ruleLossChasing(30)
	assert.False(t, ok)

	f, ok := e.ruleLossChasing(45)
	require.True(t, ok)
	assert.Equal(t, domain.SeverityMedium, f.Severity)

	f, ok = e.ruleLossChasing(61)
	require.True(t, ok)
	assert.Equal(t, domain.SeverityHigh, f.Severity)
}

func TestRuleExtendedSession_Tiers(t *testing.T) {
	e := New(DefaultConfig())

	_, ok := e.ruleExtendedSession(45 * time.Minute)
	assert.False(t, ok)

	f, ok := e.ruleExtendedSession(90 * time.Minute)
	require.True(t, ok)
	assert.Equal(t, domain.SeverityMedium, f.Severity)

	f, ok = e.ruleExtendedSession(3 * time.Hour)
	require.True(t, ok)
	assert.Equal(t, domain.SeverityHigh, f.Severity)
	assert.Contains(t, f.Description, "3 hours")
}

// --- menos de 2 eventos: ninguna regla dispara ---

func TestDetectPatterns_TooFewEvents(t *testing.T) {
	e := New(DefaultConfig())

	s := closedSession(t0, 5*time.Hour, 1000, []domain.GameEvent{
		eventAt(t0, domain.ResultLoss, 900, 0, 90),
	})
	// incluso con una apuesta del 90% y 5 horas de sesión
	assert.Empty(t, e.detectPatterns(s, *s.EndTime))
}

// --- P5: independencia entre reglas ---

func TestDetectPatterns_RuleIndependence(t *testing.T) {
	e := New(DefaultConfig())

	// base: gaps de 5s (rapid 100%) con apuestas pequeñas
	base := []domain.GameEvent{
		eventAt(t0, domain.ResultWin, 20, 40, 2),
		eventAt(t0.Add(5*time.Second), domain.ResultWin, 20, 40, 2),
		eventAt(t0.Add(10*time.Second), domain.ResultWin, 20, 40, 2),
	}
	sBase := closedSession(t0, 15*time.Second, 1000, base)
	baseFindings := e.detectPatterns(sBase, *sBase.EndTime)

	// misma sesión pero disparando large-stakes (todas >20% del bankroll)
	big := make([]domain.GameEvent, len(base))
	copy(big, base)
	for i := range big {
		big[i].BankrollPct = 30
	}
	sBig := closedSession(t0, 15*time.Second, 1000, big)
	bigFindings := e.detectPatterns(sBig, *sBig.EndTime)

	var baseRapid, bigRapid *domain.PatternFinding
	for i := range baseFindings {
		if baseFindings[i].ID == "rapid-betting" {
			baseRapid = &baseFindings[i]
		}
	}
	for i := range bigFindings {
		if bigFindings[i].ID == "rapid-betting" {
			bigRapid = &bigFindings[i]
		}
	}

	// activar large-stakes no cambia el hallazgo de rapid-betting
	require.NotNil(t, baseRapid)
	require.NotNil(t, bigRapid)
	assert.Equal(t, *baseRapid, *bigRapid)

	hasLargeStakes := false
	for _, f := range bigFindings {
		if f.ID == "large-stakes" {
			hasLargeStakes = true
		}
	}
	assert.True(t, hasLargeStakes)
}

// --- orden de evaluación estable ---

func TestDetectPatterns_FindingOrder(t *testing.T) {
	e := New(DefaultConfig())

	// sesión que dispara las cuatro reglas a la vez
	pcts := []float64{25, 40, 64}
	var events []domain.GameEvent
	for i, pct := range pcts {
		events = append(events, eventAt(t0.Add(time.Duration(i)*5*time.Second), domain.ResultLoss, pct*10, 0, pct))
	}
	s := closedSession(t0, 3*time.Hour, 1000, events)

	findings := e.detectPatterns(s, *s.EndTime)
	require.Len(t, findings, 4)
	assert.Equal(t, "rapid-betting", findings[0].ID)
	assert.Equal(t, "large-stakes", findings[1].ID)
	assert.Equal(t, "loss-chasing", findings[2].ID)
	assert.Equal(t, "extended-session", findings[3].ID)
}
