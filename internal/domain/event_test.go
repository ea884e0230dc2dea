package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"betsight/internal/domain"
)

func TestGameEvent_Consistent(t *testing.T) {
	win := domain.GameEvent{Result: domain.ResultWin, BetAmount: 50, Payout: 100, BalanceChange: 50}
	assert.True(t, win.Consistent())
	assert.True(t, win.Won())

	loss := domain.GameEvent{Result: domain.ResultLoss, BetAmount: 50, BalanceChange: -50}
	assert.True(t, loss.Consistent())
	assert.False(t, loss.Won())

	// win con el delta mal aplicado
	broken := domain.GameEvent{Result: domain.ResultWin, BetAmount: 50, Payout: 100, BalanceChange: 100}
	assert.False(t, broken.Consistent())

	// resultado desconocido nunca es consistente
	unknown := domain.GameEvent{Result: "push", BetAmount: 50}
	assert.False(t, unknown.Consistent())
}

func TestGameSession_Duration(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	open := domain.GameSession{StartTime: start}
	assert.False(t, open.Closed())
	assert.Equal(t, 30*time.Minute, open.Duration(start.Add(30*time.Minute)))

	end := start.Add(time.Hour)
	closed := domain.GameSession{StartTime: start, EndTime: &end}
	assert.True(t, closed.Closed())
	// con la sesión cerrada, now es irrelevante
	assert.Equal(t, time.Hour, closed.Duration(start.Add(5*time.Hour)))
}

func TestGameSession_EffectiveFinalBalance(t *testing.T) {
	s := domain.GameSession{
		InitialBalance: 1000,
		Events: []domain.GameEvent{
			{Result: domain.ResultWin, BetAmount: 50, Payout: 100, BalanceChange: 50},
			{Result: domain.ResultLoss, BetAmount: 100, BalanceChange: -100},
		},
	}
	// abierta: derivado de los eventos
	assert.InDelta(t, 950.0, s.EffectiveFinalBalance(), 0.001)

	// cerrada: manda el balance final sellado
	final := 900.0
	s.FinalBalance = &final
	assert.Equal(t, 900.0, s.EffectiveFinalBalance())
}

func TestGameSession_CloneIsDeep(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	final := 950.0
	original := domain.GameSession{
		ID:             "s-1",
		StartTime:      start,
		EndTime:        &end,
		InitialBalance: 1000,
		FinalBalance:   &final,
		Events: []domain.GameEvent{
			{Result: domain.ResultLoss, BetAmount: 50, BalanceChange: -50},
		},
	}

	clone := original.Clone()
	require.Equal(t, original, clone)

	clone.Events[0].BetAmount = 99999
	*clone.EndTime = end.Add(24 * time.Hour)
	*clone.FinalBalance = 0

	assert.Equal(t, 50.0, original.Events[0].BetAmount)
	assert.Equal(t, end, *original.EndTime)
	assert.Equal(t, 950.0, *original.FinalBalance)
}
