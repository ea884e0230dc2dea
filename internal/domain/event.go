package domain

import "time"

// BetResult es el desenlace de una apuesta simulada.
type BetResult string

const (
	ResultWin  BetResult = "win"
	ResultLoss BetResult = "loss"
)

// GameEvent es el registro inmutable de una apuesta simulada.
//
// Invariantes:
//   - BalanceChange = Payout - BetAmount cuando Result es win
//   - BalanceChange = -BetAmount cuando Result es loss
//   - BankrollPct se calcula contra el balance ANTES de la apuesta, nunca después
type GameEvent struct {
	Timestamp     time.Time
	GameType      string
	BetAmount     float64
	Result        BetResult
	Payout        float64 // devuelto al jugador en win, 0 en loss
	BalanceChange float64 // delta con signo aplicado al balance
	Multiplier    float64
	BankrollPct   float64       // BetAmount como % del balance pre-apuesta
	Response      time.Duration // tiempo de decisión del usuario; 0 = no medido
}

// Won reports whether the event was a winning bet.
func (e GameEvent) Won() bool { return e.Result == ResultWin }

// Consistent verifica el invariante payout/balanceChange del evento.
func (e GameEvent) Consistent() bool {
	const eps = 1e-9
	switch e.Result {
	case ResultWin:
		return abs(e.BalanceChange-(e.Payout-e.BetAmount)) < eps
	case ResultLoss:
		return abs(e.BalanceChange+e.BetAmount) < eps
	}
	return false
}

// BetInput es un GameEvent sin timestamp: lo que el simulador entrega al
// tracker, que lo sella con la hora de registro.
type BetInput struct {
	GameType      string
	BetAmount     float64
	Result        BetResult
	Payout        float64
	BalanceChange float64
	Multiplier    float64
	BankrollPct   float64
	Response      time.Duration
}

// GameSession es el contenedor con ownership exclusivo de sus eventos.
// Ningún evento se comparte entre sesiones.
type GameSession struct {
	ID             string
	StartTime      time.Time
	EndTime        *time.Time
	InitialBalance float64
	FinalBalance   *float64
	Events         []GameEvent
}

// Closed reports whether the session has been explicitly ended.
func (s GameSession) Closed() bool { return s.EndTime != nil }

// Duration devuelve la duración de la sesión: hasta EndTime si está cerrada,
// hasta now si sigue abierta.
func (s GameSession) Duration(now time.Time) time.Duration {
	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime)
	}
	return now.Sub(s.StartTime)
}

// EffectiveFinalBalance devuelve FinalBalance si la sesión está cerrada, o
// initial + sum(balanceChange) si sigue abierta.
func (s GameSession) EffectiveFinalBalance() float64 {
	if s.FinalBalance != nil {
		return *s.FinalBalance
	}
	balance := s.InitialBalance
	for _, e := range s.Events {
		balance += e.BalanceChange
	}
	return balance
}

// Clone devuelve una copia profunda de la sesión (los eventos no se comparten).
func (s GameSession) Clone() GameSession {
	out := s
	if s.EndTime != nil {
		t := *s.EndTime
		out.EndTime = &t
	}
	if s.FinalBalance != nil {
		b := *s.FinalBalance
		out.FinalBalance = &b
	}
	out.Events = make([]GameEvent, len(s.Events))
	copy(out.Events, s.Events)
	return out
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
