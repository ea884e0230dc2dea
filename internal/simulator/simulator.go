package simulator

// simulator.go — generador de sesiones de apuestas simuladas.
//
// Alimenta el tracker con eventos plausibles: outcomes con RNG sembrado
// (reproducible), tamaños de apuesta moldeados por la persona elegida y gaps
// entre apuestas de un reloj virtual — una sesión de "3 horas" se genera en
// milisegundos de pared. En modo live el reloj es real y un rate.Limiter
// marca el ritmo, el equivalente al delay artificial de la UI original.

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/time/rate"

	"betsight/internal/domain"
	"betsight/internal/session"
)

// BetType es una entrada del catálogo de apuestas disponibles.
type BetType struct {
	Name       string
	Multiplier float64
	WinChance  float64 // probabilidad 0–1
}

// Catálogo de la herramienta original: multiplicador y probabilidad van
// emparejados (mayor premio, menor probabilidad).
var Catalog = []BetType{
	{Name: "Coin Flip", Multiplier: 2.0, WinChance: 0.5},
	{Name: "Dice Roll", Multiplier: 6.0, WinChance: 1.0 / 6.0},
	{Name: "Bullseye", Multiplier: 3.0, WinChance: 1.0 / 3.0},
	{Name: "Roulette", Multiplier: 35.0, WinChance: 0.027},
	{Name: "Stock Market", Multiplier: 10.0, WinChance: 0.10},
	{Name: "Lottery", Multiplier: 1000.0, WinChance: 0.001},
}

// Persona moldea el comportamiento simulado: fracción del bankroll apostada,
// agresividad tras una pérdida y ritmo entre apuestas.
type Persona struct {
	ID           string
	Name         string
	BetPct       float64       // fracción del bankroll por apuesta (0–1)
	ChaseFactor  float64       // multiplicador del % apostado tras una pérdida
	MeanGap      time.Duration // gap medio entre apuestas (reloj virtual)
	SwitchChance float64       // probabilidad de cambiar de tipo de apuesta
}

// Personas de la herramienta original.
var Personas = map[string]Persona{
	"baby-betsy": {
		ID: "baby-betsy", Name: "Baby Betsy",
		BetPct: 0.02, ChaseFactor: 1.0, MeanGap: 45 * time.Second, SwitchChance: 0.1,
	},
	"midlife-mike": {
		ID: "midlife-mike", Name: "Midlife Crisis Mike",
		BetPct: 0.08, ChaseFactor: 1.3, MeanGap: 20 * time.Second, SwitchChance: 0.3,
	},
	"yolo-yolanda": {
		ID: "yolo-yolanda", Name: "YOLO Yolanda",
		BetPct: 0.25, ChaseFactor: 1.8, MeanGap: 5 * time.Second, SwitchChance: 0.5,
	},
}

// Config controla una ejecución del simulador.
type Config struct {
	Seed           int64
	Bets           int
	InitialBalance float64
	Persona        Persona
	Live           bool // true: reloj real + rate limiter; false: reloj virtual
}

// Simulator coloca apuestas simuladas a través de un tracker.
type Simulator struct {
	cfg         Config
	rng         *rand.Rand
	lastWasLoss bool
}

// New crea un simulador con RNG sembrado (misma semilla, misma sesión).
func New(cfg Config) *Simulator {
	return &Simulator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// Run abre una sesión, coloca cfg.Bets apuestas y la cierra. Devuelve la
// sesión archivada. En modo virtual los timestamps avanzan con los gaps
// sorteados; en modo live el limiter espera de verdad entre apuestas.
func (sim *Simulator) Run(ctx context.Context, tracker *session.Tracker) (*domain.GameSession, error) {
	p := sim.cfg.Persona
	balance := sim.cfg.InitialBalance
	if balance <= 0 {
		return nil, fmt.Errorf("simulator.Run: initial balance must be positive, got %.2f", balance)
	}

	tracker.Start(balance)
	clock := time.Now().UTC()

	var limiter *rate.Limiter
	if sim.cfg.Live {
		limiter = rate.NewLimiter(rate.Every(p.MeanGap), 1)
	}

	bet := sim.pickBetType(Catalog[0])
	for i := 0; i < sim.cfg.Bets && balance > 0; i++ {
		if sim.cfg.Live {
			if err := limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("simulator.Run: %w", err)
			}
			clock = time.Now().UTC()
		} else {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("simulator.Run: %w", err)
			}
			clock = clock.Add(sim.nextGap(p.MeanGap))
		}

		if sim.rng.Float64() < p.SwitchChance {
			bet = sim.pickBetType(bet)
		}

		input := sim.placeBet(bet, p, balance)
		balance += input.BalanceChange

		if sim.cfg.Live {
			tracker.Record(input)
		} else {
			tracker.RecordAt(input, clock)
		}
	}

	var archived *domain.GameSession
	if sim.cfg.Live {
		archived = tracker.End(balance)
	} else {
		archived = tracker.EndAt(balance, clock)
	}
	if archived == nil {
		return nil, fmt.Errorf("simulator.Run: session vanished before end")
	}

	slog.Info("simulator: session complete",
		"persona", p.ID,
		"bets", len(archived.Events),
		"finalBalance", fmt.Sprintf("$%.2f", balance),
	)
	return archived, nil
}

// placeBet construye el evento de una apuesta: importe según persona (con
// chase tras pérdida), outcome sorteado, payout e invariantes del modelo.
func (sim *Simulator) placeBet(bt BetType, p Persona, balance float64) domain.BetInput {
	pct := p.BetPct
	if sim.lastWasLoss && p.ChaseFactor > 1 {
		pct *= p.ChaseFactor
	}
	amount := round2(balance * pct)
	if amount < 0.01 {
		amount = 0.01
	}
	if amount > balance {
		amount = balance
	}

	won := sim.rng.Float64() < bt.WinChance
	sim.lastWasLoss = !won

	input := domain.BetInput{
		GameType:    bt.Name,
		BetAmount:   amount,
		Multiplier:  bt.Multiplier,
		BankrollPct: amount / balance * 100,
		Response:    time.Duration(500+sim.rng.Intn(4500)) * time.Millisecond,
	}
	if won {
		input.Result = domain.ResultWin
		input.Payout = round2(amount * bt.Multiplier)
		input.BalanceChange = input.Payout - amount
	} else {
		input.Result = domain.ResultLoss
		input.BalanceChange = -amount
	}
	return input
}

// pickBetType elige un tipo distinto al actual.
func (sim *Simulator) pickBetType(current BetType) BetType {
	for {
		bt := Catalog[sim.rng.Intn(len(Catalog))]
		if bt.Name != current.Name || len(Catalog) == 1 {
			return bt
		}
	}
}

// nextGap sortea un gap exponencial alrededor de la media de la persona,
// recortado para que no degenere.
func (sim *Simulator) nextGap(mean time.Duration) time.Duration {
	gap := time.Duration(sim.rng.ExpFloat64() * float64(mean))
	if gap < time.Second {
		gap = time.Second
	}
	if gap > 10*mean {
		gap = 10 * mean
	}
	return gap
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
