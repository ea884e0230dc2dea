package session

// tracker.go — ciclo de vida de la sesión activa y su log de eventos.
//
// A diferencia del diseño original (estado global de módulo), el tracker es
// un objeto con ownership explícito: se construye una vez por instancia de
// aplicación y se inyecta donde haga falta. Eso elimina el acoplamiento
// oculto y permite varios trackers independientes en el mismo test run.
//
// Un único escritor lógico por sesión; el mutex serializa escrituras y
// lecturas para que un lector nunca vea un append a medias.

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"betsight/internal/domain"
	"betsight/internal/ports"
)

// Tracker gestiona la única sesión abierta y el histórico de sesiones
// cerradas. El store es opcional: con nil el histórico vive solo en memoria.
type Tracker struct {
	mu      sync.Mutex
	current *domain.GameSession
	history []domain.GameSession
	store   ports.SessionStore
}

// New crea un tracker. store puede ser nil (modo efímero).
func New(store ports.SessionStore) *Tracker {
	return &Tracker{store: store}
}

// Start abre una sesión nueva con el balance inicial dado y devuelve su ID.
//
// Si había una sesión sin terminar, NO se descarta en silencio: se cierra
// con balance final derivado de sus eventos y se archiva antes de ser
// reemplazada (archive-then-replace).
func (t *Tracker) Start(initialBalance float64) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil {
		slog.Warn("tracker: unfinished session replaced, archiving first",
			"session", t.current.ID,
			"events", len(t.current.Events),
		)
		t.archiveLocked(t.current.EffectiveFinalBalance())
	}

	id := uuid.New().String()
	t.current = &domain.GameSession{
		ID:             id,
		StartTime:      time.Now().UTC(),
		InitialBalance: initialBalance,
	}

	slog.Debug("tracker: session started", "session", id, "balance", initialBalance)
	return id
}

// Record sella el input con la hora actual y lo añade al log de la sesión
// abierta. Devuelve nil si no hay sesión abierta — contrato documentado, no
// un error: el tracker es una herramienta best-effort de un solo usuario.
func (t *Tracker) Record(in domain.BetInput) *domain.GameEvent {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return nil
	}

	event := domain.GameEvent{
		Timestamp:     time.Now().UTC(),
		GameType:      in.GameType,
		BetAmount:     in.BetAmount,
		Result:        in.Result,
		Payout:        in.Payout,
		BalanceChange: in.BalanceChange,
		Multiplier:    in.Multiplier,
		BankrollPct:   in.BankrollPct,
		Response:      in.Response,
	}
	t.current.Events = append(t.current.Events, event)
	return &event
}

// RecordAt es Record con timestamp explícito — lo usa el simulador con reloj
// virtual para generar sesiones de horas en milisegundos de pared.
func (t *Tracker) RecordAt(in domain.BetInput, at time.Time) *domain.GameEvent {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return nil
	}

	event := domain.GameEvent{
		Timestamp:     at.UTC(),
		GameType:      in.GameType,
		BetAmount:     in.BetAmount,
		Result:        in.Result,
		Payout:        in.Payout,
		BalanceChange: in.BalanceChange,
		Multiplier:    in.Multiplier,
		BankrollPct:   in.BankrollPct,
		Response:      in.Response,
	}
	t.current.Events = append(t.current.Events, event)
	return &event
}

// End cierra la sesión abierta con el balance final dado, la archiva en el
// histórico y devuelve la copia archivada. Nil si no había sesión abierta.
func (t *Tracker) End(finalBalance float64) *domain.GameSession {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return nil
	}
	archived := t.archiveLocked(finalBalance)
	return &archived
}

// EndAt es End con hora de cierre explícita (reloj virtual del simulador).
func (t *Tracker) EndAt(finalBalance float64, at time.Time) *domain.GameSession {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return nil
	}
	archived := t.archiveAtLocked(finalBalance, at.UTC())
	return &archived
}

// Current devuelve una copia de la sesión abierta, o nil si no hay ninguna.
// Copia, no puntero: los lectores nunca comparten el slice de eventos con el
// escritor.
func (t *Tracker) Current() *domain.GameSession {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return nil
	}
	c := t.current.Clone()
	return &c
}

// History devuelve copias de las sesiones cerradas, en orden de cierre.
func (t *Tracker) History() []domain.GameSession {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]domain.GameSession, len(t.history))
	for i, s := range t.history {
		out[i] = s.Clone()
	}
	return out
}

// archiveLocked cierra current con la hora actual. Requiere mu.
func (t *Tracker) archiveLocked(finalBalance float64) domain.GameSession {
	return t.archiveAtLocked(finalBalance, time.Now().UTC())
}

// archiveAtLocked sella end/finalBalance, mueve la sesión al histórico y la
// persiste si hay store. Requiere mu y current != nil.
func (t *Tracker) archiveAtLocked(finalBalance float64, at time.Time) domain.GameSession {
	t.current.EndTime = &at
	t.current.FinalBalance = &finalBalance

	archived := t.current.Clone()
	t.history = append(t.history, archived)
	t.current = nil

	if t.store != nil {
		if err := t.store.SaveSession(context.Background(), archived); err != nil {
			slog.Warn("tracker: error archiving session", "session", archived.ID, "err", err)
		}
	}

	slog.Debug("tracker: session ended",
		"session", archived.ID,
		"events", len(archived.Events),
		"finalBalance", finalBalance,
	)
	return archived.Clone()
}
