package storage

// sqlite.go — archivo durable de sesiones terminadas.
//
// Estrategia:
//   - `sessions`: una fila por sesión cerrada (balances, inicio/fin).
//   - `events`: una fila por apuesta, colgando de su sesión. El snapshot de
//     analítica NO se persiste — es un valor derivado que se recalcula
//     siempre desde los eventos.
//   - Prune automático al arrancar: sesiones (y sus eventos, en cascada) con
//     más de 90 días.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"betsight/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
-- Una fila por sesión cerrada
CREATE TABLE IF NOT EXISTS sessions (
    id              TEXT PRIMARY KEY,
    start_time      DATETIME NOT NULL,
    end_time        DATETIME NOT NULL,
    initial_balance REAL     NOT NULL,
    final_balance   REAL     NOT NULL
);

-- Una fila por apuesta, en orden de inserción dentro de su sesión
CREATE TABLE IF NOT EXISTS events (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id     TEXT     NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    ts             DATETIME NOT NULL,
    game_type      TEXT     NOT NULL,
    bet_amount     REAL     NOT NULL,
    result         TEXT     NOT NULL,
    payout         REAL     NOT NULL DEFAULT 0,
    balance_change REAL     NOT NULL,
    multiplier     REAL     NOT NULL DEFAULT 0,
    bankroll_pct   REAL     NOT NULL DEFAULT 0,
    response_ms    INTEGER  NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_sessions_start ON sessions(start_time DESC);
CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id, ts);
`

// retentionSessions: las sesiones más antiguas se eliminan al abrir la DB.
const retentionSessions = 90 * 24 * time.Hour

// SQLiteStorage implementa ports.SessionStore usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia sesiones antiguas.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveSession persiste una sesión cerrada con todos sus eventos en una única
// transacción.
func (s *SQLiteStorage) SaveSession(ctx context.Context, session domain.GameSession) error {
	if session.EndTime == nil || session.FinalBalance == nil {
		return fmt.Errorf("storage.SaveSession: session %s is not closed", session.ID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveSession: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (id, start_time, end_time, initial_balance, final_balance)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     end_time      = excluded.end_time,
		     final_balance = excluded.final_balance`,
		session.ID,
		session.StartTime.UTC(),
		session.EndTime.UTC(),
		session.InitialBalance,
		*session.FinalBalance,
	); err != nil {
		return fmt.Errorf("storage.SaveSession: insert session %s: %w", session.ID, err)
	}

	// Re-archivar la misma sesión reemplaza sus eventos enteros
	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE session_id = ?`, session.ID); err != nil {
		return fmt.Errorf("storage.SaveSession: clear events %s: %w", session.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events
			(session_id, ts, game_type, bet_amount, result, payout,
			 balance_change, multiplier, bankroll_pct, response_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveSession: prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range session.Events {
		if _, err := stmt.ExecContext(ctx,
			session.ID,
			e.Timestamp.UTC(),
			e.GameType,
			e.BetAmount,
			string(e.Result),
			e.Payout,
			e.BalanceChange,
			e.Multiplier,
			e.BankrollPct,
			e.Response.Milliseconds(),
		); err != nil {
			return fmt.Errorf("storage.SaveSession: insert event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveSession: commit: %w", err)
	}
	return nil
}

// ListSessions devuelve las sesiones (con eventos) cuyo inicio cae en el
// rango dado, ordenadas por inicio ascendente.
func (s *SQLiteStorage) ListSessions(ctx context.Context, from, to time.Time) ([]domain.GameSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, start_time, end_time, initial_balance, final_balance
		FROM sessions
		WHERE start_time BETWEEN ? AND ?
		ORDER BY start_time ASC
	`, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("storage.ListSessions: query: %w", err)
	}
	defer rows.Close()

	var sessions []domain.GameSession
	for rows.Next() {
		var sess domain.GameSession
		var start, end time.Time
		var final float64

		if err := rows.Scan(&sess.ID, &start, &end, &sess.InitialBalance, &final); err != nil {
			return nil, fmt.Errorf("storage.ListSessions: scan row: %w", err)
		}
		sess.StartTime = start.UTC()
		endUTC := end.UTC()
		sess.EndTime = &endUTC
		sess.FinalBalance = &final
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage.ListSessions: rows: %w", err)
	}

	for i := range sessions {
		events, err := s.loadEvents(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		sessions[i].Events = events
	}
	return sessions, nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

// loadEvents carga los eventos de una sesión en orden cronológico.
func (s *SQLiteStorage) loadEvents(ctx context.Context, sessionID string) ([]domain.GameEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ts, game_type, bet_amount, result, payout,
		       balance_change, multiplier, bankroll_pct, response_ms
		FROM events
		WHERE session_id = ?
		ORDER BY ts ASC, id ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("storage.loadEvents: query %s: %w", sessionID, err)
	}
	defer rows.Close()

	var events []domain.GameEvent
	for rows.Next() {
		var e domain.GameEvent
		var ts time.Time
		var result string
		var responseMs int64

		if err := rows.Scan(
			&ts,
			&e.GameType,
			&e.BetAmount,
			&result,
			&e.Payout,
			&e.BalanceChange,
			&e.Multiplier,
			&e.BankrollPct,
			&responseMs,
		); err != nil {
			return nil, fmt.Errorf("storage.loadEvents: scan row: %w", err)
		}
		e.Timestamp = ts.UTC()
		e.Result = domain.BetResult(result)
		e.Response = time.Duration(responseMs) * time.Millisecond
		events = append(events, e)
	}
	return events, rows.Err()
}

// pruneOld elimina sesiones antiguas para mantener la DB ligera.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionSessions)
	s.db.ExecContext(ctx, `DELETE FROM events WHERE session_id IN
		(SELECT id FROM sessions WHERE start_time < ?)`, cutoff)
	s.db.ExecContext(ctx, `DELETE FROM sessions WHERE start_time < ?`, cutoff)
}
