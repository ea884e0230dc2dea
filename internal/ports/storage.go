package ports

import (
	"context"
	"time"

	"betsight/internal/domain"
)

// SessionStore archiva sesiones terminadas.
type SessionStore interface {
	// SaveSession persiste una sesión cerrada con todos sus eventos.
	SaveSession(ctx context.Context, s domain.GameSession) error

	// ListSessions devuelve las sesiones cuyo inicio cae en el rango dado,
	// ordenadas por fecha de inicio ascendente.
	ListSessions(ctx context.Context, from, to time.Time) ([]domain.GameSession, error)

	// Close cierra la conexión al almacenamiento limpiamente.
	Close() error
}
