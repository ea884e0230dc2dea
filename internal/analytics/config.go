package analytics

import "time"

// Config agrupa la política completa del motor: umbrales de detección, pesos
// del score y bandas de tendencia. Es la parte "load-bearing" del sistema —
// todo valor vive aquí como constante con nombre, nunca como literal suelto.
type Config struct {
	// Umbrales de comportamiento
	RapidBetThreshold   time.Duration // gap entre apuestas considerado "rápido"
	HighRiskBetPct      float64       // % del bankroll que marca una apuesta de alto riesgo
	ResponsibleDuration time.Duration // duración de sesión considerada responsable

	// Tiers de las reglas de patrones (% o score que dispara cada severidad)
	RapidHighPct     float64
	RapidMediumPct   float64
	StakesHighPct    float64
	StakesMediumPct  float64
	ChasingHighScore float64
	ChasingMedScore  float64

	// Pesos de penalización del score global
	RapidBettingWeight    float64
	LargeStakesWeight     float64
	LossChasingWeight     float64
	SessionPenaltyPerHour float64 // puntos por hora por encima de ResponsibleDuration
	SessionPenaltyCap     float64

	// Bandas de tendencia de frecuencia de apuestas (bets/hora)
	FrequencyIncreasing float64
	FrequencyDecreasing float64

	// Penalización fija por re-apostar rápido tras una pérdida (loss chasing)
	RapidRebetPenalty float64
}

// Valores por defecto de la política. Coinciden con los umbrales documentados
// de la herramienta: 10s para apuesta rápida, 20% de bankroll para alto
// riesgo, 1h de sesión responsable.
const (
	defaultRapidBetThreshold   = 10 * time.Second
	defaultHighRiskBetPct      = 20.0
	defaultResponsibleDuration = time.Hour

	defaultRapidHighPct     = 70.0
	defaultRapidMediumPct   = 40.0
	defaultStakesHighPct    = 50.0
	defaultStakesMediumPct  = 20.0
	defaultChasingHighScore = 60.0
	defaultChasingMedScore  = 30.0

	defaultRapidBettingWeight    = 0.2
	defaultLargeStakesWeight     = 0.3
	defaultLossChasingWeight     = 0.3
	defaultSessionPenaltyPerHour = 10.0
	defaultSessionPenaltyCap     = 20.0

	defaultFrequencyIncreasing = 30.0
	defaultFrequencyDecreasing = 10.0

	defaultRapidRebetPenalty = 10.0
)

// DefaultConfig devuelve la política por defecto del motor.
func DefaultConfig() Config {
	return Config{
		RapidBetThreshold:   defaultRapidBetThreshold,
		HighRiskBetPct:      defaultHighRiskBetPct,
		ResponsibleDuration: defaultResponsibleDuration,

		RapidHighPct:     defaultRapidHighPct,
		RapidMediumPct:   defaultRapidMediumPct,
		StakesHighPct:    defaultStakesHighPct,
		StakesMediumPct:  defaultStakesMediumPct,
		ChasingHighScore: defaultChasingHighScore,
		ChasingMedScore:  defaultChasingMedScore,

		RapidBettingWeight:    defaultRapidBettingWeight,
		LargeStakesWeight:     defaultLargeStakesWeight,
		LossChasingWeight:     defaultLossChasingWeight,
		SessionPenaltyPerHour: defaultSessionPenaltyPerHour,
		SessionPenaltyCap:     defaultSessionPenaltyCap,

		FrequencyIncreasing: defaultFrequencyIncreasing,
		FrequencyDecreasing: defaultFrequencyDecreasing,

		RapidRebetPenalty: defaultRapidRebetPenalty,
	}
}
