package domain

import "time"

// Severity clasifica la gravedad de un patrón detectado.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// RiskLevel es la clasificación cualitativa derivada del score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskVeryHigh RiskLevel = "Very High"
)

// Trend es la dirección de una métrica de comportamiento.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendSteady     Trend = "steady"
	TrendDecreasing Trend = "decreasing"
)

// PatternFinding es el resultado de una regla de detección: descripción
// legible con la estadística calculada interpolada, más una recomendación.
type PatternFinding struct {
	ID             string
	Title          string
	Description    string
	Severity       Severity
	Recommendation string
}

// AnalyticsSnapshot es el value object derivado de una sesión: se descarta y
// recalcula entero cada vez que cambia la lista de eventos. No tiene identidad
// propia ni estado oculto.
type AnalyticsSnapshot struct {
	// Métricas financieras
	NetProfit       float64
	ROI             float64 // % sobre el balance inicial; 0 si initial <= 0
	WinRate         float64 // %
	WinLossRatio    float64 // = wins cuando losses == 0 (centinela finito)
	AvgBetSize      float64
	AvgBetPct       float64
	MaxBetSize      float64
	MaxBetPct       float64
	MaxDrawdown     float64 // % desde el pico de balance
	VolatilityIndex float64 // stddev de balanceChange/betAmount × 100

	// Métricas de comportamiento
	BetsPerHour          float64
	SessionDurationMins  float64
	AvgTimeBetweenBets   float64 // segundos
	BetFrequencyTrend    Trend
	LossChasing          float64 // score 0–100
	RiskIncreaseAfterLoss float64 // % medio, solo incrementos
	RiskIncreaseAfterWin  float64

	// Métricas de patrones
	RapidBettingPct    float64
	LargeStakesPct     float64
	GameSwitchingFreq  float64
	SessionLengthTrend Trend

	// Evaluación global
	ResponsibleGamblingScore float64 // 0–100, mayor es mejor
	RiskLevel                RiskLevel

	DetectedPatterns []PatternFinding

	ComputedAt time.Time
}

// RiskFactor es un componente de la evaluación previa a una apuesta propuesta.
type RiskFactor struct {
	ID          string
	Name        string
	Value       float64 // 0–100
	Description string
	Color       string // green | yellow | red — hint para la capa de presentación
}

// BetAssessment es el resultado read-only de evaluar una apuesta NO colocada.
type BetAssessment struct {
	RiskFactors    []RiskFactor
	OverallRisk    float64 // 0–100, media ponderada de los factores
	Recommendation string
}

// ProposedBet describe una apuesta hipotética a evaluar antes de colocarla.
type ProposedBet struct {
	GameType   string
	BetAmount  float64
	Multiplier float64
	WinChance  float64 // % (0–100)
}
