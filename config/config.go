package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"betsight/internal/analytics"
)

// Config es la configuración completa de la herramienta.
type Config struct {
	Analytics AnalyticsConfig `yaml:"analytics"`
	Simulator SimulatorConfig `yaml:"simulator"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
}

// AnalyticsConfig expone la política del motor en el YAML. Cero significa
// "usa el default documentado" — la política por defecto vive como
// constantes con nombre en el paquete analytics.
type AnalyticsConfig struct {
	RapidBetSeconds        int     `yaml:"rapid_bet_seconds"`         // gap considerado apuesta rápida
	HighRiskBetPct         float64 `yaml:"high_risk_bet_pct"`         // % de bankroll de alto riesgo
	ResponsibleSessionMins int     `yaml:"responsible_session_mins"`  // duración responsable de sesión
}

// SimulatorConfig controla los defaults del simulador.
type SimulatorConfig struct {
	Bets           int     `yaml:"bets"`
	InitialBalance float64 `yaml:"initial_balance"`
	Persona        string  `yaml:"persona"` // baby-betsy | midlife-mike | yolo-yolanda
}

// StorageConfig controla dónde se archivan las sesiones.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si
// existe. Los valores del .env sobreescriben los del YAML para las keys que
// correspondan. Si el archivo no existe, devuelve la configuración default.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// sin archivo: todo defaults
	case err != nil:
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// EngineConfig traduce la sección analytics a la política del motor,
// partiendo de los defaults documentados.
func (c *Config) EngineConfig() analytics.Config {
	ec := analytics.DefaultConfig()
	if c.Analytics.RapidBetSeconds > 0 {
		ec.RapidBetThreshold = time.Duration(c.Analytics.RapidBetSeconds) * time.Second
	}
	if c.Analytics.HighRiskBetPct > 0 {
		ec.HighRiskBetPct = c.Analytics.HighRiskBetPct
	}
	if c.Analytics.ResponsibleSessionMins > 0 {
		ec.ResponsibleDuration = time.Duration(c.Analytics.ResponsibleSessionMins) * time.Minute
	}
	return ec
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("BETSIGHT_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Simulator.Bets <= 0 {
		cfg.Simulator.Bets = 50
	}
	if cfg.Simulator.InitialBalance <= 0 {
		cfg.Simulator.InitialBalance = 1000
	}
	if cfg.Simulator.Persona == "" {
		cfg.Simulator.Persona = "midlife-mike"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "betsight.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
