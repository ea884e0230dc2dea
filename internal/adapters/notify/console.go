package notify

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"betsight/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console renderiza snapshots y evaluaciones en stdout. Es la capa de
// presentación mínima: consume las estructuras del motor y las pinta, nada más.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un renderer que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un renderer para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// PrintSnapshot imprime el informe de la sesión en el modo configurado.
func (c *Console) PrintSnapshot(s domain.GameSession, snap domain.AnalyticsSnapshot) {
	if c.table {
		c.printFull(s, snap)
	} else {
		c.printCompact(s, snap)
	}
}

// printCompact imprime lo esencial en una línea.
func (c *Console) printCompact(s domain.GameSession, snap domain.AnalyticsSnapshot) {
	now := snap.ComputedAt.Format("15:04:05")

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] session %s | %d bets | net $%+.2f (roi %.1f%%) | wr %.0f%% | dd %.1f%% | score %.0f (%s)",
		now, shortID(s.ID), len(s.Events), snap.NetProfit, snap.ROI,
		snap.WinRate, snap.MaxDrawdown,
		snap.ResponsibleGamblingScore, snap.RiskLevel)

	for i, p := range snap.DetectedPatterns {
		if i >= 2 {
			break
		}
		fmt.Fprintf(&sb, " | !%s:%s", p.Severity, p.ID)
	}

	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime el informe completo: métricas, patrones y score.
func (c *Console) printFull(s domain.GameSession, snap domain.AnalyticsSnapshot) {
	fmt.Fprintf(c.out, "\n=== SESSION REPORT %s ===\n", shortID(s.ID))
	fmt.Fprintf(c.out, "  %s → %s  (%.0f min, %d bets)\n",
		s.StartTime.Format("2006-01-02 15:04:05"),
		endLabel(s),
		snap.SessionDurationMins,
		len(s.Events),
	)

	fmt.Fprintf(c.out, "\n  --- FINANCIAL ---\n")
	tbl := tablewriter.NewWriter(c.out)
	tbl.Header("Net", "ROI", "WinRate", "W/L", "AvgBet", "MaxBet", "AvgBet%", "MaxBet%", "MaxDD", "Volatility")
	tbl.Append(
		fmt.Sprintf("$%+.2f", snap.NetProfit),
		fmt.Sprintf("%.1f%%", snap.ROI),
		fmt.Sprintf("%.0f%%", snap.WinRate),
		fmt.Sprintf("%.2f", snap.WinLossRatio),
		fmt.Sprintf("$%.2f", snap.AvgBetSize),
		fmt.Sprintf("$%.2f", snap.MaxBetSize),
		fmt.Sprintf("%.1f%%", snap.AvgBetPct),
		fmt.Sprintf("%.1f%%", snap.MaxBetPct),
		fmt.Sprintf("%.1f%%", snap.MaxDrawdown),
		fmt.Sprintf("%.1f", snap.VolatilityIndex),
	)
	tbl.Render()

	fmt.Fprintf(c.out, "\n  --- BEHAVIOR ---\n")
	tbl = tablewriter.NewWriter(c.out)
	tbl.Header("Bets/h", "AvgGap", "FreqTrend", "Chasing", "Risk+Loss", "Risk+Win", "Rapid%", "Stakes%", "Switch%", "LenTrend")
	tbl.Append(
		fmt.Sprintf("%.1f", snap.BetsPerHour),
		fmt.Sprintf("%.1fs", snap.AvgTimeBetweenBets),
		string(snap.BetFrequencyTrend),
		fmt.Sprintf("%.0f", snap.LossChasing),
		fmt.Sprintf("%.1f%%", snap.RiskIncreaseAfterLoss),
		fmt.Sprintf("%.1f%%", snap.RiskIncreaseAfterWin),
		fmt.Sprintf("%.0f%%", snap.RapidBettingPct),
		fmt.Sprintf("%.0f%%", snap.LargeStakesPct),
		fmt.Sprintf("%.0f%%", snap.GameSwitchingFreq),
		string(snap.SessionLengthTrend),
	)
	tbl.Render()

	if len(snap.DetectedPatterns) == 0 {
		fmt.Fprintf(c.out, "\n  No concerning patterns detected.\n")
	} else {
		fmt.Fprintf(c.out, "\n  --- DETECTED PATTERNS ---\n")
		for _, p := range snap.DetectedPatterns {
			fmt.Fprintf(c.out, "  [%s] %s\n", severityIcon(p.Severity), p.Title)
			fmt.Fprintf(c.out, "      %s\n", p.Description)
			fmt.Fprintf(c.out, "      → %s\n", p.Recommendation)
		}
	}

	fmt.Fprintf(c.out, "\n  RESPONSIBLE GAMBLING SCORE: %.0f/100 — risk level: %s\n\n",
		snap.ResponsibleGamblingScore, snap.RiskLevel)
}

// PrintAssessment imprime la evaluación previa de una apuesta propuesta.
func (c *Console) PrintAssessment(bet domain.ProposedBet, a domain.BetAssessment) {
	fmt.Fprintf(c.out, "\n=== PRE-BET ADVISORY: %s $%.2f (%.1fx, %.1f%% win) ===\n",
		bet.GameType, bet.BetAmount, bet.Multiplier, bet.WinChance)

	tbl := tablewriter.NewWriter(c.out)
	tbl.Header("Factor", "Risk", "Signal", "Detail")
	for _, f := range a.RiskFactors {
		tbl.Append(
			f.Name,
			fmt.Sprintf("%.0f", f.Value),
			f.Color,
			f.Description,
		)
	}
	tbl.Render()

	fmt.Fprintf(c.out, "  OVERALL RISK: %.0f/100\n", a.OverallRisk)
	fmt.Fprintf(c.out, "  %s\n\n", a.Recommendation)
}

// PrintHistory imprime la tabla de sesiones archivadas.
func (c *Console) PrintHistory(sessions []domain.GameSession) {
	if len(sessions) == 0 {
		fmt.Fprintln(c.out, "\n  No archived sessions yet.")
		return
	}

	fmt.Fprintf(c.out, "\n=== SESSION HISTORY (%d) ===\n", len(sessions))
	tbl := tablewriter.NewWriter(c.out)
	tbl.Header("Start", "Duration", "Bets", "Initial", "Final", "Net")

	for _, s := range sessions {
		final := s.EffectiveFinalBalance()
		tbl.Append(
			s.StartTime.Format("2006-01-02 15:04"),
			durationLabel(s),
			fmt.Sprintf("%d", len(s.Events)),
			fmt.Sprintf("$%.2f", s.InitialBalance),
			fmt.Sprintf("$%.2f", final),
			fmt.Sprintf("$%+.2f", final-s.InitialBalance),
		)
	}
	tbl.Render()
	fmt.Fprintln(c.out)
}

// --- helpers ---

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func endLabel(s domain.GameSession) string {
	if s.EndTime == nil {
		return "(open)"
	}
	return s.EndTime.Format("15:04:05")
}

func durationLabel(s domain.GameSession) string {
	if s.EndTime == nil {
		return "-"
	}
	d := s.EndTime.Sub(s.StartTime)
	if d < time.Hour {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}

func severityIcon(sev domain.Severity) string {
	switch sev {
	case domain.SeverityHigh:
		return "!!"
	case domain.SeverityMedium:
		return "! "
	default:
		return "  "
	}
}
