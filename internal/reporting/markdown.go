package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders a run report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Simulation Run Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: `%s`\n\n", r.Run.RunID))

	// Run Summary
	sb.WriteString("## Run Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Strategy | %s |\n", r.Run.StrategyID))
	sb.WriteString(fmt.Sprintf("| Seed | %d |\n", r.Run.Seed))
	sb.WriteString(fmt.Sprintf("| Started (ms) | %d |\n", r.Run.StartedAtMs))
	sb.WriteString(fmt.Sprintf("| Finished (ms) | %d |\n", r.Run.FinishedAtMs))
	sb.WriteString(fmt.Sprintf("| Ticks Processed | %d |\n", r.Run.TicksProcessed))
	sb.WriteString(fmt.Sprintf("| Signals | %d |\n", r.Run.SignalCount))
	sb.WriteString(fmt.Sprintf("| Approved | %d |\n", r.Run.ApprovedCount))
	sb.WriteString(fmt.Sprintf("| Rejected | %d |\n", r.Run.RejectedCount))
	sb.WriteString(fmt.Sprintf("| Executed | %d |\n", r.Run.ExecutedCount))
	sb.WriteString(fmt.Sprintf("| Failed | %d |\n", r.Run.FailedCount))
	sb.WriteString(fmt.Sprintf("| Errors | %d |\n", r.Run.ErrorCount))
	sb.WriteString(fmt.Sprintf("| Initial Cash | %s |\n", r.Run.InitialCash))
	sb.WriteString(fmt.Sprintf("| Final Cash | %s |\n", r.Run.FinalCash))
	sb.WriteString(fmt.Sprintf("| Final Value | %s |\n", r.Run.FinalValue))
	sb.WriteString("\n")

	if r.Run.FatalReason != "" {
		sb.WriteString(fmt.Sprintf("**Run aborted:** %s\n\n", r.Run.FatalReason))
	}

	// Performance
	sb.WriteString("## Performance\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Return | %.4f%% |\n", r.Performance.TotalReturn*100))
	sb.WriteString(fmt.Sprintf("| Sharpe (annualized) | %.4f |\n", r.Performance.Sharpe))
	sb.WriteString(fmt.Sprintf("| Max Drawdown | %.4f%% |\n", r.Performance.MaxDrawdown*100))
	sb.WriteString(fmt.Sprintf("| Equity Samples | %d |\n", r.EquitySamples))
	sb.WriteString("\n")

	// Errors
	if len(r.Errors) > 0 {
		sb.WriteString("## Errors\n\n")
		for _, e := range r.Errors {
			sb.WriteString(fmt.Sprintf("- %s\n", e))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderComparisonMarkdown renders the multi-run comparison table.
func RenderComparisonMarkdown(rows []StrategyComparisonRow, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Strategy Comparison\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", generatedAt.Format(time.RFC3339)))

	if len(rows) == 0 {
		sb.WriteString("No runs recorded.\n")
		return sb.String()
	}

	sb.WriteString("| Run | Strategy | Seed | Return | Sharpe | MaxDD | Executed | Rejected | Failed |\n")
	sb.WriteString("|-----|----------|------|--------|--------|-------|----------|----------|--------|\n")
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("| %s | %s | %d | %.4f%% | %.4f | %.4f%% | %d | %d | %d |\n",
			shortID(row.RunID), row.StrategyID, row.Seed,
			row.TotalReturn*100, row.Sharpe, row.MaxDrawdown*100,
			row.Executed, row.Rejected, row.Failed))
	}
	sb.WriteString("\n")
	return sb.String()
}

func shortID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12]
}
