package reporting

import (
	"fmt"
	"strings"

	"tradesim-lab/internal/domain"
)

// RenderEquityCSV renders a stored equity curve as a CSV string.
func RenderEquityCSV(points []*domain.EquityCurvePoint) string {
	var sb strings.Builder

	sb.WriteString("run_id,timestamp_ms,value\n")
	for _, p := range points {
		sb.WriteString(fmt.Sprintf("%s,%d,%.6f\n", p.RunID, p.TimestampMs, p.Value))
	}
	return sb.String()
}

// RenderComparisonCSV renders the multi-run comparison as a CSV string.
func RenderComparisonCSV(rows []StrategyComparisonRow) string {
	var sb strings.Builder

	sb.WriteString("run_id,strategy_id,seed,total_return,sharpe,max_drawdown,executed,rejected,failed\n")
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%d,%.6f,%.6f,%.6f,%d,%d,%d\n",
			r.RunID, r.StrategyID, r.Seed,
			r.TotalReturn, r.Sharpe, r.MaxDrawdown,
			r.Executed, r.Rejected, r.Failed))
	}
	return sb.String()
}
