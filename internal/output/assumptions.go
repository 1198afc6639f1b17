package output

import (
	"fmt"

	"github.com/rgehrsitz/sipgo/internal/domain"
)

// DefaultAssumptions lists the modeling rules rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Goals under 5 years are short-term and invested in arbitrage funds (debt rate if unset)",
	"Long-term goals follow a glide path: full equity at 8+ years, half at 5-8, quarter at 3-5, none under 3",
	"Contributions are made at the start of each month and compound monthly",
	"Step-up raises the monthly contribution once per completed year",
}

// AssumptionLines describes the return assumptions a report was produced with,
// followed by the default modeling rules
func AssumptionLines(ra domain.ReturnAssumptions) []string {
	lines := []string{
		fmt.Sprintf("Equity return: %s annually", FormatPercentage(ra.EquityReturnPercent)),
		fmt.Sprintf("Debt return: %s annually", FormatPercentage(ra.DebtReturnPercent)),
	}
	if ra.ArbitrageReturnPercent != nil {
		lines = append(lines, fmt.Sprintf("Arbitrage return: %s annually", FormatPercentage(*ra.ArbitrageReturnPercent)))
	}
	lines = append(lines,
		fmt.Sprintf("EPF return: %s annually", FormatPercentage(ra.EPFReturnPercent)),
		fmt.Sprintf("NPS return: %s annually", FormatPercentage(ra.NPSReturnPercent)),
	)
	return append(lines, DefaultAssumptions...)
}

// GlidePathLabels names the four phases of a tapering schedule
var GlidePathLabels = [4]string{"8+ yrs", "5-8 yrs", "3-5 yrs", "<3 yrs"}

func glidePathSummary(phases [4]domain.TaperingPhase) string {
	s := ""
	for i, p := range phases {
		if i > 0 {
			s += " | "
		}
		s += fmt.Sprintf("%s: %s%%", GlidePathLabels[i], p.EquityPercent.StringFixed(0))
	}
	return s
}
