package breakeven

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/sipgo/internal/output"
)

// TableFormatter renders break-even results for the console
type TableFormatter struct{}

// Format renders a multi-target result
func (tf *TableFormatter) Format(result *MultiDimensionalResult) string {
	var sb strings.Builder

	sb.WriteString("BUDGET BREAK-EVEN\n")
	sb.WriteString(strings.Repeat("=", 72) + "\n")
	sb.WriteString(fmt.Sprintf("Goal:           %s (%s)\n", result.GoalName, result.GoalID))
	sb.WriteString(fmt.Sprintf("Budget:         %s / month\n", output.FormatCurrency(result.Budget)))
	sb.WriteString(fmt.Sprintf("Current SIP:    %s / month\n", output.FormatCurrency(result.Base.RequiredMonthlyContribution)))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("%-16s %-24s %16s %10s\n", "Lever", "Break-even", "Monthly SIP", "Searches"))
	sb.WriteString(strings.Repeat("-", 72) + "\n")
	for _, r := range result.Results {
		sb.WriteString(fmt.Sprintf("%-16s %-24s %16s %10d\n",
			tf.leverName(r), tf.value(r), output.FormatCurrency(r.RequiredMonthly), r.Iterations))
	}
	sb.WriteString(strings.Repeat("=", 72) + "\n")

	if len(result.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 72) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
	}

	return sb.String()
}

func (tf *TableFormatter) leverName(r OptimizationResult) string {
	switch r.Target {
	case OptimizeTargetDate:
		return "Target date"
	case OptimizeStepUp:
		return "Step-up"
	case OptimizeEquity:
		return "Initial equity"
	case OptimizeTargetAmount:
		return "Target amount"
	}
	return string(r.Target)
}

func (tf *TableFormatter) value(r OptimizationResult) string {
	switch {
	case r.AlreadyMet:
		return "already met"
	case !r.Success:
		return "not reachable"
	}

	switch r.Target {
	case OptimizeTargetDate:
		return fmt.Sprintf("%s (+%dm)", r.OptimalTargetDate, r.DelayMonths)
	case OptimizeStepUp:
		return r.OptimalStepUp.StringFixed(1) + "%"
	case OptimizeEquity:
		return r.OptimalEquity.StringFixed(0) + "%"
	case OptimizeTargetAmount:
		return output.FormatCurrency(*r.OptimalTargetAmount)
	}
	return ""
}

// JSONFormatter renders break-even results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format marshals the result
func (jf *JSONFormatter) Format(result *MultiDimensionalResult) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
