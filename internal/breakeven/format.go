package breakeven

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/styles"
	"github.com/rgehrsitz/finplan/pkg/money"
)

// TableFormatter formats optimization results as a console table
type TableFormatter struct {
	Currency string
}

// Format generates a formatted table for optimization result
func (tf *TableFormatter) Format(result *OptimizationResult) string {
	var sb strings.Builder

	sb.WriteString(styles.TitleStyle.Render("BREAK-EVEN OPTIMIZATION RESULTS") + "\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	sb.WriteString(fmt.Sprintf("Optimization Target: %s\n", result.Target))
	sb.WriteString(fmt.Sprintf("Optimization Goal:   %s\n", result.Goal))
	if result.Request.BaseScenario != nil {
		sb.WriteString(fmt.Sprintf("Scenario:            %s\n", result.Request.BaseScenario.Name))
	}
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:          %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:         %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString(styles.SectionStyle.Render("OPTIMAL PARAMETERS") + "\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if result.OptimalMonthlyContribution != nil {
		sb.WriteString(fmt.Sprintf("Monthly Contribution: %s\n", tf.formatCurrency(*result.OptimalMonthlyContribution)))
	}
	if result.OptimalRetirementAge != nil {
		sb.WriteString(fmt.Sprintf("Retirement Age:       %d\n", *result.OptimalRetirementAge))
	}
	if result.OptimalWithdrawalRate != nil {
		pct := result.OptimalWithdrawalRate.Mul(decimal.NewFromInt(100))
		sb.WriteString(fmt.Sprintf("Withdrawal Rate:      %s%%\n", pct.StringFixed(2)))
	}
	sb.WriteString("\n")

	sb.WriteString(styles.SectionStyle.Render("PROJECTED RESULTS") + "\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Retirement Corpus:    %s\n", tf.formatCurrency(result.RetirementCorpus)))
	sb.WriteString(fmt.Sprintf("Fund Depletion:       %s\n", tf.formatDepletion(result)))
	sb.WriteString(fmt.Sprintf("Confidence Score:     %s\n",
		styles.ConfidenceStyle(result.ConfidenceScore).Render(fmt.Sprintf("%d", result.ConfidenceScore))))
	sb.WriteString("\n")

	if result.BaseResult != nil {
		sb.WriteString(styles.SectionStyle.Render("COMPARISON TO BASE SCENARIO") + "\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		if !result.CorpusDiffFromBase.IsZero() {
			sb.WriteString(fmt.Sprintf("Corpus Change:        %s%s\n",
				tf.deltaSymbol(result.CorpusDiffFromBase), tf.formatCurrency(result.CorpusDiffFromBase)))
		}
		sb.WriteString(fmt.Sprintf("Confidence Change:    %+d\n", result.ConfidenceDiff))
		sb.WriteString("\n")
	}

	if result.Goal == GoalTargetConfidence && result.Request.Constraints.TargetConfidence != nil {
		sb.WriteString(styles.SectionStyle.Render("TARGET CONFIDENCE") + "\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		sb.WriteString(fmt.Sprintf("Target:   %d\n", *result.Request.Constraints.TargetConfidence))
		sb.WriteString(fmt.Sprintf("Achieved: %d\n", result.ConfidenceScore))
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatMultiDimensional formats results from multiple optimizations
func (tf *TableFormatter) FormatMultiDimensional(result *MultiDimensionalResult) string {
	var sb strings.Builder

	sb.WriteString(styles.TitleStyle.Render("MULTI-DIMENSIONAL OPTIMIZATION RESULTS") + "\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n\n")

	sb.WriteString(styles.SectionStyle.Render("SUMMARY OF ALL OPTIMIZATIONS") + "\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%-22s %-18s %16s %12s %10s\n",
		"Optimization", "Break-even", "Corpus", "Depletion", "Confidence"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, res := range result.Results {
		sb.WriteString(fmt.Sprintf("%-22s %-18s %16s %12s %10d\n",
			tf.truncate(string(res.Target), 22),
			tf.formatOptimal(&res),
			tf.formatShort(res.RetirementCorpus),
			tf.formatDepletion(&res),
			res.ConfidenceScore))
	}
	sb.WriteString("\n")

	if len(result.Failures) > 0 {
		sb.WriteString(styles.SectionStyle.Render("NOT REACHABLE") + "\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, target := range []OptimizationTarget{OptimizeMonthlyContribution, OptimizeRetirementAge, OptimizeWithdrawalRate} {
			if msg, ok := result.Failures[string(target)]; ok {
				sb.WriteString(fmt.Sprintf("%-22s %s\n", target, msg))
			}
		}
		sb.WriteString("\n")
	}

	if len(result.Recommendations) > 0 {
		sb.WriteString(styles.SectionStyle.Render("RECOMMENDATIONS") + "\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(result *OptimizationResult) (string, error) {
	return jf.marshal(result)
}

// FormatMultiDimensional formats multi-dimensional results as JSON
func (jf *JSONFormatter) FormatMultiDimensional(result *MultiDimensionalResult) (string, error) {
	return jf.marshal(result)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Converged"
	}
	return "⚠ Did not converge"
}

func (tf *TableFormatter) symbol() string {
	if tf.Currency == "" {
		return domain.DefaultCurrency
	}
	return tf.Currency
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	return money.NewMoneyFromDecimal(d).Format(tf.symbol())
}

func (tf *TableFormatter) formatShort(d decimal.Decimal) string {
	return money.NewMoneyFromDecimal(d).Compact(tf.symbol())
}

func (tf *TableFormatter) formatOptimal(res *OptimizationResult) string {
	switch {
	case res.OptimalMonthlyContribution != nil:
		return tf.formatCurrency(*res.OptimalMonthlyContribution) + "/mo"
	case res.OptimalRetirementAge != nil:
		return fmt.Sprintf("age %d", *res.OptimalRetirementAge)
	case res.OptimalWithdrawalRate != nil:
		return res.OptimalWithdrawalRate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
	}
	return "-"
}

func (tf *TableFormatter) formatDepletion(res *OptimizationResult) string {
	if res.FundsLast {
		return "never"
	}
	return fmt.Sprintf("age %d", res.FundDepletionAge)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
