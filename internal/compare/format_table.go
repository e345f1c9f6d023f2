package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/styles"
	"github.com/rgehrsitz/finplan/pkg/money"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

const (
	nameWidth = 32
	numWidth  = 14
	ruleWidth = nameWidth + 5*numWidth
)

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder
	symbol := currencyOf(compSet)

	// Header
	sb.WriteString(styles.TitleStyle.Render("RETIREMENT SCENARIO COMPARISON") + "\n")
	sb.WriteString(strings.Repeat("=", ruleWidth) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	header := styles.PadRight("Scenario", nameWidth) +
		styles.PadLeft("Corpus", numWidth) +
		styles.PadLeft("Depletion", numWidth) +
		styles.PadLeft("Years Funded", numWidth) +
		styles.PadLeft("Confidence", numWidth) +
		styles.PadLeft("Shortfall", numWidth)
	sb.WriteString(styles.TableHeaderStyle.Render(header) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, symbol, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], symbol, false))
		}
	}

	sb.WriteString(strings.Repeat("=", ruleWidth) + "\n")

	// Comparison details (deltas from base)
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\n" + styles.SectionStyle.Render("COMPARISON TO BASE") + "\n")
		sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			if alt.Description != "" {
				sb.WriteString("  " + styles.SubtitleStyle.Render(alt.Description) + "\n")
			}

			sb.WriteString(fmt.Sprintf("  Corpus:       %s (%s%%)\n",
				tf.formatDelta(alt.CorpusDiffFromBase, symbol, true),
				alt.CorpusPctFromBase.StringFixed(1)))

			if alt.YearsFundedDiff != 0 {
				sb.WriteString(fmt.Sprintf("  Years Funded: %s\n",
					styles.MetricTrendStyle(alt.YearsFundedDiff > 0).Render(fmt.Sprintf("%+d years", alt.YearsFundedDiff))))
			}

			if alt.ConfidenceDiff != 0 {
				sb.WriteString(fmt.Sprintf("  Confidence:   %s\n",
					styles.MetricTrendStyle(alt.ConfidenceDiff > 0).Render(fmt.Sprintf("%+d", alt.ConfidenceDiff))))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\n" + styles.SectionStyle.Render("RECOMMENDATIONS") + "\n")
		sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(result *ComparisonResult, symbol string, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	depletion := fmt.Sprintf("age %d", result.FundDepletionAge)
	if result.FundsLast {
		depletion = "never"
	}

	row := styles.PadRight(tf.truncate(name, nameWidth-1), nameWidth) +
		styles.PadLeft(money.NewMoneyFromDecimal(result.RetirementCorpus).Compact(symbol), numWidth) +
		styles.PadLeft(depletion, numWidth) +
		styles.PadLeft(fmt.Sprintf("%d years", result.YearsFunded), numWidth) +
		styles.PadLeft(styles.ConfidenceStyle(result.ConfidenceScore).Render(fmt.Sprintf("%d", result.ConfidenceScore)), numWidth) +
		styles.PadLeft(money.NewMoneyFromDecimal(result.RetirementShortfall).Compact(symbol), numWidth)

	if isBase {
		return styles.TableHighlightStyle.Render(row) + "\n"
	}
	return styles.TableCellStyle.Render(row) + "\n"
}

// formatDelta renders a signed amount, coloured by whether the change is good
func (tf *TableFormatter) formatDelta(delta decimal.Decimal, symbol string, higherIsBetter bool) string {
	if delta.IsZero() {
		return "no change"
	}
	text := money.NewMoneyFromDecimal(delta).Compact(symbol)
	if delta.IsPositive() {
		text = "+" + text
	}
	good := delta.IsPositive() == higherIsBetter
	return styles.MetricTrendStyle(good).Render(text)
}

// truncate truncates a string to maxLen runes
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// FormatCompact creates a compact single-line summary for each scenario
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder
	symbol := currencyOf(compSet)

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		corpusChange := "="
		if alt.CorpusDiffFromBase.IsPositive() {
			corpusChange = "+" + money.NewMoneyFromDecimal(alt.CorpusDiffFromBase).Compact(symbol)
		} else if alt.CorpusDiffFromBase.IsNegative() {
			corpusChange = money.NewMoneyFromDecimal(alt.CorpusDiffFromBase).Compact(symbol)
		}

		sb.WriteString(fmt.Sprintf("%s: %s, confidence %d", alt.ScenarioName, corpusChange, alt.ConfidenceScore))
	}

	return sb.String()
}

func currencyOf(compSet *ComparisonSet) string {
	if compSet.Currency == "" {
		return domain.DefaultCurrency
	}
	return compSet.Currency
}
