package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/styles"
	"github.com/rgehrsitz/finplan/pkg/money"
)

// milestoneEvery controls how often yearly rows are printed in series tables
const milestoneEvery = 5

// ConsoleVerboseFormatter renders the full styled console report
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(results *domain.PlanResults) ([]byte, error) {
	var buf bytes.Buffer
	symbol := currencyOf(results)

	fmt.Fprintln(&buf, strings.Repeat("=", 80))
	title := "FINANCIAL PLAN REPORT"
	if results.PlanName != "" {
		title += ": " + results.PlanName
	}
	fmt.Fprintln(&buf, styles.TitleStyle.Render(title))
	fmt.Fprintln(&buf, strings.Repeat("=", 80))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range DefaultAssumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}

	if len(results.Retirement) > 0 {
		writeSection(&buf, "RETIREMENT SCENARIOS")
		for i, r := range results.Retirement {
			writeRetirement(&buf, i+1, r, symbol)
		}
	}

	if len(results.Goals) > 0 {
		writeSection(&buf, "SAVINGS GOALS")
		for i, g := range results.Goals {
			writeGoal(&buf, i+1, g, symbol)
		}
	}

	if len(results.Growth) > 0 {
		writeSection(&buf, "GROWTH PROJECTIONS")
		for i, p := range results.Growth {
			writeGrowth(&buf, i+1, p, symbol)
		}
	}

	if best := results.BestRetirement(); best != nil && len(results.Retirement) > 1 {
		writeSection(&buf, "RECOMMENDATION")
		fmt.Fprintf(&buf, "Recommended Scenario: %s\n", best.Name)
		fmt.Fprintf(&buf, "Confidence Score: %s\n", styles.ConfidenceStyle(best.Result.ConfidenceScore).Render(fmt.Sprintf("%d", best.Result.ConfidenceScore)))
		fmt.Fprintf(&buf, "Fund Depletion: %s\n", depletionLabel(best.Result))
	}

	return buf.Bytes(), nil
}

func writeSection(buf *bytes.Buffer, title string) {
	fmt.Fprintln(buf, styles.SectionStyle.Render(title))
	fmt.Fprintln(buf, strings.Repeat("-", 80))
}

func writeMetric(buf *bytes.Buffer, label, value string) {
	fmt.Fprintf(buf, "  %s %s\n", styles.MetricLabelStyle.Render(label+":"), value)
}

func writeRetirement(buf *bytes.Buffer, n int, r domain.NamedRetirementResult, symbol string) {
	res := r.Result
	cfg := res.Config

	fmt.Fprintf(buf, "SCENARIO %d: %s\n", n, r.Name)
	writeMetric(buf, "Ages", fmt.Sprintf("%d now, retire at %d, plan to %d", cfg.CurrentAge, cfg.RetirementAge, cfg.LifeExpectancy))
	writeMetric(buf, "Withdrawal Strategy", string(cfg.WithdrawalStrategy))
	writeMetric(buf, "Monthly Investment", money.NewMoney(cfg.EffectiveMonthlyContribution()).Format(symbol))
	writeMetric(buf, "Retirement Corpus", styles.MetricValueStyle.Render(money.NewMoney(res.RetirementCorpus).Format(symbol)))
	writeMetric(buf, "Monthly Income Needed", money.NewMoney(res.MonthlyIncomeNeeded).Format(symbol))
	writeMetric(buf, "Annual Income Needed", money.NewMoney(res.MonthlyIncomeNeeded).Annual().Format(symbol))
	writeMetric(buf, "Fund Depletion", styles.MetricTrendStyle(res.FundsLast).Render(depletionLabel(res)))
	if res.RetirementShortfall > 0 {
		writeMetric(buf, "Retirement Shortfall", styles.MetricNegativeStyle.Render(money.NewMoney(res.RetirementShortfall).Format(symbol)))
	}
	writeMetric(buf, "Confidence Score",
		styles.ConfidenceStyle(res.ConfidenceScore).Render(fmt.Sprintf("%d", res.ConfidenceScore)))
	if res.FundsLast {
		fmt.Fprintf(buf, "  %s Funds last to age %d\n", styles.TrendIndicator(true), cfg.LifeExpectancy)
	} else {
		fmt.Fprintf(buf, "  %s Runs out %d years before age %d\n", styles.TrendIndicator(false), cfg.LifeExpectancy-res.FundDepletionAge+1, cfg.LifeExpectancy)
	}
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "  %-6s %-12s %20s %18s %18s\n", "Age", "Phase", "Corpus", "Flow", "Returns")
	for i, p := range res.Accumulation {
		if !isMilestone(i, len(res.Accumulation)) {
			continue
		}
		fmt.Fprintf(buf, "  %-6d %-12s %20s %18s %18s\n", p.Age, "saving",
			money.NewMoney(p.Corpus).Format(symbol),
			money.NewMoney(p.Contribution).Format(symbol),
			money.NewMoney(p.Returns).Format(symbol))
	}
	for i, p := range res.Withdrawal {
		if !isMilestone(i, len(res.Withdrawal)) {
			continue
		}
		fmt.Fprintf(buf, "  %-6d %-12s %20s %18s %18s\n", p.Age, "withdrawing",
			money.NewMoney(p.Corpus).Format(symbol),
			money.NewMoney(-p.Withdrawal).Format(symbol),
			money.NewMoney(p.Returns).Format(symbol))
	}
	fmt.Fprintln(buf)
}

func writeGoal(buf *bytes.Buffer, n int, g domain.NamedGoalResult, symbol string) {
	res := g.Result
	cfg := res.Config

	fmt.Fprintf(buf, "GOAL %d: %s\n", n, g.Name)
	writeMetric(buf, "Target (today)", money.NewMoney(cfg.TargetAmount).Format(symbol))
	writeMetric(buf, "Target (inflated)", money.NewMoney(res.InflationAdjustedTarget).Format(symbol))
	writeMetric(buf, "Timeframe", fmt.Sprintf("%d years", cfg.TimeframeYears))
	writeMetric(buf, "Current Savings Grow To", money.NewMoney(res.FutureValueOfCurrentSavings).Format(symbol))
	writeMetric(buf, "Required Monthly Investment",
		styles.MetricValueStyle.Render(money.NewMoney(res.RequiredMonthlyContribution).Round().Format(symbol)))
	if res.IsAlreadyMet() {
		fmt.Fprintf(buf, "  %s Current savings already reach the target\n", styles.TrendIndicator(true))
	}
	if len(res.Projection) > 0 {
		fmt.Fprintln(buf)
		fmt.Fprintf(buf, "  %-6s %20s %20s\n", "Year", "Projected", "Target")
		for _, p := range res.Projection {
			fmt.Fprintf(buf, "  %-6d %20s %20s\n", p.Year,
				money.NewMoney(p.ProjectedSavings).Format(symbol),
				money.NewMoney(p.InflationAdjustedTarget).Format(symbol))
		}
	}
	fmt.Fprintln(buf)
}

func writeGrowth(buf *bytes.Buffer, n int, p domain.NamedGrowthProjection, symbol string) {
	res := p.Result

	fmt.Fprintf(buf, "PROJECTION %d: %s\n", n, p.Name)
	writeMetric(buf, "Final Value", styles.MetricValueStyle.Render(money.NewMoney(res.FinalValue).Format(symbol)))
	writeMetric(buf, "Total Contributed", money.NewMoney(res.TotalContributed).Format(symbol))
	writeMetric(buf, "Total Growth", styles.MetricTrendStyle(res.TotalGrowth >= 0).Render(money.NewMoney(res.TotalGrowth).Format(symbol)))

	if len(res.Points) > 0 {
		showReal := res.Input.InflationRatePercent != 0
		fmt.Fprintln(buf)
		header := fmt.Sprintf("  %-6s %20s %20s %20s", "Year", "Value", "Contributed", "Growth")
		if showReal {
			header += fmt.Sprintf(" %20s", "Real Value")
		}
		fmt.Fprintln(buf, header)
		for i, pt := range res.Points {
			if !isMilestone(i, len(res.Points)) {
				continue
			}
			row := fmt.Sprintf("  %-6d %20s %20s %20s", pt.Year,
				money.NewMoney(pt.Value).Format(symbol),
				money.NewMoney(pt.Contributed).Format(symbol),
				money.NewMoney(pt.Growth).Format(symbol))
			if showReal {
				row += fmt.Sprintf(" %20s", money.NewMoney(pt.RealValue).Format(symbol))
			}
			fmt.Fprintln(buf, row)
		}
	}
	fmt.Fprintln(buf)
}

// isMilestone keeps the first row, every fifth row and the last row
func isMilestone(i, n int) bool {
	return i == 0 || i == n-1 || (i+1)%milestoneEvery == 0
}
