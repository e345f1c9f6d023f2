package output

import (
	"bytes"
	"fmt"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/pkg/money"
)

// ConsoleFormatter prints a one-line summary per evaluated item
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(results *domain.PlanResults) ([]byte, error) {
	var buf bytes.Buffer
	symbol := currencyOf(results)

	fmt.Fprintln(&buf, "PLAN SUMMARY")
	if results.PlanName != "" {
		fmt.Fprintf(&buf, "Plan: %s\n", results.PlanName)
	}

	for _, r := range results.Retirement {
		res := r.Result
		fmt.Fprintf(&buf, "- %s: corpus %s, depletion %s, confidence %d\n",
			r.Name, money.NewMoney(res.RetirementCorpus).Compact(symbol), depletionLabel(res), res.ConfidenceScore)
	}
	for _, g := range results.Goals {
		res := g.Result
		fmt.Fprintf(&buf, "- %s: invest %s/month for %d months\n",
			g.Name, money.NewMoney(res.RequiredMonthlyContribution).Round().Format(symbol), res.Months)
	}
	for _, p := range results.Growth {
		res := p.Result
		fmt.Fprintf(&buf, "- %s: grows to %s (%s contributed)\n",
			p.Name, money.NewMoney(res.FinalValue).Compact(symbol), money.NewMoney(res.TotalContributed).Compact(symbol))
	}

	if best := results.BestRetirement(); best != nil {
		fmt.Fprintf(&buf, "Recommended: %s (confidence %d)\n", best.Name, best.Result.ConfidenceScore)
	}
	return buf.Bytes(), nil
}
