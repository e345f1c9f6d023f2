package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finplan/internal/domain"
)

// CSVSummarizer writes one summary row per evaluated item
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

var summaryHeader = []string{
	"Type", "Name", "Final Value", "Total Contributed", "Monthly Income Needed",
	"Fund Depletion Age", "Funds Last", "Confidence Score", "Retirement Shortfall",
	"Required Monthly Contribution", "Inflation Adjusted Target", "Months",
}

func (c CSVSummarizer) Format(results *domain.PlanResults) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(summaryHeader); err != nil {
		return nil, err
	}

	for _, r := range results.Retirement {
		res := r.Result
		row := []string{
			"retirement", r.Name,
			amount(res.RetirementCorpus), "",
			amount(res.MonthlyIncomeNeeded),
			strconv.Itoa(res.FundDepletionAge),
			strconv.FormatBool(res.FundsLast),
			strconv.Itoa(res.ConfidenceScore),
			amount(res.RetirementShortfall),
			"", "", "",
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	for _, g := range results.Goals {
		res := g.Result
		row := []string{
			"goal", g.Name,
			"", "", "", "", "", "", "",
			amount(res.RequiredMonthlyContribution),
			amount(res.InflationAdjustedTarget),
			strconv.Itoa(res.Months),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	for _, p := range results.Growth {
		res := p.Result
		row := []string{
			"growth", p.Name,
			amount(res.FinalValue),
			amount(res.TotalContributed),
			"", "", "", "", "", "", "", "",
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// DetailedCSVFormatter writes every yearly point of every series
type DetailedCSVFormatter struct{}

func (d DetailedCSVFormatter) Name() string { return "detailed-csv" }

var detailHeader = []string{
	"Type", "Name", "Year", "Age", "Phase", "Balance", "Contribution", "Withdrawal", "Returns", "Target", "Real Value",
}

func (d DetailedCSVFormatter) Format(results *domain.PlanResults) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(detailHeader); err != nil {
		return nil, err
	}

	for _, r := range results.Retirement {
		res := r.Result
		for _, p := range res.Accumulation {
			row := []string{
				"retirement", r.Name,
				strconv.Itoa(p.Age - res.Config.CurrentAge), strconv.Itoa(p.Age), "accumulation",
				amount(p.Corpus), amount(p.Contribution), "", amount(p.Returns), "", "",
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
		for _, p := range res.Withdrawal {
			row := []string{
				"retirement", r.Name,
				strconv.Itoa(p.Age - res.Config.CurrentAge), strconv.Itoa(p.Age), "withdrawal",
				amount(p.Corpus), "", amount(p.Withdrawal), amount(p.Returns), "", "",
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	for _, g := range results.Goals {
		for _, p := range g.Result.Projection {
			row := []string{
				"goal", g.Name,
				strconv.Itoa(p.Year), "", "",
				amount(p.ProjectedSavings), "", "", "", amount(p.InflationAdjustedTarget), "",
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	for _, g := range results.Growth {
		inflation := g.Result.Input.InflationRatePercent != 0
		for _, p := range g.Result.Points {
			realValue := ""
			if inflation {
				realValue = amount(p.RealValue)
			}
			row := []string{
				"growth", g.Name,
				strconv.Itoa(p.Year), "", "",
				amount(p.Value), amount(p.Contributed), "", amount(p.Growth), "", realValue,
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func amount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
