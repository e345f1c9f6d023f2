package output

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/pkg/money"
)

const (
	pdfMarginLeft   = 15.0
	pdfMarginTop    = 15.0
	pdfMarginRight  = 15.0
	pdfMarginBottom = 20.0
	pdfContentWidth = 210.0 - pdfMarginLeft - pdfMarginRight
	pdfRowHeight    = 6.0
)

// PDFFormatter renders a tabular A4 report
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

func (p PDFFormatter) Format(results *domain.PlanResults) ([]byte, error) {
	r := &pdfReport{
		pdf:    fpdf.New("P", "mm", "A4", ""),
		symbol: pdfSymbol(currencyOf(results)),
	}
	r.tr = r.pdf.UnicodeTranslatorFromDescriptor("")
	r.pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	r.pdf.SetAutoPageBreak(true, pdfMarginBottom)
	r.pdf.SetTitle("Financial Plan Report", true)

	r.pdf.AddPage()
	r.addTitle(results)
	for _, rr := range results.Retirement {
		r.addRetirement(rr)
	}
	for _, g := range results.Goals {
		r.addGoal(g)
	}
	for _, g := range results.Growth {
		r.addGrowth(g)
	}
	r.addAssumptions()

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type pdfReport struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	symbol string
}

// pdfSymbol swaps symbols the standard fonts cannot draw for a text code.
// The code keeps the grouping style of the original symbol.
func pdfSymbol(symbol string) string {
	if money.UsesIndianGrouping(symbol) {
		return "Rs."
	}
	return symbol
}

func (r *pdfReport) money(v float64) string {
	return money.NewMoney(v).Format(r.symbol)
}

func (r *pdfReport) addTitle(results *domain.PlanResults) {
	r.pdf.SetFont("Helvetica", "B", 20)
	r.pdf.SetTextColor(29, 78, 216)
	title := "Financial Plan Report"
	if results.PlanName != "" {
		title += ": " + results.PlanName
	}
	r.pdf.CellFormat(pdfContentWidth, 12, r.tr(title), "", 1, "C", false, 0, "")
	r.pdf.SetTextColor(0, 0, 0)
	r.pdf.Ln(4)
}

func (r *pdfReport) heading(text string) {
	r.pdf.SetFont("Helvetica", "B", 13)
	r.pdf.CellFormat(pdfContentWidth, 9, r.tr(text), "B", 1, "L", false, 0, "")
	r.pdf.Ln(2)
}

func (r *pdfReport) metric(label, value string) {
	r.pdf.SetFont("Helvetica", "", 10)
	r.pdf.CellFormat(70, pdfRowHeight, r.tr(label), "", 0, "L", false, 0, "")
	r.pdf.SetFont("Helvetica", "B", 10)
	r.pdf.CellFormat(pdfContentWidth-70, pdfRowHeight, r.tr(value), "", 1, "L", false, 0, "")
}

func (r *pdfReport) table(header []string, rows [][]string) {
	width := pdfContentWidth / float64(len(header))
	r.pdf.SetFont("Helvetica", "B", 9)
	r.pdf.SetFillColor(229, 231, 235)
	for _, h := range header {
		r.pdf.CellFormat(width, pdfRowHeight, r.tr(h), "1", 0, "C", true, 0, "")
	}
	r.pdf.Ln(-1)
	r.pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		for i, cell := range row {
			align := "R"
			if i == 0 {
				align = "C"
			}
			r.pdf.CellFormat(width, pdfRowHeight, r.tr(cell), "1", 0, align, false, 0, "")
		}
		r.pdf.Ln(-1)
	}
	r.pdf.Ln(4)
}

func (r *pdfReport) addRetirement(rr domain.NamedRetirementResult) {
	res := rr.Result
	cfg := res.Config

	r.heading("Retirement: " + rr.Name)
	r.metric("Ages", fmt.Sprintf("%d now, retire at %d, plan to %d", cfg.CurrentAge, cfg.RetirementAge, cfg.LifeExpectancy))
	r.metric("Withdrawal strategy", string(cfg.WithdrawalStrategy))
	r.metric("Retirement corpus", r.money(res.RetirementCorpus))
	r.metric("Monthly income needed", r.money(res.MonthlyIncomeNeeded))
	r.metric("Fund depletion", depletionLabel(res))
	r.metric("Retirement shortfall", r.money(res.RetirementShortfall))
	r.metric("Confidence score", fmt.Sprintf("%d / 100", res.ConfidenceScore))
	r.pdf.Ln(2)

	var rows [][]string
	for i, p := range res.Accumulation {
		if isMilestone(i, len(res.Accumulation)) {
			rows = append(rows, []string{fmt.Sprintf("%d", p.Age), r.money(p.Corpus), r.money(p.Contribution), "", r.money(p.Returns)})
		}
	}
	for i, p := range res.Withdrawal {
		if isMilestone(i, len(res.Withdrawal)) {
			rows = append(rows, []string{fmt.Sprintf("%d", p.Age), r.money(p.Corpus), "", r.money(p.Withdrawal), r.money(p.Returns)})
		}
	}
	r.table([]string{"Age", "Corpus", "Contribution", "Withdrawal", "Returns"}, rows)
}

func (r *pdfReport) addGoal(g domain.NamedGoalResult) {
	res := g.Result

	r.heading("Goal: " + g.Name)
	r.metric("Target (today)", r.money(res.Config.TargetAmount))
	r.metric("Target (inflated)", r.money(res.InflationAdjustedTarget))
	r.metric("Timeframe", fmt.Sprintf("%d years", res.Config.TimeframeYears))
	r.metric("Required monthly investment", money.NewMoney(res.RequiredMonthlyContribution).Round().Format(r.symbol))
	r.pdf.Ln(2)

	rows := make([][]string, 0, len(res.Projection))
	for _, p := range res.Projection {
		rows = append(rows, []string{fmt.Sprintf("%d", p.Year), r.money(p.ProjectedSavings), r.money(p.InflationAdjustedTarget)})
	}
	if len(rows) > 0 {
		r.table([]string{"Year", "Projected", "Target"}, rows)
	}
}

func (r *pdfReport) addGrowth(g domain.NamedGrowthProjection) {
	res := g.Result

	r.heading("Growth: " + g.Name)
	r.metric("Final value", r.money(res.FinalValue))
	r.metric("Total contributed", r.money(res.TotalContributed))
	r.metric("Total growth", r.money(res.TotalGrowth))
	r.pdf.Ln(2)

	var rows [][]string
	for i, p := range res.Points {
		if isMilestone(i, len(res.Points)) {
			rows = append(rows, []string{fmt.Sprintf("%d", p.Year), r.money(p.Value), r.money(p.Contributed), r.money(p.Growth)})
		}
	}
	if len(rows) > 0 {
		r.table([]string{"Year", "Value", "Contributed", "Growth"}, rows)
	}
}

func (r *pdfReport) addAssumptions() {
	r.heading("Key assumptions")
	r.pdf.SetFont("Helvetica", "", 9)
	for _, a := range DefaultAssumptions {
		r.pdf.MultiCell(pdfContentWidth, 5, r.tr("- "+a), "", "L", false)
	}
}
