package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/styles"
	"github.com/rgehrsitz/finplan/pkg/money"
)

// SensitivityFormatter defines a formatter for sensitivity analysis
type SensitivityFormatter interface {
	FormatSensitivityAnalysis(analysis any) (string, error)
	Name() string
}

// SensitivityConsoleFormatter formats sensitivity analysis output for console
type SensitivityConsoleFormatter struct {
	Currency string
}

func (scf SensitivityConsoleFormatter) Name() string { return "console" }

func (scf SensitivityConsoleFormatter) FormatSensitivityAnalysis(analysis any) (string, error) {
	var buf bytes.Buffer

	switch a := analysis.(type) {
	case *domain.ParameterSensitivityAnalysis:
		return scf.formatSingleAnalysis(&buf, a)
	case *domain.SensitivityMatrix:
		return scf.formatMatrixAnalysis(&buf, a)
	default:
		return "", fmt.Errorf("unsupported analysis type: %T", analysis)
	}
}

func (scf SensitivityConsoleFormatter) symbol() string {
	if scf.Currency == "" {
		return domain.DefaultCurrency
	}
	return scf.Currency
}

func (scf SensitivityConsoleFormatter) formatSingleAnalysis(buf *bytes.Buffer, analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	if len(analysis.Parameters) == 0 || len(analysis.Results) == 0 {
		return "", fmt.Errorf("no parameters or results in analysis")
	}

	param := analysis.Parameters[0]
	symbol := scf.symbol()

	fmt.Fprintf(buf, "%s\n", styles.TitleStyle.Render("SENSITIVITY ANALYSIS: "+strings.ToUpper(strings.ReplaceAll(param.Name, "_", " "))))
	fmt.Fprintln(buf, strings.Repeat("=", 80))
	fmt.Fprintf(buf, "Scenario: %s\n", analysis.BaseScenarioName)
	fmt.Fprintf(buf, "Base Case: %s = %s\n", param.Name, formatParameterValue(param, param.BaseValue, symbol))
	fmt.Fprintf(buf, "Range: %s to %s (%d steps)\n",
		formatParameterValue(param, param.MinValue, symbol),
		formatParameterValue(param, param.MaxValue, symbol),
		param.Steps)
	if param.Description != "" {
		fmt.Fprintf(buf, "Description: %s\n", param.Description)
	}
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "%-20s %18s %12s %12s %18s\n", "Value", "Corpus", "Depletion", "Confidence", "Corpus Change")
	fmt.Fprintln(buf, strings.Repeat("-", 84))

	for _, result := range analysis.Results {
		value := result.ParameterValues[param.Name]
		label := formatParameterValue(param, value, symbol)
		if value.Equal(param.BaseValue) {
			label += " ← BASE"
		}
		if result.Skipped {
			fmt.Fprintf(buf, "%-20s %s\n", label, styles.WarningStyle.Render("skipped: "+result.SkipReason))
			continue
		}
		m := result.KeyMetrics
		fmt.Fprintf(buf, "%-20s %18s %12s %12d %18s\n",
			label,
			money.NewMoneyFromDecimal(m.RetirementCorpus).Compact(symbol),
			strconv.Itoa(m.FundDepletionAge),
			m.ConfidenceScore,
			fmt.Sprintf("%s%%", m.CorpusChangePct.StringFixed(1)))
	}
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "Confidence range: %d to %d\n", analysis.Summary.MinConfidence, analysis.Summary.MaxConfidence)
	if analysis.Summary.EarliestDepletionAge > 0 {
		fmt.Fprintf(buf, "Earliest depletion age: %d\n", analysis.Summary.EarliestDepletionAge)
	}
	if score, ok := analysis.Summary.SensitivityScores[param.Name]; ok {
		fmt.Fprintf(buf, "Sensitivity score: %s\n", score.StringFixed(2))
	}
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "RISK LEVEL: %s %s\n", riskIndicator(analysis.Summary.RiskLevel), analysis.Summary.RiskLevel)
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "RECOMMENDATIONS:")
	for _, rec := range analysis.Summary.Recommendations {
		fmt.Fprintf(buf, "  • %s\n", rec)
	}

	return buf.String(), nil
}

func (scf SensitivityConsoleFormatter) formatMatrixAnalysis(buf *bytes.Buffer, matrix *domain.SensitivityMatrix) (string, error) {
	if len(matrix.MatrixResults) == 0 || len(matrix.MatrixResults[0]) == 0 {
		return "", fmt.Errorf("no results in matrix analysis")
	}
	symbol := scf.symbol()
	p1, p2 := matrix.Parameter1, matrix.Parameter2

	fmt.Fprintf(buf, "%s\n", styles.TitleStyle.Render("SENSITIVITY MATRIX ANALYSIS"))
	fmt.Fprintln(buf, strings.Repeat("=", 80))
	fmt.Fprintf(buf, "Scenario: %s\n", matrix.BaseScenarioName)
	fmt.Fprintf(buf, "Rows:    %s (%s to %s)\n", p1.Name,
		formatParameterValue(p1, p1.MinValue, symbol), formatParameterValue(p1, p1.MaxValue, symbol))
	fmt.Fprintf(buf, "Columns: %s (%s to %s)\n", p2.Name,
		formatParameterValue(p2, p2.MinValue, symbol), formatParameterValue(p2, p2.MaxValue, symbol))
	fmt.Fprintln(buf, "Cells show the confidence score; * marks plans that run out of money")
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "%-14s", "")
	for _, cell := range matrix.MatrixResults[0] {
		fmt.Fprintf(buf, " %10s", formatParameterValue(p2, cell.ParameterValues[p2.Name], symbol))
	}
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, strings.Repeat("-", 14+11*len(matrix.MatrixResults[0])))

	for _, row := range matrix.MatrixResults {
		fmt.Fprintf(buf, "%-14s", formatParameterValue(p1, row[0].ParameterValues[p1.Name], symbol))
		for _, cell := range row {
			fmt.Fprintf(buf, " %10s", matrixCell(cell))
		}
		fmt.Fprintln(buf)
	}
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "Failing cells: %d of %d\n", matrix.Summary.FailingCells, matrix.Summary.TotalCells)
	if matrix.Summary.WorstCombination != "" {
		fmt.Fprintf(buf, "Worst combination: %s\n", matrix.Summary.WorstCombination)
		fmt.Fprintf(buf, "Best combination:  %s\n", matrix.Summary.BestCombination)
	}
	fmt.Fprintf(buf, "RISK LEVEL: %s %s\n", riskIndicator(matrix.Summary.RiskLevel), matrix.Summary.RiskLevel)
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "RECOMMENDATIONS:")
	for _, rec := range matrix.Summary.Recommendations {
		fmt.Fprintf(buf, "  • %s\n", rec)
	}

	return buf.String(), nil
}

// SensitivityCSVFormatter formats sensitivity analysis output as CSV
type SensitivityCSVFormatter struct{}

func (scf SensitivityCSVFormatter) Name() string { return "csv" }

func (scf SensitivityCSVFormatter) FormatSensitivityAnalysis(analysis any) (string, error) {
	var rows [][]string

	switch a := analysis.(type) {
	case *domain.ParameterSensitivityAnalysis:
		if len(a.Parameters) == 0 {
			return "", fmt.Errorf("no parameters or results in analysis")
		}
		name := a.Parameters[0].Name
		rows = append(rows, []string{"parameter_name", "parameter_value", "retirement_corpus", "fund_depletion_age",
			"confidence_score", "retirement_shortfall", "corpus_change_pct", "skipped"})
		for _, r := range a.Results {
			rows = append(rows, append([]string{name, r.ParameterValues[name].StringFixed(4)}, sensitivityMetricCells(r)...))
		}
	case *domain.SensitivityMatrix:
		p1, p2 := a.Parameter1.Name, a.Parameter2.Name
		rows = append(rows, []string{"parameter_1_name", "parameter_1_value", "parameter_2_name", "parameter_2_value",
			"retirement_corpus", "fund_depletion_age", "confidence_score", "retirement_shortfall", "corpus_change_pct", "skipped"})
		for _, row := range a.MatrixResults {
			for _, r := range row {
				cells := []string{p1, r.ParameterValues[p1].StringFixed(4), p2, r.ParameterValues[p2].StringFixed(4)}
				rows = append(rows, append(cells, sensitivityMetricCells(r)...))
			}
		}
	default:
		return "", fmt.Errorf("unsupported analysis type: %T", analysis)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func sensitivityMetricCells(r domain.SensitivityResult) []string {
	m := r.KeyMetrics
	return []string{
		m.RetirementCorpus.StringFixed(0),
		strconv.Itoa(m.FundDepletionAge),
		strconv.Itoa(m.ConfidenceScore),
		m.RetirementShortfall.StringFixed(0),
		m.CorpusChangePct.StringFixed(2),
		strconv.FormatBool(r.Skipped),
	}
}

// SensitivityJSONFormatter formats sensitivity analysis output as JSON
type SensitivityJSONFormatter struct{}

func (sjf SensitivityJSONFormatter) Name() string { return "json" }

func (sjf SensitivityJSONFormatter) FormatSensitivityAnalysis(analysis any) (string, error) {
	switch analysis.(type) {
	case *domain.ParameterSensitivityAnalysis, *domain.SensitivityMatrix:
	default:
		return "", fmt.Errorf("unsupported analysis type: %T", analysis)
	}
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewSensitivityFormatter creates a sensitivity formatter based on the format name
func NewSensitivityFormatter(format, currency string) SensitivityFormatter {
	switch NormalizeFormatName(format) {
	case "console", "console-lite":
		return SensitivityConsoleFormatter{Currency: currency}
	case "csv", "detailed-csv":
		return SensitivityCSVFormatter{}
	case "json":
		return SensitivityJSONFormatter{}
	default:
		return SensitivityConsoleFormatter{Currency: currency}
	}
}

func formatParameterValue(param domain.SensitivityParameter, value decimal.Decimal, symbol string) string {
	switch param.Unit {
	case "percent":
		return value.StringFixed(1) + "%"
	case "currency":
		return money.NewMoneyFromDecimal(value).Format(symbol)
	case "years":
		return value.Round(0).String()
	}
	return value.StringFixed(2)
}

func matrixCell(r domain.SensitivityResult) string {
	if r.Skipped {
		return "n/a"
	}
	cell := strconv.Itoa(r.KeyMetrics.ConfidenceScore)
	if r.KeyMetrics.ConfidenceScore <= 75 {
		cell += "*"
	}
	return cell
}

func riskIndicator(level string) string {
	switch level {
	case "LOW":
		return "✅"
	case "MEDIUM":
		return "⚠️"
	case "HIGH":
		return "🔴"
	case "CRITICAL":
		return "🚨"
	}
	return ""
}
