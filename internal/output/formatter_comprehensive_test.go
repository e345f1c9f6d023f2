package output

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rgehrsitz/finplan/internal/domain"
)

func referenceRetirement(strategy domain.WithdrawalStrategy) domain.RetirementConfig {
	return domain.RetirementConfig{
		CurrentAge:              30,
		RetirementAge:           60,
		LifeExpectancy:          85,
		CurrentSavings:          1000000,
		MonthlyContribution:     20000,
		EPFContribution:         1800,
		NPSContribution:         5000,
		ExpectedMonthlyExpenses: 50000,
		PreRetirementReturn:     12,
		PostRetirementReturn:    7,
		InflationRate:           6,
		WithdrawalStrategy:      strategy,
	}
}

func buildTestResults(t *testing.T) *domain.PlanResults {
	t.Helper()
	cfg := &domain.Configuration{
		Name: "Family Plan",
		RetirementScenarios: []domain.RetirementScenario{
			{Name: "A", RetirementConfig: referenceRetirement(domain.Withdraw6Percent)},
			{Name: "B", RetirementConfig: referenceRetirement(domain.Withdraw4Percent)},
		},
		Goals: []domain.GoalScenario{
			{Name: "House", GoalConfig: domain.GoalConfig{
				TargetAmount: 5000000, CurrentSavings: 1000000, TimeframeYears: 5, InflationRate: 6, ExpectedReturn: 12,
			}},
		},
		GrowthProjections: []domain.GrowthScenario{
			{Name: "SIP", ProjectionInput: domain.ProjectionInput{
				Principal: 100000, PeriodicContribution: 10000, AnnualRatePercent: 12, PeriodsPerYear: 12, Years: 10,
			}},
		},
	}
	results, err := calculation.NewCalculationEngine().RunPlan(context.Background(), cfg)
	require.NoError(t, err)
	return results
}

func TestFormatterFunc_Format(t *testing.T) {
	called := false
	var receivedResults *domain.PlanResults

	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(results *domain.PlanResults) ([]byte, error) {
			called = true
			receivedResults = results
			return []byte("test output"), nil
		},
	}

	testResults := &domain.PlanResults{PlanName: "p"}
	output, err := formatter.Format(testResults)

	assert.NoError(t, err, "Should not error")
	assert.True(t, called, "Should call the function")
	assert.Equal(t, testResults, receivedResults, "Should pass the results")
	assert.Equal(t, []byte("test output"), output, "Should return the function output")
	assert.Equal(t, "test-formatter", formatter.Name(), "Should return the ID")
}

func TestWriteFormatted(t *testing.T) {
	tmpDir := t.TempDir()
	originalDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	defer os.Chdir(originalDir)

	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(results *domain.PlanResults) ([]byte, error) {
			return []byte("test output content"), nil
		},
	}

	filename, err := WriteFormatted(formatter, &domain.PlanResults{}, "txt")

	assert.NoError(t, err, "Should not error")
	assert.True(t, strings.HasPrefix(filename, "finplan_report_"), "Should have correct prefix")
	assert.True(t, strings.HasSuffix(filename, ".txt"), "Should have correct extension")
	// ulid is 26 characters
	assert.Len(t, filename, len("finplan_report_")+26+len(".txt"))

	content, err := os.ReadFile(filename)
	assert.NoError(t, err, "Should be able to read the file")
	assert.Equal(t, "test output content", string(content), "Should have correct content")

	second, err := WriteFormatted(formatter, &domain.PlanResults{}, "txt")
	require.NoError(t, err)
	assert.NotEqual(t, filename, second, "Report names should be unique")
}

func TestWriteFormatted_FormatterError(t *testing.T) {
	formatter := FormatterFunc{
		ID: "error-formatter",
		F: func(results *domain.PlanResults) ([]byte, error) {
			return nil, fmt.Errorf("formatter error")
		},
	}

	filename, err := WriteFormatted(formatter, &domain.PlanResults{}, "txt")

	assert.Error(t, err, "Should error when formatter fails")
	assert.Empty(t, filename, "Should return empty filename on error")
	assert.Contains(t, err.Error(), "formatter error", "Should propagate formatter error")
}

func TestWriteFormattedTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, WriteFormattedTo(JSONFormatter{}, buildTestResults(t), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"planName": "Family Plan"`)
}

func TestConsoleFormatter_Format(t *testing.T) {
	formatter := ConsoleFormatter{}
	assert.Equal(t, "console-lite", formatter.Name())

	output, err := formatter.Format(buildTestResults(t))
	require.NoError(t, err)

	content := string(output)
	assert.Contains(t, content, "PLAN SUMMARY")
	assert.Contains(t, content, "Plan: Family Plan")
	assert.Contains(t, content, "- A: corpus ₹12.96 Cr, depletion age 79, confidence 57")
	assert.Contains(t, content, "- B: corpus ₹12.96 Cr, depletion never, confidence 100")
	assert.Contains(t, content, "- House: invest ₹59,685/month for 60 months")
	assert.Contains(t, content, "- SIP: grows to ₹26.30 L")
	assert.Contains(t, content, "Recommended: B (confidence 100)")
}

func TestConsoleFormatter_Format_EmptyPlan(t *testing.T) {
	output, err := ConsoleFormatter{}.Format(&domain.PlanResults{})
	require.NoError(t, err)

	content := string(output)
	assert.Contains(t, content, "PLAN SUMMARY")
	assert.NotContains(t, content, "Recommended")
}

func TestConsoleVerboseFormatter_Format(t *testing.T) {
	formatter := ConsoleVerboseFormatter{}
	assert.Equal(t, "console", formatter.Name())

	output, err := formatter.Format(buildTestResults(t))
	require.NoError(t, err)

	content := string(output)
	assert.Contains(t, content, "FINANCIAL PLAN REPORT: Family Plan")
	assert.Contains(t, content, "KEY ASSUMPTIONS:")
	assert.Contains(t, content, "RETIREMENT SCENARIOS")
	assert.Contains(t, content, "SCENARIO 1: A")
	assert.Contains(t, content, "₹12,96,14,680", "corpus uses lakh/crore grouping")
	assert.Contains(t, content, "Runs out 7 years before age 85")
	assert.Contains(t, content, "Funds last to age 85")
	assert.Contains(t, content, "Annual Income Needed")
	assert.Contains(t, content, "SAVINGS GOALS")
	assert.Contains(t, content, "₹59,685")
	assert.Contains(t, content, "GROWTH PROJECTIONS")
	assert.Contains(t, content, "₹26,30,426")
	assert.Contains(t, content, "Recommended Scenario: B")
}

func TestConsoleVerboseFormatter_WesternGrouping(t *testing.T) {
	results := buildTestResults(t)
	results.Currency = "$"

	output, err := ConsoleVerboseFormatter{}.Format(results)
	require.NoError(t, err)

	assert.Contains(t, string(output), "$129,614,680")
	assert.Contains(t, string(output), "$2,630,426")
}

func TestCSVSummarizer_Format(t *testing.T) {
	formatter := CSVSummarizer{}
	assert.Equal(t, "csv", formatter.Name())

	results := buildTestResults(t)
	output, err := formatter.Format(results)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(output))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5, "header plus four items")

	assert.Equal(t, summaryHeader, records[0])
	assert.Equal(t, []string{"retirement", "A"}, records[1][:2])
	assert.Equal(t, "79", records[1][5])
	assert.Equal(t, "false", records[1][6])
	assert.Equal(t, "57", records[1][7])
	assert.Equal(t, "86", records[2][5])
	assert.Equal(t, "true", records[2][6])
	assert.Equal(t, []string{"goal", "House"}, records[3][:2])
	assert.Equal(t, "59685.00", records[3][9])
	assert.Equal(t, "60", records[3][11])
	assert.Equal(t, []string{"growth", "SIP"}, records[4][:2])
	assert.Equal(t, amount(results.Growth[0].Result.FinalValue), records[4][2])
	assert.Equal(t, "1300000.00", records[4][3])
}

func TestDetailedCSVFormatter_Format(t *testing.T) {
	formatter := DetailedCSVFormatter{}
	assert.Equal(t, "detailed-csv", formatter.Name())

	results := buildTestResults(t)
	output, err := formatter.Format(results)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(output))).ReadAll()
	require.NoError(t, err)

	want := 1
	for _, r := range results.Retirement {
		want += len(r.Result.Accumulation) + len(r.Result.Withdrawal)
	}
	want += len(results.Goals[0].Result.Projection) + len(results.Growth[0].Result.Points)
	assert.Len(t, records, want)

	first := records[1]
	assert.Equal(t, []string{"retirement", "A", "0", "30", "accumulation", "1000000.00"}, first[:6])

	last := records[len(records)-1]
	assert.Equal(t, []string{"growth", "SIP", "10"}, last[:3])
	assert.Equal(t, "2630426.00", last[5])
	assert.Equal(t, "", last[10], "no real value without inflation")
}

func TestJSONFormatter_Format(t *testing.T) {
	formatter := JSONFormatter{}
	assert.Equal(t, "json", formatter.Name())

	output, err := formatter.Format(buildTestResults(t))
	require.NoError(t, err)

	content := string(output)
	assert.Contains(t, content, `"planName": "Family Plan"`)
	assert.Contains(t, content, `"retirement"`)
	assert.Contains(t, content, `"fundDepletionAge": 79`)
	assert.Contains(t, content, `"requiredMonthlyContribution": 59685`)
	assert.Contains(t, content, `"value": 2630426`)
}

func TestHTMLFormatter_Format(t *testing.T) {
	formatter := HTMLFormatter{}
	assert.Equal(t, "html", formatter.Name())

	output, err := formatter.Format(buildTestResults(t))
	require.NoError(t, err)

	content := string(output)
	assert.Contains(t, content, "<!DOCTYPE html>")
	assert.Contains(t, content, "<title>Financial Plan Report: Family Plan</title>")
	assert.Contains(t, content, "Recommended scenario: <strong>B</strong>")
	assert.Contains(t, content, "₹12,96,14,680")
	assert.Contains(t, content, `class="metric-value warn">age 79`)
	assert.Contains(t, content, "Savings Goals")
	assert.Contains(t, content, "Growth Projections")
}

func TestHTMLFormatter_EscapesNames(t *testing.T) {
	results := buildTestResults(t)
	results.PlanName = "<script>alert(1)</script>"

	output, err := HTMLFormatter{}.Format(results)
	require.NoError(t, err)

	assert.NotContains(t, string(output), "<script>alert(1)</script>")
}

func TestPDFFormatter_Format(t *testing.T) {
	formatter := PDFFormatter{}
	assert.Equal(t, "pdf", formatter.Name())

	output, err := formatter.Format(buildTestResults(t))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(output), "%PDF-"), "Should be a PDF document")
	assert.Greater(t, len(output), 1000)
}

func TestPDFSymbol(t *testing.T) {
	assert.Equal(t, "Rs.", pdfSymbol("₹"))
	assert.Equal(t, "$", pdfSymbol("$"))
}

func TestAvailableFormatterNames(t *testing.T) {
	names := AvailableFormatterNames()

	assert.Equal(t, []string{"console", "console-lite", "csv", "detailed-csv", "html", "json", "pdf"}, names)
}

func TestAvailableFormatAliases(t *testing.T) {
	aliases := AvailableFormatAliases()

	assert.Contains(t, aliases, "verbose")
	assert.Contains(t, aliases, "console-verbose")
	assert.Contains(t, aliases, "table")
}

func TestGetFormatterByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"console-lite", "console-lite"},
		{"verbose", "console"},
		{" JSON ", "json"},
		{"table", "console"},
		{"pdf", "pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := GetFormatterByName(tt.name)
			require.NotNil(t, formatter)
			assert.Equal(t, tt.want, formatter.Name())
		})
	}

	assert.Nil(t, GetFormatterByName("non-existent"), "Should return nil formatter for non-existent name")
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "csv", FileExtension(DetailedCSVFormatter{}))
	assert.Equal(t, "pdf", FileExtension(PDFFormatter{}))
	assert.Equal(t, "txt", FileExtension(ConsoleVerboseFormatter{}))
}
