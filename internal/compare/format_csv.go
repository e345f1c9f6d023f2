package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Description",
		"Retirement Age",
		"Withdrawal Strategy",
		"Retirement Corpus",
		"Fund Depletion Age",
		"Years Funded",
		"Confidence Score",
		"Retirement Shortfall",
		"Corpus Diff from Base",
		"Corpus % Change",
		"Years Funded Diff",
		"Confidence Diff",
		"Shortfall Diff from Base",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	return []string{
		result.ScenarioName,
		scenarioType,
		result.Description,
		strconv.Itoa(result.RetirementAge),
		result.WithdrawalStrategy,
		result.RetirementCorpus.StringFixed(2),
		strconv.Itoa(result.FundDepletionAge),
		strconv.Itoa(result.YearsFunded),
		strconv.Itoa(result.ConfidenceScore),
		result.RetirementShortfall.StringFixed(2),
		result.CorpusDiffFromBase.StringFixed(2),
		result.CorpusPctFromBase.StringFixed(2),
		strconv.Itoa(result.YearsFundedDiff),
		strconv.Itoa(result.ConfidenceDiff),
		result.ShortfallDiffFromBase.StringFixed(2),
	}
}
