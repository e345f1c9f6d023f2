package output

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/rgehrsitz/finplan/internal/domain"
)

// Formatter renders evaluated plan results in one output format
type Formatter interface {
	Format(results *domain.PlanResults) ([]byte, error)
	Name() string
}

// FormatterFunc adapts a plain function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(results *domain.PlanResults) ([]byte, error)
}

func (f FormatterFunc) Format(results *domain.PlanResults) ([]byte, error) { return f.F(results) }
func (f FormatterFunc) Name() string                                       { return f.ID }

var formatters = map[string]Formatter{
	"console-lite": ConsoleFormatter{},
	"console":      ConsoleVerboseFormatter{},
	"csv":          CSVSummarizer{},
	"detailed-csv": DetailedCSVFormatter{},
	"json":         JSONFormatter{},
	"html":         HTMLFormatter{},
	"pdf":          PDFFormatter{},
}

var formatAliases = map[string]string{
	"verbose":         "console",
	"console-verbose": "console",
	"text":            "console",
	"table":           "console",
	"lite":            "console-lite",
	"summary":         "console-lite",
	"csv-detailed":    "detailed-csv",
	"htm":             "html",
}

// NormalizeFormatName maps aliases and casing onto a registered formatter name
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := formatAliases[n]; ok {
		return canonical
	}
	return n
}

// GetFormatterByName returns the formatter for a name or alias, or nil
func GetFormatterByName(name string) Formatter {
	return formatters[NormalizeFormatName(name)]
}

// AvailableFormatterNames lists registered formatter names in sorted order
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists accepted aliases in sorted order
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for alias := range formatAliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// FileExtension returns the file extension used when a formatter writes to disk
func FileExtension(f Formatter) string {
	switch f.Name() {
	case "csv", "detailed-csv":
		return "csv"
	case "json":
		return "json"
	case "html":
		return "html"
	case "pdf":
		return "pdf"
	}
	return "txt"
}

// WriteFormatted renders results and writes them to a uniquely named report
// file in the working directory, returning the file name.
func WriteFormatted(f Formatter, results *domain.PlanResults, ext string) (string, error) {
	filename := fmt.Sprintf("finplan_report_%s.%s", strings.ToLower(ulid.Make().String()), ext)
	if err := WriteFormattedTo(f, results, filename); err != nil {
		return "", err
	}
	return filename, nil
}

// WriteFormattedTo renders results and writes them to path
func WriteFormattedTo(f Formatter, results *domain.PlanResults, path string) error {
	data, err := f.Format(results)
	if err != nil {
		return fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func currencyOf(results *domain.PlanResults) string {
	if results == nil || results.Currency == "" {
		return domain.DefaultCurrency
	}
	return results.Currency
}

func depletionLabel(r *domain.RetirementResult) string {
	if r.FundsLast {
		return "never"
	}
	return fmt.Sprintf("age %d", r.FundDepletionAge)
}
