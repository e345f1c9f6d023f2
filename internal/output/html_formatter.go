package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/pkg/money"
)

// HTMLFormatter produces a standalone HTML report
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":        func(symbol string, v float64) string { return money.NewMoney(v).Format(symbol) },
	"depletion":   depletionLabel,
	"milestone":   isMilestone,
	"statusClass": statusClass,
}).Parse(htmlTemplateSource))

func statusClass(r *domain.RetirementResult) string {
	if r.FundsLast {
		return "ok"
	}
	return "warn"
}

func (h HTMLFormatter) Format(results *domain.PlanResults) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.PlanResults
		Symbol      string
		Best        *domain.NamedRetirementResult
		Assumptions []string
	}{results, currencyOf(results), results.BestRetirement(), DefaultAssumptions}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
