package output

import (
	"github.com/goccy/go-json"

	"github.com/rgehrsitz/finplan/internal/domain"
)

// JSONFormatter emits the full results as indented JSON
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(results *domain.PlanResults) ([]byte, error) {
	return json.MarshalIndent(results, "", "  ")
}
