package domain

// ProjectionInput describes a principal plus a level stream of periodic
// contributions compounded at a fixed nominal rate.
type ProjectionInput struct {
	Principal            float64 `yaml:"principal" json:"principal" validate:"gte=0"`
	PeriodicContribution float64 `yaml:"periodic_contribution" json:"periodicContribution" validate:"gte=0"`
	AnnualRatePercent    float64 `yaml:"annual_rate_percent" json:"annualRatePercent"`
	PeriodsPerYear       int     `yaml:"periods_per_year" json:"periodsPerYear" validate:"gt=0"`
	Years                int     `yaml:"years" json:"years" validate:"gte=0,lte=200"`

	// InflationRatePercent is optional. When set, each point also reports
	// its value in today's money.
	InflationRatePercent float64 `yaml:"inflation_rate_percent,omitempty" json:"inflationRatePercent,omitempty"`
}

// GrowthPoint is the projected value at a whole-year boundary.
// Monetary fields are rounded to whole currency units.
type GrowthPoint struct {
	Year        int     `json:"year"`
	Value       float64 `json:"value"`
	Contributed float64 `json:"contributed"`
	Growth      float64 `json:"growth"`
	RealValue   float64 `json:"realValue,omitempty"`
}

// GrowthProjection is the full result of a growth projection
type GrowthProjection struct {
	Input            ProjectionInput `json:"input"`
	Points           []GrowthPoint   `json:"points"`
	FinalValue       float64         `json:"finalValue"`
	TotalContributed float64         `json:"totalContributed"`
	TotalGrowth      float64         `json:"totalGrowth"`
}

// GrowthScenario is a named growth projection inside a plan file
type GrowthScenario struct {
	Name            string `yaml:"name" json:"name" validate:"required"`
	ProjectionInput `yaml:",inline"`
}
