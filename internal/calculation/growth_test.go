package calculation

import (
	"errors"
	"math"
	"testing"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectGrowth_MonthlySIP(t *testing.T) {
	p, err := ProjectGrowth(domain.ProjectionInput{
		Principal:            100000,
		PeriodicContribution: 10000,
		AnnualRatePercent:    12,
		PeriodsPerYear:       12,
		Years:                10,
	})
	require.NoError(t, err)
	require.Len(t, p.Points, 11)

	assert.Equal(t, 100000.0, p.Points[0].Value)
	assert.Equal(t, 239508.0, p.Points[1].Value)
	assert.Equal(t, 2630426.0, p.Points[10].Value)
	assert.Equal(t, 1300000.0, p.Points[10].Contributed)
	assert.Equal(t, p.Points[10].Value-p.Points[10].Contributed, p.Points[10].Growth)
	assert.InDelta(t, 1300000.0, p.TotalContributed, 1e-9)
	assert.InDelta(t, p.FinalValue-p.TotalContributed, p.TotalGrowth, 1e-9)
	assert.Zero(t, p.Points[10].RealValue, "real value only reported with inflation")
}

func TestProjectGrowth_ZeroHorizon(t *testing.T) {
	p, err := ProjectGrowth(domain.ProjectionInput{
		Principal:            12345,
		PeriodicContribution: 500,
		AnnualRatePercent:    8,
		PeriodsPerYear:       12,
		Years:                0,
	})
	require.NoError(t, err)
	require.Len(t, p.Points, 1)
	assert.Equal(t, 12345.0, p.Points[0].Value)
	assert.Equal(t, 12345.0, p.FinalValue)
}

func TestProjectGrowth_Monotonic(t *testing.T) {
	inputs := []domain.ProjectionInput{
		{Principal: 0, PeriodicContribution: 1000, AnnualRatePercent: 0, PeriodsPerYear: 12, Years: 20},
		{Principal: 50000, PeriodicContribution: 0, AnnualRatePercent: 7, PeriodsPerYear: 4, Years: 30},
		{Principal: 1, PeriodicContribution: 1, AnnualRatePercent: 20, PeriodsPerYear: 1, Years: 40},
	}
	for _, in := range inputs {
		p, err := ProjectGrowth(in)
		require.NoError(t, err)
		for i := 1; i < len(p.Points); i++ {
			assert.GreaterOrEqual(t, p.Points[i].Value, p.Points[i-1].Value,
				"value decreased at year %d for %+v", i, in)
		}
	}
}

func TestProjectGrowth_CarriedValueIsNotRounded(t *testing.T) {
	// 0.4 per period rounds to zero at every boundary, but accumulates
	p, err := ProjectGrowth(domain.ProjectionInput{
		PeriodicContribution: 0.4,
		PeriodsPerYear:       1,
		Years:                5,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Points[1].Value)
	assert.Equal(t, 2.0, p.Points[5].Value)
	assert.InDelta(t, 2.0, p.FinalValue, 1e-12)
}

func TestProjectGrowth_OrdinaryAnnuityOrder(t *testing.T) {
	// One period at 100%: principal doubles, contribution added after growth
	p, err := ProjectGrowth(domain.ProjectionInput{
		Principal:            100,
		PeriodicContribution: 10,
		AnnualRatePercent:    100,
		PeriodsPerYear:       1,
		Years:                1,
	})
	require.NoError(t, err)
	assert.Equal(t, 210.0, p.Points[1].Value)
}

func TestProjectGrowth_RealValue(t *testing.T) {
	p, err := ProjectGrowth(domain.ProjectionInput{
		Principal:            100000,
		AnnualRatePercent:    6,
		PeriodsPerYear:       1,
		Years:                3,
		InflationRatePercent: 6,
	})
	require.NoError(t, err)
	for _, pt := range p.Points {
		assert.InDelta(t, 100000.0, pt.RealValue, 1, "year %d", pt.Year)
	}
	assert.InDelta(t, 100000*math.Pow(1.06, 3), p.FinalValue, 1e-6)
}

func TestProjectGrowth_InvalidArguments(t *testing.T) {
	tests := []struct {
		name  string
		input domain.ProjectionInput
		field string
	}{
		{"negative years", domain.ProjectionInput{PeriodsPerYear: 12, Years: -1}, "years"},
		{"zero frequency", domain.ProjectionInput{PeriodsPerYear: 0, Years: 5}, "periods_per_year"},
		{"negative frequency", domain.ProjectionInput{PeriodsPerYear: -12, Years: 5}, "periods_per_year"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ProjectGrowth(tt.input)
			require.Error(t, err)
			assert.Nil(t, p)
			assert.True(t, errors.Is(err, ErrInvalidArgument))

			var inputErr *InputError
			require.True(t, errors.As(err, &inputErr))
			assert.Equal(t, tt.field, inputErr.Field)
		})
	}
}

func TestPeriodicRate_Underflow(t *testing.T) {
	assert.Equal(t, 0.0, PeriodicRate(1e-300, 12))
	assert.InDelta(t, 0.01, PeriodicRate(12, 12), 1e-15)
}

func TestCompoundPeriods(t *testing.T) {
	assert.Equal(t, 100.0, CompoundPeriods(100, 0.5, 0, 0))
	assert.InDelta(t, 121.0, CompoundPeriods(100, 0.1, 0, 2), 1e-9)
	assert.InDelta(t, 30.0, CompoundPeriods(0, 0, 10, 3), 1e-12)
}
