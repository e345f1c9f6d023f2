package calculation

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithdrawalPolicy(t *testing.T) {
	tests := []struct {
		strategy domain.WithdrawalStrategy
		wantName string
		wantRate float64
	}{
		{domain.Withdraw4Percent, "4percent", 0.04},
		{domain.Withdraw5Percent, "5percent", 0.05},
		{domain.Withdraw6Percent, "6percent", 0.06},
		{domain.WithdrawDynamic, "dynamic", 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			cfg := referenceConfig(tt.strategy)
			p, err := NewWithdrawalPolicy(cfg, 1_000_000, 10_000)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.GetStrategyName())
			if fixed, ok := p.(*FixedRateWithdrawal); ok {
				assert.InDelta(t, tt.wantRate*1_000_000, fixed.AnnualAmount, 1e-9)
			}
		})
	}

	_, err := NewWithdrawalPolicy(referenceConfig("none"), 1, 1)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestFixedRateWithdrawal_InflatesAmount(t *testing.T) {
	p := NewFixedRateWithdrawal(0.04, 1_000_000, 0, 10)
	_, withdrawn, _ := p.WithdrawYear(1_000_000)
	assert.InDelta(t, 40000, withdrawn, 1e-6)

	_, withdrawn, _ = p.WithdrawYear(1_000_000)
	assert.InDelta(t, 44000, withdrawn, 1e-6)
	assert.Equal(t, "fixed_4_percent", p.GetStrategyName())
}

func TestFixedRateWithdrawal_NeverBelowZero(t *testing.T) {
	p := NewFixedRateWithdrawal(0.5, 100_000, 0, 0)
	closing, withdrawn, _ := p.WithdrawYear(30_000)
	assert.Zero(t, closing)
	assert.InDelta(t, 30_000, withdrawn, 1e-9)

	closing, withdrawn, returns := p.WithdrawYear(0)
	assert.Zero(t, closing)
	assert.Zero(t, withdrawn)
	assert.Zero(t, returns)
}

func TestDynamicWithdrawal_UsesNeedWhenBelowCap(t *testing.T) {
	p := NewDynamicWithdrawal(1000, 0, 5)
	closing, withdrawn, _ := p.WithdrawYear(1_000_000)
	assert.InDelta(t, 12000, withdrawn, 1e-9)
	assert.InDelta(t, 988000, closing, 1e-9)
	assert.InDelta(t, 1050, p.MonthlyNeed, 1e-9)
}
