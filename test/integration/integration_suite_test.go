package integration

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/rgehrsitz/finplan/internal/breakeven"
	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rgehrsitz/finplan/internal/compare"
	"github.com/rgehrsitz/finplan/internal/config"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/output"
	"github.com/rgehrsitz/finplan/internal/server"
)

// TestIntegrationSuite exercises every layer on top of the example plan
func TestIntegrationSuite(t *testing.T) {
	plan := loadExamplePlan(t)
	engine := calculation.NewCalculationEngine()

	t.Run("calculation_consistency", func(t *testing.T) {
		first, err := engine.RunPlan(context.Background(), plan)
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			again, err := engine.RunPlan(context.Background(), plan)
			require.NoError(t, err)
			assert.Equal(t, first, again, "run %d should match the first run", i)
		}
	})

	t.Run("sequential_matches_concurrent", func(t *testing.T) {
		concurrent, err := engine.RunPlan(context.Background(), plan)
		require.NoError(t, err)

		sequential := calculation.NewCalculationEngine()
		sequential.MaxConcurrency = 1
		seq, err := sequential.RunPlan(context.Background(), plan)
		require.NoError(t, err)

		assert.Equal(t, seq, concurrent)
	})

	t.Run("output_formats", func(t *testing.T) {
		results, err := engine.RunPlan(context.Background(), plan)
		require.NoError(t, err)

		for _, name := range output.AvailableFormatterNames() {
			t.Run(fmt.Sprintf("format_%s", name), func(t *testing.T) {
				f := output.GetFormatterByName(name)
				require.NotNil(t, f)

				data, err := f.Format(results)
				require.NoError(t, err)
				assert.NotEmpty(t, data)
			})
		}
	})

	t.Run("compare_templates", func(t *testing.T) {
		compSet, err := compare.NewCompareEngine(engine).Compare(context.Background(), plan, compare.CompareOptions{
			BaseScenarioName: "Aggressive",
			Templates:        []string{"strategy_4pct", "postpone_5yr"},
		})
		require.NoError(t, err)
		require.Len(t, compSet.AlternativeResults, 2)

		safer := compSet.AlternativeResults[0]
		assert.Equal(t, "Aggressive_strategy_4pct", safer.ScenarioName)
		assert.Greater(t, safer.ConfidenceDiff, 0)

		// the base scenario inside the plan must not change
		assert.Equal(t, domain.Withdraw6Percent, plan.RetirementScenarios[1].WithdrawalStrategy)
	})

	t.Run("sensitivity", func(t *testing.T) {
		scenario, ok := plan.FindRetirementScenario("Base")
		require.True(t, ok)

		analysis, err := calculation.NewSensitivityAnalyzer().AnalyzeSingleParameter(
			context.Background(), scenario, domain.PostRetirementReturnParam)
		require.NoError(t, err)
		require.Len(t, analysis.Results, domain.PostRetirementReturnParam.Steps)

		// a higher post-retirement return never lowers confidence
		for i := 1; i < len(analysis.Results); i++ {
			assert.GreaterOrEqual(t,
				analysis.Results[i].KeyMetrics.ConfidenceScore,
				analysis.Results[i-1].KeyMetrics.ConfidenceScore)
		}
	})

	t.Run("break_even", func(t *testing.T) {
		scenario, ok := plan.FindRetirementScenario("Aggressive")
		require.True(t, ok)

		result, err := breakeven.NewDefaultSolver(engine).Optimize(context.Background(), breakeven.OptimizationRequest{
			BaseScenario: scenario,
			Target:       breakeven.OptimizeRetirementAge,
			Constraints:  breakeven.DefaultConstraints(),
		})
		require.NoError(t, err)
		require.True(t, result.Success)
		require.NotNil(t, result.OptimalRetirementAge)
		assert.Equal(t, 67, *result.OptimalRetirementAge)

		cfg := scenario.RetirementConfig
		cfg.RetirementAge = *result.OptimalRetirementAge
		check, err := calculation.SimulateRetirement(cfg)
		require.NoError(t, err)
		assert.True(t, check.FundsLast)
	})
}

func TestIntegrationServer(t *testing.T) {
	plan := loadExamplePlan(t)
	body, err := json.Marshal(plan)
	require.NoError(t, err)

	ln := fasthttputil.NewInmemoryListener()
	srv := server.New(config.DefaultServerSettings(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()
	defer func() {
		cancel()
		<-done
	}()

	client := &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) { return ln.Dial() },
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI("http://finplan.test/v1/plan")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)
	require.NoError(t, client.DoTimeout(req, resp, 10*time.Second))
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode(), string(resp.Body()))

	var envelope struct {
		CalculationMetadata server.CalculationMetadata `json:"calculation_metadata"`
		Result              domain.PlanResults         `json:"result"`
	}
	require.NoError(t, json.NewDecoder(bytes.NewReader(resp.Body())).Decode(&envelope))
	assert.Equal(t, server.OutcomeSuccess, envelope.CalculationMetadata.Outcome)

	direct, err := calculation.NewCalculationEngine().RunPlan(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, envelope.Result.Retirement, len(direct.Retirement))
	for i := range direct.Retirement {
		assert.Equal(t, direct.Retirement[i].Result.FundDepletionAge, envelope.Result.Retirement[i].Result.FundDepletionAge)
		assert.Equal(t, direct.Retirement[i].Result.ConfidenceScore, envelope.Result.Retirement[i].Result.ConfidenceScore)
	}
}

// TestIntegrationBenchmarks checks that a full plan evaluates quickly
func TestIntegrationBenchmarks(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping benchmarks in short mode")
	}

	plan := loadExamplePlan(t)
	engine := calculation.NewCalculationEngine()

	start := time.Now()
	results, err := engine.RunPlan(context.Background(), plan)
	duration := time.Since(start)

	require.NoError(t, err)
	assert.Less(t, duration, 5*time.Second, "plan should evaluate within 5 seconds")
	t.Logf("Evaluated %d scenarios, %d goals and %d projections in %v",
		len(results.Retirement), len(results.Goals), len(results.Growth), duration)
}
