package server

import (
	"context"
	"math"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/rgehrsitz/finplan/internal/config"
)

const referenceRetirementJSON = `{
	"currentAge": 30,
	"retirementAge": 60,
	"lifeExpectancy": 85,
	"currentSavings": 1000000,
	"monthlyContribution": 20000,
	"epfContribution": 1800,
	"npsContribution": 5000,
	"expectedMonthlyExpenses": 50000,
	"preRetirementReturn": 12,
	"postRetirementReturn": 7,
	"inflationRate": 6,
	"withdrawalStrategy": "4percent"
}`

type envelope struct {
	CalculationMetadata CalculationMetadata `json:"calculation_metadata"`
	Result              json.RawMessage     `json:"result"`
}

func newTestServer() *Server {
	return New(config.DefaultServerSettings(), zerolog.Nop())
}

func do(s *Server, method, path, body string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	s.Handler(&ctx)
	return &ctx
}

func decodeEnvelope(t *testing.T, ctx *fasthttp.RequestCtx) envelope {
	t.Helper()
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))
	assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))

	var env envelope
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &env))
	_, err := uuid.Parse(env.CalculationMetadata.CalculationID)
	assert.NoError(t, err, "calculation id should be a UUID")
	assert.Equal(t, OutcomeSuccess, env.CalculationMetadata.Outcome)
	_, err = time.Parse(time.RFC3339Nano, env.CalculationMetadata.StartedAt)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, env.CalculationMetadata.DurationMs, int64(0))
	return env
}

func decodeError(t *testing.T, ctx *fasthttp.RequestCtx, status int, code string) ErrorResponse {
	t.Helper()
	require.Equal(t, status, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, status, resp.Status)
	assert.Equal(t, code, resp.Code)
	assert.NotEmpty(t, resp.Message)
	return resp
}

func TestHandler_Healthz(t *testing.T) {
	s := newTestServer()

	ctx := do(s, fasthttp.MethodGet, "/healthz", "")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "ok", string(ctx.Response.Body()))

	ctx = do(s, fasthttp.MethodPost, "/healthz", "")
	decodeError(t, ctx, fasthttp.StatusMethodNotAllowed, CodeMethodNotAllowed)
}

func TestHandler_Growth(t *testing.T) {
	s := newTestServer()
	body := `{"principal":100000,"periodicContribution":10000,"annualRatePercent":12,"periodsPerYear":12,"years":10}`

	env := decodeEnvelope(t, do(s, fasthttp.MethodPost, "/v1/growth", body))

	var result struct {
		Points []struct {
			Year        int     `json:"year"`
			Value       float64 `json:"value"`
			Contributed float64 `json:"contributed"`
		} `json:"points"`
	}
	require.NoError(t, json.Unmarshal(env.Result, &result))
	require.Len(t, result.Points, 11)
	assert.Equal(t, 10, result.Points[10].Year)
	assert.Equal(t, 2630426.0, result.Points[10].Value)
	assert.Equal(t, 1300000.0, result.Points[10].Contributed)
}

func TestHandler_Growth_ValidationFailed(t *testing.T) {
	s := newTestServer()
	body := `{"principal":1000,"annualRatePercent":12,"periodsPerYear":0,"years":10}`

	ctx := do(s, fasthttp.MethodPost, "/v1/growth", body)
	resp := decodeError(t, ctx, fasthttp.StatusUnprocessableEntity, CodeValidationFailed)
	assert.Contains(t, resp.Message, "periods_per_year: must be greater than 0")
	require.NotNil(t, resp.CalculationMetadata)
	assert.Equal(t, OutcomeFailure, resp.CalculationMetadata.Outcome)
	_, err := uuid.Parse(resp.CalculationMetadata.CalculationID)
	assert.NoError(t, err)
}

func TestHandler_OversizedHorizons(t *testing.T) {
	s := newTestServer()
	huge := strconv.Itoa(math.MaxInt)

	tests := []struct {
		name     string
		path     string
		body     string
		contains string
	}{
		{
			name:     "growth years",
			path:     "/v1/growth",
			body:     `{"principal":1000,"annualRatePercent":12,"periodsPerYear":12,"years":` + huge + `}`,
			contains: "years: must be less than or equal to 200",
		},
		{
			name:     "goal timeframe",
			path:     "/v1/goal",
			body:     `{"targetAmount":5000000,"timeframeYears":` + huge + `,"inflationRate":6,"expectedReturn":12}`,
			contains: "timeframe_years: must be less than or equal to 200",
		},
		{
			name: "retirement life expectancy",
			path: "/v1/retirement",
			body: `{"currentAge":30,"retirementAge":60,"lifeExpectancy":` + huge +
				`,"expectedMonthlyExpenses":50000,"withdrawalStrategy":"4percent"}`,
			contains: "life_expectancy: must be less than or equal to 130",
		},
		{
			name: "plan growth years",
			path: "/v1/plan",
			body: `{"name":"Big","growthProjections":[{"name":"SIP","principal":1000,` +
				`"annualRatePercent":12,"periodsPerYear":12,"years":` + huge + `}]}`,
			contains: "growth_projections[0].years: must be less than or equal to 200",
		},
		{
			name:     "plan goal timeframe",
			path:     "/v1/plan",
			body:     `{"name":"Big","goals":[{"name":"House","targetAmount":5000000,"timeframeYears":` + huge + `}]}`,
			contains: "goals[0].timeframe_years: must be less than or equal to 200",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := do(s, fasthttp.MethodPost, tt.path, tt.body)
			resp := decodeError(t, ctx, fasthttp.StatusUnprocessableEntity, CodeValidationFailed)
			assert.Contains(t, resp.Message, tt.contains)
		})
	}
}

func TestHandler_Goal_DegenerateStaysPermissive(t *testing.T) {
	s := newTestServer()

	env := decodeEnvelope(t, do(s, fasthttp.MethodPost, "/v1/goal", `{"targetAmount":0,"timeframeYears":-2}`))

	var result struct {
		RequiredMonthlyContribution float64           `json:"requiredMonthlyContribution"`
		Projection                  []json.RawMessage `json:"projection"`
	}
	require.NoError(t, json.Unmarshal(env.Result, &result))
	assert.Zero(t, result.RequiredMonthlyContribution)
	assert.Empty(t, result.Projection)
}

func TestHandler_RecoversFromPanic(t *testing.T) {
	s := newTestServer()
	s.engine = nil

	body := `{"name":"API Plan","retirementScenarios":[` +
		`{"name":"Base",` + referenceRetirementJSON[1:] + `]}`

	require.NotPanics(t, func() {
		ctx := do(s, fasthttp.MethodPost, "/v1/plan", body)
		decodeError(t, ctx, fasthttp.StatusInternalServerError, CodeInternal)
	})

	ctx := do(s, fasthttp.MethodGet, "/healthz", "")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
}

func TestHandler_PlanHonoursServerContext(t *testing.T) {
	s := newTestServer()
	base, cancel := context.WithCancel(context.Background())
	cancel()
	s.baseCtx = base

	body := `{"name":"API Plan","retirementScenarios":[` +
		`{"name":"Base",` + referenceRetirementJSON[1:] + `]}`

	ctx := do(s, fasthttp.MethodPost, "/v1/plan", body)
	resp := decodeError(t, ctx, fasthttp.StatusServiceUnavailable, CodeCancelled)
	require.NotNil(t, resp.CalculationMetadata)
	assert.Equal(t, OutcomeFailure, resp.CalculationMetadata.Outcome)
}

func TestHandler_Retirement(t *testing.T) {
	s := newTestServer()

	env := decodeEnvelope(t, do(s, fasthttp.MethodPost, "/v1/retirement", referenceRetirementJSON))

	var result struct {
		RetirementCorpus float64 `json:"retirementCorpus"`
		FundDepletionAge int     `json:"fundDepletionAge"`
		ConfidenceScore  int     `json:"confidenceScore"`
	}
	require.NoError(t, json.Unmarshal(env.Result, &result))
	assert.InDelta(t, 129614680.09, result.RetirementCorpus, 1)
	assert.Equal(t, 86, result.FundDepletionAge)
	assert.Equal(t, 100, result.ConfidenceScore)
}

func TestHandler_Retirement_UnknownStrategy(t *testing.T) {
	s := newTestServer()
	body := `{"currentAge":30,"retirementAge":60,"lifeExpectancy":85,"expectedMonthlyExpenses":50000,"withdrawalStrategy":"7percent"}`

	ctx := do(s, fasthttp.MethodPost, "/v1/retirement", body)
	resp := decodeError(t, ctx, fasthttp.StatusUnprocessableEntity, CodeValidationFailed)
	assert.Contains(t, resp.Message, "withdrawal_strategy: must be one of")
}

func TestHandler_Goal(t *testing.T) {
	s := newTestServer()
	body := `{"targetAmount":5000000,"currentSavings":1000000,"timeframeYears":5,"inflationRate":6,"expectedReturn":12}`

	env := decodeEnvelope(t, do(s, fasthttp.MethodPost, "/v1/goal", body))

	var result struct {
		RequiredMonthlyContribution float64 `json:"requiredMonthlyContribution"`
		Months                      int     `json:"months"`
	}
	require.NoError(t, json.Unmarshal(env.Result, &result))
	assert.Equal(t, 59685.0, result.RequiredMonthlyContribution)
	assert.Equal(t, 60, result.Months)
}

func TestHandler_Plan(t *testing.T) {
	s := newTestServer()
	body := `{"name":"API Plan","retirementScenarios":[` +
		`{"name":"Base",` + referenceRetirementJSON[1:] + `]}`

	env := decodeEnvelope(t, do(s, fasthttp.MethodPost, "/v1/plan", body))

	var result struct {
		PlanName   string `json:"planName"`
		Retirement []struct {
			Name string `json:"name"`
		} `json:"retirement"`
	}
	require.NoError(t, json.Unmarshal(env.Result, &result))
	assert.Equal(t, "API Plan", result.PlanName)
	require.Len(t, result.Retirement, 1)
	assert.Equal(t, "Base", result.Retirement[0].Name)
}

func TestHandler_Plan_ValidationFailed(t *testing.T) {
	s := newTestServer()

	ctx := do(s, fasthttp.MethodPost, "/v1/plan", `{"name":"Empty"}`)
	resp := decodeError(t, ctx, fasthttp.StatusUnprocessableEntity, CodeValidationFailed)
	assert.Contains(t, resp.Message, "plan has no retirement scenarios")
}

func TestHandler_Errors(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"invalid json", fasthttp.MethodPost, "/v1/growth", `{"principal":`, fasthttp.StatusBadRequest, CodeInvalidJSON},
		{"wrong type", fasthttp.MethodPost, "/v1/goal", `{"timeframeYears":"five"}`, fasthttp.StatusBadRequest, CodeInvalidJSON},
		{"get on calculation", fasthttp.MethodGet, "/v1/retirement", "", fasthttp.StatusMethodNotAllowed, CodeMethodNotAllowed},
		{"unknown path", fasthttp.MethodPost, "/v2/growth", "{}", fasthttp.StatusNotFound, CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decodeError(t, do(s, tt.method, tt.path, tt.body), tt.status, tt.code)
		})
	}
}

func TestServer_Serve(t *testing.T) {
	s := newTestServer()
	ln := fasthttputil.NewInmemoryListener()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) { return ln.Dial() },
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI("http://finplan.test/healthz")
	require.NoError(t, client.DoTimeout(req, resp, 5*time.Second))
	assert.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	assert.Equal(t, "ok", string(resp.Body()))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
