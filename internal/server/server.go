// Package server exposes the projection functions over a small JSON HTTP API
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"runtime/debug"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rgehrsitz/finplan/internal/config"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/logging"
)

const (
	maxRequestBodySize = 1 << 20
	calculationTimeout = 10 * time.Second
)

// Server routes calculation requests to the calculation package
type Server struct {
	settings config.ServerSettings
	log      zerolog.Logger
	engine   *calculation.CalculationEngine
	parser   *config.InputParser
	now      func() time.Time

	// baseCtx is cancelled when Serve shuts down; calculations derive
	// their context from it
	baseCtx context.Context
}

// New creates a server for the given settings
func New(settings config.ServerSettings, log zerolog.Logger) *Server {
	engine := calculation.NewCalculationEngine()
	engine.SetLogger(logging.NewCalcLogger(logging.Component(log, "engine")))
	return &Server{
		settings: settings,
		log:      logging.Component(log, "server"),
		engine:   engine,
		parser:   config.NewInputParser(),
		now:      time.Now,
		baseCtx:  context.Background(),
	}
}

// ListenAndServe listens on the configured address until ctx is done
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp4", s.settings.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.baseCtx = ctx
	srv := &fasthttp.Server{
		Handler:            s.Handler,
		Name:               "finplan",
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       10 * time.Second,
		MaxRequestBodySize: maxRequestBodySize,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.Info().Str("addr", ln.Addr().String()).Msg("listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	if err := srv.Shutdown(); err != nil {
		return err
	}
	<-errCh
	return nil
}

// Handler is the fasthttp request handler
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	start := s.now()
	path := string(ctx.Path())

	defer func() {
		if r := recover(); r != nil {
			s.log.Error().
				Str("path", path).
				Str("panic", fmt.Sprint(r)).
				Bytes("stack", debug.Stack()).
				Msg("handler panicked")
			ctx.ResetBody()
			s.writeError(ctx, fasthttp.StatusInternalServerError, CodeInternal, "Calculation failed")
		}
		s.log.Info().
			Str("method", string(ctx.Method())).
			Str("path", path).
			Int("status", ctx.Response.StatusCode()).
			Dur("duration", s.now().Sub(start)).
			Msg("request")
	}()

	s.route(ctx, path, start)
}

func (s *Server) route(ctx *fasthttp.RequestCtx, path string, start time.Time) {
	switch path {
	case "/healthz":
		if !ctx.IsGet() && !ctx.IsHead() {
			s.writeError(ctx, fasthttp.StatusMethodNotAllowed, CodeMethodNotAllowed, "Method not allowed")
			return
		}
		ctx.SetContentType("text/plain; charset=utf-8")
		ctx.SetBodyString("ok")
	case "/v1/growth":
		handle(s, ctx, start, func(_ context.Context, in domain.ProjectionInput) (any, error) {
			if err := s.parser.ValidateProjectionInput(in); err != nil {
				return nil, validationError{err}
			}
			return calculation.ProjectGrowth(in)
		})
	case "/v1/retirement":
		handle(s, ctx, start, func(_ context.Context, in domain.RetirementConfig) (any, error) {
			if err := s.parser.ValidateRetirementConfig(in); err != nil {
				return nil, validationError{err}
			}
			return calculation.SimulateRetirement(in)
		})
	case "/v1/goal":
		handle(s, ctx, start, func(_ context.Context, in domain.GoalConfig) (any, error) {
			if err := s.parser.ValidateGoalConfig(in); err != nil {
				return nil, validationError{err}
			}
			return calculation.SolveGoal(in), nil
		})
	case "/v1/plan":
		handle(s, ctx, start, func(cctx context.Context, in domain.Configuration) (any, error) {
			if err := s.parser.ValidateConfiguration(&in); err != nil {
				return nil, validationError{err}
			}
			return s.engine.RunPlan(cctx, &in)
		})
	default:
		s.writeError(ctx, fasthttp.StatusNotFound, CodeNotFound, "Unknown path: "+path)
	}
}

// validationError marks plan validation failures, which carry their own
// field-level messages
type validationError struct{ err error }

func (v validationError) Error() string { return v.err.Error() }
func (v validationError) Unwrap() error { return v.err }

// handle decodes the body into T, runs calc and writes the enveloped result.
// calc runs under a context that ends with the server or after
// calculationTimeout.
func handle[T any](s *Server, ctx *fasthttp.RequestCtx, start time.Time, calc func(context.Context, T) (any, error)) {
	if !ctx.IsPost() {
		s.writeError(ctx, fasthttp.StatusMethodNotAllowed, CodeMethodNotAllowed, "Method not allowed")
		return
	}

	var in T
	if err := json.Unmarshal(ctx.PostBody(), &in); err != nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, CodeInvalidJSON, "Invalid request body: "+err.Error())
		return
	}

	id := uuid.NewString()
	cctx, cancel := context.WithTimeout(s.baseCtx, calculationTimeout)
	defer cancel()

	result, err := calc(cctx, in)
	if err != nil {
		meta := s.metadata(id, start, OutcomeFailure)
		var verr validationError
		switch {
		case errors.As(err, &verr):
			s.writeFailure(ctx, fasthttp.StatusUnprocessableEntity, CodeValidationFailed, err.Error(), meta)
		case errors.Is(err, calculation.ErrInvalidArgument):
			s.writeFailure(ctx, fasthttp.StatusUnprocessableEntity, CodeInvalidArgument, err.Error(), meta)
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			s.log.Warn().Err(err).Str("calculation_id", id).Msg("calculation cancelled")
			s.writeFailure(ctx, fasthttp.StatusServiceUnavailable, CodeCancelled, "Calculation cancelled", meta)
		default:
			s.log.Error().Err(err).Str("calculation_id", id).Msg("calculation failed")
			s.writeFailure(ctx, fasthttp.StatusInternalServerError, CodeInternal, "Calculation failed", meta)
		}
		return
	}

	s.writeJSON(ctx, fasthttp.StatusOK, CalculationResponse{
		CalculationMetadata: s.metadata(id, start, OutcomeSuccess),
		Result:              result,
	})
}

func (s *Server) metadata(id string, start time.Time, outcome string) CalculationMetadata {
	return CalculationMetadata{
		CalculationID: id,
		StartedAt:     start.UTC().Format(time.RFC3339Nano),
		DurationMs:    s.now().Sub(start).Milliseconds(),
		Outcome:       outcome,
	}
}

func (s *Server) writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
		ctx.Error("failed to encode response", fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func (s *Server) writeError(ctx *fasthttp.RequestCtx, status int, code, message string) {
	s.writeJSON(ctx, status, ErrorResponse{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeFailure reports a calculation that was accepted but did not produce a result
func (s *Server) writeFailure(ctx *fasthttp.RequestCtx, status int, code, message string, meta CalculationMetadata) {
	s.writeJSON(ctx, status, ErrorResponse{
		Status:              status,
		Code:                code,
		Message:             message,
		CalculationMetadata: &meta,
	})
}
