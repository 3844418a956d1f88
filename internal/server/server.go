// Package server exposes the analytics engine as a JSON HTTP API.
// Every endpoint computes its result from the trades (and candles) posted with the request.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-analytics/internal/analytics"
	"github.com/rxtech-lab/argo-analytics/internal/journal"
	"github.com/rxtech-lab/argo-analytics/internal/logger"
	"github.com/rxtech-lab/argo-analytics/internal/report"
	"github.com/rxtech-lab/argo-analytics/internal/types"
	"github.com/rxtech-lab/argo-analytics/pkg/errors"
	"go.uber.org/zap"
)

const (
	// maxBodyBytes caps the size of a posted journal.
	maxBodyBytes = 32 << 20
	apiPrefix    = "/api/v1"
)

// AnalyticsRequest is the body accepted by every analytics endpoint.
// Trades use the journal wire format. Symbol, Start and End narrow the trades before analysis.
type AnalyticsRequest struct {
	Trades  []journal.Entry `json:"trades"`
	Candles []types.Candle  `json:"candles,omitempty"`
	Symbol  string          `json:"symbol,omitempty"`
	Start   *time.Time      `json:"start,omitempty"`
	End     *time.Time      `json:"end,omitempty"`
}

// ErrorResponse is written for every failed request.
type ErrorResponse struct {
	Code  errors.ErrorCode `json:"code"`
	Error string           `json:"error"`
}

// Server serves the analytics API.
type Server struct {
	mu sync.Mutex

	router *mux.Router
	logger *logger.Logger
	now    func() time.Time

	httpServer *http.Server
	listener   net.Listener
}

type Option func(*Server)

// WithClock replaces time.Now as the start of equity curves and report timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func NewServer(logger *logger.Logger, opts ...Option) *Server {
	s := &Server{
		logger: logger,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.router = s.routes()

	return s
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()

	// Full paths on the root router: a method mismatch on a subrouter answers 404, not 405.
	router.HandleFunc(apiPrefix+"/metrics", s.tradeHandler("metrics", func(trades []types.TradeRecord) (any, error) {
		return analytics.CalculateMetrics(trades)
	})).Methods(http.MethodPost)
	router.HandleFunc(apiPrefix+"/setups", s.tradeHandler("setups", func(trades []types.TradeRecord) (any, error) {
		return analytics.AggregateBySetup(trades)
	})).Methods(http.MethodPost)
	router.HandleFunc(apiPrefix+"/sessions", s.tradeHandler("sessions", func(trades []types.TradeRecord) (any, error) {
		return analytics.AggregateBySession(trades)
	})).Methods(http.MethodPost)
	router.HandleFunc(apiPrefix+"/hourly", s.tradeHandler("hourly", func(trades []types.TradeRecord) (any, error) {
		return analytics.AggregateByHour(trades)
	})).Methods(http.MethodPost)
	router.HandleFunc(apiPrefix+"/equity", s.tradeHandler("equity", func(trades []types.TradeRecord) (any, error) {
		return analytics.BuildEquityCurve(trades, s.now())
	})).Methods(http.MethodPost)
	router.HandleFunc(apiPrefix+"/plan-comparisons", s.tradeHandler("plan comparisons", func(trades []types.TradeRecord) (any, error) {
		return analytics.ComparePlans(trades)
	})).Methods(http.MethodPost)
	router.HandleFunc(apiPrefix+"/volume-profile", s.handleVolumeProfile).Methods(http.MethodPost)
	router.HandleFunc(apiPrefix+"/report", s.handleReport).Methods(http.MethodPost)

	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	return router
}

// Handler returns the router, for mounting the API in another server or in tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on address and serves in the background. An empty address picks a free port.
func (s *Server) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	httpServer := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Analytics API listening", zap.String("address", listener.Addr().String()))

	go func() {
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	httpServer := s.httpServer
	s.mu.Unlock()

	if httpServer == nil {
		return nil
	}

	return httpServer.Shutdown(ctx)
}

// Address returns the address the server is listening on.
func (s *Server) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// BaseURL returns the base URL for the server.
func (s *Server) BaseURL() string {
	return "http://" + s.Address()
}

// tradeHandler decodes the posted trades and responds with whatever compute returns.
func (s *Server) tradeHandler(name string, compute func(trades []types.TradeRecord) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		request, err := decodeRequest(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		trades, err := request.trades()
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		result, err := compute(trades)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		s.logger.Debug("Computed analytics", zap.String("component", name), zap.Int("trades", len(trades)))
		s.writeJSON(w, r, http.StatusOK, result)
	}
}

// handleVolumeProfile handles POST /api/v1/volume-profile
func (s *Server) handleVolumeProfile(w http.ResponseWriter, r *http.Request) {
	request, err := decodeRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if request.Candles == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "candles are required"))
		return
	}

	if err := validateCandles(request.Candles); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := analytics.EstimateVolumeProfile(request.Candles)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, result)
}

// handleReport handles POST /api/v1/report. Candles are optional here.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	request, err := decodeRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	trades, err := request.trades()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	candles := optional.None[[]types.Candle]()
	if request.Candles != nil {
		if err := validateCandles(request.Candles); err != nil {
			s.writeError(w, r, err)
			return
		}

		candles = optional.Some(request.Candles)
	}

	result, err := report.Compose(r.Context(), trades, candles, s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result.Symbol = request.Symbol

	s.logger.Info("Built analytics report",
		zap.String("id", result.ID),
		zap.Int("trades", result.TradeCount),
		zap.Bool("volume_profile", result.VolumeProfile != nil),
	)
	s.writeJSON(w, r, http.StatusOK, result)
}

// handleHealth handles GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeRequest(r *http.Request) (AnalyticsRequest, error) {
	var request AnalyticsRequest

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return request, errors.Wrap(errors.ErrCodeRequestDecodeFailed, "failed to read request body", err)
	}

	if err := json.Unmarshal(body, &request); err != nil {
		return request, errors.Wrap(errors.ErrCodeRequestDecodeFailed, "failed to decode request body", err)
	}

	return request, nil
}

// trades validates the posted entries and applies the request's filter.
// A missing trades field is rejected while an empty list is a valid, empty journal.
func (r AnalyticsRequest) trades() ([]types.TradeRecord, error) {
	if r.Trades == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "trades are required")
	}

	records, err := journal.ToRecords(r.Trades)
	if err != nil {
		return nil, err
	}

	filter := journal.Filter{
		Symbol: r.Symbol,
		Start:  optionalTime(r.Start),
		End:    optionalTime(r.End),
	}

	return filter.Apply(records), nil
}

// validateCandles rejects candles whose high is below their low. NaN prices pass through.
func validateCandles(candles []types.Candle) error {
	for i, candle := range candles {
		if candle.High < candle.Low {
			return errors.Newf(errors.ErrCodeInvalidCandle, "candle %d has high %v below low %v", i, candle.High, candle.Low)
		}
	}

	return nil
}

func optionalTime(t *time.Time) optional.Option[time.Time] {
	if t == nil {
		return optional.None[time.Time]()
	}

	return optional.Some(*t)
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidTradeRecord,
		errors.ErrCodeInvalidCandle,
		errors.ErrCodeMissingParameter,
		errors.ErrCodeRequestDecodeFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	s.logger.Warn("Analytics request failed",
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	)

	s.writeJSON(w, r, status, ErrorResponse{Code: errors.GetCode(err), Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		// NaN or Inf in the input propagates into results that JSON cannot carry.
		s.logger.Error("Failed to encode response", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "failed to encode response", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(data); err != nil {
		s.logger.Debug("Failed to write response", zap.String("path", r.URL.Path), zap.Error(err))
	}
}
