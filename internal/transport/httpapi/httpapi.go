package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DevWolk/fop-calc/internal/domain"
	"github.com/DevWolk/fop-calc/internal/usecase/fees"
	"github.com/DevWolk/fop-calc/internal/usecase/plan"
	"github.com/DevWolk/fop-calc/internal/usecase/rates"
)

type CalcFacade interface {
	Forward(ctx context.Context, req ForwardRequest) (ForwardResponse, error)
	Reverse(ctx context.Context, req ReverseRequest) (ReverseResponse, error)
}

type RatesFacade interface {
	Refresh(ctx context.Context, st rates.Settings) rates.Report
	Held(ctx context.Context) (rates.Held, error)
}

type Server struct {
	addr     string
	calc     CalcFacade
	rates    RatesFacade
	settings rates.Settings
	metrics  http.Handler
	log      *zap.Logger
	server   *http.Server

	ReadHeaderTimeout time.Duration
	// RatesTimeout ограничивает обновление обеих пар целиком.
	RatesTimeout time.Duration
}

// New: settings — провайдеры по умолчанию для /api/rates; metrics может быть nil.
func New(addr string, calc CalcFacade, rt RatesFacade, settings rates.Settings, metrics http.Handler, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		addr:              addr,
		calc:              calc,
		rates:             rt,
		settings:          settings,
		metrics:           metrics,
		log:               log.Named("http"),
		ReadHeaderTimeout: 5 * time.Second,
		RatesTimeout:      30 * time.Second,
	}
}

// Handler — маршруты со всеми middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/providers", s.handleProviders)
	mux.HandleFunc("/api/rates", s.handleRates)
	mux.HandleFunc("/api/forward", s.handleForward)
	mux.HandleFunc("/api/reverse", s.handleReverse)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}

	return s.withRequestID(withCORS(mux))
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.ReadHeaderTimeout,
	}
	s.log.Info("HTTP server listening", zap.String("addr", s.addr))
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := ProvidersResponse{
		Providers: domain.Catalog(),
		Proxies:   domain.Proxies(),
	}
	for _, m := range fees.Methods() {
		model, _ := fees.ForMethod(m)
		resp.Methods = append(resp.Methods, MethodInfo{ID: m, Kind: model.Kind(), Rate: model.Rate()})
	}
	for _, t := range plan.Tiers() {
		p, _ := plan.ForTier(t)
		resp.Plans = append(resp.Plans, PlanInfo{ID: t, Policy: p})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleForward(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req ForwardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}

	res, err := s.calc.Forward(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleReverse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req ReverseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}

	res, err := s.calc.Reverse(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrUnknownTopUp),
		errors.Is(err, domain.ErrUnknownPlan),
		errors.Is(err, domain.ErrUnknownPair):
		status = http.StatusBadRequest
	default:
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.String("request_id", requestID(r.Context())), zap.Error(err))
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type ctxKey struct{}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// withRequestID берёт X-Request-ID клиента или выдаёт новый.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		s.log.Debug("request", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.String("request_id", id))
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type,X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
