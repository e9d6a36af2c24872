// Package httpapi is a thin operational adapter: a health probe and manual
// sweep triggers. All real logic lives in the orchestrator.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dealsight/dealsight/internal/usecase"
)

type Server struct {
	orchestrator *usecase.Orchestrator
	logger       *zap.Logger
	httpServer   *http.Server
}

func NewServer(addr string, orchestrator *usecase.Orchestrator, logger *zap.Logger) *Server {
	s := &Server{orchestrator: orchestrator, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/sweeps/evaluate", s.handleEvaluate)
	mux.HandleFunc("/sweeps/process", s.handleProcess)

	s.httpServer = &http.Server{Addr: addr, Handler: mux}
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http api listening", zap.String("addr", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

type healthResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	SweepActive bool   `json:"sweep_active"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		Service:     "dealsight",
		SweepActive: s.orchestrator.SweepActive(),
	})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	report, err := s.orchestrator.EvaluateAndSchedule(r.Context(), time.Now().UTC())
	if err != nil {
		s.logger.Error("manual evaluate sweep failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	report, err := s.orchestrator.ProcessDue(r.Context(), time.Now().UTC())
	if err != nil {
		s.logger.Error("manual process sweep failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
