package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/knowledge"
	"github.com/sells-group/leadscout/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for triggering and inspecting runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		srv := newServer(st)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		httpSrv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: srv.routes(),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			httpSrv.Shutdown(context.Background()) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// server owns at most one active run at a time. The knowledge index of
// the most recently completed run backs the query and insights routes.
type server struct {
	st store.Store

	mu        sync.Mutex
	active    bool
	lastIndex *knowledge.Index
}

func newServer(st store.Store) *server {
	return &server{st: st}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/runs", s.handleTriggerRun)
	r.Get("/runs/{id}", s.handleGetRun)
	r.Post("/query", s.handleQuery)
	r.Get("/insights", s.handleInsights)
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type triggerRequest struct {
	Sources   []string `json:"sources"`
	Files     []string `json:"files"`
	Sample    bool     `json:"sample"`
	BatchSize int      `json:"batch_size"`
}

func (s *server) handleTriggerRun(w http.ResponseWriter, r *http.Request) {
	var req triggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a run is already in progress"})
		return
	}
	s.active = true
	s.mu.Unlock()

	release := func(index *knowledge.Index) {
		s.mu.Lock()
		s.active = false
		if index != nil {
			s.lastIndex = index
		}
		s.mu.Unlock()
	}

	orch, err := buildOrchestrator(s.st, req.Sources, req.Files, req.Sample, req.BatchSize)
	if err != nil {
		release(nil)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	go func() {
		result, err := orch.Run(context.Background())
		if err != nil {
			zap.L().Error("triggered run failed", zap.Error(err))
			release(nil)
			return
		}
		zap.L().Info("triggered run complete",
			zap.String("run_id", result.ID),
			zap.Int("leads", result.Report.TotalLeads),
		)
		release(orch.Index())
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := s.st.GetRun(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	index, ok := s.completedIndex(w)
	if !ok {
		return
	}
	results := index.Query(req.Query)
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *server) handleInsights(w http.ResponseWriter, _ *http.Request) {
	index, ok := s.completedIndex(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, index.Insights())
}

// completedIndex returns the last completed run's index, writing 409
// when a run is in flight and 404 when none has completed yet.
func (s *server) completedIndex(w http.ResponseWriter) (*knowledge.Index, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a run is in progress"})
		return nil, false
	}
	if s.lastIndex == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no completed run"})
		return nil, false
	}
	return s.lastIndex, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
