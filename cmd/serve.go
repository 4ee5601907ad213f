package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/surveylens/brandcheck/internal/model"
	"github.com/surveylens/brandcheck/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the classification HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEngine(ctx, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			breakers := make(map[string]string)
			for name, state := range env.Policy.BreakerStates() {
				breakers[name] = state.String()
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"status":   "ok",
				"breakers": breakers,
			})
		})

		r.Post("/v1/classify", func(w http.ResponseWriter, req *http.Request) {
			var body model.ResponseRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}

			decision, err := env.Engine.ClassifyResponse(req.Context(), body)
			if err != nil {
				if eris.Is(err, model.ErrInvalidInput) {
					writeError(w, http.StatusUnprocessableEntity, err.Error())
					return
				}
				zap.L().Error("classify failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "classification failed")
				return
			}
			writeJSON(w, http.StatusOK, decision)
		})

		r.Post("/v1/entity", func(w http.ResponseWriter, req *http.Request) {
			var body model.EntityRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}

			cls, err := env.Engine.ClassifyEntity(req.Context(), body)
			if err != nil {
				if eris.Is(err, model.ErrInvalidInput) {
					writeError(w, http.StatusUnprocessableEntity, err.Error())
					return
				}
				zap.L().Error("entity classify failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "classification failed")
				return
			}
			writeJSON(w, http.StatusOK, cls)
		})

		r.Get("/v1/decisions", func(w http.ResponseWriter, req *http.Request) {
			records, err := env.Store.ListDecisions(req.Context(), decisionFilterFromQuery(req.URL.Query()))
			if err != nil {
				zap.L().Error("list decisions failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "list failed")
				return
			}
			writeJSON(w, http.StatusOK, records)
		})

		r.Get("/v1/decisions/{id}", func(w http.ResponseWriter, req *http.Request) {
			rec, err := env.Store.GetDecision(req.Context(), chi.URLParam(req, "id"))
			if err != nil {
				writeError(w, http.StatusNotFound, "decision not found")
				return
			}
			writeJSON(w, http.StatusOK, rec)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// decisionFilterFromQuery maps list query parameters onto a store filter.
func decisionFilterFromQuery(q url.Values) store.DecisionFilter {
	return store.DecisionFilter{
		Action: model.Action(q.Get("action")),
		Mode:   q.Get("mode"),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
