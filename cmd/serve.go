package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/growthlane/outreach-cli/internal/model"
	"github.com/growthlane/outreach-cli/internal/pipeline"
	"github.com/growthlane/outreach-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start webhook server for pipeline runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx, nil)
		if err != nil {
			return err
		}
		defer env.Close()

		mux := buildMux(env.Store, env.Pipeline, searchFromConfig)
		return startServer(ctx, mux, resolvePort(servePort, cfg.Server.Port))
	},
}

// buildMux wires the webhook endpoints. defaultSearch supplies the
// configured search that webhook payload fields override.
func buildMux(st store.Store, pl *pipeline.Pipeline, defaultSearch func() model.SearchConfig) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /webhook/run", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Keywords []string `json:"keywords"`
			MaxLeads int      `json:"max_leads"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		search := defaultSearch()
		if len(req.Keywords) > 0 {
			search.Keywords = req.Keywords
		}
		if req.MaxLeads > 0 {
			search.MaxLeads = req.MaxLeads
		}
		if len(search.Keywords) == 0 {
			http.Error(w, `{"error":"no keywords configured"}`, http.StatusBadRequest)
			return
		}

		run, err := st.CreateRun(r.Context(), search)
		if err != nil {
			http.Error(w, `{"error":"failed to create run"}`, http.StatusInternalServerError)
			return
		}

		// Run the pipeline asynchronously; the webhook returns the
		// run id immediately and callers poll status over /runs.
		go func() {
			if pl == nil {
				return
			}
			if _, err := pl.Resume(context.Background(), run); err != nil {
				zap.L().Error("webhook run failed",
					zap.String("run_id", run.ID),
					zap.Error(err),
				)
			}
		}()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "accepted",
			"run_id": run.ID,
		})
	})

	mux.HandleFunc("GET /runs/{id}", func(w http.ResponseWriter, r *http.Request) {
		run, err := st.GetRun(r.Context(), r.PathValue("id"))
		if err != nil {
			http.Error(w, `{"error":"run not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(run)
	})

	mux.HandleFunc("GET /runs", func(w http.ResponseWriter, r *http.Request) {
		runs, err := st.ListRuns(r.Context(), store.RunFilter{
			Status: model.RunStatus(r.URL.Query().Get("status")),
			Limit:  20,
		})
		if err != nil {
			http.Error(w, `{"error":"failed to list runs"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(runs)
	})

	return mux
}

// resolvePort prefers the flag value over the configured port.
func resolvePort(flag, cfgPort int) int {
	if flag != 0 {
		return flag
	}
	return cfgPort
}

// startServer serves mux until ctx is cancelled, then shuts down
// gracefully.
func startServer(ctx context.Context, mux *http.ServeMux, port int) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		srv.Shutdown(context.Background()) //nolint:errcheck
	}()

	zap.L().Info("starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server listen")
	}
	return nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
