package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const userHeader = "X-User-ID"

func newServeCmd(flags *rootFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo schema over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(flags.config)
			if err != nil {
				return err
			}
			if addr != "" {
				config.Server.Addr = addr
			}
			app, err := NewApp(config)
			if err != nil {
				return err
			}

			server := &http.Server{
				Addr:              config.Server.Addr,
				Handler:           newRouter(app),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = server.Shutdown(shutdownCtx)
			}()

			app.logger.Info("server started", "addr", config.Server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "listen failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return cmd
}

type graphQLRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

func newRouter(app *App) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	r.HandleFunc("/graphql", app.handleGraphQL).Methods(http.MethodPost)
	r.HandleFunc("/graphql", app.handleGraphQL).Methods(http.MethodGet).Queries("query", "{query}")
	return r
}

func (a *App) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	var request graphQLRequest
	if r.Method == http.MethodGet {
		request.Query = mux.Vars(r)["query"]
		request.OperationName = r.URL.Query().Get("operationName")
	} else if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// 没有用户头的请求按匿名处理
	ctx := r.Context()
	if v := r.Header.Get(userHeader); v != "" {
		user, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			http.Error(w, "invalid "+userHeader, http.StatusBadRequest)
			return
		}
		ctx = withUser(ctx, uint(user))
	}

	result := a.Do(ctx, request.Query, request.Variables, request.OperationName)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		a.logger.WarnContext(r.Context(), "write response failed", "error", err)
	}
}
