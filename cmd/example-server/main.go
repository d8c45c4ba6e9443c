// Command example-server hosts the analyzer behind a minimal query
// endpoint. The comma-separated field list in ?fields= stands in for the
// host framework's tree traversal; a real host would call Initial, OnVisit
// and Final from its own visitor.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/querylimit/query-rate-limiter/pkg/analyzer"
	"github.com/querylimit/query-rate-limiter/pkg/limiter"
	"github.com/querylimit/query-rate-limiter/pkg/store"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	st, err := buildStore(logger)
	if err != nil {
		logger.Fatal("failed to init store", zap.Error(err))
	}

	limits, err := buildLimits()
	if err != nil {
		logger.Fatal("failed to load limits", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	recorder := limiter.NewPrometheusRecorder(reg)

	a, err := analyzer.New(st, limits,
		analyzer.WithLogger(logger),
		analyzer.WithRecorder(recorder),
	)
	if err != nil {
		logger.Fatal("failed to create analyzer", zap.Error(err))
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Get("/query", queryHandler(a, logger))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	addr := getEnv("LISTEN_ADDR", ":8080")
	srv := &http.Server{Addr: addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()
	logger.Info("server listening", zap.String("addr", addr))

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func queryHandler(a *analyzer.Analyzer, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		identity := clientIP(r)

		memo, err := a.Initial(analyzer.Request{ClientIdentity: identity})
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		fields := splitFields(r.URL.Query().Get("fields"))
		for _, f := range fields {
			node := analyzer.Node{
				OwnerTypeName: analyzer.DefaultQueryTypeName,
				Kind:          analyzer.KindField,
				DeclaredName:  f,
			}
			if err := a.OnVisit(ctx, memo, analyzer.PhaseEnter, node); err != nil {
				failClosed(w, logger, err)
				return
			}
			if err := a.OnVisit(ctx, memo, analyzer.PhaseExit, node); err != nil {
				failClosed(w, logger, err)
				return
			}
		}

		err = a.Final(ctx, memo)
		var rle *analyzer.QueryRateLimitedError
		switch {
		case errors.As(err, &rle):
			// Errors but no data, mirroring the host's error policy.
			writeJSON(w, http.StatusOK, map[string]any{
				"errors": []map[string]string{{"message": rle.Error()}},
			})
		case err != nil:
			failClosed(w, logger, err)
		default:
			data := make(map[string]string, len(fields))
			for _, f := range fields {
				data[f] = "ok"
			}
			writeJSON(w, http.StatusOK, map[string]any{"data": data})
		}
	}
}

// failClosed rejects the request when the counter store is unavailable.
// This host prefers protecting the backend over availability; a fail-open
// host would log and serve instead.
func failClosed(w http.ResponseWriter, logger *zap.Logger, err error) {
	logger.Error("rate limit check failed", zap.Error(err))
	http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
}

func buildStore(logger *zap.Logger) (store.Store, error) {
	switch getEnv("STORE", "redis") {
	case "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		addr := getEnv("REDIS_ADDR", "localhost:6379")
		client := redis.NewClient(&redis.Options{Addr: addr})
		logger.Info("using redis store", zap.String("addr", addr))
		return store.NewRedisStore(client)
	default:
		return nil, errors.New("unsupported STORE value")
	}
}

func buildLimits() (analyzer.Limits, error) {
	if path := os.Getenv("LIMITS_FILE"); path != "" {
		return analyzer.LoadLimits(path)
	}
	return analyzer.Limits{
		"expensiveField": {Threshold: 5, Interval: 15 * time.Second},
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-Id", uuid.NewString())
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}

func splitFields(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	fields := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			fields = append(fields, p)
		}
	}
	return fields
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
