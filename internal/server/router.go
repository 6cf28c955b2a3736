package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/orgball2608/elixir/internal/observability"
	"github.com/orgball2608/elixir/internal/storage"
	"github.com/orgball2608/elixir/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(objects storage.Client, deps map[string]observability.Pinger, log logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", observability.HealthLiveHandler)
	r.Get("/readyz", observability.HealthReadyHandler(deps))
	r.Handle("/metrics", promhttp.Handler())

	r.Get(storage.PublicPath+"/{bucket}/*", publicObjectHandler(objects, log))

	return r
}

func publicObjectHandler(objects storage.Client, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bucket := chi.URLParam(r, "bucket")
		key := chi.URLParam(r, "*")
		if key == "" {
			http.NotFound(w, r)
			return
		}

		obj, err := objects.Download(r.Context(), bucket, key)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			log.Error("Failed to read object", "bucket", bucket, "key", key, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", obj.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(obj.Data)))
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			w.Write(obj.Data)
		}
	}
}
