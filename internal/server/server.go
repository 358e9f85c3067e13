// Package server — read-only операторский API: текущее состояние детектора
// и последний известный каталог.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/msgtv/Gifts-Buyer/internal/infrastructure/snapshot"
	"github.com/msgtv/Gifts-Buyer/internal/worker"
	"github.com/msgtv/Gifts-Buyer/pkg/logx"
	"github.com/msgtv/Gifts-Buyer/pkg/middlewarex"
)

const logFieldMaxLen = 2048

type Server struct {
	detector *worker.Detector
	store    snapshot.Store
}

func NewServer(detector *worker.Detector, store snapshot.Store) Server {
	return Server{
		detector: detector,
		store:    store,
	}
}

// Router собирает chi-роутер со стандартной цепочкой middleware.
func (s Server) Router() http.Handler {
	masker := logx.NewNopSensitiveDataMasker()

	r := chi.NewRouter()
	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
	)

	s.RegisterRoutes(r)

	return r
}
