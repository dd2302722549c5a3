// Package api exposes the registry sync layer over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/CrowdChain-Network/registry_layer/internal/metrics"
	"github.com/CrowdChain-Network/registry_layer/internal/registry"
)

// NodeProber reports node liveness.
type NodeProber interface {
	GetBlockCount(ctx context.Context) (uint64, error)
}

// Server routes HTTP requests into the sync layer. It adds no semantics of
// its own: reads go to the cache, writes to the moderator, recorder and
// publisher.
type Server struct {
	router    *mux.Router
	cache     *registry.Cache
	moderator *registry.Moderator
	recorder  *registry.Recorder
	publisher *registry.Publisher
	gate      *registry.Gate
	node      NodeProber
	log       *logrus.Entry
}

// Config holds server dependencies.
type Config struct {
	Cache     *registry.Cache
	Moderator *registry.Moderator
	Recorder  *registry.Recorder
	Publisher *registry.Publisher
	Gate      *registry.Gate
	Node      NodeProber
	Logger    *logrus.Entry
}

// NewServer creates the HTTP server.
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	s := &Server{
		router:    mux.NewRouter(),
		cache:     cfg.Cache,
		moderator: cfg.Moderator,
		recorder:  cfg.Recorder,
		publisher: cfg.Publisher,
		gate:      cfg.Gate,
		node:      cfg.Node,
		log:       cfg.Logger.WithField("component", "api"),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(RequestIDMiddleware())
	s.router.Use(MetricsMiddleware())
	s.router.Use(LoggingMiddleware(s.log))

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	s.router.HandleFunc("/campaigns", s.handleListCampaigns).Methods(http.MethodGet)
	s.router.HandleFunc("/campaigns", s.handleCreateCampaign).Methods(http.MethodPost)
	s.router.HandleFunc("/campaigns/refresh", s.handleRefresh).Methods(http.MethodPost)
	s.router.HandleFunc("/campaigns/{id:[0-9]+}/donations", s.handleListDonations).Methods(http.MethodGet)
	s.router.HandleFunc("/campaigns/{id:[0-9]+}/approve", s.handleApprove).Methods(http.MethodPost)
	s.router.HandleFunc("/campaigns/{id:[0-9]+}/reject", s.handleReject).Methods(http.MethodPost)
	s.router.HandleFunc("/campaigns/{id:[0-9]+}/donate", s.handleDonate).Methods(http.MethodPost)
	s.router.HandleFunc("/authorization", s.handleAuthorization).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
