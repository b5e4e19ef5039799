package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/ncnews/apiserver/config"
	"github.com/ncnews/apiserver/internal/db"
	"github.com/ncnews/apiserver/internal/events"
	"github.com/ncnews/apiserver/internal/handlers"
	"github.com/ncnews/apiserver/internal/mq"
	"github.com/ncnews/apiserver/internal/services"
	"github.com/ncnews/apiserver/internal/storage"
	"github.com/ncnews/apiserver/internal/store"
	"github.com/rs/zerolog/log"
)

// Server wraps the HTTP server, its router and the resources it owns.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sqlx.DB
	queue      *mq.MQ
}

// New opens the database and optional broker and object store, then builds
// the router. Resources opened before a failure are released.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queue, err := mq.Open(ctx, cfg.MQ)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	objects, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		closeQueue(queue)
		_ = dbConn.Close()
		return nil, err
	}

	router, err := buildRouter(cfg, dbConn, queue, objects)
	if err != nil {
		closeQueue(queue)
		_ = dbConn.Close()
		return nil, err
	}

	port := cfg.ServerPort
	if port == 0 {
		port = 9090
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		queue:      queue,
	}, nil
}

func buildRouter(cfg config.Config, dbConn *sqlx.DB, queue *mq.MQ, objects *storage.Storage) (*chi.Mux, error) {
	userRepo := store.NewUserRepository(dbConn)
	topicRepo := store.NewTopicRepository(dbConn)
	articleRepo := store.NewArticleRepository(dbConn)
	commentRepo := store.NewCommentRepository(dbConn)

	var publisher services.EventPublisher = events.Discard{}
	if queue != nil {
		publisher = events.NewPublisher(queue, cfg.MQ.Channel)
	}

	authService, err := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, err
	}

	endpoints, err := handlers.LoadEndpoints()
	if err != nil {
		return nil, err
	}

	deps := handlers.Dependencies{
		Auth:         authService,
		Users:        services.NewUserService(userRepo),
		Topics:       services.NewTopicService(topicRepo),
		Articles:     services.NewArticleService(articleRepo, topicRepo, publisher),
		Comments:     services.NewCommentService(commentRepo, articleRepo, publisher),
		Endpoints:    endpoints,
		PublicTopics: cfg.PublicTopics,
	}
	if objects != nil {
		deps.Images = services.NewImageService(objects, imageBaseURL(cfg.Storage))
	}

	return handlers.NewRouter(deps), nil
}

// imageBaseURL is where uploaded images are reachable. Without a public
// bucket URL they are served by this API under /images.
func imageBaseURL(cfg config.StorageConfig) string {
	if cfg.PublicURL != "" {
		return cfg.PublicURL + "/articles"
	}
	return "/images"
}

func closeQueue(queue *mq.MQ) {
	if queue != nil {
		_ = queue.Close()
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("starting server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then releases the broker and the
// connection pool.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	closeQueue(s.queue)
	if s.db != nil {
		if closeErr := s.db.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}
