package handlers

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ncnews/apiserver/internal/services"
)

const requestTimeout = 60 * time.Second

// Dependencies are the services the router dispatches to. Images may be nil,
// in which case the image routes are not mounted.
type Dependencies struct {
	Auth      *services.AuthService
	Users     *services.UserService
	Topics    *services.TopicService
	Articles  *services.ArticleService
	Comments  *services.CommentService
	Images    *services.ImageService
	Endpoints map[string]Endpoint

	// PublicTopics serves GET /api/topics without a token.
	PublicTopics bool
}

// NewRouter builds the complete route tree with its middleware stack.
func NewRouter(deps Dependencies) *chi.Mux {
	authMiddleware := RequireAuth(deps.Auth)
	authHandler := NewAuthHandler(deps.Auth)

	var images *ImageHandler
	if deps.Images != nil {
		images = NewImageHandler(deps.Images)
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		RequestLogger,
		Recoverer,
		middleware.Timeout(requestTimeout),
	)
	router.NotFound(NotFound)
	router.MethodNotAllowed(MethodNotAllowed)

	router.Get("/healthz", Healthz)
	router.Post("/login", authHandler.Login)
	if images != nil {
		router.Get("/images/{name}", images.ServeImage)
	}

	router.Route("/api", func(r chi.Router) {
		r.Get("/", EndpointsHandler(deps.Endpoints))
		AuthRouter(r, deps.Auth)
		r.Route("/topics", func(r chi.Router) {
			TopicRouter(r, deps.Topics, authMiddleware, deps.PublicTopics)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Route("/articles", func(r chi.Router) {
				if images != nil {
					r.Post("/images", images.UploadImage)
				}
				ArticleRouter(r, deps.Articles, deps.Comments)
			})
			r.Route("/comments", func(r chi.Router) {
				CommentRouter(r, deps.Comments)
			})
			r.Route("/users", func(r chi.Router) {
				UserRouter(r, deps.Users)
			})
		})
	})

	return router
}
