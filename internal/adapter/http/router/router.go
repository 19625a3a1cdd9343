package router

import (
	"net/http"
	"time"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/adapter/http/handler"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/middleware"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

type Handlers struct {
	Houses    *handler.HouseHandler
	Reviews   *handler.ReviewHandler
	Favorites *handler.FavoriteHandler
}

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	Metrics        *metrics.MetricsManager
	RequestTimeout time.Duration
}

// New builds the service router. Every route sees the optional user from
// the Authorization header; mutating routes require one.
func New(h Handlers, opts Options, log *logger.Logger) http.Handler {
	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(chimw.Recoverer)
	if opts.RequestTimeout > 0 {
		mux.Use(chimw.Timeout(opts.RequestTimeout))
	}
	mux.Use(middleware.RequestLogger(log))
	if opts.Metrics != nil {
		mux.Use(middleware.Metrics(opts.Metrics))
	}
	mux.Use(middleware.Authenticate(opts.JWTSecret, log))

	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.Route("/api", func(api chi.Router) {
		api.Get("/houses", h.Houses.HandleListHouses)
		api.Get("/houses/{houseId}", h.Houses.HandleGetHouse)
		api.Get("/houses/{houseId}/reviews", h.Reviews.HandleListReviews)

		api.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Post("/houses/{houseId}/reviews", h.Reviews.HandleCreateReview)
			r.Put("/houses/{houseId}/reviews/{reviewId}", h.Reviews.HandleUpdateReview)
			r.Delete("/houses/{houseId}/reviews/{reviewId}", h.Reviews.HandleDeleteReview)

			r.Get("/favorites", h.Favorites.HandleListFavorites)
			r.Post("/houses/{houseId}/favorites", h.Favorites.HandleCreateFavorite)
			r.Delete("/houses/{houseId}/favorites/{favoriteId}", h.Favorites.HandleDeleteFavorite)
		})

		api.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleAdmin))

			r.Post("/houses", h.Houses.HandleCreateHouse)
			r.Delete("/houses/{houseId}", h.Houses.HandleDeleteHouse)
		})
	})

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}).Handler(mux)
}
