package lecturematch

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	applicationcreate "github.com/lecturelink/lecture-match/internal/http/handlers/application/create"
	"github.com/lecturelink/lecture-match/internal/http/handlers/application/decide"
	"github.com/lecturelink/lecture-match/internal/http/handlers/application/listforposting"
	"github.com/lecturelink/lecture-match/internal/http/handlers/application/myapplies"
	applicationread "github.com/lecturelink/lecture-match/internal/http/handlers/application/read"
	applicationupdate "github.com/lecturelink/lecture-match/internal/http/handlers/application/update"
	"github.com/lecturelink/lecture-match/internal/http/handlers/application/withdraw"
	"github.com/lecturelink/lecture-match/internal/http/handlers/auth/check"
	"github.com/lecturelink/lecture-match/internal/http/handlers/auth/findid"
	"github.com/lecturelink/lecture-match/internal/http/handlers/auth/findpassword"
	"github.com/lecturelink/lecture-match/internal/http/handlers/auth/login"
	"github.com/lecturelink/lecture-match/internal/http/handlers/auth/profile"
	"github.com/lecturelink/lecture-match/internal/http/handlers/auth/profileupdate"
	"github.com/lecturelink/lecture-match/internal/http/handlers/auth/refresh"
	"github.com/lecturelink/lecture-match/internal/http/handlers/auth/register"
	"github.com/lecturelink/lecture-match/internal/http/handlers/health"
	"github.com/lecturelink/lecture-match/internal/http/handlers/posting/closepost"
	postingcreate "github.com/lecturelink/lecture-match/internal/http/handlers/posting/create"
	"github.com/lecturelink/lecture-match/internal/http/handlers/posting/detail"
	postinglist "github.com/lecturelink/lecture-match/internal/http/handlers/posting/list"
	"github.com/lecturelink/lecture-match/internal/http/handlers/posting/mypostings"
	"github.com/lecturelink/lecture-match/internal/http/handlers/posting/remove"
	"github.com/lecturelink/lecture-match/internal/http/handlers/posting/search"
	postingupdate "github.com/lecturelink/lecture-match/internal/http/handlers/posting/update"
	"github.com/lecturelink/lecture-match/internal/http/middlewarectx"
	"github.com/lecturelink/lecture-match/internal/models"
	applicationservice "github.com/lecturelink/lecture-match/internal/services/application"
	authservice "github.com/lecturelink/lecture-match/internal/services/auth"
	postingservice "github.com/lecturelink/lecture-match/internal/services/posting"
	"github.com/lecturelink/lecture-match/internal/storage/repository"
)

// RegisterRoutes registers all routes of the application.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage,
	authService *authservice.Service, postingService *postingservice.Service,
	applicationService *applicationservice.Service) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/signup", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Post("/refresh", refresh.New(logger, authService).ServeHTTP)
		r.Post("/find-id", findid.New(logger, authService).ServeHTTP)
		r.Post("/find-password", findpassword.New(logger, authService).ServeHTTP)
		r.Get("/check-id/{value}", check.New(logger, authService, "id").ServeHTTP)
		r.Get("/check-email/{value}", check.New(logger, authService, "email").ServeHTTP)
		r.Get("/check-phone/{value}", check.New(logger, authService, "phone").ServeHTTP)
		r.Get("/postings/{kind}/list", postinglist.New(logger, postingService).ServeHTTP)
		r.Get("/postings/{kind}/search", search.New(logger, postingService).ServeHTTP)
		r.Get("/health", health.New(logger, db).ServeHTTP)

		// Authenticated group
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/me", profile.New(logger, authService).ServeHTTP)
			r.Put("/me", profileupdate.New(logger, authService).ServeHTTP)

			r.Post("/postings/{kind}", postingcreate.New(logger, postingService).ServeHTTP)
			r.Get("/postings/{kind}/{id}", detail.New(logger, postingService).ServeHTTP)
			r.Put("/postings/{kind}/{id}", postingupdate.New(logger, postingService).ServeHTTP)
			r.Delete("/postings/{kind}/{id}", remove.New(logger, postingService).ServeHTTP)
			r.Post("/postings/{kind}/{id}/close", closepost.New(logger, postingService).ServeHTTP)
			r.Get("/postings/{kind}/{id}/applies", listforposting.New(logger, applicationService).ServeHTTP)
			r.Get("/my/postings/{kind}", mypostings.New(logger, postingService).ServeHTTP)

			r.Post("/applies/{kind}", applicationcreate.New(logger, applicationService).ServeHTTP)
			r.Get("/applies/{kind}/{id}", applicationread.New(logger, applicationService).ServeHTTP)
			r.Put("/applies/{kind}/{id}", applicationupdate.New(logger, applicationService).ServeHTTP)
			r.Delete("/applies/{kind}/{id}", withdraw.New(logger, applicationService).ServeHTTP)
			r.Post("/applies/{kind}/{id}/accept", decide.New(logger, applicationService, models.StatusAccepted).ServeHTTP)
			r.Post("/applies/{kind}/{id}/reject", decide.New(logger, applicationService, models.StatusRejected).ServeHTTP)
			r.Get("/my/applies/{kind}", myapplies.New(logger, applicationService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
