package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ceylontrails/ceylontrails-api/internal/apperr"
	"github.com/ceylontrails/ceylontrails-api/internal/http/middleware"
	"github.com/ceylontrails/ceylontrails-api/internal/platform/cache"
	"github.com/ceylontrails/ceylontrails-api/internal/platform/uploads"
	"github.com/ceylontrails/ceylontrails-api/internal/service"
	"github.com/ceylontrails/ceylontrails-api/pkg/config"
	pkgmw "github.com/ceylontrails/ceylontrails-api/pkg/middleware"
	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	packageService service.PackageService
	inquiryService service.InquiryService
	authService    service.AuthService
	uploadSigner   *uploads.Signer
	config         *config.Config
}

func New(
	packageService service.PackageService,
	inquiryService service.InquiryService,
	authService service.AuthService,
	uploadSigner *uploads.Signer,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		packageService: packageService,
		inquiryService: inquiryService,
		authService:    authService,
		uploadSigner:   uploadSigner,
		config:         cfg,
	}
}

// Routes builds the versioned API router. Admin routes sit behind the
// session guard; the public surface is the storefront plus auth entry
// points, with the abuse-prone ones rate limited.
func (h *Handlers) Routes(store cache.Store) chi.Router {
	r := chi.NewRouter()

	requireAdmin := middleware.RequireAdmin(h.config.Auth.CookieName, h.config.Auth.JWTSecret)

	r.Route("/packages", func(r chi.Router) {
		r.Get("/", middleware.Wrap(h.ListPackages))
		r.Get("/{idOrSlug}", middleware.Wrap(h.GetPackage))

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/", middleware.Wrap(h.CreatePackage))
			r.Put("/{id}", middleware.Wrap(h.UpdatePackage))
			r.Delete("/{id}", middleware.Wrap(h.DeletePackage))
		})
	})

	r.Route("/inquiries", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(store, "inquiry", 10, time.Minute))
			r.Use(pkgmw.Idempotency(store))
			r.Post("/", middleware.Wrap(h.CreateInquiry))
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/", middleware.Wrap(h.ListInquiries))
			r.Patch("/status", middleware.Wrap(h.UpdateInquiryStatusBulk))
			r.Get("/{id}", middleware.Wrap(h.GetInquiry))
			r.Put("/{id}", middleware.Wrap(h.UpdateInquiry))
			r.Delete("/{id}", middleware.Wrap(h.DeleteInquiry))
		})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", middleware.Wrap(h.Login))
		r.Post("/logout", middleware.Wrap(h.Logout))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(store, "forgot-password", 5, 15*time.Minute))
			r.Post("/forgot-password", middleware.Wrap(h.ForgotPassword))
		})
		r.Post("/verify-reset-token", middleware.Wrap(h.VerifyResetToken))
		r.Post("/reset-password", middleware.Wrap(h.ResetPassword))

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/register", middleware.Wrap(h.Register))
			r.Get("/me", middleware.Wrap(h.Me))
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(requireAdmin)
		r.Get("/", middleware.Wrap(h.ListUsers))
		r.Delete("/{id}", middleware.Wrap(h.DeleteUser))
		r.Put("/{id}/password", middleware.Wrap(h.ChangePassword))
	})

	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Get("/uploads/signature", middleware.Wrap(h.UploadSignature))
	})

	return r
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("Invalid request body")
	}
	return nil
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return limit, offset
}
