package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"gobiblio/internal/api/book"
	"gobiblio/internal/api/loan"
	"gobiblio/internal/api/reader"
	"gobiblio/internal/api/reservation"
	"gobiblio/internal/api/user"
	"gobiblio/internal/domain"
	"gobiblio/internal/pkg/cache"
	"gobiblio/internal/pkg/logger"
	"gobiblio/internal/pkg/middleware"
)

// Pinger verifica a saúde do armazenamento (o *sql.DB satisfaz).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handlers reúne os handlers já inicializados por injeção de dependências.
type Handlers struct {
	Books        *book.Handler
	Users        *user.Handler
	Readers      *reader.Handler
	Reservations *reservation.Handler
	Loans        *loan.Handler
}

// Options reúne a infraestrutura usada pelos middlewares globais.
type Options struct {
	TokenService    middleware.TokenService
	Cache           cache.Client
	RateLimit       int
	RateLimitPeriod time.Duration
	Health          Pinger // nil no armazenamento em memória
	Logger          logger.Logger
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(h Handlers, opts Options) http.Handler {
	r := chi.NewRouter()

	// --- 1. Middlewares globais ---
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog(opts.Logger))
	r.Use(middleware.Metrics)

	// --- 2. Health check, métricas e documentação ---
	r.Get("/ping", PingHandler)
	r.Get("/api/health", HealthHandler(opts.Health))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	auth := middleware.NewAuthMiddleware(opts.TokenService)
	require := middleware.RequireCapability

	r.Route("/api", func(api chi.Router) {
		if opts.RateLimit > 0 {
			api.Use(middleware.RateLimiter(opts.Cache, opts.RateLimit, opts.RateLimitPeriod, opts.Logger))
		}

		// --- 3. Rotas públicas ---
		api.Post("/auth/register", h.Users.RegisterUserHandler)
		api.Post("/auth/login", h.Users.LoginUserHandler)
		api.Get("/books", h.Books.ListBooksHandler)
		api.Get("/books/{id}", h.Books.GetBookHandler)
		api.Get("/books/{id}/reservations", h.Reservations.BookScheduleHandler)

		// --- 4. Rotas autenticadas ---
		api.Group(func(p chi.Router) {
			p.Use(auth)

			p.Get("/users/me/reservations", h.Reservations.MyReservationsHandler)
			p.Get("/users/me/loans", h.Loans.MyLoansHandler)
			p.Get("/readers/me/status", h.Readers.StatusHandler)
			p.Post("/reader-requests", h.Readers.RequestRegistrationHandler)
			p.Post("/reservations", h.Reservations.CreateReservationHandler)

			// Catálogo
			p.With(require(domain.CapCreateCatalog)).Post("/books", h.Books.CreateBookHandler)
			p.With(require(domain.CapEditCatalog)).Put("/books/{id}", h.Books.UpdateBookHandler)

			// Usuários
			p.Group(func(a chi.Router) {
				a.Use(require(domain.CapManageUsers))
				a.Get("/users", h.Users.ListUsersHandler)
				a.Post("/users/{id}/role", h.Users.ChangeRoleHandler)
			})

			// Cadastro de leitores
			p.Group(func(s chi.Router) {
				s.Use(require(domain.CapProcessRegistrations))
				s.Get("/reader-requests", h.Readers.ListRequestsHandler)
				s.Post("/reader-requests/{id}/approve", h.Readers.ApproveHandler)
				s.Post("/reader-requests/{id}/reject", h.Readers.RejectHandler)
				s.Get("/readers", h.Readers.ListReadersHandler)
				s.Get("/unregistered-users", h.Readers.ListUnregisteredUsersHandler)
			})

			// Circulação
			p.Group(func(s chi.Router) {
				s.Use(require(domain.CapManageCirculation))
				s.Post("/reservations/admin", h.Reservations.CreateReservationForReaderHandler)
				s.Get("/reservations", h.Reservations.ListReservationsHandler)
				s.Delete("/reservations/{id}", h.Reservations.CancelReservationHandler)
				s.Post("/loans", h.Loans.CheckoutHandler)
				s.Get("/loans", h.Loans.ListLoansHandler)
				s.Get("/loans/candidates", h.Loans.CandidatesHandler)
				s.Post("/loans/{id}/return", h.Loans.ReturnHandler)
			})
		})
	})

	return r
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

// HealthHandler informa se o armazenamento responde.
// @Summary Saúde do serviço
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func HealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code := "ok", http.StatusOK
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				status, code = "database unavailable", http.StatusServiceUnavailable
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
	}
}
