// Package api exposes the settlement ledger over a JSON HTTP surface.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fairsplit/fairsplit/internal/auth"
	"github.com/fairsplit/fairsplit/internal/middleware"
	"github.com/fairsplit/fairsplit/internal/service"
)

// API wires the domain services into HTTP handlers.
type API struct {
	authenticator auth.Authenticator
	tokens        *auth.JWTManager
	users         *service.UserService
	groups        *service.GroupService
	expenses      *service.ExpenseService
	requests      *service.RequestService
	payments      *service.PaymentService
}

// New creates the API with its service dependencies.
func New(
	authenticator auth.Authenticator,
	tokens *auth.JWTManager,
	users *service.UserService,
	groups *service.GroupService,
	expenses *service.ExpenseService,
	requests *service.RequestService,
	payments *service.PaymentService,
) *API {
	return &API{
		authenticator: authenticator,
		tokens:        tokens,
		users:         users,
		groups:        groups,
		expenses:      expenses,
		requests:      requests,
		payments:      payments,
	}
}

// Router builds the HTTP routes. Register, login, health and metrics are
// public; everything else requires a bearer token.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.Logging)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", a.handleRegister)
		r.Post("/auth/login", a.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(a.tokens))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", a.handleListUsers)
				r.Get("/{id}", a.handleGetUser)
				r.Patch("/{id}", a.handleUpdateUser)
				r.Delete("/{id}", a.handleDeleteUser)
				r.Put("/{id}/balance", a.handleSetBalance)
				r.Post("/{id}/balance", a.handleAddBalance)
				r.Get("/{id}/requests", a.handleListUserRequests)
				r.Get("/{id}/payments", a.handleListUserPayments)
			})

			r.Route("/groups", func(r chi.Router) {
				r.Post("/", a.handleCreateGroup)
				r.Get("/", a.handleListGroups)
				r.Get("/{id}", a.handleGetGroup)
				r.Patch("/{id}", a.handleUpdateGroup)
				r.Delete("/{id}", a.handleDeleteGroup)
				r.Post("/{id}/members", a.handleAddGroupMember)
				r.Delete("/{id}/members/{userID}", a.handleRemoveGroupMember)
				r.Get("/{id}/expenses", a.handleListGroupExpenses)
				r.Get("/{id}/requests", a.handleListGroupRequests)
				r.Get("/{id}/payments", a.handleListGroupPayments)
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", a.handleCreateExpense)
				r.Get("/{id}", a.handleGetExpense)
				r.Patch("/{id}", a.handleUpdateExpense)
				r.Delete("/{id}", a.handleDeleteExpense)
				r.Get("/{id}/requests", a.handleListExpenseRequests)
			})

			r.Route("/requests", func(r chi.Router) {
				r.Post("/", a.handleCreateRequest)
				r.Get("/{id}", a.handleGetRequest)
				r.Patch("/{id}", a.handleUpdateRequest)
				r.Delete("/{id}", a.handleDeleteRequest)
				r.Post("/{id}/accept", a.handleAcceptRequest)
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/", a.handleCreatePayment)
				r.Get("/{id}", a.handleGetPayment)
				r.Delete("/{id}", a.handleDeletePayment)
			})
		})
	})

	return r
}
