package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"splitledger/internal/auth"
	"splitledger/internal/config"
	"splitledger/internal/transport/httpserver/handler"
	authmw "splitledger/internal/transport/httpserver/middleware"
	"splitledger/pkg/logger"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, tokens *auth.TokenManager, registry *prometheus.Registry, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))
	r.Use(authmw.NewMetrics(registry).Middleware)

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Post("/auth/register", handlers.Register)
		r.Post("/auth/login", handlers.Login)

		jwt := authmw.NewJWTAuth(tokens, log)
		r.Group(func(r chi.Router) {
			r.Use(jwt.Middleware)

			r.Get("/auth/me", handlers.Me)
			r.Get("/users/search", handlers.SearchUsers)

			r.Post("/friends/requests", handlers.SendFriendRequest)
			r.Get("/friends/requests", handlers.ListFriendRequests)
			r.Post("/friends/requests/{requestID}/respond", handlers.RespondFriendRequest)
			r.Get("/friends", handlers.ListFriends)
			r.Get("/friends/balances", handlers.FriendBalances)

			r.Post("/groups", handlers.CreateGroup)
			r.Get("/groups", handlers.ListGroups)
			r.Get("/groups/{groupID}", handlers.GetGroup)
			r.Patch("/groups/{groupID}", handlers.UpdateGroup)
			r.Delete("/groups/{groupID}", handlers.DeleteGroup)
			r.Get("/groups/{groupID}/members", handlers.ListGroupMembers)
			r.Post("/groups/{groupID}/members", handlers.AddGroupMember)
			r.Delete("/groups/{groupID}/members/{userID}", handlers.RemoveGroupMember)
			r.Get("/groups/{groupID}/expenses", handlers.ListGroupExpenses)
			r.Get("/groups/{groupID}/balances", handlers.GroupBalances)

			r.Post("/expenses", handlers.CreateExpense)
			r.Get("/expenses", handlers.ListExpenses)
			r.Delete("/expenses/{expenseID}", handlers.DeleteExpense)
			r.Post("/expenses/splits/{splitID}/settle", handlers.SettleSplit)

			r.Post("/payments", handlers.RecordPayment)
			r.Delete("/payments/{paymentID}", handlers.DeletePayment)
			r.Get("/payments/with/{userID}", handlers.ListPaymentsWith)

			r.Get("/categories", handlers.ListCategories)
			r.Post("/categories", handlers.CreateCategory)

			r.Get("/stats/monthly", handlers.MonthlyStats)
			r.Get("/stats/breakdown", handlers.MonthlyBreakdown)
			r.Get("/activity", handlers.Activity)
			r.Get("/overview", handlers.BalanceOverview)
		})
	})

	return r
}
