package handlers

import (
	"net/http"
	"strings"
	"time"

	"sautipay/internal/auth"
	"sautipay/internal/config"
	"sautipay/internal/logging"
	"sautipay/internal/middleware"
	"sautipay/internal/notify"
	"sautipay/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

type Handler struct {
	cfg          config.Config
	users        UserStore
	transactions TransactionStore
	brokers      BrokerStore
	commissions  CommissionStore
	refunds      RefundStore
	receipts     ReceiptStore
	settlements  SettlementStore
	claims       ClaimStore
	companies    CompanyStore
	settings     SettingsStore
	resetter     Resetter
	rates        RateTable
	payments     PaymentProcessor
	notifier     notify.Notifier
	checker      SettlementChecker
	hub          *websocket.Hub
	logger       zerolog.Logger
	now          func() time.Time
}

func New(cfg config.Config, repo Repository, rates RateTable, payments PaymentProcessor, notifier notify.Notifier, checker SettlementChecker, hub *websocket.Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		cfg:          cfg,
		users:        repo,
		transactions: repo,
		brokers:      repo,
		commissions:  repo,
		refunds:      repo,
		receipts:     repo,
		settlements:  repo,
		claims:       repo,
		companies:    repo,
		settings:     repo,
		resetter:     repo,
		rates:        rates,
		payments:     payments,
		notifier:     notifier,
		checker:      checker,
		hub:          hub,
		logger:       logger.With().Str("component", "http").Logger(),
		now:          time.Now,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(logging.RequestLogger(h.logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(h.cfg.AllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authed := middleware.Auth(h.cfg.JWTSecret)
	staff := middleware.RequireRole(auth.RoleAdmin, auth.RoleOwner)
	owner := middleware.RequireRole(auth.RoleOwner)

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimit(h.cfg.LoginRatePerMinute, h.logger)).Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.With(authed).Get("/me", h.Me)
		})

		r.Post("/claims/submit", h.SubmitClaim)
		r.Get("/claims/track/{reference}", h.TrackClaim)

		r.Group(func(r chi.Router) {
			r.Use(authed)

			r.Get("/transactions", h.ListTransactions)
			r.Get("/transactions/export", h.ExportTransactions)

			r.Get("/brokers", h.ListBrokers)
			r.With(staff).Post("/brokers", h.CreateBroker)
			r.Get("/brokers/{id}", h.GetBroker)
			r.With(staff).Patch("/brokers/{id}", h.UpdateBroker)
			r.With(staff).Delete("/brokers/{id}", h.DeleteBroker)

			r.Get("/commissions", h.ListCommissions)
			r.Patch("/commissions/{id}", h.UpdateCommissionStatus)

			r.Get("/refunds", h.ListRefunds)
			r.Post("/refunds", h.CreateRefund)
			r.Patch("/refunds/{id}", h.UpdateRefundStatus)

			r.Get("/receipts", h.ListReceipts)

			r.Get("/settlements", h.ListSettlements)
			r.Get("/settlements/status", h.SettlementStatus)
			r.Patch("/settlements/{id}", h.UpdateSettlementStatus)

			// Rates, fees and general settings are shared by every company.
			r.Get("/exchange-rates", h.ExchangeRates)
			r.With(owner).Patch("/exchange-rates", h.UpdateExchangeRates)

			r.Get("/settings", h.GetSettings)
			r.With(owner).Patch("/settings", h.UpdateSettings)
			r.Get("/settings/fees", h.GetFees)
			r.With(owner).Put("/settings/fees", h.ReplaceFees)

			r.Post("/premium/calculate", h.CalculatePremium)
			r.Post("/payments/process", h.ProcessPayment)
			r.With(staff).Post("/claims/approve", h.ApproveClaim)
			r.Post("/notifications/send", h.SendNotification)

			r.With(owner).Get("/companies", h.ListCompanies)
			r.With(owner).Patch("/companies/{id}/status", h.UpdateCompanyStatus)

			if h.cfg.IsDevelopment() {
				r.With(owner).Post("/dev/reset", h.ResetData)
			}
		})
	})

	router.With(authed).Get("/ws/settlements", h.WSSettlements)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
