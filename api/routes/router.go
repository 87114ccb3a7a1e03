package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/rentalfleet-backend/api/controllers"
	fulfilmentcontrollers "github.com/angelmondragon/rentalfleet-backend/api/controllers/fulfilments"
	inventorycontrollers "github.com/angelmondragon/rentalfleet-backend/api/controllers/inventory"
	purchaseordercontrollers "github.com/angelmondragon/rentalfleet-backend/api/controllers/purchaseorders"
	reservationcontrollers "github.com/angelmondragon/rentalfleet-backend/api/controllers/reservations"
	"github.com/angelmondragon/rentalfleet-backend/api/middleware"
	"github.com/angelmondragon/rentalfleet-backend/internal/assignment"
	"github.com/angelmondragon/rentalfleet-backend/internal/fulfilments"
	"github.com/angelmondragon/rentalfleet-backend/internal/inventory"
	"github.com/angelmondragon/rentalfleet-backend/internal/purchaseorders"
	"github.com/angelmondragon/rentalfleet-backend/internal/reservations"
	"github.com/angelmondragon/rentalfleet-backend/pkg/config"
	"github.com/angelmondragon/rentalfleet-backend/pkg/logger"
	"github.com/angelmondragon/rentalfleet-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	fulfilmentService fulfilments.Service,
	assignmentService assignment.Service,
	reservationService reservations.Service,
	inventoryService inventory.Service,
	purchaseOrderService purchaseorders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Tracing(),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	checks := []controllers.HealthCheck{{Name: "postgres", Pinger: dbP}}
	var idempotencyStore redis.IdempotencyStore
	if redisClient != nil {
		checks = append(checks, controllers.HealthCheck{Name: "redis", Pinger: redisClient})
		idempotencyStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, checks...))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/fulfilments/{fulfilmentId}", func(r chi.Router) {
			r.Get("/", fulfilmentcontrollers.Get(fulfilmentService, logg))
			r.Post("/inventory", fulfilmentcontrollers.AssignInventory(assignmentService, logg))
			r.Delete("/inventory", fulfilmentcontrollers.UnassignInventory(assignmentService, logg))
			r.Put("/rental-dates", fulfilmentcontrollers.SetRentalDates(assignmentService, logg))
		})

		r.Get("/reservations", reservationcontrollers.List(reservationService, logg))

		r.Route("/inventory", func(r chi.Router) {
			r.Post("/", inventorycontrollers.Create(inventoryService, logg))
			r.Get("/{inventoryId}", inventorycontrollers.Get(inventoryService, logg))
			r.Patch("/{inventoryId}/status", inventorycontrollers.UpdateStatus(inventoryService, logg))
		})

		r.Post("/purchase-orders/{purchaseOrderId}/submit", purchaseordercontrollers.Submit(purchaseOrderService, logg))
	})

	return r
}
