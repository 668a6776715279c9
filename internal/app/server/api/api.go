//GET   /api/v1/health                          # Connectivity probe
//GET   /api/v1/interventions                   # Snapshot source
//GET   /api/v1/stock                           # Vehicle stock snapshot
//POST  /api/v1/interventions/{id}/timespent    # Queued mutation targets
//POST  /api/v1/interventions/{id}/lines
//PUT   /api/v1/interventions/{id}/tasks/{taskId}
//POST  /api/v1/interventions/{id}/photos
//POST  /api/v1/interventions/{id}/signature
//PATCH /api/v1/interventions/{id}
//POST  /api/v1/emergencies                     # Claim-once workflow
//GET   /api/v1/emergencies?status=open
//POST  /api/v1/emergencies/{id}/claim
//POST  /api/v1/emergencies/{id}/complete
//POST  /api/v1/emergencies/{id}/cancel
//GET   /api/v1/emergencies/ws                  # Realtime change feed
//POST  /api/v1/push/subscriptions              # Web push registration

package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	emergencyAPI "fieldsync/internal/app/server/api/http/emergency"
	healthAPI "fieldsync/internal/app/server/api/http/health"
	interventionAPI "fieldsync/internal/app/server/api/http/intervention"
	"fieldsync/internal/app/server/api/http/middleware"
	"fieldsync/internal/app/server/api/http/middleware/logger"
	pushAPI "fieldsync/internal/app/server/api/http/push"
	"fieldsync/internal/app/server/realtime"
	"fieldsync/internal/domain/emergency"
	"fieldsync/internal/domain/intervention"
	"fieldsync/internal/domain/push"
	"fieldsync/internal/infrastructure/storage/postgres"
)

type Handlers struct {
	Health       *healthAPI.Handler
	Intervention *interventionAPI.Handler
	Emergency    *emergencyAPI.Handler
	Push         *pushAPI.Handler
}

// New builds the *chi.Mux with every operation registered through huma, plus
// the WebSocket feed which bypasses huma (it is a connection upgrade, not a
// request/response operation).
func New(storage *postgres.Storage, hub *realtime.Hub, pub emergency.Publisher, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("FieldSync API", "1.0.0")
	API := humachi.New(mux, config)

	h := handlers(storage, pub, log)
	h.Health.SetupRoutes(API)
	h.Intervention.SetupRoutes(API)
	h.Emergency.SetupRoutes(API)
	h.Push.SetupRoutes(API)

	mux.Get("/api/v1/emergencies/ws", hub.ServeHTTP)

	return mux
}

func handlers(storage *postgres.Storage, pub emergency.Publisher, log *slog.Logger) *Handlers {
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	interventionRepo := postgres.NewInterventionRepository(storage, log)
	interventionService := intervention.NewService(interventionRepo, log)
	middlewares.Add(loggerMW.Middleware())
	interventionHandler := interventionAPI.NewHandler(interventionService, log, middlewares.GetAllAndClear())

	emergencyRepo := postgres.NewEmergencyRepository(storage, log)
	emergencyService := emergency.NewService(emergencyRepo, pub, log)
	middlewares.Add(loggerMW.Middleware())
	emergencyHandler := emergencyAPI.NewHandler(emergencyService, log, middlewares.GetAllAndClear())

	pushRepo := postgres.NewPushRepository(storage, log)
	pushService := push.NewService(pushRepo, log)
	middlewares.Add(loggerMW.Middleware())
	pushHandler := pushAPI.NewHandler(pushService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:       healthHandler,
		Intervention: interventionHandler,
		Emergency:    emergencyHandler,
		Push:         pushHandler,
	}
}
