// billbase server API:
//
//	POST /api/v1/user/register       # register account (public)
//	POST /api/v1/user/login          # login (public)
//	GET  /api/v1/user/me             # current account (auth)
//	POST /api/v1/rows/{table}        # insert row snapshot (auth)
//	PUT  /api/v1/rows/{table}/{id}   # update row snapshot (auth)
//	DELETE /api/v1/rows/{table}/{id} # delete row (auth)
//	GET  /api/v1/rows/{table}        # list rows changed since (auth)
//	GET  /api/v1/health              # health check (public)
package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	healthAPI "billbase/internal/app/server/api/http/health"
	"billbase/internal/app/server/api/http/middleware"
	"billbase/internal/app/server/api/http/middleware/auth"
	"billbase/internal/app/server/api/http/middleware/logger"
	rowsAPI "billbase/internal/app/server/api/http/rows"
	userAPI "billbase/internal/app/server/api/http/user"
	"billbase/internal/domain/row"
	"billbase/internal/domain/session"
	"billbase/internal/domain/user"
	"billbase/internal/infrastructure/storage/postgres"
)

type Handlers struct {
	Health *healthAPI.Handler
	User   *userAPI.Handler
	Rows   *rowsAPI.Handler
}

// New builds the chi mux with every operation registered through huma.
func New(storage *postgres.Storage, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("Billbase API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, config)

	h := handlers(storage, log)
	h.Health.SetupRoutes(API)
	h.User.SetupRoutes(API)
	h.Rows.SetupRoutes(API)

	return mux
}

func handlers(storage *postgres.Storage, log *slog.Logger) *Handlers {
	sessionRepo := postgres.NewSessionRepository(storage, log)
	sessionService := session.NewService(sessionRepo, log)
	authMW := auth.New(sessionService, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(storage, log, middlewares.GetAllAndClear())

	userRepo := postgres.NewUserRepository(storage, log)
	userService := user.NewService(userRepo, log)
	middlewares.Add(loggerMW.Middleware())
	public := middlewares.GetAllAndClear()
	middlewares.Add(loggerMW.Middleware())
	middlewares.Add(authMW.Middleware())
	userHandler := userAPI.NewHandler(userService, sessionService, log, public, middlewares.GetAllAndClear())

	rowRepo := postgres.NewRowRepository(storage, log)
	rowService := row.NewService(rowRepo, log)
	middlewares.Add(loggerMW.Middleware())
	middlewares.Add(authMW.Middleware())
	rowsHandler := rowsAPI.NewHandler(rowService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health: healthHandler,
		User:   userHandler,
		Rows:   rowsHandler,
	}
}
