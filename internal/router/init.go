package router

import (
	"github.com/yourplaces/backend/internal/application"
	"github.com/yourplaces/backend/internal/container"
	pginfra "github.com/yourplaces/backend/internal/infrastructure/postgres"
	handlers "github.com/yourplaces/backend/internal/interface/http"
	"github.com/yourplaces/backend/internal/router/modules"
)

// InitModules constructs every feature module from the container singletons
// and registers it with the router registry. Called once during startup.
func InitModules(r *Registry) {
	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	placeRepo := pginfra.NewPlaceRepository(container.GetPGPool())
	tx := pginfra.NewTxManager(container.GetPGPool())

	userService := application.NewUserService(
		userRepo,
		container.GetJWT(),
		emailPublisher(),
		container.GetLogger(),
	)
	placeService := application.NewPlaceService(
		placeRepo,
		userRepo,
		tx,
		container.GetGeocoder(),
		container.GetUploads(),
		container.GetLogger(),
		container.GetES(),
		container.GetConfig().ESPlacesIndex,
	)

	userHandler := handlers.NewUserHandler(userService, container.GetUploads(), container.GetLogger())
	placeHandler := handlers.NewPlaceHandler(placeService, container.GetUploads(), container.GetLogger())

	r.Add(modules.NewUserModule(userHandler))
	r.Add(modules.NewPlaceModule(placeHandler))
}

// emailPublisher returns nil when RabbitMQ is not configured; the user
// service treats a nil publisher as mailing disabled.
func emailPublisher() application.EmailPublisher {
	if pub := container.GetRabbitPub(); pub != nil {
		return pub
	}
	return nil
}
