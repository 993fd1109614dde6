package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourplaces/backend/internal/container"
	handlers "github.com/yourplaces/backend/internal/interface/http"
	"github.com/yourplaces/backend/internal/interface/middleware"
)

// PlaceModule wires the place HTTP surface.
// Public: GET /api/places/:placeId, GET /api/places/user/:userId,
// GET /api/places/search. Mutations require a valid token; ownership is
// enforced in the service layer.
type PlaceModule struct {
	Handler *handlers.PlaceHandler
}

func NewPlaceModule(h *handlers.PlaceHandler) *PlaceModule {
	return &PlaceModule{Handler: h}
}

func (m *PlaceModule) Register(rg *gin.RouterGroup) {
	places := rg.Group("/places")
	{
		places.GET("/search", m.Handler.Search)
		places.GET("/user/:userId", m.Handler.ListByUser)
		places.GET("/:placeId", m.Handler.GetByID)
	}

	auth := rg.Group("/places")
	auth.Use(middleware.Auth(container.GetJWT()))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP()))
	{
		auth.POST("", m.Handler.Create)
		auth.PATCH("/:placeId", m.Handler.Update)
		auth.DELETE("/:placeId", m.Handler.Delete)
	}
}
