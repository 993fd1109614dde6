package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourplaces/backend/internal/container"
	handlers "github.com/yourplaces/backend/internal/interface/http"
	"github.com/yourplaces/backend/internal/interface/middleware"
)

// UserModule wires the user HTTP surface:
// GET  /api/users
// POST /api/users/signup (multipart: name, email, password, image)
// POST /api/users/login
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath()) // 5 req/min per IP
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP())        // 10 req/min per IP

	users := rg.Group("/users")
	{
		users.GET("", m.Handler.List)
		users.POST("/signup", signupLimiter, m.Handler.Signup)
		users.POST("/login", loginLimiter, m.Handler.Login)
	}
}
