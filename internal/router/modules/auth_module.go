package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/MateusMartins/projetoPOS/internal/interface/http"
)

// AuthModule wires register/login (public) and logout (guarded).
// Limiter is optional and applies to the public form routes.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Guard   gin.HandlerFunc
	Limiter gin.HandlerFunc
}

func NewAuthModule(h *handlers.AuthHandler, guard, limiter gin.HandlerFunc) *AuthModule {
	return &AuthModule{Handler: h, Guard: guard, Limiter: limiter}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	public := rg.Group("/")
	if m.Limiter != nil {
		public.Use(m.Limiter)
	}
	{
		public.GET("/register", m.Handler.RegisterForm)
		public.POST("/register", m.Handler.Register)
		public.GET("/login", m.Handler.LoginForm)
		public.POST("/login", m.Handler.Login)
	}

	rg.GET("/logout", m.Guard, m.Handler.Logout)
}
