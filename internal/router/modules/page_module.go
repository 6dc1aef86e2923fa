package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/MateusMartins/projetoPOS/internal/interface/http"
)

// PageModule serves the static informational pages.
type PageModule struct {
	Handler *handlers.PageHandler
}

func NewPageModule(h *handlers.PageHandler) *PageModule {
	return &PageModule{Handler: h}
}

func (m *PageModule) Register(rg *gin.RouterGroup) {
	rg.GET("/", m.Handler.Home)
	rg.GET("/about", m.Handler.About)
}
