package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/MateusMartins/projetoPOS/internal/interface/http"
)

// ArticleModule wires the public article pages and the guarded editing routes.
type ArticleModule struct {
	Handler *handlers.ArticleHandler
	Guard   gin.HandlerFunc
}

func NewArticleModule(h *handlers.ArticleHandler, guard gin.HandlerFunc) *ArticleModule {
	return &ArticleModule{Handler: h, Guard: guard}
}

func (m *ArticleModule) Register(rg *gin.RouterGroup) {
	rg.GET("/articles", m.Handler.List)
	rg.GET("/article/:id", m.Handler.Show)

	auth := rg.Group("/")
	auth.Use(m.Guard)
	{
		auth.GET("/dashboard", m.Handler.Dashboard)
		auth.GET("/add_article", m.Handler.AddForm)
		auth.POST("/add_article", m.Handler.Add)
		auth.GET("/edit_article/:id", m.Handler.EditForm)
		auth.POST("/edit_article/:id", m.Handler.Edit)
		auth.POST("/delete_article/:id", m.Handler.Delete)
	}
}
