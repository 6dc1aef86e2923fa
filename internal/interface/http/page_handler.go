package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/MateusMartins/projetoPOS/pkg/response"
)

type PageHandler struct {
	base
}

func NewPageHandler(auth AuthUseCase, logger logrus.FieldLogger) *PageHandler {
	return &PageHandler{base{Auth: auth, Logger: logger}}
}

// Home GET /
func (h *PageHandler) Home(c *gin.Context) {
	h.render(c, http.StatusOK, "home.html", response.Page{Title: "Home"})
}

// About GET /about
func (h *PageHandler) About(c *gin.Context) {
	h.render(c, http.StatusOK, "about.html", response.Page{Title: "About"})
}
