package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/MateusMartins/projetoPOS/internal/application"
	"github.com/MateusMartins/projetoPOS/internal/domain/entity"
	"github.com/MateusMartins/projetoPOS/internal/interface/middleware"
	"github.com/MateusMartins/projetoPOS/pkg/response"
)

type AuthHandler struct {
	base
	Session *middleware.SessionCookie
}

func NewAuthHandler(auth AuthUseCase, session *middleware.SessionCookie, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{base: base{Auth: auth, Logger: logger}, Session: session}
}

type registerForm struct {
	Name     string `form:"name"`
	Username string `form:"username"`
	Email    string `form:"email"`
	Password string `form:"password"`
	Confirm  string `form:"confirm"`
}

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// RegisterForm GET /register
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", response.Page{Title: "Register", Form: registerForm{}})
}

// Register POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderError(c, http.StatusBadRequest, msgBadForm)
		return
	}

	err := h.Auth.Register(c.Request.Context(), application.RegisterInput{
		Name:     form.Name,
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
		Confirm:  form.Confirm,
	})
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		form.Password, form.Confirm = "", ""
		h.render(c, http.StatusOK, "register.html", response.Page{Title: "Register", Form: form, Errors: verr.Fields})
		return
	case err != nil:
		h.fail(c, err, logrus.Fields{"username": form.Username})
		return
	}

	h.flash(c, entity.FlashSuccess, msgRegistered)
	response.Redirect(c, "/login")
}

// LoginForm GET /login
func (h *AuthHandler) LoginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", response.Page{Title: "Login", Form: loginForm{}})
}

// Login POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderError(c, http.StatusBadRequest, msgBadForm)
		return
	}

	sess, err := h.Auth.Login(c.Request.Context(), sid(c), form.Username, form.Password)
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		form.Password = ""
		h.render(c, http.StatusUnauthorized, "login.html", response.Page{Title: "Login", Form: form, Message: msgInvalidLogin})
		return
	case err != nil:
		h.fail(c, err, logrus.Fields{"username": form.Username})
		return
	}

	if err := h.Session.Attach(c, sess.ID); err != nil {
		h.fail(c, err, logrus.Fields{"username": sess.Username})
		return
	}
	h.flash(c, entity.FlashSuccess, msgLoggedIn)
	response.Redirect(c, "/dashboard")
}

// Logout GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Auth.Logout(c.Request.Context(), sid(c)); err != nil {
		h.fail(c, err, nil)
		return
	}
	h.flash(c, entity.FlashSuccess, msgLoggedOut)
	response.Redirect(c, "/login")
}
