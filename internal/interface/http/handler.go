package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/MateusMartins/projetoPOS/internal/application"
	"github.com/MateusMartins/projetoPOS/internal/domain/entity"
	"github.com/MateusMartins/projetoPOS/internal/interface/middleware"
	"github.com/MateusMartins/projetoPOS/pkg/helpers"
	"github.com/MateusMartins/projetoPOS/pkg/response"
)

// AuthUseCase is what the handlers need from the auth service.
type AuthUseCase interface {
	Register(ctx context.Context, in application.RegisterInput) error
	Login(ctx context.Context, currentSID, username, password string) (*entity.Session, error)
	Logout(ctx context.Context, sid string) error
	CurrentSession(ctx context.Context, sid string) (*entity.Session, error)
	Flash(ctx context.Context, sid, category, message string) error
	TakeFlashes(ctx context.Context, sid string) ([]entity.Flash, error)
}

// ArticleUseCase is what the handlers need from the article service.
type ArticleUseCase interface {
	List(ctx context.Context) ([]entity.Article, error)
	Search(ctx context.Context, q string) ([]entity.Article, error)
	Get(ctx context.Context, id string) (*entity.Article, error)
	Create(ctx context.Context, in application.ArticleInput, author string) (string, error)
	Update(ctx context.Context, id string, in application.ArticleInput) error
	Delete(ctx context.Context, id string) error
}

const (
	msgSomethingWrong  = "Something went wrong"
	msgArticleNotFound = "Article not found"
	msgNoArticles      = "No articles found"
	msgInvalidLogin    = "Invalid username or password"
	msgRegistered      = "You are now registered and can log in"
	msgLoggedIn        = "You are now logged in"
	msgLoggedOut       = "You are now logged out"
	msgArticleCreated  = "Article created"
	msgArticleUpdated  = "Article updated"
	msgArticleDeleted  = "Article removed"
	msgPageNotFound    = "Page not found"
	msgBadForm         = "The form could not be read"
)

// base carries what every page needs: nav state, flashes and error mapping.
type base struct {
	Auth   AuthUseCase
	Logger logrus.FieldLogger
}

func sid(c *gin.Context) string { return c.GetString(middleware.CtxSessionID) }

// render fills session state and pending flashes into p, then renders name.
func (b *base) render(c *gin.Context, status int, name string, p response.Page) {
	ctx := c.Request.Context()
	if u := c.GetString(middleware.CtxUsername); u != "" {
		p.LoggedIn, p.Username = true, u
	} else if sess, err := b.Auth.CurrentSession(ctx, sid(c)); err == nil {
		p.LoggedIn, p.Username = true, sess.Username
	}

	flashes, err := b.Auth.TakeFlashes(ctx, sid(c))
	if err != nil {
		b.logError(c, "load flashes failed", err, nil)
	}
	for _, f := range flashes {
		p.Flashes = append(p.Flashes, response.Flash{Category: f.Category, Message: f.Message})
	}
	response.HTML(c, status, name, p)
}

func (b *base) flash(c *gin.Context, category, message string) {
	if err := b.Auth.Flash(c.Request.Context(), sid(c), category, message); err != nil {
		b.logError(c, "flash failed", err, nil)
	}
}

// fail maps a service error to an error page. Internal details are logged, never rendered.
func (b *base) fail(c *gin.Context, err error, fields logrus.Fields) {
	switch {
	case errors.Is(err, application.ErrArticleNotFound):
		b.renderError(c, http.StatusNotFound, msgArticleNotFound)
	default:
		b.logError(c, "request failed", err, fields)
		b.renderError(c, http.StatusInternalServerError, msgSomethingWrong)
	}
}

func (b *base) renderError(c *gin.Context, status int, message string) {
	b.render(c, status, "error.html", response.Page{Title: http.StatusText(status), Message: message})
}

func (b *base) logError(c *gin.Context, msg string, err error, fields logrus.Fields) {
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["request_id"] = c.GetString(middleware.CtxRequestID)
	fields["path"] = c.Request.URL.Path
	helpers.LogError(b.Logger, msg, err, fields)
}

// NotFound renders the 404 page for unknown routes.
func (b *base) NotFound(c *gin.Context) {
	b.renderError(c, http.StatusNotFound, msgPageNotFound)
}
