package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/MateusMartins/projetoPOS/internal/application"
	"github.com/MateusMartins/projetoPOS/internal/domain/entity"
	"github.com/MateusMartins/projetoPOS/internal/interface/middleware"
	"github.com/MateusMartins/projetoPOS/pkg/response"
)

type ArticleHandler struct {
	base
	Articles ArticleUseCase
}

func NewArticleHandler(articles ArticleUseCase, auth AuthUseCase, logger logrus.FieldLogger) *ArticleHandler {
	return &ArticleHandler{base: base{Auth: auth, Logger: logger}, Articles: articles}
}

type articleForm struct {
	Title string `form:"title"`
	Body  string `form:"body"`
}

func (f articleForm) input() application.ArticleInput {
	return application.ArticleInput{Title: f.Title, Body: f.Body}
}

// ArticleList is the view model of the list pages.
type ArticleList struct {
	Query    string
	Articles []entity.Article
}

// List GET /articles?q=
func (h *ArticleHandler) List(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	items, err := h.Articles.Search(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err, logrus.Fields{"q": q})
		return
	}
	p := response.Page{Title: "Articles", Data: ArticleList{Query: q, Articles: items}}
	if len(items) == 0 {
		p.Message = msgNoArticles
	}
	h.render(c, http.StatusOK, "articles.html", p)
}

// Show GET /article/:id
func (h *ArticleHandler) Show(c *gin.Context) {
	id := c.Param("id")
	a, err := h.Articles.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, logrus.Fields{"article_id": id})
		return
	}
	h.render(c, http.StatusOK, "article.html", response.Page{Title: a.Title, Data: a})
}

// Dashboard GET /dashboard
func (h *ArticleHandler) Dashboard(c *gin.Context) {
	items, err := h.Articles.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	p := response.Page{Title: "Dashboard", Data: ArticleList{Articles: items}}
	if len(items) == 0 {
		p.Message = msgNoArticles
	}
	h.render(c, http.StatusOK, "dashboard.html", p)
}

// AddForm GET /add_article
func (h *ArticleHandler) AddForm(c *gin.Context) {
	h.render(c, http.StatusOK, "add_article.html", response.Page{Title: "Add Article", Form: articleForm{}})
}

// Add POST /add_article
func (h *ArticleHandler) Add(c *gin.Context) {
	var form articleForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderError(c, http.StatusBadRequest, msgBadForm)
		return
	}
	author := c.GetString(middleware.CtxUsername)

	_, err := h.Articles.Create(c.Request.Context(), form.input(), author)
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		h.render(c, http.StatusOK, "add_article.html", response.Page{Title: "Add Article", Form: form, Errors: verr.Fields})
		return
	case err != nil:
		h.fail(c, err, logrus.Fields{"username": author})
		return
	}

	h.flash(c, entity.FlashSuccess, msgArticleCreated)
	response.Redirect(c, "/dashboard")
}

// EditView is the view model of the edit page.
type EditView struct {
	ID string
}

// EditForm GET /edit_article/:id
func (h *ArticleHandler) EditForm(c *gin.Context) {
	id := c.Param("id")
	a, err := h.Articles.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, logrus.Fields{"article_id": id})
		return
	}
	h.render(c, http.StatusOK, "edit_article.html", response.Page{
		Title: "Edit Article",
		Form:  articleForm{Title: a.Title, Body: a.Body},
		Data:  EditView{ID: a.ID},
	})
}

// Edit POST /edit_article/:id
func (h *ArticleHandler) Edit(c *gin.Context) {
	id := c.Param("id")
	var form articleForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderError(c, http.StatusBadRequest, msgBadForm)
		return
	}

	err := h.Articles.Update(c.Request.Context(), id, form.input())
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		h.render(c, http.StatusOK, "edit_article.html", response.Page{
			Title:  "Edit Article",
			Form:   form,
			Errors: verr.Fields,
			Data:   EditView{ID: id},
		})
		return
	case err != nil:
		h.fail(c, err, logrus.Fields{"article_id": id})
		return
	}

	h.flash(c, entity.FlashSuccess, msgArticleUpdated)
	response.Redirect(c, "/dashboard")
}

// Delete POST /delete_article/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.Articles.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, logrus.Fields{"article_id": id})
		return
	}
	h.flash(c, entity.FlashSuccess, msgArticleDeleted)
	response.Redirect(c, "/dashboard")
}
