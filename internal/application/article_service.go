package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MateusMartins/projetoPOS/internal/domain/entity"
	repo "github.com/MateusMartins/projetoPOS/internal/domain/repository"
	"github.com/MateusMartins/projetoPOS/internal/observability/metrics"
	"github.com/MateusMartins/projetoPOS/pkg/validation"
)

type ArticleService struct {
	Articles repo.ArticleRepository
	Logger   logrus.FieldLogger
	Now      func() time.Time
}

func NewArticleService(articles repo.ArticleRepository, logger logrus.FieldLogger) *ArticleService {
	return &ArticleService{Articles: articles, Logger: logger, Now: time.Now}
}

// ArticleInput is the editable part of an article. Lengths count characters, not bytes.
type ArticleInput struct {
	Title string `json:"title" validate:"min=1,max=200"`
	Body  string `json:"body" validate:"min=30"`
}

// List returns every article; an empty store gives an empty, non-nil slice.
func (s *ArticleService) List(ctx context.Context) ([]entity.Article, error) {
	out, err := s.Articles.List(ctx)
	if err != nil {
		return nil, s.storeFailure("list articles", err, nil)
	}
	if out == nil {
		out = []entity.Article{}
	}
	return out, nil
}

// Search matches q against title and body. A blank q lists everything.
func (s *ArticleService) Search(ctx context.Context, q string) ([]entity.Article, error) {
	out, err := s.Articles.Search(ctx, q)
	if err != nil {
		return nil, s.storeFailure("search articles", err, logrus.Fields{"q": q})
	}
	if out == nil {
		out = []entity.Article{}
	}
	return out, nil
}

func (s *ArticleService) Get(ctx context.Context, id string) (*entity.Article, error) {
	if !entity.ValidArticleID(id) {
		return nil, ErrArticleNotFound
	}
	a, err := s.Articles.Get(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, s.storeFailure("get article", err, logrus.Fields{"article_id": id})
	}
	return a, nil
}

// Create stores a new article by author and returns its id.
func (s *ArticleService) Create(ctx context.Context, in ArticleInput, author string) (string, error) {
	if fields := validation.Struct(in); fields != nil {
		return "", newValidationError(fields)
	}
	a := &entity.Article{Title: in.Title, Body: in.Body, Author: author, CreateDate: s.now().UTC()}
	if err := s.Articles.Create(ctx, a); err != nil {
		return "", s.storeFailure("create article", err, logrus.Fields{"username": author})
	}
	metrics.RecordArticleOperation("create")
	s.log().WithFields(logrus.Fields{"article_id": a.ID, "username": author}).Info("article created")
	return a.ID, nil
}

// Update replaces title and body; author and create date are kept.
// An unknown id is reported before any field error.
func (s *ArticleService) Update(ctx context.Context, id string, in ArticleInput) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if fields := validation.Struct(in); fields != nil {
		return newValidationError(fields)
	}
	err := s.Articles.Update(ctx, id, in.Title, in.Body)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrArticleNotFound
	}
	if err != nil {
		return s.storeFailure("update article", err, logrus.Fields{"article_id": id})
	}
	metrics.RecordArticleOperation("update")
	s.log().WithField("article_id", id).Info("article updated")
	return nil
}

// Delete removes the article. Unknown or malformed ids succeed without effect.
func (s *ArticleService) Delete(ctx context.Context, id string) error {
	if !entity.ValidArticleID(id) {
		return nil
	}
	if err := s.Articles.Delete(ctx, id); err != nil {
		return s.storeFailure("delete article", err, logrus.Fields{"article_id": id})
	}
	metrics.RecordArticleOperation("delete")
	s.log().WithField("article_id", id).Info("article deleted")
	return nil
}

func (s *ArticleService) storeFailure(op string, err error, fields logrus.Fields) error {
	metrics.RecordStoreError("elasticsearch")
	s.log().WithFields(fields).WithError(err).Error(op + " failed")
	return storeErr(op, err)
}

func (s *ArticleService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *ArticleService) log() logrus.FieldLogger { return orDiscard(s.Logger) }
