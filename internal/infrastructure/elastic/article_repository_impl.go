package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/MateusMartins/projetoPOS/internal/domain/entity"
	"github.com/MateusMartins/projetoPOS/internal/domain/repository"
)

// ArticlesMapping is the index mapping created at startup.
const ArticlesMapping = `{
  "mappings": {
    "properties": {
      "title":       {"type": "text", "fields": {"keyword": {"type": "keyword", "ignore_above": 256}}},
      "body":        {"type": "text"},
      "author":      {"type": "keyword"},
      "create_date": {"type": "date"}
    }
  }
}`

// refresh=wait_for makes writes visible to the next read, like a primary-store write.
const refreshPolicy = "wait_for"

type articleDoc struct {
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Author     string    `json:"author"`
	CreateDate time.Time `json:"create_date"`
}

type ArticleRepository struct {
	es         *elasticsearch.Client
	index      string
	maxResults int
	timeout    time.Duration
}

func NewArticleRepository(es *elasticsearch.Client, index string, maxResults int) *ArticleRepository {
	if maxResults <= 0 {
		maxResults = 10000
	}
	return &ArticleRepository{es: es, index: index, maxResults: maxResults, timeout: 5 * time.Second}
}

func (r *ArticleRepository) Create(ctx context.Context, a *entity.Article) error {
	body, err := json.Marshal(articleDoc{Title: a.Title, Body: a.Body, Author: a.Author, CreateDate: a.CreateDate.UTC()})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := esapi.IndexRequest{Index: r.index, Body: bytes.NewReader(body), Refresh: refreshPolicy}.Do(ctx, r.es)
	if err != nil {
		return fmt.Errorf("index article: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index article: %s", res.Status())
	}

	var out struct {
		ID string `json:"_id"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode index response: %w", err)
	}
	a.ID = out.ID
	return nil
}

func (r *ArticleRepository) Get(ctx context.Context, id string) (*entity.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := esapi.GetRequest{Index: r.index, DocumentID: id}.Do(ctx, r.es)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode == http.StatusNotFound {
		return nil, repository.ErrNotFound
	}
	if res.IsError() {
		return nil, fmt.Errorf("get article: %s", res.Status())
	}

	var out struct {
		ID     string     `json:"_id"`
		Found  bool       `json:"found"`
		Source articleDoc `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode article: %w", err)
	}
	if !out.Found {
		return nil, repository.ErrNotFound
	}
	a := toEntity(out.ID, out.Source)
	return &a, nil
}

func (r *ArticleRepository) List(ctx context.Context) ([]entity.Article, error) {
	return r.search(ctx, map[string]any{"match_all": map[string]any{}})
}

// Search runs a full-text match on title (boosted) and body.
func (r *ArticleRepository) Search(ctx context.Context, q string) ([]entity.Article, error) {
	if q == "" {
		return r.List(ctx)
	}
	return r.search(ctx, map[string]any{
		"multi_match": map[string]any{
			"query":  q,
			"fields": []string{"title^2", "body"},
		},
	})
}

func (r *ArticleRepository) search(ctx context.Context, query map[string]any) ([]entity.Article, error) {
	b, err := json.Marshal(map[string]any{"query": query, "size": r.maxResults})
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.es.Search(
		r.es.Search.WithContext(ctx),
		r.es.Search.WithIndex(r.index),
		r.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	out := []entity.Article{}
	// no index yet means no articles
	if res.StatusCode == http.StatusNotFound {
		return out, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("search articles: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string     `json:"_id"`
				Source articleDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	for _, h := range parsed.Hits.Hits {
		out = append(out, toEntity(h.ID, h.Source))
	}
	return out, nil
}

// Update sends a partial document so author and create_date are left untouched.
func (r *ArticleRepository) Update(ctx context.Context, id, title, body string) error {
	b, err := json.Marshal(map[string]any{"doc": map[string]string{"title": title, "body": body}})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := esapi.UpdateRequest{Index: r.index, DocumentID: id, Body: bytes.NewReader(b), Refresh: refreshPolicy}.Do(ctx, r.es)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode == http.StatusNotFound {
		return repository.ErrNotFound
	}
	if res.IsError() {
		return fmt.Errorf("update article: %s", res.Status())
	}
	return nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := esapi.DeleteRequest{Index: r.index, DocumentID: id, Refresh: refreshPolicy}.Do(ctx, r.es)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete article: %s", res.Status())
	}
	return nil
}

func toEntity(id string, d articleDoc) entity.Article {
	return entity.Article{ID: id, Title: d.Title, Body: d.Body, Author: d.Author, CreateDate: d.CreateDate.UTC()}
}

var _ repository.ArticleRepository = (*ArticleRepository)(nil)
