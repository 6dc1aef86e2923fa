package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/MateusMartins/projetoPOS/internal/domain/entity"
	repo "github.com/MateusMartins/projetoPOS/internal/domain/repository"
)

var errDown = errors.New("connection refused")

type memUsers struct {
	mu    sync.Mutex
	rows  []entity.User
	err   error
	calls int
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	u.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, *u)
	return nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.rows {
		if u.Username == username {
			cp := u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

type memSessions struct {
	mu       sync.Mutex
	sessions map[string]entity.Session
	flashes  map[string][]entity.Flash
	err      error
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: map[string]entity.Session{}, flashes: map[string][]entity.Flash{}}
}

func (m *memSessions) Get(_ context.Context, sid string) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.sessions[sid]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &s, nil
}

func (m *memSessions) Save(_ context.Context, s *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sessions[s.ID] = *s
	return nil
}

func (m *memSessions) Delete(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.sessions, sid)
	return nil
}

func (m *memSessions) PushFlash(_ context.Context, sid string, f entity.Flash) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.flashes[sid] = append(m.flashes[sid], f)
	return nil
}

func (m *memSessions) PopFlashes(_ context.Context, sid string) ([]entity.Flash, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := m.flashes[sid]
	delete(m.flashes, sid)
	if out == nil {
		out = []entity.Flash{}
	}
	return out, nil
}

type memArticles struct {
	mu   sync.Mutex
	docs map[string]entity.Article
	seq  int
	err  error
	// gets counts Get calls so tests can see whether the store was touched
	gets int
}

func newMemArticles() *memArticles { return &memArticles{docs: map[string]entity.Article{}} }

func (m *memArticles) all(match func(entity.Article) bool) ([]entity.Article, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []entity.Article{}
	for _, a := range m.docs {
		if match(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memArticles) List(_ context.Context) ([]entity.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.all(func(entity.Article) bool { return true })
}

func (m *memArticles) Search(_ context.Context, q string) ([]entity.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.all(func(a entity.Article) bool {
		return q == "" || strings.Contains(a.Title, q) || strings.Contains(a.Body, q)
	})
}

func (m *memArticles) Get(_ context.Context, id string) (*entity.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.err != nil {
		return nil, m.err
	}
	a, ok := m.docs[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &a, nil
}

func (m *memArticles) Create(_ context.Context, a *entity.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.seq++
	a.ID = fmt.Sprintf("art%04d", m.seq)
	m.docs[a.ID] = *a
	return nil
}

func (m *memArticles) Update(_ context.Context, id, title, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	a, ok := m.docs[id]
	if !ok {
		return repo.ErrNotFound
	}
	a.Title, a.Body = title, body
	m.docs[id] = a
	return nil
}

func (m *memArticles) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.docs, id)
	return nil
}

type memQueue struct {
	jobs []any
	err  error
}

func (q *memQueue) PublishJSON(_ context.Context, body any) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, body)
	return nil
}
