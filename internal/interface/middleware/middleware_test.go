package middleware

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MateusMartins/projetoPOS/internal/application"
	"github.com/MateusMartins/projetoPOS/internal/domain/entity"
	"github.com/MateusMartins/projetoPOS/internal/observability/metrics"
	"github.com/MateusMartins/projetoPOS/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func newEngine() *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("error.html").Parse(`{{.Status}} {{.Message}}`)))
	return r
}

func quietLogger() logrus.FieldLogger {
	l, _ := test.NewNullLogger()
	return l
}

func newSessionCookie() *SessionCookie {
	return NewSessionCookie(helpers.NewJWTManager("test-secret", 0), helpers.NewCookie("", false))
}

func sessionCookieFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == helpers.SessionCookieName {
			return ck
		}
	}
	return nil
}

func TestClientSession(t *testing.T) {
	sc := newSessionCookie()
	r := newEngine()
	r.Use(ClientSession(sc, quietLogger()))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxSessionID)) })

	// first visit mints a session
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	ck := sessionCookieFrom(t, w)
	require.NotNil(t, ck)
	assert.True(t, ck.HttpOnly)
	sid := w.Body.String()
	assert.NotEmpty(t, sid)

	// the cookie is reused on the next request
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, sid, w.Body.String())
	assert.Nil(t, sessionCookieFrom(t, w))

	// a forged cookie is replaced
	forged, _, err := helpers.NewJWTManager("other-secret", 0).IssueSessionToken(sid)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: helpers.SessionCookieName, Value: forged})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, sid, w.Body.String())
	assert.NotNil(t, sessionCookieFrom(t, w))
}

type fakeChecker struct {
	sess    *entity.Session
	err     error
	flashes []entity.Flash
}

func (f *fakeChecker) CurrentSession(context.Context, string) (*entity.Session, error) {
	return f.sess, f.err
}

func (f *fakeChecker) Flash(_ context.Context, _ string, category, message string) error {
	f.flashes = append(f.flashes, entity.Flash{Category: category, Message: message})
	return nil
}

func guarded(checker SessionChecker, called *bool) *gin.Engine {
	r := newEngine()
	r.Use(func(c *gin.Context) { c.Set(CtxSessionID, "sid-1"); c.Next() })
	r.GET("/dashboard", RequireSession(checker, quietLogger()), func(c *gin.Context) {
		*called = true
		c.String(http.StatusOK, "hello "+c.GetString(CtxUsername))
	})
	return r
}

func TestRequireSession_Anonymous(t *testing.T) {
	checker := &fakeChecker{err: application.ErrNoSession}
	called := false
	w := httptest.NewRecorder()

	guarded(checker, &called).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.False(t, called, "guarded handler must not run")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, []entity.Flash{{Category: entity.FlashWarning, Message: "Unauthorized, please log in"}}, checker.flashes)
}

func TestRequireSession_LoggedIn(t *testing.T) {
	checker := &fakeChecker{sess: &entity.Session{ID: "sid-1", LoggedIn: true, Username: "alice"}}
	called := false
	w := httptest.NewRecorder()

	guarded(checker, &called).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello alice", w.Body.String())
}

func TestRequireSession_StoreDown(t *testing.T) {
	checker := &fakeChecker{err: application.ErrStoreUnavailable}
	called := false
	w := httptest.NewRecorder()

	guarded(checker, &called).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Something went wrong")
}

func TestRequestID(t *testing.T) {
	r := newEngine()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRequestID)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Body.String())
}

func TestRealIP(t *testing.T) {
	tests := []struct {
		name    string
		trust   bool
		headers map[string]string
		want    string
	}{
		{name: "cloudflare header", trust: true, headers: map[string]string{"CF-Connecting-IP": "203.0.113.7"}, want: "203.0.113.7"},
		{name: "left-most forwarded", trust: true, headers: map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"}, want: "198.51.100.1"},
		{name: "headers ignored when untrusted", trust: false, headers: map[string]string{"CF-Connecting-IP": "203.0.113.7"}, want: "192.0.2.1"},
		{name: "garbage header", trust: true, headers: map[string]string{"CF-Connecting-IP": "nope"}, want: "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine()
			_ = r.SetTrustedProxies(nil)
			r.Use(RealIP(tt.trust))
			r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRealIP)) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "192.0.2.1:1234"
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := newEngine()
	limited := RateLimit(rdb, 2, time.Minute, KeyByIPAndPath(), quietLogger())
	r.GET("/login", limited, func(c *gin.Context) { c.String(http.StatusOK, "form") })
	r.POST("/login", limited, func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	post := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("")))
		return w
	}

	assert.Equal(t, http.StatusOK, post().Code)
	w := post()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = post()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	g := httptest.NewRecorder()
	r.ServeHTTP(g, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, g.Code, "page loads are not limited")

	mr.FastForward(61 * time.Second)
	assert.Equal(t, http.StatusOK, post().Code)

	mr.Close()
	assert.Equal(t, http.StatusOK, post().Code, "redis failures fail open")
}

func TestRateLimit_DisabledWithoutRedis(t *testing.T) {
	r := newEngine()
	r.POST("/x", RateLimit(nil, 1, time.Minute, KeyByIPAndPath(), nil), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestMetrics(t *testing.T) {
	r := newEngine()
	r.Use(Metrics())
	r.GET("/article/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/article/:id", "200")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/article/abc", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestAccessLog(t *testing.T) {
	logger, hook := test.NewNullLogger()
	r := newEngine()
	r.Use(RequestIDMiddleware(), AccessLog(logger))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, http.StatusNotFound, entry.Data["status"])
	assert.Equal(t, "/missing", entry.Data["path"])
	assert.NotEmpty(t, entry.Data["request_id"])
}
