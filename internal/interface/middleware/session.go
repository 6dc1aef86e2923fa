package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/MateusMartins/projetoPOS/pkg/helpers"
)

// Context keys
const (
	CtxSessionID = "sid"
	CtxUsername  = "username"
	CtxRequestID = "request_id"
	CtxRealIP    = "real_ip"
)

// SessionCookie signs session ids into the "session" cookie.
type SessionCookie struct {
	JWT     *helpers.JWTManager
	Cookies *helpers.Manager
}

func NewSessionCookie(jwt *helpers.JWTManager, cookies *helpers.Manager) *SessionCookie {
	return &SessionCookie{JWT: jwt, Cookies: cookies}
}

// Attach binds sid to the client: it writes the cookie and stores sid in the request context.
func (s *SessionCookie) Attach(c *gin.Context, sid string) error {
	token, exp, err := s.JWT.IssueSessionToken(sid)
	if err != nil {
		return err
	}
	s.Cookies.SetSession(c, token, exp)
	c.Set(CtxSessionID, sid)
	return nil
}

// ClientSession gives every request a session id, reusing a valid cookie
// or minting a new anonymous id.
func ClientSession(s *SessionCookie, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(helpers.SessionCookieName); err == nil && raw != "" {
			if claims, err := s.JWT.ParseSessionToken(raw); err == nil {
				c.Set(CtxSessionID, claims.SessionID)
				c.Next()
				return
			}
		}
		if err := s.Attach(c, uuid.NewString()); err != nil {
			helpers.LogError(logger, "issue session cookie failed", err, logrus.Fields{"request_id": c.GetString(CtxRequestID)})
		}
		c.Next()
	}
}
