package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/MateusMartins/projetoPOS/internal/application"
	"github.com/MateusMartins/projetoPOS/internal/domain/entity"
	"github.com/MateusMartins/projetoPOS/pkg/helpers"
	"github.com/MateusMartins/projetoPOS/pkg/response"
)

// SessionChecker is the part of the auth service the guard needs.
type SessionChecker interface {
	CurrentSession(ctx context.Context, sid string) (*entity.Session, error)
	Flash(ctx context.Context, sid, category, message string) error
}

const unauthorizedMessage = "Unauthorized, please log in"

// RequireSession lets the request through only with a logged-in session.
// Anonymous clients get a warning flash and a redirect to /login.
func RequireSession(auth SessionChecker, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sid := c.GetString(CtxSessionID)

		sess, err := auth.CurrentSession(ctx, sid)
		if err == nil {
			c.Set(CtxUsername, sess.Username)
			c.Next()
			return
		}
		if !errors.Is(err, application.ErrNoSession) {
			helpers.LogError(logger, "session lookup failed", err, logrus.Fields{"request_id": c.GetString(CtxRequestID), "path": c.Request.URL.Path})
			response.Error(c, http.StatusInternalServerError, "Something went wrong", response.Page{})
			c.Abort()
			return
		}

		if sid != "" {
			if err := auth.Flash(ctx, sid, entity.FlashWarning, unauthorizedMessage); err != nil {
				helpers.LogError(logger, "flash failed", err, logrus.Fields{"request_id": c.GetString(CtxRequestID)})
			}
		}
		response.Redirect(c, "/login")
		c.Abort()
	}
}
