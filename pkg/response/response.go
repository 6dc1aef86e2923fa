package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Flash struct {
	Category string
	Message  string
}

// Page is the view model handed to every HTML template.
type Page struct {
	Title     string
	Status    int
	Timestamp time.Time
	RequestID string
	LoggedIn  bool
	Username  string
	Flashes   []Flash
	Message   string            // page-level notice or error
	Errors    map[string]string // per-field form errors
	Form      any
	Data      any
}

// HTML renders template name with p, stamping status, time and request id.
func HTML(ctx *gin.Context, status int, name string, p Page) {
	if status == 0 {
		status = http.StatusOK
	}
	p.Status = status
	p.Timestamp = time.Now()
	p.RequestID = ctx.GetString("request_id")
	ctx.HTML(status, name, p)
}

// Error renders the generic error page with a short human-readable message.
func Error(ctx *gin.Context, status int, message string, p Page) {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if p.Title == "" {
		p.Title = http.StatusText(status)
	}
	p.Message = message
	HTML(ctx, status, "error.html", p)
}

// Redirect issues a 302 so a refreshed page does not resubmit the form.
func Redirect(ctx *gin.Context, location string) {
	ctx.Redirect(http.StatusFound, location)
}
