package entity

import "time"

// Session is the server-tracked login state of one browser client.
type Session struct {
	ID        string
	LoggedIn  bool
	Username  string
	CreatedAt time.Time
}

// Flash categories
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

// Flash is a one-time message shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}
