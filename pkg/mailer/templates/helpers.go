package templates

import (
	"strings"
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithLoginURL(url string) Option { return func(d *EmailData) { d.LoginURL = url } }

// NewBaseEmailData fills the common fields, then applies opts.
func NewBaseEmailData(appName, baseURL, typ, name, username, email string, opts ...Option) EmailData {
	base := strings.TrimRight(baseURL, "/")
	d := EmailData{
		Name:     name,
		Username: username,
		Email:    email,
		Type:     typ,
		AppName:  appName,
		BaseURL:  base,
	}
	if base != "" {
		d.LoginURL = base + "/login"
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// NewWelcomeData builds the payload for the registration welcome mail.
func NewWelcomeData(appName, baseURL, name, username, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(appName, baseURL, Welcome, name, username, email, opts...))
}
