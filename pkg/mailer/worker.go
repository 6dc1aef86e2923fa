package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mailtpl "github.com/MateusMartins/projetoPOS/pkg/mailer/templates"
)

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Outcome tells the consumer how to settle a delivery.
type Outcome int

const (
	Ack Outcome = iota
	Drop
	Retry
)

var ErrBadJob = errors.New("bad email job")

// Process decodes, renders and sends one queued job.
// Malformed or unrenderable jobs are dropped; send failures are retried.
func Process(ctx context.Context, s Sender, body []byte) (Outcome, error) {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return Drop, fmt.Errorf("%w: %v", ErrBadJob, err)
	}
	if strings.TrimSpace(job.To) == "" {
		return Drop, fmt.Errorf("%w: missing recipient", ErrBadJob)
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		var err error
		subject, text, html, err = mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return Drop, fmt.Errorf("%w: %v", ErrBadJob, err)
		}
	}
	if subject == "" || (text == "" && html == "") {
		return Drop, fmt.Errorf("%w: empty message", ErrBadJob)
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := s.Send(c, job.To, subject, text, html); err != nil {
		return Retry, fmt.Errorf("send to %s: %w", job.To, err)
	}
	return Ack, nil
}
