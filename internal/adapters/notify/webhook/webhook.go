// Package webhook entrega avisos como POST JSON a una URL configurada.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-meds/internal/domain/reminders"
	"pet-meds/internal/platform/httpclient"
)

var ErrNotConfigured = errors.New("webhook url not configured")

type Config struct {
	URL string
	// Token opcional; se manda como "Authorization: Bearer <token>".
	Token   string
	Timeout time.Duration
	Retries int
}

type Notifier struct {
	url     string
	headers map[string]string
	client  *httpclient.Client
}

func New(cfg Config) (*Notifier, error) {
	u := strings.TrimSpace(cfg.URL)
	if u == "" {
		return nil, ErrNotConfigured
	}
	if err := httpclient.ValidateURL(u); err != nil {
		return nil, fmt.Errorf("webhook: %w", err)
	}

	headers := map[string]string{}
	if t := strings.TrimSpace(cfg.Token); t != "" {
		headers["Authorization"] = "Bearer " + t
	}

	return &Notifier{
		url:     u,
		headers: headers,
		client: httpclient.New(httpclient.Options{
			Timeout:   cfg.Timeout,
			Retries:   cfg.Retries,
			UserAgent: "pet-meds-reminders",
		}),
	}, nil
}

// payload es el cuerpo enviado; Notification ya trae los tags JSON.
type payload struct {
	Event string `json:"event"`
	reminders.Notification
}

func (n *Notifier) Notify(ctx context.Context, x reminders.Notification) error {
	return n.client.PostJSON(ctx, n.url, n.headers, payload{Event: "medication.reminder", Notification: x})
}
