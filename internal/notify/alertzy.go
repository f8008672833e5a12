// Package notify delivers push notifications through the Alertzy service.
// Delivery is best effort: failures are logged and swallowed so they can
// never abort a booking run.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://alertzy.app"

// Alertzy sends (title, message) pairs to the Alertzy push endpoint.
type Alertzy struct {
	hc   *http.Client
	base string
	key  string
	log  *slog.Logger
}

func NewAlertzy(accountKey string, logger *slog.Logger) *Alertzy {
	return &Alertzy{
		hc:   &http.Client{Timeout: 10 * time.Second},
		base: defaultBaseURL,
		key:  accountKey,
		log:  logger,
	}
}

// NewAlertzyWithBaseURL exists for tests.
func NewAlertzyWithBaseURL(accountKey, baseURL string, logger *slog.Logger) *Alertzy {
	a := NewAlertzy(accountKey, logger)
	a.base = strings.TrimRight(baseURL, "/")
	return a
}

// Notify sends one push. A missing account key makes it a no-op.
func (a *Alertzy) Notify(ctx context.Context, title, message string) {
	if a.key == "" {
		return
	}
	if err := a.send(ctx, title, message); err != nil {
		a.log.Warn("push notification failed", "title", title, "err", err)
		return
	}
	a.log.Info("push notification sent", "title", title)
}

func (a *Alertzy) send(ctx context.Context, title, message string) error {
	q := url.Values{}
	q.Set("accountKey", a.key)
	q.Set("title", title)
	q.Set("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.base+"/send?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := a.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)
	if res.StatusCode != 200 {
		return fmt.Errorf("alertzy status %d", res.StatusCode)
	}
	return nil
}
