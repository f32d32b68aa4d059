// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package callback reports a run's verdict to the remote system that
// requested the validation.
package callback

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/validardoc/internal/httputil"
	"github.com/pdiddy/validardoc/pkg/types"
)

// ErrCallbackTransport marks a callback that did not complete. It is logged,
// never returned to the pipeline.
var ErrCallbackTransport = errors.New("callback transport error")

// Notifier sends one GET per run to a fixed endpoint.
type Notifier struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewNotifier returns a Notifier for cfg. The client timeout bounds every
// notification.
func NewNotifier(cfg types.CallbackConfig, logger *zap.Logger) *Notifier {
	return NewNotifierWithClient(cfg.Endpoint, httputil.NewClient(cfg.HTTPConfig), logger)
}

// NewNotifierWithClient returns a Notifier using client.
func NewNotifierWithClient(endpoint string, client *http.Client, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{endpoint: endpoint, client: client, logger: logger}
}

// URL returns the request URL for rowID and status. Parameters keep the
// order rowID, resultValid.
func (n *Notifier) URL(rowID string, status types.Status) string {
	sep := "?"
	if strings.Contains(n.endpoint, "?") {
		sep = "&"
	}
	return n.endpoint + sep +
		"rowID=" + url.QueryEscape(rowID) +
		"&resultValid=" + url.QueryEscape(status.String())
}

// Notify delivers the verdict once. It always returns; failures are logged.
func (n *Notifier) Notify(ctx context.Context, rowID string, status types.Status) {
	target := n.URL(rowID, status)
	if err := n.send(ctx, target); err != nil {
		n.logger.Error("callback failed",
			zap.String("row_id", rowID),
			zap.String("result", status.String()),
			zap.Error(err))
		return
	}
	n.logger.Info("callback sent", zap.String("row_id", rowID), zap.String("result", status.String()))
}

func (n *Notifier) send(ctx context.Context, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("%w: creating request: %v", ErrCallbackTransport, err)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCallbackTransport, err)
	}
	defer httputil.Drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: HTTP %d", ErrCallbackTransport, resp.StatusCode)
	}
	return nil
}
