// Package remote posts finalized journal entries to the journal API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/traveljournal/internal/client/connectivity"
	"github.com/dmitrijs2005/traveljournal/internal/client/models"
	"github.com/dmitrijs2005/traveljournal/internal/common"
	"github.com/dmitrijs2005/traveljournal/internal/logging"
	"github.com/dmitrijs2005/traveljournal/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultTimeout = 10 * time.Second

	entriesPath       = "/entries"
	idempotencyHeader = "Idempotency-Key"
)

// Client pushes one entry per call. There is no retry; the caller decides
// what to do with a failed entry.
type Client interface {
	Push(ctx context.Context, e *models.JournalEntry) (*Ack, error)
}

// Ack is the server answer to an accepted push. Body is not interpreted.
type Ack struct {
	Status int
	Body   []byte
}

type Options struct {
	BaseURL string
	Timeout time.Duration

	// Secret signs a short-lived device token sent as a Bearer header.
	// Empty disables the header.
	Secret   string
	DeviceID string
}

type HTTPClient struct {
	opts   Options
	http   *http.Client
	status connectivity.Status
	log    logging.Logger
}

func NewHTTPClient(opts Options, status connectivity.Status, log logging.Logger) *HTTPClient {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &HTTPClient{
		opts:   opts,
		http:   &http.Client{},
		status: status,
		log:    log,
	}
}

func (c *HTTPClient) Push(ctx context.Context, e *models.JournalEntry) (ack *Ack, err error) {
	if !c.status.Online() {
		return nil, common.ErrNoConnectivity
	}

	ctx, span := telemetry.StartClientSpan(ctx, "remote", "push", attribute.String("entry.id", e.ID))
	defer func() { telemetry.End(span, err) }()

	wire, err := models.ToWire(e)
	if err != nil {
		return nil, fmt.Errorf("encode entry: %w", err)
	}
	body, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("encode entry: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+entriesPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(idempotencyHeader, IdempotencyKey(e.ID, body))

	if c.opts.Secret != "" {
		token, err := GenerateToken(c.opts.DeviceID, []byte(c.opts.Secret), tokenValidity)
		if err != nil {
			return nil, fmt.Errorf("sign device token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, mapError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, mapError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &common.RemoteError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}

	c.log.Debug(ctx, "entry pushed", "entry_id", e.ID, "status", resp.StatusCode)
	return &Ack{Status: resp.StatusCode, Body: raw}, nil
}

func mapError(err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return fmt.Errorf("%w: %w", common.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", common.ErrNetwork, err)
}
