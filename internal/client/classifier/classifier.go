// Package classifier turns journal photos into tags using a hosted image
// classification model (Hugging Face inference API wire format).
//
// A request posts the image as a base64 data URL:
//
//	{"inputs": "data:image/jpeg;base64,<...>"}
//
// and the model answers with predictions in its own order:
//
//	[{"label": "seashore, coast, seacoast", "score": 0.91}, ...]
//
// Labels scoring above MinScore are kept, at most MaxLabels of them, and
// each label is shortened to the text before its first comma.
package classifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/traveljournal/internal/client/connectivity"
	"github.com/dmitrijs2005/traveljournal/internal/client/photos"
	"github.com/dmitrijs2005/traveljournal/internal/common"
	"github.com/dmitrijs2005/traveljournal/internal/logging"
	"github.com/dmitrijs2005/traveljournal/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

const (
	MinScore       = 0.1
	MaxLabels      = 5
	DefaultTimeout = 30 * time.Second
)

// Classifier returns tags for one photo reference.
type Classifier interface {
	Classify(ctx context.Context, ref string) ([]string, error)
}

// Prediction is one element of the model response.
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type Options struct {
	Endpoint string
	Token    string
	Timeout  time.Duration

	// MaxImageDimension downscales larger images before upload. Zero keeps
	// the original bytes.
	MaxImageDimension int
}

// HTTPClassifier calls the inference endpoint over HTTP.
type HTTPClassifier struct {
	opts   Options
	http   *http.Client
	photos photos.Source
	status connectivity.Status
	log    logging.Logger
}

func New(opts Options, src photos.Source, status connectivity.Status, log logging.Logger) *HTTPClassifier {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &HTTPClassifier{
		opts:   opts,
		http:   &http.Client{},
		photos: src,
		status: status,
		log:    log,
	}
}

func (c *HTTPClassifier) Classify(ctx context.Context, ref string) (labels []string, err error) {
	if !c.status.Online() {
		return nil, common.ErrNoConnectivity
	}

	ctx, span := telemetry.StartClientSpan(ctx, "classifier", "classify", attribute.String("photo.ref", ref))
	defer func() { telemetry.End(span, err) }()

	img, err := c.photos.Read(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrImageRead, err)
	}
	img = downscale(img, c.opts.MaxImageDimension)

	body, err := json.Marshal(map[string]string{
		"inputs": "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(img),
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.Token)
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
		return nil, &common.RemoteError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, raw)}
	}

	var preds []Prediction
	if err := json.Unmarshal(raw, &preds); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDecode, err)
	}

	labels = FilterLabels(preds)
	c.log.Debug(ctx, "photo classified", "ref", ref, "predictions", len(preds), "labels", labels)
	return labels, nil
}

// FilterLabels keeps predictions scoring above MinScore, takes the first
// MaxLabels in model order and normalises each label.
func FilterLabels(preds []Prediction) []string {
	out := make([]string, 0, MaxLabels)
	kept := 0
	for _, p := range preds {
		if kept == MaxLabels {
			break
		}
		if p.Score <= MinScore {
			continue
		}
		kept++
		if l := NormalizeLabel(p.Label); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// NormalizeLabel returns the text before the first comma, trimmed.
func NormalizeLabel(label string) string {
	head, _, _ := strings.Cut(label, ",")
	return strings.TrimSpace(head)
}

func errorMessage(status int, body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return fmt.Sprintf("API Error: %d", status)
}

func mapError(err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return fmt.Errorf("%w: %w", common.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", common.ErrNetwork, err)
}
