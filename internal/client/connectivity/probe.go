package connectivity

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

var errUnhealthy = errors.New("endpoint unhealthy")

// Probe checks reachability once. A nil error means reachable.
type Probe interface {
	Check(ctx context.Context) error
}

// HTTPProbe sends a HEAD request to URL. Any response below 500 counts as
// reachable: the network path works even if the resource does not exist.
type HTTPProbe struct {
	URL    string
	Client *http.Client
}

func NewHTTPProbe(url string) *HTTPProbe {
	return &HTTPProbe{URL: url, Client: &http.Client{}}
}

func (p *HTTPProbe) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.URL, nil)
	if err != nil {
		return err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", errUnhealthy, resp.StatusCode)
	}
	return nil
}

// GRPCHealthProbe asks a grpc.health.v1 server whether Service is SERVING.
// An empty Service checks the server as a whole.
type GRPCHealthProbe struct {
	Service string

	conn   *grpc.ClientConn
	client healthpb.HealthClient
}

// NewGRPCHealthProbe creates a client for target. Without options the
// connection is plaintext.
func NewGRPCHealthProbe(target string, opts ...grpc.DialOption) (*GRPCHealthProbe, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, err
	}
	return &GRPCHealthProbe{conn: conn, client: healthpb.NewHealthClient(conn)}, nil
}

func (p *GRPCHealthProbe) Check(ctx context.Context) error {
	resp, err := p.client.Check(ctx, &healthpb.HealthCheckRequest{Service: p.Service})
	if err != nil {
		return err
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: %s", errUnhealthy, resp.GetStatus())
	}
	return nil
}

func (p *GRPCHealthProbe) Close() error {
	return p.conn.Close()
}
