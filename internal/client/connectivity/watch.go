package connectivity

import (
	"context"
	"time"
)

const (
	// DefaultProbeTimeout bounds a single probe.
	DefaultProbeTimeout = 3 * time.Second

	// DefaultInterval is used when Watch is given a non-positive interval.
	DefaultInterval = 3 * time.Second
)

// Watch probes immediately and then every interval until ctx is done,
// reporting each result to m. A failed probe is reported as offline.
func Watch(ctx context.Context, m *Monitor, p Probe, interval, timeout time.Duration) {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	check := func() {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		err := p.Check(pctx)
		cancel()

		if ctx.Err() != nil {
			return
		}
		if err != nil {
			m.log.Debug(ctx, "connectivity probe failed", "error", err)
		}
		m.Report(err == nil)
	}

	check()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			check()
		case <-ctx.Done():
			return
		}
	}
}
