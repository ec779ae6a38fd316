package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/traveljournal/internal/client/classifier"
	"github.com/dmitrijs2005/traveljournal/internal/client/config"
	"github.com/dmitrijs2005/traveljournal/internal/client/connectivity"
	"github.com/dmitrijs2005/traveljournal/internal/client/models"
	"github.com/dmitrijs2005/traveljournal/internal/client/photos"
	"github.com/dmitrijs2005/traveljournal/internal/client/remote"
	"github.com/dmitrijs2005/traveljournal/internal/client/services"
	"github.com/dmitrijs2005/traveljournal/internal/client/storage"
	"github.com/dmitrijs2005/traveljournal/internal/logging"
	"github.com/dmitrijs2005/traveljournal/internal/telemetry"
)

// journalService is the part of services.JournalService the commands use.
type journalService interface {
	Add(ctx context.Context, in services.EntryInput) (*models.JournalEntry, error)
	List(ctx context.Context) ([]*models.JournalEntry, error)
	Get(ctx context.Context, id string) (*models.JournalEntry, error)
	Edit(ctx context.Context, id string, in services.EntryInput) (*models.JournalEntry, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) (int64, error)
	Search(ctx context.Context, text string) ([]*models.JournalEntry, error)
	Filter(ctx context.Context, f services.EntryFilter) ([]*models.JournalEntry, error)
}

// syncService is the part of services.SyncCoordinator the commands use.
type syncService interface {
	Trigger(ctx context.Context)
	SyncNow(ctx context.Context) (*services.PassReport, error)
	LastReport() *services.PassReport
	Pending() []services.RetryItem
}

type App struct {
	config  *config.Config
	journal journalService
	sync    syncService
	status  connectivity.Status
	reader  *bufio.Reader
	out     io.Writer
	log     logging.Logger

	monitor     *connectivity.Monitor
	probe       connectivity.Probe
	coordinator *services.SyncCoordinator
	closers     []func() error
}

// NewApp opens the local store and wires the connectivity monitor, the
// photo sources, the classifier, the remote client and the coordinator.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	store, err := storage.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	a := &App{
		config:  c,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		log:     log,
		monitor: connectivity.NewMonitor(log),
		closers: []func() error{store.Close},
	}
	a.status = a.monitor

	switch c.ProbeKind {
	case config.ProbeGRPC:
		p, err := connectivity.NewGRPCHealthProbe(c.ProbeAddr())
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("error creating grpc probe: %w", err)
		}
		a.probe = p
		a.closers = append(a.closers, p.Close)
	default:
		a.probe = connectivity.NewHTTPProbe(c.ProbeAddr())
	}

	src := photos.NewRouter(photos.FileSource{BaseDir: c.PhotosDir})
	if s3src, err := photos.NewS3Source(ctx, photos.S3Config{
		Region:    c.S3Region,
		Endpoint:  c.S3Endpoint,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
	}); err != nil {
		log.Warn(ctx, "s3 photo references disabled", "error", err)
	} else {
		src.Handle("s3", s3src)
	}

	cls := classifier.New(classifier.Options{
		Endpoint:          c.InferenceURL,
		Token:             c.InferenceToken,
		Timeout:           c.ClassifyTimeout,
		MaxImageDimension: c.MaxImageDimension,
	}, src, a.monitor, log)

	rc := remote.NewHTTPClient(remote.Options{
		BaseURL:  c.APIBaseURL,
		Timeout:  c.PushTimeout,
		Secret:   c.APISecret,
		DeviceID: c.DeviceID,
	}, a.monitor, log)

	metrics, err := telemetry.NewSyncMetrics()
	if err != nil {
		log.Warn(ctx, "sync metrics disabled", "error", err)
	}

	a.coordinator = services.NewSyncCoordinator(store.Entries(store.DB), cls, rc, a.monitor, log, services.CoordinatorOptions{
		Workers:  c.SyncWorkers,
		Metadata: store.Metadata(store.DB),
		Metrics:  metrics,
	})
	a.sync = a.coordinator
	a.journal = services.NewJournalService(store, store.DB, log)

	return a, nil
}

// Run starts the connectivity watcher and the REPL and blocks until the user
// exits or ctx is cancelled. In-flight sync passes are waited for.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.coordinator.Attach(ctx, a.monitor)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		connectivity.Watch(ctx, a.monitor, a.probe, a.config.OnlineCheckInterval, connectivity.DefaultProbeTimeout)
	}()

	a.Root(ctx)

	cancel()
	wg.Wait()
	a.coordinator.Wait()

	if err := a.Close(); err != nil {
		a.log.Error(ctx, "error closing resources", "error", err)
	}
}

func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

func (a *App) getStatus() string {
	s := "offline"
	if a.status.Online() {
		s = "online"
	}
	if n := len(a.sync.Pending()); n > 0 {
		s = fmt.Sprintf("%s, %d failed", s, n)
	}
	return fmt.Sprintf("(%s)", s)
}
