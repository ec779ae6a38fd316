package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/traveljournal/internal/client/classifier"
	"github.com/dmitrijs2005/traveljournal/internal/client/connectivity"
	"github.com/dmitrijs2005/traveljournal/internal/client/models"
	"github.com/dmitrijs2005/traveljournal/internal/client/remote"
	"github.com/dmitrijs2005/traveljournal/internal/client/repositories/entries"
	"github.com/dmitrijs2005/traveljournal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/traveljournal/internal/common"
	"github.com/dmitrijs2005/traveljournal/internal/logging"
	"github.com/dmitrijs2005/traveljournal/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultWorkers = 4

	MetaLastSyncAt      = "last_sync_at"
	MetaLastSyncSummary = "last_sync_summary"
)

var ErrSyncInProgress = errors.New("sync already in progress")

// Subscriber is the part of connectivity.Monitor the coordinator listens to.
type Subscriber interface {
	Subscribe(l connectivity.Listener)
}

type CoordinatorOptions struct {
	// Workers bounds how many entries are processed at once.
	Workers int

	// Metadata, when set, receives the time and summary of each pass.
	Metadata metadata.Repository

	Metrics *telemetry.SyncMetrics
	Now     func() time.Time
}

// SyncCoordinator pushes offline entries to the remote service whenever
// connectivity comes back. Passes never overlap: triggers that arrive while a
// pass runs are folded into a single follow-up pass.
type SyncCoordinator struct {
	repo       entries.Repository
	classifier classifier.Classifier
	remote     remote.Client
	status     connectivity.Status
	log        logging.Logger

	meta    metadata.Repository
	metrics *telemetry.SyncMetrics
	workers int
	now     func() time.Time

	running atomic.Bool
	rerun   atomic.Bool
	wg      sync.WaitGroup

	mu     sync.Mutex
	states map[string]EntryState
	retry  map[string]RetryItem
	last   *PassReport
}

func NewSyncCoordinator(
	repo entries.Repository,
	cls classifier.Classifier,
	rc remote.Client,
	status connectivity.Status,
	log logging.Logger,
	opts CoordinatorOptions,
) *SyncCoordinator {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &SyncCoordinator{
		repo:       repo,
		classifier: cls,
		remote:     rc,
		status:     status,
		log:        log,
		meta:       opts.Metadata,
		metrics:    opts.Metrics,
		workers:    opts.Workers,
		now:        opts.Now,
		states:     make(map[string]EntryState),
		retry:      make(map[string]RetryItem),
	}
}

// Attach subscribes the coordinator to connectivity changes. Every
// offline to online edge triggers a pass bound to ctx.
func (c *SyncCoordinator) Attach(ctx context.Context, s Subscriber) {
	s.Subscribe(func(online bool) {
		if online {
			c.Trigger(ctx)
		}
	})
}

// Trigger asks for a pass and returns immediately. If a pass is already
// running, one more pass runs after it finishes.
func (c *SyncCoordinator) Trigger(ctx context.Context) {
	c.rerun.Store(true)
	if !c.running.CompareAndSwap(false, true) {
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.drain(ctx)
	}()
}

func (c *SyncCoordinator) drain(ctx context.Context) {
	for {
		for c.rerun.Swap(false) {
			if ctx.Err() != nil || !c.status.Online() {
				continue
			}
			c.runPass(ctx)
		}

		c.running.Store(false)

		// a Trigger may have landed between the last Swap and the Store
		if !c.rerun.Load() || !c.running.CompareAndSwap(false, true) {
			return
		}
	}
}

// SyncNow runs one pass synchronously and returns its report.
func (c *SyncCoordinator) SyncNow(ctx context.Context) (*PassReport, error) {
	if !c.status.Online() {
		return nil, common.ErrNoConnectivity
	}
	if !c.running.CompareAndSwap(false, true) {
		return nil, ErrSyncInProgress
	}

	c.rerun.Store(false)
	report := c.runPass(ctx)
	c.running.Store(false)

	if c.rerun.Load() {
		c.Trigger(ctx)
	}
	return report, report.Err
}

// Wait blocks until background passes started by Trigger have finished.
func (c *SyncCoordinator) Wait() {
	c.wg.Wait()
}

// LastReport returns the most recent finished pass, or nil.
func (c *SyncCoordinator) LastReport() *PassReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Pending returns entries that failed on an earlier pass, sorted by id.
func (c *SyncCoordinator) Pending() []RetryItem {
	c.mu.Lock()
	items := make([]RetryItem, 0, len(c.retry))
	for _, it := range c.retry {
		items = append(items, it)
	}
	c.mu.Unlock()

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// State returns the last state recorded for id.
func (c *SyncCoordinator) State(id string) (EntryState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.states[id]
	return s, ok
}

func (c *SyncCoordinator) runPass(ctx context.Context) (report *PassReport) {
	report = &PassReport{StartedAt: c.now()}

	ctx, span := telemetry.StartSpan(ctx, "sync", "pass")
	defer func() { telemetry.End(span, report.Err) }()

	list, err := c.repo.ListUnsynced(ctx)
	if err != nil {
		report.Err = fmt.Errorf("%w: %w", common.ErrPersistence, err)
		report.FinishedAt = c.now()
		c.log.Error(ctx, "sync pass cannot list entries", "error", err)
		c.finish(ctx, report)
		return report
	}

	c.prune(list)
	c.log.Info(ctx, "sync pass started", "pending", len(list))

	outcomes := make([]EntryOutcome, len(list))
	for i, e := range list {
		outcomes[i] = EntryOutcome{ID: e.ID, State: StatePending}
		c.setState(e.ID, StatePending)
	}

	var aborted atomic.Bool
	stop := func() bool {
		if aborted.Load() || ctx.Err() != nil || !c.status.Online() {
			aborted.Store(true)
			return true
		}
		return false
	}

	g := new(errgroup.Group)
	g.SetLimit(c.workers)

	for i, e := range list {
		if stop() {
			break
		}
		// g.Go may block until a worker frees up, so the check is repeated
		// once the entry actually starts.
		g.Go(func() error {
			if stop() {
				return nil
			}
			outcomes[i] = c.syncEntry(ctx, e, &aborted)
			return nil
		})
	}
	_ = g.Wait()

	report.Outcomes = outcomes
	report.Aborted = aborted.Load()
	report.FinishedAt = c.now()
	for _, o := range outcomes {
		switch o.State {
		case StateSynced:
			report.Synced++
		case StateFailed:
			report.Failed++
		default:
			report.Skipped++
		}
		c.metrics.RecordEntry(ctx, o.State.String())
	}

	c.log.Info(ctx, "sync pass finished",
		"synced", report.Synced,
		"failed", report.Failed,
		"skipped", report.Skipped,
		"aborted", report.Aborted,
		"duration", report.FinishedAt.Sub(report.StartedAt),
	)
	c.finish(ctx, report)
	return report
}

func (c *SyncCoordinator) finish(ctx context.Context, report *PassReport) {
	c.mu.Lock()
	c.last = report
	c.mu.Unlock()

	c.metrics.RecordPass(ctx, report.FinishedAt.Sub(report.StartedAt), report.Aborted)

	if c.meta == nil || report.Err != nil {
		return
	}
	summary := fmt.Sprintf("synced=%d failed=%d skipped=%d aborted=%t",
		report.Synced, report.Failed, report.Skipped, report.Aborted)
	if err := c.meta.Set(ctx, MetaLastSyncAt, models.FormatTime(report.FinishedAt)); err != nil {
		c.log.Warn(ctx, "cannot store last sync time", "error", err)
	}
	if err := c.meta.Set(ctx, MetaLastSyncSummary, summary); err != nil {
		c.log.Warn(ctx, "cannot store last sync summary", "error", err)
	}
}

// syncEntry runs classify, push and persist for one entry. Failures stay
// local to the entry; only a push that finds no connectivity stops the pass.
func (c *SyncCoordinator) syncEntry(ctx context.Context, e *models.JournalEntry, aborted *atomic.Bool) (out EntryOutcome) {
	log := c.log.With("entry_id", e.ID)
	out = EntryOutcome{ID: e.ID}

	ctx, span := telemetry.StartSpan(ctx, "sync", "entry", attribute.String("entry.id", e.ID))
	defer func() { telemetry.End(span, out.Err) }()

	tags := models.MergeTags(e.Tags)

	if e.NeedsEnrichment() {
		c.setState(e.ID, StateClassifying)
		var err error
		tags, err = c.enrich(ctx, log, e)
		if len(tags) == 0 {
			if err != nil {
				err = fmt.Errorf("%w: %w", common.ErrNoTags, err)
			} else {
				err = common.ErrNoTags
			}
			return c.fail(ctx, log, e.ID, err)
		}
	}

	c.setState(e.ID, StatePushing)

	// Once dispatched, push and persist run to completion even if the pass
	// is cancelled; both keep their own timeouts.
	work := context.WithoutCancel(ctx)

	payload := e.Clone()
	payload.Tags = tags
	if _, err := c.remote.Push(work, payload); err != nil {
		if errors.Is(err, common.ErrNoConnectivity) {
			aborted.Store(true)
		}
		return c.fail(ctx, log, e.ID, err)
	}

	if err := c.repo.Update(work, e.ID, models.SyncedPatch(tags)); err != nil {
		return c.fail(ctx, log, e.ID, fmt.Errorf("%w: %w", common.ErrPersistence, err))
	}

	c.mu.Lock()
	c.states[e.ID] = StateSynced
	delete(c.retry, e.ID)
	c.mu.Unlock()

	log.Info(ctx, "entry synced", "tags", tags)
	return EntryOutcome{ID: e.ID, State: StateSynced, Tags: tags}
}

// enrich classifies every photo and unions the labels. A photo that fails
// contributes nothing; the last error is returned for reporting.
func (c *SyncCoordinator) enrich(ctx context.Context, log logging.Logger, e *models.JournalEntry) ([]string, error) {
	var (
		labels  []string
		lastErr error
	)
	for _, ref := range e.Photos {
		got, err := c.classifier.Classify(ctx, ref)
		if err != nil {
			log.Warn(ctx, "photo classification failed", "photo", ref, "error", err)
			lastErr = err
			continue
		}
		labels = models.MergeTags(labels, got)
	}
	return models.MergeTags(labels), lastErr
}

func (c *SyncCoordinator) fail(ctx context.Context, log logging.Logger, id string, err error) EntryOutcome {
	c.mu.Lock()
	c.states[id] = StateFailed
	it := c.retry[id]
	it.ID = id
	it.Attempts++
	it.LastError = err.Error()
	it.LastAttempt = c.now()
	c.retry[id] = it
	c.mu.Unlock()

	log.Warn(ctx, "entry left offline", "error", err, "transient", common.IsTransient(err))
	return EntryOutcome{ID: id, State: StateFailed, Err: err}
}

// prune drops retry and state records of entries that are no longer
// offline, e.g. deleted or cleared since the last pass.
func (c *SyncCoordinator) prune(list []*models.JournalEntry) {
	live := make(map[string]struct{}, len(list))
	for _, e := range list {
		live[e.ID] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for id := range c.retry {
		if _, ok := live[id]; !ok {
			delete(c.retry, id)
		}
	}
	for id, st := range c.states {
		if _, ok := live[id]; !ok && st != StateSynced {
			delete(c.states, id)
		}
	}
}

func (c *SyncCoordinator) setState(id string, s EntryState) {
	c.mu.Lock()
	c.states[id] = s
	c.mu.Unlock()
}
