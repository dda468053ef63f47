package application

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"radar-austral/internal/notify"
	"radar-austral/internal/observability/metrics"
	"radar-austral/internal/radar/adapters"
	radar "radar-austral/internal/radar/domain"
	"radar-austral/internal/radar/infrastructure/memory"
)

// Fetcher retrieves one raw payload from a source endpoint.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Summarizer produces the narrative summary from recent content items.
type Summarizer interface {
	Summarize(ctx context.Context, items []radar.ContentItem) (radar.Summary, error)
}

// ConfigPersister stores source and settings mutations across restarts.
type ConfigPersister interface {
	SaveSources(sources []radar.Source) error
	SaveSettings(settings radar.Settings) error
}

// Engine owns the synchronization cycle: deciding which sources are due,
// fetching and normalizing them, merging into the store, and driving the
// notification and enrichment side effects. Merges run sequentially inside
// one pass; delivery and enrichment are detached and never delay the tick.
type Engine struct {
	cfg        Config
	clock      Clock
	fetcher    Fetcher
	adapters   *adapters.Registry
	sources    *SourceRegistry
	store      *memory.Store
	ledger     *Ledger
	alerter    notify.AlertCapability
	audio      notify.AudioCapability
	summarizer Summarizer
	persister  ConfigPersister
	logger     *log.Logger

	mu        sync.Mutex
	settings  radar.Settings
	lastFetch map[string]time.Time
	seeded    bool

	syncMu sync.Mutex
	wg     sync.WaitGroup

	// syncDelivery makes side effects run inline, for tests only.
	syncDelivery bool
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithClock overrides the time source.
func WithClock(clock Clock) EngineOption {
	return func(e *Engine) { e.clock = clock }
}

// WithAudio attaches an audio cue capability.
func WithAudio(audio notify.AudioCapability) EngineOption {
	return func(e *Engine) { e.audio = audio }
}

// WithSummarizer attaches the narrative enrichment backend.
func WithSummarizer(summarizer Summarizer) EngineOption {
	return func(e *Engine) { e.summarizer = summarizer }
}

// WithPersister attaches durable storage for source and settings edits.
func WithPersister(persister ConfigPersister) EngineOption {
	return func(e *Engine) { e.persister = persister }
}

// WithLogger overrides the engine logger.
func WithLogger(logger *log.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine wires an engine over its collaborators.
func NewEngine(
	cfg Config,
	fetcher Fetcher,
	adapterRegistry *adapters.Registry,
	sources *SourceRegistry,
	store *memory.Store,
	ledger *Ledger,
	alerter notify.AlertCapability,
	settings radar.Settings,
	opts ...EngineOption,
) (*Engine, error) {
	if fetcher == nil {
		return nil, errors.New("radar: fetcher is required")
	}
	if adapterRegistry == nil {
		return nil, errors.New("radar: adapter registry is required")
	}
	if sources == nil {
		return nil, errors.New("radar: source registry is required")
	}
	if store == nil {
		return nil, errors.New("radar: store is required")
	}
	if ledger == nil {
		ledger = NewLedger(cfg.LedgerCapacity)
	}
	if alerter == nil {
		return nil, errors.New("radar: alert capability is required")
	}
	if settings.DefaultPollMinutes <= 0 {
		settings.DefaultPollMinutes = cfg.DefaultPollMinutes
	}

	e := &Engine{
		cfg:       cfg,
		clock:     systemClock{},
		fetcher:   fetcher,
		adapters:  adapterRegistry,
		sources:   sources,
		store:     store,
		ledger:    ledger,
		alerter:   alerter,
		settings:  settings,
		lastFetch: make(map[string]time.Time),
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Ledger exposes the dedup ledger, for the metrics gauge.
func (e *Engine) Ledger() *Ledger { return e.ledger }

// Store exposes the live collections for the presentation layer.
func (e *Engine) Store() *memory.Store { return e.store }

// Sources returns the configured sources.
func (e *Engine) Sources() []radar.Source { return e.sources.List() }

// UpdateSource applies a patch and persists the new source set.
func (e *Engine) UpdateSource(id string, patch radar.SourcePatch) (radar.Source, error) {
	src, err := e.sources.Update(id, patch)
	if err != nil {
		return radar.Source{}, err
	}
	if e.persister != nil {
		if err := e.persister.SaveSources(e.sources.List()); err != nil {
			e.logger.Printf("engine: persisting sources failed: %v", err)
		}
	}
	return src, nil
}

// Settings returns the current settings snapshot.
func (e *Engine) Settings() radar.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// UpdateSettings replaces the settings and persists them. An interval below
// one minute falls back to the configured default.
func (e *Engine) UpdateSettings(settings radar.Settings) radar.Settings {
	if settings.DefaultPollMinutes <= 0 {
		settings.DefaultPollMinutes = e.cfg.DefaultPollMinutes
	}
	e.mu.Lock()
	e.settings = settings
	e.mu.Unlock()
	if e.persister != nil {
		if err := e.persister.SaveSettings(settings); err != nil {
			e.logger.Printf("engine: persisting settings failed: %v", err)
		}
	}
	return settings
}

// Sync runs one pass over the configured sources. With force set, every
// enabled source is fetched regardless of its interval. Passes never overlap;
// a concurrent caller waits for the running pass to finish.
func (e *Engine) Sync(ctx context.Context, force bool) {
	e.syncMu.Lock()
	defer e.syncMu.Unlock()

	now := e.clock.Now()
	bootstrap := e.markSeededOnce()
	itemsChanged := false

	for _, src := range e.sources.List() {
		if !src.Enabled {
			continue
		}
		if !force && !e.due(src, now) {
			continue
		}
		changed, err := e.syncSource(ctx, src)
		if err != nil {
			e.logger.Printf("engine: sync %s failed: %v", src.ID, err)
			continue
		}
		e.markFetched(src.ID, now)
		if changed {
			itemsChanged = true
		}
	}

	e.dispatchAlerts(bootstrap)
	if itemsChanged {
		e.triggerEnrichment()
	}
}

// Refresh runs a forced pass without blocking the caller.
func (e *Engine) Refresh() {
	e.detach(func() { e.Sync(context.Background(), true) })
}

// syncSource fetches and merges one source. It reports whether the item
// collection changed. The store is untouched when the fetch or parse fails,
// so previously merged data stays visible.
func (e *Engine) syncSource(ctx context.Context, src radar.Source) (bool, error) {
	adapter, ok := e.adapters.Lookup(src)
	if !ok {
		metrics.ObserveFetch(src.ID, metrics.ResultError, 0)
		return false, errors.New("radar: no adapter for source " + src.ID)
	}

	started := e.clock.Now()
	fetchCtx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout())
	payload, err := e.fetcher.Fetch(fetchCtx, src.Endpoint)
	cancel()
	if err != nil {
		metrics.ObserveFetch(src.ID, metrics.ResultError, time.Since(started))
		return false, err
	}

	result, err := adapter.Adapt(src, payload)
	if err != nil {
		metrics.ObserveFetch(src.ID, metrics.ResultError, time.Since(started))
		return false, err
	}
	metrics.ObserveFetch(src.ID, metrics.ResultSuccess, time.Since(started))

	changed := false
	if result.Items != nil {
		if e.store.MergeItems(src.Name, result.Items) {
			changed = true
		}
		metrics.AddRecordsNormalized(src.ID, len(result.Items))
	}
	if result.Alerts != nil {
		e.store.MergeAlerts(src.ID, result.Alerts)
		metrics.AddRecordsNormalized(src.ID, len(result.Alerts))
	}
	if result.Indicators != nil {
		e.store.SetIndicators(*result.Indicators)
		metrics.AddRecordsNormalized(src.ID, 1)
	}
	return changed, nil
}

// dispatchAlerts walks the merged alert collection and delivers every alert
// not seen before. The bootstrap pass seeds the ledger without notifying, so
// a restart does not replay history as fresh notifications.
func (e *Engine) dispatchAlerts(bootstrap bool) {
	settings := e.Settings()
	for _, alert := range e.store.Alerts() {
		if !e.ledger.Observe(alert.ID) {
			continue
		}
		if bootstrap {
			metrics.IncAlertSuppressed(metrics.SuppressBootstrap)
			continue
		}
		if !settings.NotificationsEnabled {
			metrics.IncAlertSuppressed(metrics.SuppressFiltered)
			continue
		}
		if settings.PriorityOnly && alert.Severity != radar.SeverityHigh {
			metrics.IncAlertSuppressed(metrics.SuppressFiltered)
			continue
		}
		e.detach(func() { e.deliver(alert, settings.SoundEnabled) })
	}
}

// deliver pushes one notification and the matching audio cue. Failures are
// logged and swallowed; delivery never feeds back into the sync cycle.
func (e *Engine) deliver(alert radar.Alert, sound bool) {
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.DeliveryTimeout())
	defer cancel()

	if e.alerter.Permission() != notify.PermissionGranted {
		metrics.IncAlertSuppressed(metrics.SuppressNoPermission)
	} else if err := e.alerter.Notify(ctx, alert.Title, alert.Description); err != nil {
		metrics.IncNotificationError()
		e.logger.Printf("engine: notify %s failed: %v", alert.ID, err)
	} else {
		metrics.IncAlertNotified(alert.Severity)
	}

	if sound && e.audio != nil {
		intensity := notify.IntensityNormal
		if alert.Severity == radar.SeverityHigh {
			intensity = notify.IntensityCritical
		}
		if err := e.audio.Chime(ctx, intensity); err != nil {
			e.logger.Printf("engine: chime failed: %v", err)
		}
	}
}

// triggerEnrichment kicks off a detached narrative run over the newest
// chronicle items. A failed run keeps the previous narrative in place.
func (e *Engine) triggerEnrichment() {
	if e.summarizer == nil {
		return
	}
	items := e.store.Items(radar.CategoryCronicas)
	if len(items) == 0 {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	if len(items) > e.cfg.EnrichmentItems {
		items = items[:e.cfg.EnrichmentItems]
	}

	e.detach(func() {
		started := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), 2*e.cfg.FetchTimeout())
		defer cancel()
		summary, err := e.summarizer.Summarize(ctx, items)
		if err != nil {
			metrics.ObserveEnrichment(metrics.ResultError, time.Since(started))
			e.logger.Printf("engine: enrichment failed: %v", err)
			return
		}
		metrics.ObserveEnrichment(metrics.ResultSuccess, time.Since(started))
		e.store.SetNarrative(summary)
	})
}

// detach runs fn on a tracked goroutine, or inline in synchronous test mode.
func (e *Engine) detach(fn func()) {
	if e.syncDelivery {
		fn()
		return
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		fn()
	}()
}

// Drain waits for detached deliveries and enrichment runs to finish.
func (e *Engine) Drain() { e.wg.Wait() }

// due reports whether the source's interval has elapsed since its last
// successful fetch. A failed fetch leaves lastFetch untouched, so the source
// is retried on the next tick.
func (e *Engine) due(src radar.Source, now time.Time) bool {
	e.mu.Lock()
	last, ok := e.lastFetch[src.ID]
	e.mu.Unlock()
	if !ok {
		return true
	}
	return now.Sub(last) >= e.effectiveInterval(src)
}

func (e *Engine) effectiveInterval(src radar.Source) time.Duration {
	minutes := src.PollIntervalMinutes
	if minutes <= 0 {
		minutes = e.Settings().DefaultPollMinutes
	}
	if minutes <= 0 {
		minutes = e.cfg.DefaultPollMinutes
	}
	return time.Duration(minutes) * time.Minute
}

func (e *Engine) markFetched(id string, when time.Time) {
	e.mu.Lock()
	e.lastFetch[id] = when
	e.mu.Unlock()
}

// markSeededOnce reports whether this pass is the bootstrap one, flipping the
// flag so every later pass notifies normally.
func (e *Engine) markSeededOnce() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.seeded {
		return false
	}
	e.seeded = true
	return true
}
