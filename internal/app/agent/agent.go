package agent

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"fieldsync/internal/app/agent/config"
	"fieldsync/internal/domain/emergency"
	"fieldsync/internal/domain/intervention"
	"fieldsync/internal/domain/pending"
)

const (
	cacheKeyInterventions = "interventions"
	cacheKeyEmergencies   = "emergencies"
)

// App wires the device-side subsystem: durable store, pending queue, sync
// engine, connectivity monitor, realtime feed and alerting.
type App struct {
	config   *config.Config
	log      *slog.Logger
	storage  Storage
	client   *httpClient
	gateway  Gateway
	engine   *SyncEngine
	monitor  *Monitor
	feed     emergency.Feed
	alerter  *Alerter
	cache    *EntityCache
	notifier *ConsoleNotifier
	tone     Toneplayer
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	client := newHTTPClient(cfg, log)

	var storage Storage
	sqliteStorage, err := NewSQLiteStorage(cfg.DataPath, log)
	if err != nil {
		log.Warn("failed to open SQLite store, falling back to memory", "error", err)
		storage = NewMemoryStorage()
	} else {
		storage = sqliteStorage
	}

	app := &App{
		config:   cfg,
		log:      log,
		storage:  storage,
		client:   client,
		notifier: NewConsoleNotifier(),
		tone:     ConsoleToneplayer{},
		cache:    NewEntityCache(time.Duration(cfg.CacheTTLSeconds) * time.Second),
	}

	app.gateway = newRemoteGateway(client)
	app.engine = NewSyncEngine(storage, app.gateway, app.Online, app.notifier, log)

	monitorCfg := MonitorConfig{
		ProbeInterval: 5 * time.Second,
		SettleDelay:   time.Duration(cfg.SettleDelayMillis) * time.Millisecond,
		SyncInterval:  time.Duration(cfg.SyncIntervalSeconds) * time.Second,
	}
	app.monitor = NewMonitor(app.Online, app.engine, storage, monitorCfg, log)

	app.feed = newWSFeed(cfg, log)
	hours := WorkHours{From: cfg.WorkHoursFrom, To: cfg.WorkHoursTo}
	app.alerter = NewAlerter(app.feed, app.tone, app.notifier, app.cache, hours, log)

	return app, nil
}

// Online probes the backend; used by the engine's offline check and the
// connectivity monitor.
func (a *App) Online(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return a.client.HealthCheck(probeCtx) == nil
}

// RecordMutation captures a local action into the pending queue. It never
// touches the network, and an enqueue failure surfaces to the caller so the
// user can be warned that the action was NOT captured.
func (a *App) RecordMutation(interventionID int64, payload pending.Payload) (*pending.Item, error) {
	if payload == nil {
		return nil, pending.ErrInvalidPayload
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	item := &pending.Item{
		Kind:           payload.Kind(),
		InterventionID: interventionID,
		Payload:        payload,
	}
	if item.Corrupt() {
		return nil, pending.ErrCorruptItem
	}

	if err := a.storage.AddPending(item); err != nil {
		return nil, fmt.Errorf("action was not captured: %w", err)
	}

	a.log.Debug("mutation queued",
		"item_id", item.ID,
		"kind", item.Kind,
		"intervention_id", interventionID,
	)
	return item, nil
}

// Sync runs one pass now (manual trigger); background triggers go through the
// monitor.
func (a *App) Sync(ctx context.Context) SyncResult {
	return a.engine.Sync(ctx)
}

func (a *App) SyncState() SyncState {
	return a.engine.State()
}

func (a *App) PendingItems() ([]pending.Item, error) {
	return a.storage.ListPending()
}

func (a *App) CleanupQueue() (int, error) {
	return a.storage.CleanupCorrupted()
}

// ResetQueue drops every queued mutation. Destructive; not part of any normal
// sync path.
func (a *App) ResetQueue() error {
	return a.storage.ClearPending()
}

// RefreshAll pulls fresh snapshots and replaces the local copies wholesale.
func (a *App) RefreshAll(ctx context.Context) error {
	interventions, err := a.client.FetchInterventions(ctx)
	if err != nil {
		return fmt.Errorf("refresh interventions: %w", err)
	}
	for i := range interventions {
		if err := a.storage.SaveIntervention(&interventions[i]); err != nil {
			return err
		}
	}
	a.cache.Set(cacheKeyInterventions, interventions)

	stock, err := a.client.FetchStock(ctx)
	if err != nil {
		return fmt.Errorf("refresh stock: %w", err)
	}
	if err := a.storage.ReplaceStock(stock); err != nil {
		return err
	}

	a.log.Info("snapshots refreshed",
		"interventions", len(interventions),
		"stock_items", len(stock),
	)
	return nil
}

// Interventions reads through the TTL cache, then the network, then the local
// snapshot when offline.
func (a *App) Interventions(ctx context.Context) ([]intervention.Intervention, error) {
	if cached, ok := a.cache.Get(cacheKeyInterventions); ok {
		return cached.([]intervention.Intervention), nil
	}

	interventions, err := a.client.FetchInterventions(ctx)
	if err != nil {
		a.log.Debug("falling back to local snapshot", "error", err)
		return a.storage.ListInterventions()
	}

	for i := range interventions {
		if err := a.storage.SaveIntervention(&interventions[i]); err != nil {
			return nil, err
		}
	}
	a.cache.Set(cacheKeyInterventions, interventions)
	return interventions, nil
}

// Stock prefers the live backend view and falls back to the local snapshot
// when offline.
func (a *App) Stock(ctx context.Context) ([]intervention.StockItem, error) {
	stock, err := a.client.FetchStock(ctx)
	if err != nil {
		a.log.Debug("falling back to local stock snapshot", "error", err)
		return a.storage.ListStock()
	}

	if err := a.storage.ReplaceStock(stock); err != nil {
		return nil, err
	}
	return stock, nil
}

// OpenEmergencies caches the open list briefly; realtime events invalidate
// the entry so a claim or cancel elsewhere is visible on the next read.
func (a *App) OpenEmergencies(ctx context.Context) ([]emergency.Emergency, error) {
	if cached, ok := a.cache.Get(cacheKeyEmergencies); ok {
		return cached.([]emergency.Emergency), nil
	}

	emergencies, err := a.client.ListOpenEmergencies(ctx)
	if err != nil {
		return nil, err
	}
	a.cache.Set(cacheKeyEmergencies, emergencies)
	return emergencies, nil
}

// ClaimEmergency races for an emergency. Exactly one toast: a win plays the
// claim tone and shows the bonus; a loss shows "already taken" and is never
// retried; a transport error reads "try again later" and is never a win.
func (a *App) ClaimEmergency(ctx context.Context, emergencyID int64) (*emergency.ClaimResult, error) {
	result, err := a.client.ClaimEmergency(ctx, emergencyID, a.config.UserID, a.config.UserName)
	if err != nil {
		a.notifier.ClaimUnavailable(err)
		return nil, err
	}

	if !result.Success {
		a.notifier.ClaimLost()
		return result, nil
	}

	a.tone.Play(ToneClaimWon)
	if result.Emergency != nil {
		a.notifier.ClaimWon(result.Emergency)
	}
	return result, nil
}

// RunBackground starts the connectivity monitor and the realtime alerter;
// both stop when ctx is cancelled.
func (a *App) RunBackground(ctx context.Context) {
	go a.monitor.Run(ctx)
	go a.alerter.Run(ctx)
}

func (a *App) Close() error {
	return a.storage.Close()
}

type ctxKey struct{}

// NewContext attaches the app to ctx for the CLI command tree.
func NewContext(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, ctxKey{}, app)
}

// FromContext retrieves the app attached by NewContext.
func FromContext(ctx context.Context) (*App, bool) {
	app, ok := ctx.Value(ctxKey{}).(*App)
	return app, ok
}
