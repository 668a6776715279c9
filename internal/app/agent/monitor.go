package agent

import (
	"context"
	"time"

	"golang.org/x/exp/slog"
)

// MonitorConfig holds the trigger cadences (~1s settle, ~30s poll),
// overridable mainly for tests.
type MonitorConfig struct {
	// ProbeInterval is how often connectivity is re-checked for the
	// offline->online edge.
	ProbeInterval time.Duration
	// SettleDelay is waited after a reconnect before syncing, to avoid
	// thrashing on flaky links.
	SettleDelay time.Duration
	// SyncInterval is the periodic re-check of the pending queue while online.
	SyncInterval time.Duration
}

func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		ProbeInterval: 5 * time.Second,
		SettleDelay:   time.Second,
		SyncInterval:  30 * time.Second,
	}
}

// Monitor decides WHEN to trigger a sync pass; it owns no sync logic. Either
// trigger suffices: the reconnect edge (after the settle delay) or the
// periodic poll when items are pending. Deduplication of back-to-back
// triggers is the engine's in-flight guard: triggers landing mid-pass are
// dropped, not queued.
type Monitor struct {
	online  func(ctx context.Context) bool
	engine  *SyncEngine
	storage Storage
	cfg     MonitorConfig
	log     *slog.Logger
}

func NewMonitor(online func(ctx context.Context) bool, engine *SyncEngine, storage Storage, cfg MonitorConfig, log *slog.Logger) *Monitor {
	return &Monitor{
		online:  online,
		engine:  engine,
		storage: storage,
		cfg:     cfg,
		log:     log.With("component", "connectivity_monitor"),
	}
}

// Run blocks until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	probeTicker := time.NewTicker(m.cfg.ProbeInterval)
	defer probeTicker.Stop()
	syncTicker := time.NewTicker(m.cfg.SyncInterval)
	defer syncTicker.Stop()

	wasOnline := m.online(ctx)
	m.log.Info("connectivity monitor started", "online", wasOnline)

	for {
		select {
		case <-ctx.Done():
			m.log.Info("connectivity monitor stopped")
			return

		case <-probeTicker.C:
			nowOnline := m.online(ctx)
			if nowOnline && !wasOnline {
				m.log.Info("connectivity restored", "settle_delay", m.cfg.SettleDelay)
				m.scheduleSettledSync(ctx)
			}
			if !nowOnline && wasOnline {
				m.log.Info("connectivity lost, mutations will queue locally")
			}
			wasOnline = nowOnline

		case <-syncTicker.C:
			if !wasOnline || m.engine.InFlight() {
				continue
			}
			count, err := m.storage.CountPending()
			if err != nil {
				m.log.Error("failed to count pending items", "error", err)
				continue
			}
			if count == 0 {
				continue
			}
			m.log.Debug("periodic trigger", "pending", count)
			m.engine.Sync(ctx)
		}
	}
}

func (m *Monitor) scheduleSettledSync(ctx context.Context) {
	go func() {
		select {
		case <-time.After(m.cfg.SettleDelay):
			m.engine.Sync(ctx)
		case <-ctx.Done():
		}
	}()
}
