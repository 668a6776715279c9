package agent

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"fieldsync/internal/domain/pending"
)

func fastMonitorConfig() MonitorConfig {
	return MonitorConfig{
		ProbeInterval: 10 * time.Millisecond,
		SettleDelay:   20 * time.Millisecond,
		SyncInterval:  25 * time.Millisecond,
	}
}

func TestMonitor_ReconnectTriggersSyncAfterSettle(t *testing.T) {
	storage := NewMemoryStorage()
	gateway := newFakeGateway()

	var connected atomic.Bool
	probe := func(context.Context) bool { return connected.Load() }
	engine := NewSyncEngine(storage, gateway, probe, nil, slog.Default())
	monitor := NewMonitor(probe, engine, storage, fastMonitorConfig(), slog.Default())

	item := &pending.Item{
		Kind:           pending.KindNote,
		InterventionID: 1,
		Payload:        pending.NotePayload{},
	}
	require.NoError(t, storage.AddPending(item))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go monitor.Run(ctx)

	// Stays queued while offline.
	time.Sleep(60 * time.Millisecond)
	count, _ := storage.CountPending()
	assert.Equal(t, 1, count)

	connected.Store(true)

	require.Eventually(t, func() bool {
		count, _ := storage.CountPending()
		return count == 0
	}, time.Second, 10*time.Millisecond, "reconnect edge drains the queue")
}

func TestMonitor_PeriodicTriggerWhileOnline(t *testing.T) {
	storage := NewMemoryStorage()
	gateway := newFakeGateway()
	engine := NewSyncEngine(storage, gateway, online, nil, slog.Default())
	monitor := NewMonitor(online, engine, storage, fastMonitorConfig(), slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go monitor.Run(ctx)

	// Enqueued after startup: no reconnect edge, the periodic poll must
	// pick it up.
	time.Sleep(15 * time.Millisecond)
	item := &pending.Item{
		Kind:           pending.KindNote,
		InterventionID: 7,
		Payload:        pending.NotePayload{},
	}
	require.NoError(t, storage.AddPending(item))

	require.Eventually(t, func() bool {
		return gateway.callCount(item.ID) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestMonitor_NoTriggerWhileOffline(t *testing.T) {
	storage := NewMemoryStorage()
	gateway := newFakeGateway()
	engine := NewSyncEngine(storage, gateway, offline, nil, slog.Default())
	monitor := NewMonitor(offline, engine, storage, fastMonitorConfig(), slog.Default())

	item := &pending.Item{
		Kind:           pending.KindNote,
		InterventionID: 1,
		Payload:        pending.NotePayload{},
	}
	require.NoError(t, storage.AddPending(item))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go monitor.Run(ctx)

	time.Sleep(100 * time.Millisecond)

	assert.Empty(t, gateway.calls)
	count, _ := storage.CountPending()
	assert.Equal(t, 1, count)
}
