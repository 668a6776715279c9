package agent

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"fieldsync/internal/domain/pending"
)

// fakeGateway records every dispatch and fails the item ids it is told to.
type fakeGateway struct {
	mu      sync.Mutex
	calls   []pending.Item
	failIDs map[int64]error
	blockOn chan struct{}
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{failIDs: make(map[int64]error)}
}

func (g *fakeGateway) Dispatch(_ context.Context, item pending.Item) error {
	g.mu.Lock()
	g.calls = append(g.calls, item)
	block := g.blockOn
	g.mu.Unlock()

	if block != nil {
		<-block
	}
	if err, ok := g.failIDs[item.ID]; ok {
		return err
	}
	return nil
}

func (g *fakeGateway) callCount(id int64) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, item := range g.calls {
		if item.ID == id {
			n++
		}
	}
	return n
}

// fakeNotifier records summaries; one entry per pass that produced output.
type fakeNotifier struct {
	mu        sync.Mutex
	summaries []SyncResult
}

func (n *fakeNotifier) SyncSummary(success, failed int, errs []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.summaries = append(n.summaries, SyncResult{Success: success, Failed: failed, Errors: errs})
}

func online(context.Context) bool  { return true }
func offline(context.Context) bool { return false }

func newTestEngine(t *testing.T, connected func(context.Context) bool) (*SyncEngine, *MemoryStorage, *fakeGateway, *fakeNotifier) {
	t.Helper()
	storage := NewMemoryStorage()
	gateway := newFakeGateway()
	notifier := &fakeNotifier{}
	engine := NewSyncEngine(storage, gateway, connected, notifier, slog.Default())
	return engine, storage, gateway, notifier
}

func enqueue(t *testing.T, storage Storage, interventionID int64, payload pending.Payload) *pending.Item {
	t.Helper()
	item := &pending.Item{
		Kind:           payload.Kind(),
		InterventionID: interventionID,
		Payload:        payload,
	}
	require.NoError(t, storage.AddPending(item))
	return item
}

func TestSyncEngine_OfflineNoOp(t *testing.T) {
	engine, storage, gateway, _ := newTestEngine(t, offline)
	enqueue(t, storage, 42, pending.MaterialPayload{ProductID: 7, QtyUsed: 2})

	result := engine.Sync(context.Background())

	assert.Equal(t, SyncResult{}, result)
	assert.Empty(t, gateway.calls, "no gateway call while offline")

	count, err := storage.CountPending()
	require.NoError(t, err)
	assert.Equal(t, 1, count, "item stays queued")
}

func TestSyncEngine_MaterialScenario(t *testing.T) {
	// Offline keeps the item queued; going online delivers it exactly once
	// and empties the queue.
	storage := NewMemoryStorage()
	gateway := newFakeGateway()
	notifier := &fakeNotifier{}

	connected := false
	probe := func(context.Context) bool { return connected }
	engine := NewSyncEngine(storage, gateway, probe, notifier, slog.Default())

	item := enqueue(t, storage, 42, pending.MaterialPayload{ProductID: 7, QtyUsed: 2})

	engine.Sync(context.Background())
	count, _ := storage.CountPending()
	assert.Equal(t, 1, count)
	assert.Empty(t, gateway.calls)

	connected = true
	result := engine.Sync(context.Background())

	assert.Equal(t, 1, result.Success)
	assert.Equal(t, 1, gateway.callCount(item.ID), "gateway invoked exactly once")
	require.Len(t, gateway.calls, 1)
	assert.Equal(t, int64(42), gateway.calls[0].InterventionID)
	assert.Equal(t, pending.MaterialPayload{ProductID: 7, QtyUsed: 2}, gateway.calls[0].Payload)

	count, _ = storage.CountPending()
	assert.Zero(t, count)
}

func TestSyncEngine_ErrorIsolation(t *testing.T) {
	engine, storage, gateway, _ := newTestEngine(t, online)

	first := enqueue(t, storage, 1, pending.NotePayload{NotePrivate: "a"})
	second := enqueue(t, storage, 2, pending.MaterialPayload{ProductID: 7, QtyUsed: 2})
	third := enqueue(t, storage, 3, pending.NotePayload{NotePrivate: "c"})
	gateway.failIDs[second.ID] = errors.New("500 from backend")

	result := engine.Sync(context.Background())

	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "material (INT-2): 500 from backend", result.Errors[0])

	remaining, err := storage.ListPending()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, second.ID, remaining[0].ID)
	assert.Equal(t, 1, remaining[0].RetryCount)

	// Items after the failure were still attempted.
	assert.Equal(t, 1, gateway.callCount(first.ID))
	assert.Equal(t, 1, gateway.callCount(third.ID))
}

func TestSyncEngine_DeliveryOrder(t *testing.T) {
	engine, storage, gateway, _ := newTestEngine(t, online)

	var ids []int64
	for i := int64(1); i <= 5; i++ {
		item := enqueue(t, storage, i, pending.NotePayload{})
		ids = append(ids, item.ID)
	}

	engine.Sync(context.Background())

	require.Len(t, gateway.calls, 5)
	for i, call := range gateway.calls {
		assert.Equal(t, ids[i], call.ID, "attempts follow insertion order")
	}
}

func TestSyncEngine_InFlightGuard(t *testing.T) {
	engine, storage, gateway, _ := newTestEngine(t, online)

	item := enqueue(t, storage, 1, pending.NotePayload{})
	gateway.blockOn = make(chan struct{})

	done := make(chan SyncResult, 1)
	go func() { done <- engine.Sync(context.Background()) }()

	require.Eventually(t, engine.InFlight, time.Second, time.Millisecond)

	// A trigger landing mid-pass is dropped, not queued.
	dropped := engine.Sync(context.Background())
	assert.Equal(t, SyncResult{}, dropped)

	close(gateway.blockOn)
	result := <-done
	assert.Equal(t, 1, result.Success)
	assert.Equal(t, 1, gateway.callCount(item.ID))
	assert.False(t, engine.InFlight())
}

func TestSyncEngine_SnapshotExcludesLateItems(t *testing.T) {
	engine, storage, gateway, _ := newTestEngine(t, online)

	first := enqueue(t, storage, 1, pending.NotePayload{})
	gateway.blockOn = make(chan struct{})

	done := make(chan SyncResult, 1)
	go func() { done <- engine.Sync(context.Background()) }()
	require.Eventually(t, engine.InFlight, time.Second, time.Millisecond)

	// Enqueued mid-pass: belongs to the NEXT pass.
	late := enqueue(t, storage, 2, pending.NotePayload{})

	close(gateway.blockOn)
	result := <-done

	assert.Equal(t, 1, result.Success)
	assert.Equal(t, 1, gateway.callCount(first.ID))
	assert.Zero(t, gateway.callCount(late.ID))

	gateway.blockOn = nil
	next := engine.Sync(context.Background())
	assert.Equal(t, 1, next.Success)
	assert.Equal(t, 1, gateway.callCount(late.ID))
}

func TestSyncEngine_StateAndSummary(t *testing.T) {
	engine, storage, gateway, notifier := newTestEngine(t, online)

	enqueue(t, storage, 1, pending.NotePayload{})
	bad := enqueue(t, storage, 2, pending.NotePayload{})
	gateway.failIDs[bad.ID] = errors.New("timeout")

	before := time.Now()
	engine.Sync(context.Background())

	state := engine.State()
	assert.Equal(t, 1, state.PendingCount)
	assert.False(t, state.LastSyncAt.Before(before))
	require.Len(t, state.Errors, 1)
	assert.Equal(t, "note (INT-2): timeout", state.Errors[0])

	require.Len(t, notifier.summaries, 1, "exactly one summary per pass")
	assert.Equal(t, 1, notifier.summaries[0].Success)
	assert.Equal(t, 1, notifier.summaries[0].Failed)
}

func TestSyncEngine_EmptyQueueNoSummary(t *testing.T) {
	engine, _, gateway, notifier := newTestEngine(t, online)

	result := engine.Sync(context.Background())

	assert.Equal(t, SyncResult{}, result)
	assert.Empty(t, gateway.calls)
	assert.Empty(t, notifier.summaries)
}
