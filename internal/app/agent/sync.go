package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

// Notifier surfaces the end-of-pass summary to the user. Exactly one summary
// per pass: all-success, partial, or all-failed, never per-item toasts.
type Notifier interface {
	SyncSummary(success, failed int, errs []string)
}

// SyncState is the observable sync status after the latest pass.
type SyncState struct {
	PendingCount int
	LastSyncAt   time.Time
	Errors       []string
}

// SyncResult summarizes one drain pass.
type SyncResult struct {
	Success int
	Failed  int
	Errors  []string
}

// SyncEngine drains the pending queue sequentially against the remote gateway.
// Sequential on purpose: remote write ordering stays predictable per
// intervention and failures attribute to one item.
type SyncEngine struct {
	storage  Storage
	gateway  Gateway
	online   func(ctx context.Context) bool
	notifier Notifier
	log      *slog.Logger

	mu      sync.Mutex
	syncing bool
	state   SyncState
}

func NewSyncEngine(storage Storage, gateway Gateway, online func(ctx context.Context) bool, notifier Notifier, log *slog.Logger) *SyncEngine {
	return &SyncEngine{
		storage:  storage,
		gateway:  gateway,
		online:   online,
		notifier: notifier,
		log:      log.With("component", "sync_engine"),
	}
}

// InFlight reports whether a pass is currently running.
func (e *SyncEngine) InFlight() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.syncing
}

// State returns the observable state left by the latest pass.
func (e *SyncEngine) State() SyncState {
	e.mu.Lock()
	defer e.mu.Unlock()
	state := e.state
	state.Errors = append([]string{}, e.state.Errors...)
	return state
}

// Sync runs one pass over a snapshot of the queue. A trigger arriving while a
// pass is in flight, or while offline, is a no-op; the next periodic trigger
// picks up whatever remains. Items enqueued during the pass wait for the next
// one.
func (e *SyncEngine) Sync(ctx context.Context) SyncResult {
	e.mu.Lock()
	if e.syncing {
		e.mu.Unlock()
		e.log.Debug("sync already in flight, trigger dropped")
		return SyncResult{}
	}
	e.syncing = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.syncing = false
		e.mu.Unlock()
	}()

	if !e.online(ctx) {
		e.log.Debug("device offline, sync skipped")
		return SyncResult{}
	}

	items, err := e.storage.ListPending()
	if err != nil {
		// The storage layer failing is not a reason to crash: log and wait
		// for the next trigger.
		e.log.Error("failed to snapshot pending queue", "error", err)
		return SyncResult{}
	}
	if len(items) == 0 {
		return SyncResult{}
	}

	e.log.Info("sync pass started", "pending", len(items))

	result := SyncResult{}
	for _, item := range items {
		if err := e.gateway.Dispatch(ctx, item); err != nil {
			// Item stays queued for a later pass; a failure here must not
			// stop the remaining items.
			result.Failed++
			msg := fmt.Sprintf("%s (INT-%d): %v", item.Kind, item.InterventionID, err)
			result.Errors = append(result.Errors, msg)
			e.log.Warn("pending item delivery failed",
				"item_id", item.ID,
				"kind", item.Kind,
				"intervention_id", item.InterventionID,
				"error", err,
			)
			if err := e.storage.MarkPendingFailed(item.ID); err != nil {
				e.log.Error("failed to record delivery failure", "item_id", item.ID, "error", err)
			}
			continue
		}

		// Remove strictly after the remote acknowledged the write.
		if err := e.storage.DeletePending(item.ID); err != nil {
			e.log.Error("failed to remove acknowledged item", "item_id", item.ID, "error", err)
			result.Failed++
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s (INT-%d): %v", item.Kind, item.InterventionID, err))
			continue
		}
		result.Success++
	}

	e.mu.Lock()
	e.state = SyncState{
		PendingCount: result.Failed,
		LastSyncAt:   time.Now(),
		Errors:       append([]string{}, result.Errors...),
	}
	e.mu.Unlock()

	e.log.Info("sync pass finished",
		"success", result.Success,
		"failed", result.Failed,
	)

	if e.notifier != nil {
		e.notifier.SyncSummary(result.Success, result.Failed, result.Errors)
	}

	return result
}
