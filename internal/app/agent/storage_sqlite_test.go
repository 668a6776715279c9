package agent

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"fieldsync/internal/domain/intervention"
	"fieldsync/internal/domain/pending"
)

func openTestStorage(t *testing.T) (*SQLiteStorage, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agent.db")
	storage, err := NewSQLiteStorage(path, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })
	return storage, path
}

func TestSQLiteStorage_QueueDurability(t *testing.T) {
	storage, path := openTestStorage(t)

	items := []*pending.Item{
		{Kind: pending.KindMaterial, InterventionID: 42, Payload: pending.MaterialPayload{ProductID: 7, QtyUsed: 2}},
		{Kind: pending.KindNote, InterventionID: 42, Payload: pending.NotePayload{NotePrivate: "code porte 1234"}},
		{Kind: pending.KindTask, InterventionID: 17, Payload: pending.TaskPayload{TaskID: 3, Status: pending.TaskDone}},
	}
	for _, item := range items {
		require.NoError(t, storage.AddPending(item))
	}
	require.NoError(t, storage.DeletePending(items[1].ID))
	require.NoError(t, storage.Close())

	// Simulated app restart: reopen the same file.
	reopened, err := NewSQLiteStorage(path, slog.Default())
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.ListPending()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, items[0].ID, got[0].ID, "insertion order survives restart")
	assert.Equal(t, items[2].ID, got[1].ID)
	assert.Equal(t, pending.MaterialPayload{ProductID: 7, QtyUsed: 2}, got[0].Payload)
}

func TestSQLiteStorage_PendingInsertionOrder(t *testing.T) {
	storage, _ := openTestStorage(t)

	var ids []int64
	for i := 0; i < 10; i++ {
		item := &pending.Item{
			Kind:           pending.KindNote,
			InterventionID: 1,
			Payload:        pending.NotePayload{},
		}
		require.NoError(t, storage.AddPending(item))
		ids = append(ids, item.ID)
	}

	got, err := storage.ListPending()
	require.NoError(t, err)
	require.Len(t, got, 10)
	for i, item := range got {
		assert.Equal(t, ids[i], item.ID)
		if i > 0 {
			assert.Greater(t, item.ID, got[i-1].ID, "ids are monotonic")
		}
	}
}

func TestSQLiteStorage_DeletePending(t *testing.T) {
	storage, _ := openTestStorage(t)

	item := &pending.Item{Kind: pending.KindNote, InterventionID: 1, Payload: pending.NotePayload{}}
	require.NoError(t, storage.AddPending(item))

	require.NoError(t, storage.DeletePending(item.ID))

	count, err := storage.CountPending()
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.ErrorIs(t, storage.DeletePending(item.ID), pending.ErrItemNotFound)
}

func TestSQLiteStorage_CleanupCorrupted(t *testing.T) {
	storage, _ := openTestStorage(t)

	require.NoError(t, storage.AddPending(&pending.Item{
		Kind: pending.KindNote, InterventionID: 42, Payload: pending.NotePayload{},
	}))
	require.NoError(t, storage.AddPending(&pending.Item{
		Kind: pending.KindNote, InterventionID: 0, Payload: pending.NotePayload{},
	}))
	require.NoError(t, storage.AddPending(&pending.Item{
		Kind: pending.KindNote, InterventionID: -3, Payload: pending.NotePayload{},
	}))

	removed, err := storage.CleanupCorrupted()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	got, err := storage.ListPending()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(42), got[0].InterventionID)
}

func TestSQLiteStorage_ListPendingBadTimestamp(t *testing.T) {
	storage, _ := openTestStorage(t)

	item := &pending.Item{Kind: pending.KindNote, InterventionID: 1, Payload: pending.NotePayload{}}
	require.NoError(t, storage.AddPending(item))
	_, err := storage.db.Exec("UPDATE pending_items SET created_at = 'not-a-time' WHERE id = ?", item.ID)
	require.NoError(t, err)

	got, err := storage.ListPending()
	require.NoError(t, err, "a mangled timestamp must not lose the item")
	require.Len(t, got, 1)
	assert.Equal(t, item.ID, got[0].ID)
	assert.True(t, got[0].CreatedAt.IsZero())
}

func TestSQLiteStorage_MarkPendingFailed(t *testing.T) {
	storage, _ := openTestStorage(t)

	item := &pending.Item{Kind: pending.KindNote, InterventionID: 1, Payload: pending.NotePayload{}}
	require.NoError(t, storage.AddPending(item))

	require.NoError(t, storage.MarkPendingFailed(item.ID))
	require.NoError(t, storage.MarkPendingFailed(item.ID))

	got, err := storage.ListPending()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].RetryCount)
}

func TestSQLiteStorage_Snapshots(t *testing.T) {
	storage, _ := openTestStorage(t)

	iv := &intervention.Intervention{
		ID:         42,
		Ref:        "INT-0042",
		Label:      "Remplacement disjoncteur",
		ClientName: "Garage du Lac",
		UpdatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, storage.SaveIntervention(iv))

	// A newer snapshot replaces the prior one wholesale.
	iv.Label = "Remplacement disjoncteur + controle"
	require.NoError(t, storage.SaveIntervention(iv))

	got, err := storage.GetIntervention(42)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Remplacement disjoncteur + controle", got.Label)

	missing, err := storage.GetIntervention(999)
	require.NoError(t, err, "a miss is not an error")
	assert.Nil(t, missing)

	require.NoError(t, storage.ReplaceStock([]intervention.StockItem{
		{ProductID: 7, ProductName: "Cable 3x1.5", Quantity: 25, Unit: "m"},
	}))
	require.NoError(t, storage.ReplaceStock([]intervention.StockItem{
		{ProductID: 8, ProductName: "Disjoncteur 13A", Quantity: 4, Unit: "pce"},
	}))

	stock, err := storage.ListStock()
	require.NoError(t, err)
	require.Len(t, stock, 1, "stock snapshot is replaced, not merged")
	assert.Equal(t, int64(8), stock[0].ProductID)
}

func TestSQLiteStorage_Blobs(t *testing.T) {
	storage, _ := openTestStorage(t)

	require.NoError(t, storage.PutBlob("photo/42/avant_1.jpg", []byte{0xff, 0xd8, 0xff}))

	data, err := storage.GetBlob("photo/42/avant_1.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, data)

	_, err = storage.GetBlob("photo/42/missing.jpg")
	assert.ErrorIs(t, err, ErrBlobNotFound)
}
