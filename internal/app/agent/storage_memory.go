package agent

import (
	"sync"
	"time"

	"fieldsync/internal/domain/intervention"
	"fieldsync/internal/domain/pending"
)

// MemoryStorage is a non-durable Storage used when SQLite cannot be opened and
// as the test double. Same semantics as SQLiteStorage minus persistence.
type MemoryStorage struct {
	mu            sync.Mutex
	lastID        int64
	interventions map[int64]intervention.Intervention
	stock         []intervention.StockItem
	voiceNotes    map[int64]intervention.VoiceNote
	queue         []pending.Item
	blobs         map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		interventions: make(map[int64]intervention.Intervention),
		voiceNotes:    make(map[int64]intervention.VoiceNote),
		blobs:         make(map[string][]byte),
	}
}

func (m *MemoryStorage) SaveIntervention(iv *intervention.Intervention) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interventions[iv.ID] = *iv
	return nil
}

func (m *MemoryStorage) GetIntervention(id int64) (*intervention.Intervention, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	iv, ok := m.interventions[id]
	if !ok {
		return nil, nil
	}
	return &iv, nil
}

func (m *MemoryStorage) ListInterventions() ([]intervention.Intervention, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]intervention.Intervention, 0, len(m.interventions))
	for _, iv := range m.interventions {
		out = append(out, iv)
	}
	return out, nil
}

func (m *MemoryStorage) ReplaceStock(items []intervention.StockItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stock = append([]intervention.StockItem{}, items...)
	return nil
}

func (m *MemoryStorage) ListStock() ([]intervention.StockItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]intervention.StockItem{}, m.stock...), nil
}

func (m *MemoryStorage) SaveVoiceNote(vn *intervention.VoiceNote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.voiceNotes[vn.ID] = *vn
	return nil
}

func (m *MemoryStorage) ListVoiceNotes(interventionID int64) ([]intervention.VoiceNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []intervention.VoiceNote
	for _, vn := range m.voiceNotes {
		if vn.InterventionID == interventionID {
			out = append(out, vn)
		}
	}
	return out, nil
}

func (m *MemoryStorage) AddPending(item *pending.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if item.ID == 0 {
		id := time.Now().UnixMilli()
		if id <= m.lastID {
			id = m.lastID + 1
		}
		m.lastID = id
		item.ID = id
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	m.queue = append(m.queue, *item)
	return nil
}

func (m *MemoryStorage) ListPending() ([]pending.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]pending.Item{}, m.queue...), nil
}

func (m *MemoryStorage) CountPending() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue), nil
}

func (m *MemoryStorage) DeletePending(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, item := range m.queue {
		if item.ID == id {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			return nil
		}
	}
	return pending.ErrItemNotFound
}

func (m *MemoryStorage) ClearPending() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = nil
	return nil
}

func (m *MemoryStorage) MarkPendingFailed(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.queue {
		if m.queue[i].ID == id {
			m.queue[i].RetryCount++
			return nil
		}
	}
	return nil
}

func (m *MemoryStorage) CleanupCorrupted() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.queue[:0]
	removed := 0
	for _, item := range m.queue {
		if item.Corrupt() {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	m.queue = kept
	return removed, nil
}

func (m *MemoryStorage) PutBlob(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = append([]byte{}, data...)
	return nil
}

func (m *MemoryStorage) GetBlob(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[key]
	if !ok {
		return nil, ErrBlobNotFound
	}
	return append([]byte{}, data...), nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
