package agent

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slog"

	"fieldsync/internal/domain/intervention"
	"fieldsync/internal/domain/pending"
)

// SQLiteStorage is the durable on-device store. Entity snapshots are kept as
// JSON documents keyed by id and replaced wholesale on refresh.
type SQLiteStorage struct {
	db  *sql.DB
	log *slog.Logger

	mu     sync.Mutex
	lastID int64
}

func NewSQLiteStorage(path string, log *slog.Logger) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	storage := &SQLiteStorage{db: db, log: log.With("component", "sqlite_storage")}

	if err := storage.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init tables: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) initTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS interventions (
			id INTEGER PRIMARY KEY,
			data TEXT NOT NULL,
			fetched_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS vehicle_stock (
			product_id INTEGER PRIMARY KEY,
			data TEXT NOT NULL,
			fetched_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS voice_notes (
			id INTEGER PRIMARY KEY,
			intervention_id INTEGER NOT NULL,
			data TEXT NOT NULL,
			fetched_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS pending_items (
			id INTEGER PRIMARY KEY,
			kind TEXT NOT NULL,
			intervention_id INTEGER NOT NULL,
			payload TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			retry_count INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS blobs (
			key TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_pending_intervention ON pending_items(intervention_id);
		CREATE INDEX IF NOT EXISTS idx_voice_notes_intervention ON voice_notes(intervention_id);
	`)

	return err
}

// nextItemID derives a locally unique, monotonic id from the creation time.
// Two enqueues in the same millisecond get consecutive ids.
func (s *SQLiteStorage) nextItemID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *SQLiteStorage) SaveIntervention(iv *intervention.Intervention) error {
	data, err := json.Marshal(iv)
	if err != nil {
		return fmt.Errorf("marshal intervention: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO interventions (id, data, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, fetched_at = excluded.fetched_at
	`, iv.ID, string(data), time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save intervention %d: %w", iv.ID, err)
	}

	return nil
}

func (s *SQLiteStorage) GetIntervention(id int64) (*intervention.Intervention, error) {
	var data string
	err := s.db.QueryRow("SELECT data FROM interventions WHERE id = ?", id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get intervention %d: %w", id, err)
	}

	var iv intervention.Intervention
	if err := json.Unmarshal([]byte(data), &iv); err != nil {
		return nil, fmt.Errorf("parse intervention %d: %w", id, err)
	}

	return &iv, nil
}

func (s *SQLiteStorage) ListInterventions() ([]intervention.Intervention, error) {
	rows, err := s.db.Query("SELECT data FROM interventions ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list interventions: %w", err)
	}
	defer rows.Close()

	var out []intervention.Intervention
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan intervention: %w", err)
		}
		var iv intervention.Intervention
		if err := json.Unmarshal([]byte(data), &iv); err != nil {
			return nil, fmt.Errorf("parse intervention: %w", err)
		}
		out = append(out, iv)
	}

	return out, rows.Err()
}

// ReplaceStock swaps the whole vehicle stock snapshot in one transaction.
func (s *SQLiteStorage) ReplaceStock(items []intervention.StockItem) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin stock replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM vehicle_stock"); err != nil {
		return fmt.Errorf("clear stock: %w", err)
	}

	now := time.Now().Format(time.RFC3339)
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("marshal stock item: %w", err)
		}
		if _, err := tx.Exec(
			"INSERT INTO vehicle_stock (product_id, data, fetched_at) VALUES (?, ?, ?)",
			item.ProductID, string(data), now,
		); err != nil {
			return fmt.Errorf("save stock item %d: %w", item.ProductID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStorage) ListStock() ([]intervention.StockItem, error) {
	rows, err := s.db.Query("SELECT data FROM vehicle_stock ORDER BY product_id")
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	var out []intervention.StockItem
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		var item intervention.StockItem
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			return nil, fmt.Errorf("parse stock item: %w", err)
		}
		out = append(out, item)
	}

	return out, rows.Err()
}

func (s *SQLiteStorage) SaveVoiceNote(vn *intervention.VoiceNote) error {
	data, err := json.Marshal(vn)
	if err != nil {
		return fmt.Errorf("marshal voice note: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO voice_notes (id, intervention_id, data, fetched_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, fetched_at = excluded.fetched_at
	`, vn.ID, vn.InterventionID, string(data), time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save voice note %d: %w", vn.ID, err)
	}

	return nil
}

func (s *SQLiteStorage) ListVoiceNotes(interventionID int64) ([]intervention.VoiceNote, error) {
	rows, err := s.db.Query(
		"SELECT data FROM voice_notes WHERE intervention_id = ? ORDER BY id", interventionID)
	if err != nil {
		return nil, fmt.Errorf("list voice notes: %w", err)
	}
	defer rows.Close()

	var out []intervention.VoiceNote
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan voice note: %w", err)
		}
		var vn intervention.VoiceNote
		if err := json.Unmarshal([]byte(data), &vn); err != nil {
			return nil, fmt.Errorf("parse voice note: %w", err)
		}
		out = append(out, vn)
	}

	return out, rows.Err()
}

func (s *SQLiteStorage) AddPending(item *pending.Item) error {
	payload, err := json.Marshal(item.Payload)
	if err != nil {
		return fmt.Errorf("marshal pending payload: %w", err)
	}

	if item.ID == 0 {
		item.ID = s.nextItemID()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	_, err = s.db.Exec(`
		INSERT INTO pending_items (id, kind, intervention_id, payload, created_at, retry_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`, item.ID, string(item.Kind), item.InterventionID, string(payload),
		item.CreatedAt.Format(time.RFC3339Nano), item.RetryCount)
	if err != nil {
		return fmt.Errorf("enqueue pending item: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) ListPending() ([]pending.Item, error) {
	rows, err := s.db.Query(`
		SELECT id, kind, intervention_id, payload, created_at, retry_count
		FROM pending_items
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	defer rows.Close()

	var items []pending.Item
	for rows.Next() {
		var (
			item      pending.Item
			kind      string
			payload   string
			createdAt string
		)
		if err := rows.Scan(&item.ID, &kind, &item.InterventionID, &payload,
			&createdAt, &item.RetryCount); err != nil {
			return nil, fmt.Errorf("scan pending item: %w", err)
		}

		item.Kind = pending.Kind(kind)
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			item.CreatedAt = ts
		} else {
			s.log.Warn("pending item has unparseable timestamp", "item_id", item.ID, "error", err)
		}

		// An undecodable payload stays in the queue with a nil payload: the
		// sync pass reports it as a failure and cleanup can purge it later.
		if p, err := pending.DecodePayload(item.Kind, json.RawMessage(payload)); err == nil {
			item.Payload = p
		} else {
			s.log.Warn("pending item has undecodable payload", "item_id", item.ID, "error", err)
		}

		items = append(items, item)
	}

	return items, rows.Err()
}

func (s *SQLiteStorage) CountPending() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM pending_items").Scan(&count); err != nil {
		return 0, fmt.Errorf("count pending: %w", err)
	}
	return count, nil
}

func (s *SQLiteStorage) DeletePending(id int64) error {
	res, err := s.db.Exec("DELETE FROM pending_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete pending item %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return pending.ErrItemNotFound
	}
	return nil
}

func (s *SQLiteStorage) ClearPending() error {
	if _, err := s.db.Exec("DELETE FROM pending_items"); err != nil {
		return fmt.Errorf("clear pending queue: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) MarkPendingFailed(id int64) error {
	_, err := s.db.Exec(
		"UPDATE pending_items SET retry_count = retry_count + 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("mark pending item %d failed: %w", id, err)
	}
	return nil
}

func (s *SQLiteStorage) CleanupCorrupted() (int, error) {
	res, err := s.db.Exec("DELETE FROM pending_items WHERE intervention_id <= 0")
	if err != nil {
		return 0, fmt.Errorf("cleanup corrupted items: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cleanup corrupted items: %w", err)
	}

	return int(n), nil
}

func (s *SQLiteStorage) PutBlob(key string, data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO blobs (key, data, created_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data
	`, key, data, time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put blob %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStorage) GetBlob(key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow("SELECT data FROM blobs WHERE key = ?", key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blob %q: %w", key, err)
	}
	return data, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
