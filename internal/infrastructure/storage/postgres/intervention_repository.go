package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"fieldsync/internal/domain/intervention"
)

type InterventionRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewInterventionRepository(storage *Storage, log *slog.Logger) *InterventionRepository {
	return &InterventionRepository{
		pool: storage.Pool(),
		log:  log.With("component", "intervention_repository"),
	}
}

func (r *InterventionRepository) List(ctx context.Context) ([]intervention.Intervention, error) {
	const query = `
		SELECT id, ref, label, client_name, location, description, status,
		       note_private, scheduled_at, updated_at
		FROM interventions
		ORDER BY scheduled_at NULLS LAST, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.log.Error("failed to list interventions", "error", err)
		return nil, fmt.Errorf("list interventions: %w", err)
	}
	defer rows.Close()

	var interventions []intervention.Intervention
	for rows.Next() {
		var (
			iv   intervention.Intervention
			note *string
		)
		err := rows.Scan(&iv.ID, &iv.Ref, &iv.Label, &iv.ClientName, &iv.Location,
			&iv.Description, &iv.Status, &note, &iv.ScheduledAt, &iv.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan intervention: %w", err)
		}
		if note != nil {
			iv.NotePrivate = *note
		}
		interventions = append(interventions, iv)
	}

	return interventions, rows.Err()
}

func (r *InterventionRepository) Get(ctx context.Context, id int64) (*intervention.Intervention, error) {
	const query = `
		SELECT id, ref, label, client_name, location, description, status,
		       note_private, scheduled_at, updated_at
		FROM interventions
		WHERE id = $1`

	var (
		iv   intervention.Intervention
		note *string
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&iv.ID, &iv.Ref, &iv.Label, &iv.ClientName, &iv.Location,
		&iv.Description, &iv.Status, &note, &iv.ScheduledAt, &iv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, intervention.ErrNotFound
		}
		r.log.Error("failed to get intervention", "intervention_id", id, "error", err)
		return nil, fmt.Errorf("get intervention: %w", err)
	}
	if note != nil {
		iv.NotePrivate = *note
	}

	return &iv, nil
}

func (r *InterventionRepository) ListStock(ctx context.Context) ([]intervention.StockItem, error) {
	const query = `
		SELECT product_id, product_name, quantity, unit
		FROM vehicle_stock
		ORDER BY product_name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.log.Error("failed to list stock", "error", err)
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	var items []intervention.StockItem
	for rows.Next() {
		var item intervention.StockItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.Unit); err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *InterventionRepository) AddTimeEntry(ctx context.Context, entry *intervention.TimeEntry) (int64, error) {
	const query = `
		INSERT INTO time_entries (intervention_id, work_type, date_start, date_end,
		                          duration_hours, comment, is_manual)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		entry.InterventionID, entry.WorkType, entry.DateStart, entry.DateEnd,
		entry.DurationHours, entry.Comment, entry.IsManual,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		r.log.Error("failed to add time entry",
			"intervention_id", entry.InterventionID, "error", err)
		return 0, fmt.Errorf("add time entry: %w", err)
	}

	return entry.ID, nil
}

func (r *InterventionRepository) AddLine(ctx context.Context, line *intervention.Line) (int64, error) {
	const query = `
		INSERT INTO intervention_lines (intervention_id, product_id, qty_used, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		line.InterventionID, line.ProductID, line.QtyUsed, line.Comment,
	).Scan(&line.ID, &line.CreatedAt)

	if err != nil {
		r.log.Error("failed to add line",
			"intervention_id", line.InterventionID, "product_id", line.ProductID, "error", err)
		return 0, fmt.Errorf("add line: %w", err)
	}

	return line.ID, nil
}

func (r *InterventionRepository) UpdateTaskStatus(ctx context.Context, interventionID, taskID int64, status string) error {
	const query = `
		UPDATE tasks
		SET status = $3
		WHERE id = $2 AND intervention_id = $1`

	result, err := r.pool.Exec(ctx, query, interventionID, taskID, status)
	if err != nil {
		r.log.Error("failed to update task",
			"intervention_id", interventionID, "task_id", taskID, "error", err)
		return fmt.Errorf("update task status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return intervention.ErrTaskNotFound
	}

	return nil
}

func (r *InterventionRepository) AddPhoto(ctx context.Context, photo *intervention.Photo) (int64, error) {
	const query = `
		INSERT INTO photos (intervention_id, kind, filename, data)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		photo.InterventionID, photo.Kind, photo.Filename, photo.Data,
	).Scan(&photo.ID, &photo.CreatedAt)

	if err != nil {
		r.log.Error("failed to add photo",
			"intervention_id", photo.InterventionID, "error", err)
		return 0, fmt.Errorf("add photo: %w", err)
	}

	return photo.ID, nil
}

// SaveSignature upserts on intervention_id: re-signing replaces the previous
// sign-off.
func (r *InterventionRepository) SaveSignature(ctx context.Context, sig *intervention.Signature) error {
	const query = `
		INSERT INTO signatures (intervention_id, signer_name, data, signed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (intervention_id) DO UPDATE
		SET signer_name = EXCLUDED.signer_name,
		    data = EXCLUDED.data,
		    signed_at = EXCLUDED.signed_at
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		sig.InterventionID, sig.SignerName, sig.Data, sig.SignedAt,
	).Scan(&sig.ID)

	if err != nil {
		r.log.Error("failed to save signature",
			"intervention_id", sig.InterventionID, "error", err)
		return fmt.Errorf("save signature: %w", err)
	}

	return nil
}

func (r *InterventionRepository) UpdateNote(ctx context.Context, interventionID int64, notePrivate string) error {
	const query = `
		UPDATE interventions
		SET note_private = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, interventionID, notePrivate)
	if err != nil {
		r.log.Error("failed to update note",
			"intervention_id", interventionID, "error", err)
		return fmt.Errorf("update note: %w", err)
	}

	if result.RowsAffected() == 0 {
		return intervention.ErrNotFound
	}

	return nil
}
