package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"fieldsync/internal/domain/emergency"
)

const emergencyColumns = `
	id, intervention_id, intervention_ref, intervention_label, client_name,
	location, description, bonus_amount, currency, status,
	claimed_by_user_id, claimed_by_user_name, claimed_at,
	created_by_user_id, created_by_user_name, created_at`

type EmergencyRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewEmergencyRepository(storage *Storage, log *slog.Logger) *EmergencyRepository {
	return &EmergencyRepository{
		pool: storage.Pool(),
		log:  log.With("component", "emergency_repository"),
	}
}

func (r *EmergencyRepository) Create(ctx context.Context, em *emergency.Emergency) (int64, error) {
	const query = `
		INSERT INTO emergency_interventions (
			intervention_id, intervention_ref, intervention_label, client_name,
			location, description, bonus_amount, currency, status,
			created_by_user_id, created_by_user_name
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		em.InterventionID, em.InterventionRef, em.InterventionLabel, em.ClientName,
		em.Location, em.Description, em.BonusAmount, em.Currency, em.Status,
		em.CreatedByUserID, em.CreatedByUserName,
	).Scan(&em.ID, &em.CreatedAt)

	if err != nil {
		r.log.Error("failed to create emergency",
			"intervention_id", em.InterventionID, "error", err)
		return 0, fmt.Errorf("create emergency: %w", err)
	}

	return em.ID, nil
}

func (r *EmergencyRepository) Get(ctx context.Context, id int64) (*emergency.Emergency, error) {
	query := `SELECT ` + emergencyColumns + ` FROM emergency_interventions WHERE id = $1`

	em, err := r.scanEmergency(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, emergency.ErrNotFound
		}
		r.log.Error("failed to get emergency", "emergency_id", id, "error", err)
		return nil, fmt.Errorf("get emergency: %w", err)
	}

	return em, nil
}

func (r *EmergencyRepository) ListOpen(ctx context.Context) ([]emergency.Emergency, error) {
	query := `SELECT ` + emergencyColumns + `
		FROM emergency_interventions
		WHERE status = 'open'
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.log.Error("failed to list open emergencies", "error", err)
		return nil, fmt.Errorf("list open emergencies: %w", err)
	}
	defer rows.Close()

	return r.scanEmergencies(rows)
}

func (r *EmergencyRepository) List(ctx context.Context) ([]emergency.Emergency, error) {
	query := `SELECT ` + emergencyColumns + `
		FROM emergency_interventions
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.log.Error("failed to list emergencies", "error", err)
		return nil, fmt.Errorf("list emergencies: %w", err)
	}
	defer rows.Close()

	return r.scanEmergencies(rows)
}

// Claim is the whole race: one conditional UPDATE that only fires while the
// row is still open. Zero rows affected means somebody else got there first
// (or the id is unknown), which is then classified by re-reading the row.
func (r *EmergencyRepository) Claim(ctx context.Context, id int64, userID, userName string) (*emergency.Emergency, error) {
	query := `
		UPDATE emergency_interventions
		SET status = 'claimed',
			claimed_by_user_id = $2,
			claimed_by_user_name = $3,
			claimed_at = NOW()
		WHERE id = $1 AND status = 'open'
		RETURNING ` + emergencyColumns

	em, err := r.scanEmergency(r.pool.QueryRow(ctx, query, id, userID, userName))
	if err == nil {
		return em, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.log.Error("failed to claim emergency",
			"emergency_id", id, "user_id", userID, "error", err)
		return nil, fmt.Errorf("claim emergency: %w", err)
	}

	// The update matched nothing: unknown id, already claimed by someone else,
	// or a repeat claim by the winner (idempotent success).
	current, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == emergency.StatusClaimed && current.ClaimedByUserID == userID {
		return current, nil
	}

	return nil, emergency.ErrAlreadyClaimed
}

func (r *EmergencyRepository) Complete(ctx context.Context, id int64) (*emergency.Emergency, error) {
	return r.transition(ctx, id, emergency.StatusCompleted, []emergency.Status{emergency.StatusClaimed})
}

func (r *EmergencyRepository) Cancel(ctx context.Context, id int64) (*emergency.Emergency, error) {
	return r.transition(ctx, id, emergency.StatusCancelled, []emergency.Status{emergency.StatusOpen, emergency.StatusClaimed})
}

func (r *EmergencyRepository) transition(ctx context.Context, id int64, target emergency.Status, from []emergency.Status) (*emergency.Emergency, error) {
	query := `
		UPDATE emergency_interventions
		SET status = $2
		WHERE id = $1 AND status = ANY($3)
		RETURNING ` + emergencyColumns

	states := make([]string, len(from))
	for i, s := range from {
		states[i] = string(s)
	}

	em, err := r.scanEmergency(r.pool.QueryRow(ctx, query, id, target, states))
	if err == nil {
		return em, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.log.Error("failed to transition emergency",
			"emergency_id", id, "target", target, "error", err)
		return nil, fmt.Errorf("transition emergency: %w", err)
	}

	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}
	return nil, emergency.ErrIllegalTransition
}

func (r *EmergencyRepository) scanEmergencies(rows pgx.Rows) ([]emergency.Emergency, error) {
	var emergencies []emergency.Emergency

	for rows.Next() {
		em, err := r.scanEmergency(rows)
		if err != nil {
			return nil, err
		}
		emergencies = append(emergencies, *em)
	}

	return emergencies, rows.Err()
}

func (r *EmergencyRepository) scanEmergency(row pgx.Row) (*emergency.Emergency, error) {
	var (
		em                emergency.Emergency
		claimedByUserID   *string
		claimedByUserName *string
	)

	err := row.Scan(
		&em.ID, &em.InterventionID, &em.InterventionRef, &em.InterventionLabel, &em.ClientName,
		&em.Location, &em.Description, &em.BonusAmount, &em.Currency, &em.Status,
		&claimedByUserID, &claimedByUserName, &em.ClaimedAt,
		&em.CreatedByUserID, &em.CreatedByUserName, &em.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if claimedByUserID != nil {
		em.ClaimedByUserID = *claimedByUserID
	}
	if claimedByUserName != nil {
		em.ClaimedByUserName = *claimedByUserName
	}

	return &em, nil
}
