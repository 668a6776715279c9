package intervention

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"
)

type Servicer interface {
	List(ctx context.Context) ([]Intervention, error)
	ListStock(ctx context.Context) ([]StockItem, error)

	AddTimeEntry(ctx context.Context, entry *TimeEntry) (int64, error)
	AddLine(ctx context.Context, line *Line) (int64, error)
	UpdateTask(ctx context.Context, interventionID, taskID int64, status string) error
	AddPhoto(ctx context.Context, photo *Photo) (int64, error)
	SaveSignature(ctx context.Context, sig *Signature) error
	UpdateNote(ctx context.Context, interventionID int64, notePrivate string) error
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With("component", "intervention_service"),
	}
}

func (s *Service) List(ctx context.Context) ([]Intervention, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListStock(ctx context.Context) ([]StockItem, error) {
	return s.repo.ListStock(ctx)
}

func (s *Service) AddTimeEntry(ctx context.Context, entry *TimeEntry) (int64, error) {
	if entry.InterventionID <= 0 {
		return 0, fmt.Errorf("%w: intervention id is required", ErrInvalidInput)
	}
	if entry.DurationHours <= 0 && (entry.DateStart == nil || entry.DateEnd == nil) {
		return 0, fmt.Errorf("%w: either a duration or a start/end range is required", ErrInvalidInput)
	}

	id, err := s.repo.AddTimeEntry(ctx, entry)
	if err != nil {
		return 0, fmt.Errorf("add time entry: %w", err)
	}

	s.log.Info("time entry recorded",
		"intervention_id", entry.InterventionID,
		"duration_hours", entry.DurationHours,
		"manual", entry.IsManual,
	)
	return id, nil
}

func (s *Service) AddLine(ctx context.Context, line *Line) (int64, error) {
	if line.InterventionID <= 0 || line.ProductID <= 0 {
		return 0, fmt.Errorf("%w: intervention and product ids are required", ErrInvalidInput)
	}
	if line.QtyUsed <= 0 {
		return 0, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	id, err := s.repo.AddLine(ctx, line)
	if err != nil {
		return 0, fmt.Errorf("add line: %w", err)
	}

	s.log.Info("material line recorded",
		"intervention_id", line.InterventionID,
		"product_id", line.ProductID,
		"qty", line.QtyUsed,
	)
	return id, nil
}

func (s *Service) UpdateTask(ctx context.Context, interventionID, taskID int64, status string) error {
	if !ValidTaskStatus(status) {
		return fmt.Errorf("%w: unknown task status %q", ErrInvalidInput, status)
	}

	if err := s.repo.UpdateTaskStatus(ctx, interventionID, taskID, status); err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	s.log.Info("task status updated",
		"intervention_id", interventionID,
		"task_id", taskID,
		"status", status,
	)
	return nil
}

func (s *Service) AddPhoto(ctx context.Context, photo *Photo) (int64, error) {
	if photo.InterventionID <= 0 {
		return 0, fmt.Errorf("%w: intervention id is required", ErrInvalidInput)
	}
	if !ValidPhotoKind(photo.Kind) {
		return 0, fmt.Errorf("%w: unknown photo kind %q", ErrInvalidInput, photo.Kind)
	}
	if len(photo.Data) == 0 {
		return 0, fmt.Errorf("%w: photo data is empty", ErrInvalidInput)
	}

	id, err := s.repo.AddPhoto(ctx, photo)
	if err != nil {
		return 0, fmt.Errorf("add photo: %w", err)
	}

	s.log.Info("photo stored",
		"intervention_id", photo.InterventionID,
		"kind", photo.Kind,
		"bytes", len(photo.Data),
	)
	return id, nil
}

func (s *Service) SaveSignature(ctx context.Context, sig *Signature) error {
	if sig.InterventionID <= 0 {
		return fmt.Errorf("%w: intervention id is required", ErrInvalidInput)
	}
	if len(sig.Data) == 0 {
		return fmt.Errorf("%w: signature data is empty", ErrInvalidInput)
	}

	if err := s.repo.SaveSignature(ctx, sig); err != nil {
		return fmt.Errorf("save signature: %w", err)
	}

	s.log.Info("signature stored",
		"intervention_id", sig.InterventionID,
		"signer", sig.SignerName,
	)
	return nil
}

func (s *Service) UpdateNote(ctx context.Context, interventionID int64, notePrivate string) error {
	if interventionID <= 0 {
		return fmt.Errorf("%w: intervention id is required", ErrInvalidInput)
	}

	if err := s.repo.UpdateNote(ctx, interventionID, notePrivate); err != nil {
		return fmt.Errorf("update note: %w", err)
	}

	s.log.Info("private note updated", "intervention_id", interventionID)
	return nil
}
