package emergency

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"
)

// Servicer is the emergency workflow used by the HTTP handlers.
type Servicer interface {
	Create(ctx context.Context, req CreateRequest) (*Emergency, error)
	Get(ctx context.Context, id int64) (*Emergency, error)
	ListOpen(ctx context.Context) ([]Emergency, error)
	List(ctx context.Context) ([]Emergency, error)
	Claim(ctx context.Context, id int64, userID, userName string) (*ClaimResult, error)
	Complete(ctx context.Context, id int64) (*Emergency, error)
	Cancel(ctx context.Context, id int64) (*Emergency, error)
}

// CreateRequest carries the admin input for broadcasting a new emergency.
type CreateRequest struct {
	InterventionID    int64
	InterventionRef   string
	InterventionLabel string
	ClientName        string
	Location          string
	Description       string
	BonusAmount       float64
	Currency          string
	CreatedByUserID   string
	CreatedByUserName string
}

// Service implements the claim-once workflow on top of a Repository whose
// Claim is atomic. The service itself never arbitrates races.
type Service struct {
	repo Repository
	pub  Publisher
	log  *slog.Logger
}

func NewService(repo Repository, pub Publisher, log *slog.Logger) *Service {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &Service{
		repo: repo,
		pub:  pub,
		log:  log.With("component", "emergency_service"),
	}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Emergency, error) {
	if req.InterventionID <= 0 {
		return nil, fmt.Errorf("%w: missing intervention id", ErrInvalidInput)
	}
	if req.BonusAmount < 0 {
		return nil, fmt.Errorf("%w: negative bonus", ErrInvalidInput)
	}
	if req.Currency == "" {
		req.Currency = "CHF"
	}

	em := &Emergency{
		InterventionID:    req.InterventionID,
		InterventionRef:   req.InterventionRef,
		InterventionLabel: req.InterventionLabel,
		ClientName:        req.ClientName,
		Location:          req.Location,
		Description:       req.Description,
		BonusAmount:       req.BonusAmount,
		Currency:          req.Currency,
		Status:            StatusOpen,
		CreatedByUserID:   req.CreatedByUserID,
		CreatedByUserName: req.CreatedByUserName,
	}

	id, err := s.repo.Create(ctx, em)
	if err != nil {
		return nil, fmt.Errorf("create emergency: %w", err)
	}
	em.ID = id

	s.log.Info("emergency broadcast",
		"emergency_id", em.ID,
		"intervention_id", em.InterventionID,
		"bonus", em.BonusAmount,
	)
	s.pub.Publish(ChangeEvent{Type: EventInsert, New: em})

	return em, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Emergency, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListOpen(ctx context.Context) ([]Emergency, error) {
	return s.repo.ListOpen(ctx)
}

func (s *Service) List(ctx context.Context) ([]Emergency, error) {
	return s.repo.List(ctx)
}

// Claim resolves a claim attempt. Race losses and unknown ids come back as a
// structured failure, not an error: losing is an expected outcome, and the
// caller must not retry it.
func (s *Service) Claim(ctx context.Context, id int64, userID, userName string) (*ClaimResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidInput)
	}

	em, err := s.repo.Claim(ctx, id, userID, userName)
	switch {
	case errors.Is(err, ErrNotFound):
		return &ClaimResult{Success: false, Error: "not found"}, nil
	case errors.Is(err, ErrAlreadyClaimed):
		s.log.Info("claim lost", "emergency_id", id, "user_id", userID)
		return &ClaimResult{Success: false, Error: "already claimed"}, nil
	case err != nil:
		return nil, fmt.Errorf("claim emergency %d: %w", id, err)
	}

	s.log.Info("claim won",
		"emergency_id", id,
		"user_id", userID,
		"bonus", em.BonusAmount,
	)
	s.pub.Publish(ChangeEvent{Type: EventUpdate, New: em})

	return &ClaimResult{Success: true, BonusAmount: em.BonusAmount, Emergency: em}, nil
}

func (s *Service) Complete(ctx context.Context, id int64) (*Emergency, error) {
	em, err := s.repo.Complete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.pub.Publish(ChangeEvent{Type: EventUpdate, New: em})
	return em, nil
}

func (s *Service) Cancel(ctx context.Context, id int64) (*Emergency, error) {
	em, err := s.repo.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}
	s.pub.Publish(ChangeEvent{Type: EventUpdate, New: em})
	return em, nil
}
