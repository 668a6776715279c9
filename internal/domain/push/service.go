package push

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"
)

type Servicer interface {
	Subscribe(ctx context.Context, sub *Subscription) error
	Unsubscribe(ctx context.Context, endpoint string) error
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With("component", "push_service"),
	}
}

func (s *Service) Subscribe(ctx context.Context, sub *Subscription) error {
	if sub.Endpoint == "" || sub.P256dh == "" || sub.Auth == "" {
		return fmt.Errorf("%w: endpoint and keys are required", ErrInvalidSubscription)
	}

	if err := s.repo.Save(ctx, sub); err != nil {
		return fmt.Errorf("save subscription: %w", err)
	}

	s.log.Info("push subscription registered", "user_id", sub.UserID)
	return nil
}

func (s *Service) Unsubscribe(ctx context.Context, endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("%w: endpoint is required", ErrInvalidSubscription)
	}
	return s.repo.DeleteByEndpoint(ctx, endpoint)
}
