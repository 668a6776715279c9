package push

import (
	"context"
	"errors"
)

var ErrInvalidSubscription = errors.New("invalid subscription")

type Repository interface {
	// Save upserts by endpoint: re-registering an existing endpoint refreshes
	// its keys instead of duplicating the row.
	Save(ctx context.Context, sub *Subscription) error
	List(ctx context.Context) ([]Subscription, error)
	DeleteByEndpoint(ctx context.Context, endpoint string) error
}
