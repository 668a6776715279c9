package emergency

import "context"

// Repository persists emergencies. Claim must be atomic: the status check and
// the claimant write happen in one server-side statement or transaction, never
// as a client-visible read-then-write.
type Repository interface {
	Create(ctx context.Context, em *Emergency) (int64, error)
	Get(ctx context.Context, id int64) (*Emergency, error)
	ListOpen(ctx context.Context) ([]Emergency, error)
	List(ctx context.Context) ([]Emergency, error)

	// Claim atomically transitions an open emergency to claimed. It returns
	// the updated row on success, ErrNotFound if the id is unknown and
	// ErrAlreadyClaimed if the emergency is no longer open. A repeat claim by
	// the winning user returns the stored row with no error.
	Claim(ctx context.Context, id int64, userID, userName string) (*Emergency, error)

	// Complete transitions claimed -> completed.
	Complete(ctx context.Context, id int64) (*Emergency, error)

	// Cancel transitions open -> cancelled or claimed -> cancelled.
	Cancel(ctx context.Context, id int64) (*Emergency, error)
}
