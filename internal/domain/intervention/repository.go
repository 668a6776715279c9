package intervention

import "context"

type Repository interface {
	List(ctx context.Context) ([]Intervention, error)
	Get(ctx context.Context, id int64) (*Intervention, error)
	ListStock(ctx context.Context) ([]StockItem, error)

	AddTimeEntry(ctx context.Context, entry *TimeEntry) (int64, error)
	AddLine(ctx context.Context, line *Line) (int64, error)
	UpdateTaskStatus(ctx context.Context, interventionID, taskID int64, status string) error
	AddPhoto(ctx context.Context, photo *Photo) (int64, error)
	SaveSignature(ctx context.Context, sig *Signature) error
	UpdateNote(ctx context.Context, interventionID int64, notePrivate string) error
}
