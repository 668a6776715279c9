package agent

import (
	"context"
	"fmt"

	"fieldsync/internal/domain/pending"
)

// Gateway maps one pending mutation onto exactly one remote write. It carries
// no retries and no state: the remote call's outcome propagates verbatim to
// the sync engine.
type Gateway interface {
	Dispatch(ctx context.Context, item pending.Item) error
}

type remoteGateway struct {
	client *httpClient
}

func newRemoteGateway(client *httpClient) *remoteGateway {
	return &remoteGateway{client: client}
}

func (g *remoteGateway) Dispatch(ctx context.Context, item pending.Item) error {
	switch p := item.Payload.(type) {
	case pending.HourPayload:
		return g.client.AddTimeSpent(ctx, item.InterventionID, p)
	case pending.MaterialPayload:
		return g.client.AddInterventionLine(ctx, item.InterventionID, p)
	case pending.TaskPayload:
		return g.client.UpdateTask(ctx, item.InterventionID, p)
	case pending.PhotoPayload:
		return g.client.UploadPhoto(ctx, item.InterventionID, p)
	case pending.SignaturePayload:
		return g.client.SaveSignature(ctx, item.InterventionID, p)
	case pending.NotePayload:
		return g.client.UpdateIntervention(ctx, item.InterventionID, p)
	case nil:
		return fmt.Errorf("%w: item %d has no payload", pending.ErrInvalidPayload, item.ID)
	default:
		return fmt.Errorf("%w: %q", pending.ErrUnknownKind, item.Kind)
	}
}
