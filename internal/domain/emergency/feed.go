package emergency

// EventType mirrors the row-change kinds pushed by the realtime channel.
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// ChangeEvent is delivered to subscribers on every emergency row change,
// independent of the claim RPC.
type ChangeEvent struct {
	Type EventType  `json:"eventType"`
	New  *Emergency `json:"new,omitempty"`
}

// Feed is an abstract realtime change feed. The claim workflow and the alerting
// path subscribe through this interface so they can be driven by a fake feed in
// tests, decoupled from the concrete transport.
type Feed interface {
	// Subscribe returns a channel of change events and a cancel function.
	// The channel is closed when the subscription ends.
	Subscribe() (<-chan ChangeEvent, func())
}

// Publisher is the server-side counterpart of Feed: every successful write to
// the emergency store is published exactly once.
type Publisher interface {
	Publish(ev ChangeEvent)
}

// NopPublisher discards events; used where no realtime channel is wired.
type NopPublisher struct{}

func (NopPublisher) Publish(ChangeEvent) {}

// MultiPublisher forwards every event to each wrapped publisher in order.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ev ChangeEvent) {
	for _, p := range m {
		p.Publish(ev)
	}
}
