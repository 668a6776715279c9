// Package notify fans new emergencies out as web push notifications, reaching
// technicians whose app is backgrounded and not holding a WebSocket.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"golang.org/x/exp/slog"

	"fieldsync/internal/domain/emergency"
	"fieldsync/internal/domain/push"
)

// Sender sends one web push notification. Abstracted so tests never hit a
// real push service.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the production Sender backed by the webpush library.
type WebPushSender struct{}

func (WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

type pushMessage struct {
	Title       string  `json:"title"`
	Body        string  `json:"body"`
	EmergencyID int64   `json:"emergency_id"`
	BonusAmount float64 `json:"bonus_amount"`
}

// Notifier consumes emergency change events and pushes a notification for each
// newly opened emergency through a small worker pool. It implements
// emergency.Publisher so it can sit next to the WebSocket hub behind a
// MultiPublisher.
type Notifier struct {
	size    int
	jobs    chan *emergency.Emergency
	repo    push.Repository
	options *webpush.Options
	sender  Sender
	log     *slog.Logger
}

func New(size int, repo push.Repository, options *webpush.Options, log *slog.Logger) *Notifier {
	return &Notifier{
		size:    size,
		jobs:    make(chan *emergency.Emergency, size),
		repo:    repo,
		options: options,
		sender:  WebPushSender{},
		log:     log.With("component", "push_notifier"),
	}
}

// SetSender replaces the sender; used by tests.
func (n *Notifier) SetSender(s Sender) {
	n.sender = s
}

// Start launches the worker goroutines; they stop when ctx is cancelled.
func (n *Notifier) Start(ctx context.Context) {
	for i := 0; i < n.size; i++ {
		go n.worker(ctx)
	}
}

// Publish enqueues newly opened emergencies for notification. Claim and state
// updates are not pushed, only the WebSocket feed carries those.
func (n *Notifier) Publish(ev emergency.ChangeEvent) {
	if ev.Type != emergency.EventInsert || ev.New == nil {
		return
	}

	select {
	case n.jobs <- ev.New:
	default:
		n.log.Warn("notification queue full, dropping", "emergency_id", ev.New.ID)
	}
}

func (n *Notifier) worker(ctx context.Context) {
	for {
		select {
		case em := <-n.jobs:
			n.notifyAll(ctx, em)
		case <-ctx.Done():
			return
		}
	}
}

func (n *Notifier) notifyAll(ctx context.Context, em *emergency.Emergency) {
	subs, err := n.repo.List(ctx)
	if err != nil {
		n.log.Error("failed to list subscriptions", "error", err)
		return
	}
	if len(subs) == 0 {
		return
	}

	payload, err := json.Marshal(pushMessage{
		Title:       "Urgence disponible",
		Body:        fmt.Sprintf("%s: prime de %.2f %s", em.InterventionLabel, em.BonusAmount, em.Currency),
		EmergencyID: em.ID,
		BonusAmount: em.BonusAmount,
	})
	if err != nil {
		n.log.Error("failed to marshal push payload", "error", err)
		return
	}

	n.log.Info("pushing emergency notification",
		"emergency_id", em.ID,
		"subscriptions", len(subs),
	)

	for _, sub := range subs {
		n.send(ctx, sub, payload)
	}
}

func (n *Notifier) send(ctx context.Context, sub push.Subscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}

	resp, err := n.sender.Send(payload, wpSub, n.options)
	if err != nil {
		n.log.Warn("push send failed", "endpoint", sub.Endpoint, "error", err)
		return
	}
	defer resp.Body.Close()

	// Expired or unregistered endpoints are pruned so the list stays clean.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		if err := n.repo.DeleteByEndpoint(ctx, sub.Endpoint); err != nil {
			n.log.Warn("failed to prune dead subscription", "endpoint", sub.Endpoint, "error", err)
		}
	}
}
