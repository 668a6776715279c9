package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"fieldsync/internal/domain/emergency"
	"fieldsync/internal/domain/push"
)

// fakeSender records sent notifications and answers with a configurable status
// per endpoint.
type fakeSender struct {
	mu       sync.Mutex
	sent     []string
	statuses map[string]int
}

func newFakeSender() *fakeSender {
	return &fakeSender{statuses: make(map[string]int)}
}

func (s *fakeSender) Send(_ []byte, sub *webpush.Subscription, _ *webpush.Options) (*http.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sub.Endpoint)

	status := http.StatusCreated
	if code, ok := s.statuses[sub.Endpoint]; ok {
		status = code
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader("")),
	}, nil
}

func (s *fakeSender) sentTo() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.sent...)
}

type memSubscriptions struct {
	mu   sync.Mutex
	subs map[string]push.Subscription
}

func newMemSubscriptions(subs ...push.Subscription) *memSubscriptions {
	m := &memSubscriptions{subs: make(map[string]push.Subscription)}
	for _, s := range subs {
		m.subs[s.Endpoint] = s
	}
	return m
}

func (m *memSubscriptions) Save(_ context.Context, sub *push.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[sub.Endpoint] = *sub
	return nil
}

func (m *memSubscriptions) List(context.Context) ([]push.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]push.Subscription, 0, len(m.subs))
	for _, s := range m.subs {
		out = append(out, s)
	}
	return out, nil
}

func (m *memSubscriptions) DeleteByEndpoint(_ context.Context, endpoint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs, endpoint)
	return nil
}

func (m *memSubscriptions) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

func openEmergency(id int64) emergency.ChangeEvent {
	return emergency.ChangeEvent{
		Type: emergency.EventInsert,
		New: &emergency.Emergency{
			ID:                id,
			InterventionLabel: "Panne tableau",
			BonusAmount:       80,
			Currency:          "CHF",
			Status:            emergency.StatusOpen,
		},
	}
}

func TestNotifier_PushesToEverySubscription(t *testing.T) {
	// Arrange
	repo := newMemSubscriptions(
		push.Subscription{Endpoint: "https://push.example/a", P256dh: "k1", Auth: "a1"},
		push.Subscription{Endpoint: "https://push.example/b", P256dh: "k2", Auth: "a2"},
	)
	sender := newFakeSender()
	notifier := New(2, repo, &webpush.Options{}, slog.Default())
	notifier.SetSender(sender)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notifier.Start(ctx)

	// Act
	notifier.Publish(openEmergency(7))

	// Assert
	require.Eventually(t, func() bool { return len(sender.sentTo()) == 2 },
		time.Second, 10*time.Millisecond)
	assert.ElementsMatch(t, []string{"https://push.example/a", "https://push.example/b"}, sender.sentTo())
}

func TestNotifier_PrunesGoneEndpoints(t *testing.T) {
	repo := newMemSubscriptions(
		push.Subscription{Endpoint: "https://push.example/dead", P256dh: "k", Auth: "a"},
		push.Subscription{Endpoint: "https://push.example/live", P256dh: "k", Auth: "a"},
	)
	sender := newFakeSender()
	sender.statuses["https://push.example/dead"] = http.StatusGone
	notifier := New(1, repo, &webpush.Options{}, slog.Default())
	notifier.SetSender(sender)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notifier.Start(ctx)

	notifier.Publish(openEmergency(8))

	require.Eventually(t, func() bool { return repo.count() == 1 },
		time.Second, 10*time.Millisecond)

	subs, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "https://push.example/live", subs[0].Endpoint)
}

func TestNotifier_IgnoresUpdates(t *testing.T) {
	repo := newMemSubscriptions(
		push.Subscription{Endpoint: "https://push.example/a", P256dh: "k", Auth: "a"},
	)
	sender := newFakeSender()
	notifier := New(1, repo, &webpush.Options{}, slog.Default())
	notifier.SetSender(sender)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notifier.Start(ctx)

	notifier.Publish(emergency.ChangeEvent{
		Type: emergency.EventUpdate,
		New:  &emergency.Emergency{ID: 9, Status: emergency.StatusClaimed},
	})

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, sender.sentTo(), "only newly opened emergencies are pushed")
}

func TestPushMessagePayload(t *testing.T) {
	msg := pushMessage{
		Title:       "Urgence disponible",
		Body:        "Panne tableau: prime de 80.00 CHF",
		EmergencyID: 7,
		BonusAmount: 80,
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"emergency_id":7`)
}
