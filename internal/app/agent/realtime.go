package agent

import (
	"context"
	"encoding/json"
	"time"

	"github.com/coder/websocket"
	"golang.org/x/exp/slog"

	"fieldsync/internal/app/agent/config"
	"fieldsync/internal/domain/emergency"
)

// wsFeed implements emergency.Feed over a websocket to the server's realtime
// hub. The subscription reconnects with backoff for as long as it is held; a
// dropped link only delays events, it never errors the consumer.
type wsFeed struct {
	url string
	log *slog.Logger
}

func newWSFeed(cfg *config.Config, log *slog.Logger) *wsFeed {
	scheme := "ws://"
	if cfg.EnableTLS {
		scheme = "wss://"
	}
	return &wsFeed{
		url: scheme + cfg.ServerAddress + "/api/v1/emergencies/ws",
		log: log.With("component", "realtime_feed"),
	}
}

func (f *wsFeed) Subscribe() (<-chan emergency.ChangeEvent, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan emergency.ChangeEvent, 16)
	go f.run(ctx, events)
	return events, cancel
}

func (f *wsFeed) run(ctx context.Context, events chan<- emergency.ChangeEvent) {
	defer close(events)

	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return
		}

		err := f.consume(ctx, events)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			f.log.Warn("realtime connection lost", "error", err, "retry_in", backoff)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (f *wsFeed) consume(ctx context.Context, events chan<- emergency.ChangeEvent) error {
	conn, _, err := websocket.Dial(ctx, f.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	f.log.Info("realtime feed connected")

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		var ev emergency.ChangeEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			f.log.Warn("dropping malformed feed event", "error", err)
			continue
		}

		select {
		case events <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
