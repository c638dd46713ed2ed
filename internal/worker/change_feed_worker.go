package worker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/stemsi/profile-directory/internal/model"
	"github.com/stemsi/profile-directory/internal/notify"
)

// ChangeFeedWorker subscribes to the profiles Pub/Sub channel and forwards
// every event to the local Hub.
type ChangeFeedWorker struct {
	rdb     *redis.Client
	hub     *notify.Hub
	channel string
	log     zerolog.Logger
}

// NewChangeFeedWorker creates a new ChangeFeedWorker.
func NewChangeFeedWorker(rdb *redis.Client, hub *notify.Hub, channel string, log zerolog.Logger) *ChangeFeedWorker {
	return &ChangeFeedWorker{
		rdb:     rdb,
		hub:     hub,
		channel: channel,
		log:     log.With().Str("component", "change_feed_worker").Logger(),
	}
}

// Start blocks until ctx is cancelled. Call in a goroutine.
func (w *ChangeFeedWorker) Start(ctx context.Context) error {
	pubsub := w.rdb.Subscribe(ctx, w.channel)
	defer pubsub.Close()

	// Wait for the subscription confirmation so publish-after-start is seen.
	if _, err := pubsub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	w.log.Info().Str("channel", w.channel).Msg("Worker started")
	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			w.forward(msg.Payload)
		}
	}
}

func (w *ChangeFeedWorker) forward(payload string) {
	var ev model.ChangeEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		w.log.Warn().Err(err).Msg("Invalid change event payload")
		return
	}
	w.hub.Broadcast(ev)
}
