package cache

import (
	"context"

	"github.com/goccy/go-json"
)

// Envelope is the unit relayed between server processes over Redis pub/sub.
// Payload is the already-marshalled client event; ExcludeUserID lets
// originator-excluding broadcasts (typing) survive the hop.
type Envelope struct {
	Topic         string          `json:"topic"`
	ExcludeUserID string          `json:"excludeUserId,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

func (c *Cache) PublishEnvelope(ctx context.Context, env Envelope) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return c.rdb.Publish(ctx, env.Topic, data).Err()
}

// SubscribeEnvelopes pattern-subscribes and feeds decoded envelopes until ctx
// is done or the connection drops. Decode failures are logged and skipped.
func (c *Cache) SubscribeEnvelopes(ctx context.Context, patterns ...string) (<-chan Envelope, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	pubsub := c.rdb.PSubscribe(ctx, patterns...)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	out := make(chan Envelope, 64)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var env Envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					c.logger.Error("dropping malformed pub/sub envelope", "channel", msg.Channel, "err", err)
					continue
				}
				out <- env
			}
		}
	}()
	return out, nil
}
