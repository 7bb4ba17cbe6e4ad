package service

import (
	"context"

	"github.com/Skotchmaster/museofile/internal/events"
	"github.com/Skotchmaster/museofile/pkg/logging"
)

// publish sends ev and only logs failures; events never fail a request.
func publish(ctx context.Context, p events.Publisher, topic string, ev events.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, topic, ev); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", topic, "type", ev.Type, "error", err)
	}
}
