package nakama

import (
	"context"

	"github.com/heroiclabs/nakama-common/runtime"
)

// DispatcherPublisher implements ports.EventPublisher over the match
// dispatcher. The dispatcher is only valid inside a match callback, so the
// handler rebinds it at the top of every callback before any move runs.
type DispatcherPublisher struct {
	dispatcher runtime.MatchDispatcher
	logger     runtime.Logger
	presences  map[string]runtime.Presence
}

func NewDispatcherPublisher(presences map[string]runtime.Presence) *DispatcherPublisher {
	return &DispatcherPublisher{presences: presences}
}

// Bind points the publisher at the current callback's dispatcher and logger.
func (p *DispatcherPublisher) Bind(dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	p.dispatcher = dispatcher
	p.logger = logger
}

// Publish broadcasts one game event, or targets it when an audience is
// given. Delivery is fire and forget; a failed send never fails the move.
func (p *DispatcherPublisher) Publish(ctx context.Context, gameID, event string, payload any, audience []string) {
	if p.dispatcher == nil {
		return
	}

	var recipients []runtime.Presence
	if len(audience) > 0 {
		for _, userID := range audience {
			if presence, ok := p.presences[userID]; ok {
				recipients = append(recipients, presence)
			}
		}
		// A targeted event whose recipients are all disconnected must not
		// fall back to a broadcast.
		if len(recipients) == 0 {
			return
		}
	}

	data := encodeEvent(event, payload)
	if err := p.dispatcher.BroadcastMessage(OpGameEvent, data, recipients, nil, true); err != nil && p.logger != nil {
		p.logger.Error("Publish %s: broadcast failed: %v", event, err)
	}
}
