package ports

import "context"

// EventPublisher notifies external listeners of committed mutations.
// Publish is fire-and-forget: the core never depends on delivery and the
// call must not block on listener failures. An empty audience broadcasts to
// everyone in the game.
type EventPublisher interface {
	Publish(ctx context.Context, gameID, event string, payload any, audience []string)
}
