package events

// Publisher is the audit/notification collaborator surface: it receives
// discrete domain events and takes care of delivery or persistence itself
type Publisher interface {
	Publish(event Event)
}

// Ensure Hub implements Publisher
var _ Publisher = (*Hub)(nil)

// Publish implements Publisher by broadcasting the event to all clients
func (h *Hub) Publish(event Event) {
	h.Broadcast(event)
}

// NoOpPublisher is a publisher that does nothing (for tests or when the
// event surface is disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(event Event) {}
