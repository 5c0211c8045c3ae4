package service

import "github.com/PendoNL/spotify-connect-go/pkg/discovery"

// EventType identifies a service event.
type EventType uint8

const (
	// EventCaptureStarted - a receiver-emulation session began publishing.
	EventCaptureStarted EventType = iota

	// EventCaptureStopped - the emulation session was withdrawn.
	EventCaptureStopped

	// EventCredentialCaptured - a credential submission was received.
	// Usable reports whether the decrypt pipeline succeeded.
	EventCredentialCaptured

	// EventPeerDiscovered - a receiver advertisement was recorded.
	EventPeerDiscovered

	// EventWakeCompleted - a wake attempt finished; Err is nil on success.
	EventWakeCompleted
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventCaptureStarted:
		return "CAPTURE_STARTED"
	case EventCaptureStopped:
		return "CAPTURE_STOPPED"
	case EventCredentialCaptured:
		return "CREDENTIAL_CAPTURED"
	case EventPeerDiscovered:
		return "PEER_DISCOVERED"
	case EventWakeCompleted:
		return "WAKE_COMPLETED"
	default:
		return "UNKNOWN"
	}
}

// Event is delivered to registered handlers. The HTTP responder is not
// coupled to any UI; collaborators observe captures through these.
type Event struct {
	Type EventType

	// Name is the emulated receiver name for capture lifecycle events.
	Name string

	// UserName and Usable are set for EventCredentialCaptured.
	UserName string
	Usable   bool

	// Peer is set for EventPeerDiscovered.
	Peer *discovery.Peer

	// Target and Err are set for EventWakeCompleted.
	Target string
	Err    error
}

// EventHandler receives service events. Handlers run synchronously on
// the emitting goroutine and must return quickly.
type EventHandler func(Event)

// OnEvent registers an event handler.
func (s *Service) OnEvent(handler EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// emit delivers an event to all registered handlers.
func (s *Service) emit(event Event) {
	s.mu.Lock()
	handlers := make([]EventHandler, len(s.handlers))
	copy(handlers, s.handlers)
	s.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}
