package log

import "time"

// Event represents a protocol log event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// Direction indicates message flow.
	Direction Direction `cbor:"2,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"3,keyasint"`

	// Peer is the remote party: an instance name or host:port.
	Peer string `cbor:"4,keyasint,omitempty"`

	// Action is the handshake action involved (getInfo, addUser,
	// resetUsers) or a lifecycle verb (advertise, withdraw).
	Action string `cbor:"5,keyasint,omitempty"`

	// Status is the protocol status carried in a response, 0 if none.
	Status int `cbor:"6,keyasint,omitempty"`

	// UserName is the account name involved in a capture or wake.
	UserName string `cbor:"7,keyasint,omitempty"`

	// Decoded reports whether a captured credential survived the full
	// decrypt pipeline.
	Decoded bool `cbor:"8,keyasint,omitempty"`

	// Err is the error text for failure events.
	Err string `cbor:"9,keyasint,omitempty"`
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming message.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing message.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryDiscovery covers advertisements and browse results.
	CategoryDiscovery Category = 0
	// CategoryHandshake covers getInfo and resetUsers exchanges.
	CategoryHandshake Category = 1
	// CategoryCapture covers credential submissions to the emulator.
	CategoryCapture Category = 2
	// CategoryWake covers outbound wake attempts.
	CategoryWake Category = 3
	// CategoryError covers failures at any layer.
	CategoryError Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryDiscovery:
		return "DISCOVERY"
	case CategoryHandshake:
		return "HANDSHAKE"
	case CategoryCapture:
		return "CAPTURE"
	case CategoryWake:
		return "WAKE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
