package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

const (
	// Client → Server
	MessageTypeNewRound MessageType = "new_round"
	MessageTypeTake     MessageType = "take"
	MessageTypePass     MessageType = "pass"
	MessageTypeDeal     MessageType = "deal"
	MessageTypeShowdown MessageType = "showdown"

	// Server → Client
	MessageTypeState MessageType = "state"
	MessageTypeError MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Error codes sent in ErrorData.
const (
	ErrorCodeInvalidMessage = "invalid_message"
	ErrorCodeInvalidCard    = "invalid_card"
	ErrorCodeRuleViolation  = "rule_violation"
)
