package domain

// EventKind discriminates inbound feed events.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventTrade   EventKind = "trade"
	EventAck     EventKind = "ack"
)

// Event is the tagged variant over inbound feed messages.
// Implementations are value types and immutable once constructed.
type Event interface {
	Kind() EventKind
}

// TokenCreated is a new token creation event from the discovery stream.
type TokenCreated struct {
	Mint       string // token mint address
	Name       string // token name
	Symbol     string // token symbol
	URI        string // metadata URI
	Pool       string // launch pool
	ReceivedAt int64  // Unix timestamp in milliseconds
}

// Kind returns EventCreated.
func (TokenCreated) Kind() EventKind { return EventCreated }

// ServerAck is a server acknowledgement or server-side error message.
// Subscription confirmations arrive as plain messages with no txType.
type ServerAck struct {
	Message string
	IsError bool
}

// Kind returns EventAck.
func (ServerAck) Kind() EventKind { return EventAck }
