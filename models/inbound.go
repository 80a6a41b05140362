package models

// InboundKind classifies an event arriving from the chat transport.
type InboundKind int

const (
	KindText InboundKind = iota
	KindCommand
	KindCallback
)

// Inbound is a transport-neutral chat event.
type Inbound struct {
	BusinessID string
	UserID     int64
	ChatID     int64
	Profile    CustomerProfile
	Kind       InboundKind
	// Command is the slash command without "/" or bot mention.
	Command      string
	Text         string
	CallbackData string
}
