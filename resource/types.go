package resource

// Handle is an opaque reference to a boundary result in a table.
// Handle 0 is reserved and always invalid; releasing it is a no-op.
type Handle uint64

// Result type IDs. The table checks them on typed access so a text
// handle can never be released through the binary path or vice versa.
const (
	TypeText   uint32 = 1
	TypeBinary uint32 = 2
)

// Event types for result lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventReleased
)

// Event represents a result lifecycle event.
type Event struct {
	Handle Handle
	TypeID uint32
	Type   EventType
	Size   int
}

// Observer receives notifications about result lifecycle events.
type Observer interface {
	OnResultEvent(Event)
}
