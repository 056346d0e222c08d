package oracle

import "github.com/google/uuid"

const (
	QuitSignal EventType = iota
	VerdictDelivered
)

type EventType int

func (et EventType) String() string {
	switch et {
	case QuitSignal:
		return "QuitSignal"
	case VerdictDelivered:
		return "VerdictDelivered"
	default:
		return "Unknown"
	}
}

type QuitEvent struct{}

func (q QuitEvent) Type() EventType {
	return QuitSignal
}

// VerdictEvent carries the outcome the provider produced for an order.
type VerdictEvent struct {
	TriggerId uuid.UUID
	OrderId   uint64
	Result    bool
}

func (v VerdictEvent) Type() EventType {
	return VerdictDelivered
}
