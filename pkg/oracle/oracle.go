// Package oracle polls an external verdict provider for the outcome of
// triggered escrow orders and emits the delivered verdicts through a channel.
package oracle

import (
	"golang.org/x/time/rate"
)

// Event are emitted through a channel while polling.
type Event interface {
	Type() EventType
}

// VerdictSource is the external provider the triggers are polled against.
// Fetch returns ready=false until the provider has produced a verdict for
// the given order.
type VerdictSource interface {
	Fetch(orderId uint64) (result bool, ready bool, err error)
}

// Observable represents a trigger whose verdict can be polled.
type Observable interface {
	observe(
		source VerdictSource,
		errChan chan error,
		eventChan chan Event,
		observableStatus *observableStatus,
		rateLimiter *rate.Limiter,
	)
	key() string
}

// Service is the interface for the verdict poller.
type Service interface {
	Start()
	Stop()
	AddObservable(observable Observable)
	RemoveObservable(observable Observable)
	GetEventChannel() chan Event
}
