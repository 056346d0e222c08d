package oracle

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	New       Status = "NEW"
	Waiting   Status = "WAITING"
	Processed Status = "PROCESSED"
)

type Status string

type observableStatus struct {
	sync.RWMutex
	status Status
}

func NewObservableStatus() *observableStatus {
	return &observableStatus{
		status: New,
	}
}

func (o *observableStatus) Get() Status {
	o.RLock()
	defer o.RUnlock()
	return o.status
}

func (o *observableStatus) Set(status Status) {
	o.Lock()
	defer o.Unlock()
	o.status = status
}

// TriggerObservable polls the provider for the verdict of one order. Once
// the verdict is delivered the observable goes Processed and never emits
// again; removing it is up to the consumer of the event.
type TriggerObservable struct {
	TriggerId uuid.UUID
	OrderId   uint64
}

func (t *TriggerObservable) observe(
	source VerdictSource,
	errChan chan error,
	eventChan chan Event,
	observableStatus *observableStatus,
	rateLimiter *rate.Limiter,
) {
	if t == nil {
		return
	}

	observableStatus.Set(Waiting)
	if err := rateLimiter.Wait(context.Background()); err != nil {
		errChan <- err
		return
	}

	result, ready, err := source.Fetch(t.OrderId)
	if err != nil {
		pollErrorsTotal.Inc()
		errChan <- err
		observableStatus.Set(New)
		return
	}
	if !ready {
		observableStatus.Set(New)
		return
	}

	observableStatus.Set(Processed)
	verdictsTotal.Inc()

	eventChan <- VerdictEvent{
		TriggerId: t.TriggerId,
		OrderId:   t.OrderId,
		Result:    result,
	}
}

func (t *TriggerObservable) key() string {
	return t.TriggerId.String()
}

type observableHandler struct {
	observable       Observable
	source           VerdictSource
	wg               *sync.WaitGroup
	ticker           *time.Ticker
	eventChan        chan Event
	errChan          chan error
	stopChan         chan int
	observableStatus *observableStatus
	rateLimiter      *rate.Limiter
}

func newObservableHandler(
	observable Observable,
	source VerdictSource,
	wg *sync.WaitGroup,
	interval int,
	eventChan chan Event,
	errChan chan error,
	rateLimiter *rate.Limiter,
) *observableHandler {
	ticker := time.NewTicker(time.Duration(interval) * time.Millisecond)
	stopChan := make(chan int, 1)

	return &observableHandler{
		observable,
		source,
		wg,
		ticker,
		eventChan,
		errChan,
		stopChan,
		NewObservableStatus(),
		rateLimiter,
	}
}

func (oh *observableHandler) start() {
	log.Debugf("start observing trigger: %v", oh.observable.key())
	oh.wg.Add(1)
	for {
		select {
		case <-oh.ticker.C:
			if oh.observableStatus.Get() == New {
				oh.observable.observe(
					oh.source,
					oh.errChan,
					oh.eventChan,
					oh.observableStatus,
					oh.rateLimiter,
				)
			}
		case <-oh.stopChan:
			oh.ticker.Stop()
			close(oh.stopChan)
			return
		}
	}
}

func (oh *observableHandler) stop() {
	log.Debugf("stop observing trigger: %v", oh.observable.key())
	oh.stopChan <- 1
	oh.wg.Done()
}
