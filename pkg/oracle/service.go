package oracle

import (
	"sync"

	"golang.org/x/time/rate"
)

const (
	eventQueueMaxSize = 100
	errorQueueMaxSize = 10
)

type verdictPoller struct {
	interval     int
	source       VerdictSource
	errChan      chan error
	eventChan    chan Event
	observables  map[string]*observableHandler
	errorHandler func(err error)
	rateLimiter  *rate.Limiter
	mutex        *sync.RWMutex
	wg           *sync.WaitGroup
}

// Opts defines the parameters needed for creating a poller service with
// NewService.
type Opts struct {
	Source                 VerdictSource
	IntervalInMilliseconds int
	RequestsPerSecond      float64
	ErrorHandler           func(err error)
}

// NewService returns a verdict poller that is ready to watch for trigger
// outcomes. Use Start and Stop methods to manage it.
func NewService(opts Opts) Service {
	return &verdictPoller{
		interval:     opts.IntervalInMilliseconds,
		source:       opts.Source,
		errChan:      make(chan error, errorQueueMaxSize),
		eventChan:    make(chan Event, eventQueueMaxSize),
		observables:  map[string]*observableHandler{},
		errorHandler: opts.ErrorHandler,
		rateLimiter:  rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		mutex:        &sync.RWMutex{},
		wg:           &sync.WaitGroup{},
	}
}

// Start dispatches the polling errors to the configured handler until the
// service is stopped.
func (v *verdictPoller) Start() {
	for err := range v.errChan {
		go v.errorHandler(err)
	}
}

// Stop stops every trigger handler and closes the event channel after
// emitting a final QuitEvent.
func (v *verdictPoller) Stop() {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	for _, obsHandler := range v.observables {
		go obsHandler.stop()
	}
	v.wg.Wait()
	v.eventChan <- QuitEvent{}
	close(v.errChan)
}

// GetEventChannel returns the channel the verdict events are emitted on.
func (v *verdictPoller) GetEventChannel() chan Event {
	v.mutex.RLock()
	defer v.mutex.RUnlock()
	return v.eventChan
}

// AddObservable starts polling the given trigger only if it is not watched
// already.
func (v *verdictPoller) AddObservable(observable Observable) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	if _, ok := v.observables[observable.key()]; !ok {
		obsHandler := newObservableHandler(
			observable,
			v.source,
			v.wg,
			v.interval,
			v.eventChan,
			v.errChan,
			v.rateLimiter,
		)

		v.observables[observable.key()] = obsHandler
		triggersTotal.Inc()
		go obsHandler.start()
	}
}

// RemoveObservable stops polling the given trigger.
func (v *verdictPoller) RemoveObservable(observable Observable) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	if obsHandler, ok := v.observables[observable.key()]; ok {
		obsHandler.stop()
		delete(v.observables, observable.key())
	}
}
