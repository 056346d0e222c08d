package oracle

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestVerdictDelivery(t *testing.T) {
	source := NewInMemorySource()
	pollSvc := NewService(Opts{
		Source:                 source,
		IntervalInMilliseconds: 10,
		RequestsPerSecond:      1000,
		ErrorHandler: func(err error) {
			t.Log(err)
		},
	})
	go pollSvc.Start()
	defer pollSvc.Stop()

	trigger := &TriggerObservable{TriggerId: uuid.New(), OrderId: 1}
	pollSvc.AddObservable(trigger)

	// no verdict yet, nothing must be emitted
	select {
	case event := <-pollSvc.GetEventChannel():
		t.Fatalf("unexpected event %v", event.Type())
	case <-time.After(100 * time.Millisecond):
	}

	source.SetVerdict(1, true)

	select {
	case event := <-pollSvc.GetEventChannel():
		verdict, ok := event.(VerdictEvent)
		require.True(t, ok)
		require.Equal(t, trigger.TriggerId, verdict.TriggerId)
		require.Equal(t, uint64(1), verdict.OrderId)
		require.True(t, verdict.Result)
	case <-time.After(2 * time.Second):
		t.Fatal("no verdict delivered")
	}

	// the verdict is delivered exactly once
	select {
	case event := <-pollSvc.GetEventChannel():
		if _, ok := event.(VerdictEvent); ok {
			t.Fatal("verdict delivered twice")
		}
	case <-time.After(200 * time.Millisecond):
	}

	pollSvc.RemoveObservable(trigger)
}

func TestAddObservableIsIdempotent(t *testing.T) {
	source := NewInMemorySource()
	source.SetVerdict(7, false)

	pollSvc := NewService(Opts{
		Source:                 source,
		IntervalInMilliseconds: 10,
		RequestsPerSecond:      1000,
		ErrorHandler:           func(err error) { t.Log(err) },
	})
	go pollSvc.Start()
	defer pollSvc.Stop()

	trigger := &TriggerObservable{TriggerId: uuid.New(), OrderId: 7}
	pollSvc.AddObservable(trigger)
	pollSvc.AddObservable(trigger)

	var delivered int
	timeout := time.After(2 * time.Second)
	for delivered == 0 {
		select {
		case event := <-pollSvc.GetEventChannel():
			if verdict, ok := event.(VerdictEvent); ok {
				require.False(t, verdict.Result)
				delivered++
			}
		case <-timeout:
			t.Fatal("no verdict delivered")
		}
	}

	select {
	case event := <-pollSvc.GetEventChannel():
		if _, ok := event.(VerdictEvent); ok {
			t.Fatal("verdict delivered twice")
		}
	case <-time.After(200 * time.Millisecond):
	}

	pollSvc.RemoveObservable(trigger)
}
