package main

import (
	"github.com/google/uuid"

	"github.com/pearscrow-network/pearscrow-daemon/internal/core/application"
	"github.com/pearscrow-network/pearscrow-daemon/pkg/oracle"
)

// triggerScheduler bridges the order service towards the verdict poller.
type triggerScheduler struct {
	pollSvc oracle.Service
}

func newTriggerScheduler(pollSvc oracle.Service) application.TriggerScheduler {
	return &triggerScheduler{pollSvc: pollSvc}
}

func (s *triggerScheduler) Schedule(triggerId uuid.UUID, orderId uint64) {
	s.pollSvc.AddObservable(&oracle.TriggerObservable{
		TriggerId: triggerId,
		OrderId:   orderId,
	})
}
