package oracle

import "sync"

// InMemorySource is a VerdictSource fed by the operator process itself,
// useful for local deployments and tests. Polls for an order return not
// ready until SetVerdict is called for it.
type InMemorySource struct {
	mutex    *sync.RWMutex
	verdicts map[uint64]bool
}

func NewInMemorySource() *InMemorySource {
	return &InMemorySource{
		mutex:    &sync.RWMutex{},
		verdicts: map[uint64]bool{},
	}
}

// SetVerdict makes the verdict for the given order available to pollers.
func (s *InMemorySource) SetVerdict(orderId uint64, result bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.verdicts[orderId] = result
}

func (s *InMemorySource) Fetch(orderId uint64) (bool, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	result, ready := s.verdicts[orderId]
	return result, ready, nil
}
