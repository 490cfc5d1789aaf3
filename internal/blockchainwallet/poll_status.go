package blockchainwallet

import (
	"sync"
	"time"
)

// PollStatus captures the outcome of the most recent monitor poll.
type PollStatus struct {
	Healthy     bool      `json:"healthy"`
	Message     string    `json:"message,omitempty"`
	LastChecked time.Time `json:"last_checked"`
	Balance     any       `json:"balance,omitempty"`
	Addresses   int       `json:"addresses"`
}

// PollStatusStore holds poll state separate from config so the monitor loop
// and the health handler can coordinate safely.
type PollStatusStore struct {
	mu     sync.RWMutex
	status PollStatus
	polls  int
}

func NewPollStatusStore() *PollStatusStore {
	return &PollStatusStore{
		status: PollStatus{Healthy: true, Message: "not yet polled"},
	}
}

func (s *PollStatusStore) Update(status PollStatus) {
	if status.LastChecked.IsZero() {
		status.LastChecked = time.Now().UTC()
	}
	s.mu.Lock()
	s.status = status
	s.polls++
	s.mu.Unlock()
}

func (s *PollStatusStore) Get() (PollStatus, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status, s.polls
}
