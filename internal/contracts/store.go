/*
Package contracts
File: store.go
Description:
    In-memory contract store with the lifecycle state machine.

    Contracts are created pending with a 24 hour window. Every read path first
    sweeps expired pending contracts out of the map, so an unaccepted quote
    simply vanishes after its window closes. One mutex serializes every
    operation; reads take it too because they sweep.

    Nothing in here is fatal to the host process: operations report failure
    with a bool or a missing result, never a panic.
*/

package contracts

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/everforgeworks/colony-logistics/internal/pricing"
)

// Status is the lifecycle state of a contract.
type Status string

const (
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusInProgress Status = "in_progress"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// ValidStatus reports whether s is a known lifecycle state.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusInProgress, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// ExpiryWindow is how long a pending contract stays acceptable.
const ExpiryWindow = 24 * time.Hour

// Contract is a user's pending-or-accepted delivery request with its quote.
type Contract struct {
	ID          string        `json:"contract_id"`
	UserID      string        `json:"user_id"`
	Commodities []string      `json:"commodities"`
	Quantities  []int         `json:"quantities"`
	Destination string        `json:"destination"`
	PrimaryPort bool          `json:"primary_port"`
	DaysLeft    *int          `json:"days_left,omitempty"`
	Quote       pricing.Quote `json:"quote"`

	Status      Status     `json:"status"`
	ThreadID    int64      `json:"thread_id,omitempty"` // Chat thread attached to this contract, if any
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// seq breaks creation-time ties when listing; ids from the same clock
	// tick still list newest-first.
	seq uint64
}

// Stats summarizes the resident contract set.
type Stats struct {
	Total      int `json:"total_contracts"`
	Pending    int `json:"pending"`
	Accepted   int `json:"accepted"`
	InProgress int `json:"in_progress"`
	Delivered  int `json:"delivered"`
	Cancelled  int `json:"cancelled"`
}

// Clock supplies the current time. Injected so tests can move it.
type Clock func() time.Time

// Store owns the contract collection. All status changes go through it.
type Store struct {
	mu        sync.Mutex
	now       Clock
	contracts map[string]*Contract
	nextSeq   uint64
}

// NewStore builds a Store on the wall clock.
func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock builds a Store with an injected clock.
func NewStoreWithClock(now Clock) *Store {
	return &Store{
		now:       now,
		contracts: make(map[string]*Contract),
	}
}

// Create inserts a pending contract and returns its id.
// The id is an 8 character uppercase token, short enough to share in chat.
func (s *Store) Create(userID string, commodities []string, quantities []int, destination string, primaryPort bool, daysLeft *int, quote pricing.Quote) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := newContractID()
	for {
		if _, taken := s.contracts[id]; !taken {
			break
		}
		id = newContractID()
	}

	created := s.now()
	s.nextSeq++
	s.contracts[id] = &Contract{
		ID:          id,
		UserID:      userID,
		Commodities: append([]string(nil), commodities...),
		Quantities:  append([]int(nil), quantities...),
		Destination: destination,
		PrimaryPort: primaryPort,
		DaysLeft:    daysLeft,
		Quote:       quote,
		Status:      StatusPending,
		CreatedAt:   created,
		ExpiresAt:   created.Add(ExpiryWindow),
		seq:         s.nextSeq,
	}
	return id
}

// Get returns a contract snapshot by id.
// Expired pending contracts are swept first, so an expired id reads exactly
// like an id that never existed.
func (s *Store) Get(id string) (Contract, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	c, ok := s.contracts[id]
	if !ok {
		return Contract{}, false
	}
	return c.snapshot(), true
}

// Accept transitions a pending contract to accepted.
// Returns false when the id is unknown, expired, or already non-pending.
// Ownership is NOT checked here; the serving layer does that before calling.
func (s *Store) Accept(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	c, ok := s.contracts[id]
	if !ok || c.Status != StatusPending {
		return false
	}

	when := s.now()
	c.Status = StatusAccepted
	c.AcceptedAt = &when
	return true
}

// ListForUser returns the user's contracts, newest created first.
func (s *Store) ListForUser(userID string) []Contract {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	out := []Contract{}
	for _, c := range s.contracts {
		if c.UserID == userID {
			out = append(out, c.snapshot())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].seq > out[j].seq
	})
	return out
}

// UpdateStatus sets a contract's status unconditionally.
// This is the administrative hook for out-of-band lifecycle updates (delivery
// confirmation, cancellation) and deliberately skips transition validation.
func (s *Store) UpdateStatus(id string, status Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contracts[id]
	if !ok {
		return false
	}

	c.Status = status
	if status == StatusDelivered {
		when := s.now()
		c.CompletedAt = &when
	}
	return true
}

// SetThread records the chat thread coordinating a contract's delivery.
func (s *Store) SetThread(id string, threadID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contracts[id]
	if !ok {
		return false
	}
	c.ThreadID = threadID
	return true
}

// Stats counts resident contracts by status. It does not sweep, so recently
// expired pending contracts still count until the next read touches the map.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{Total: len(s.contracts)}
	for _, c := range s.contracts {
		switch c.Status {
		case StatusPending:
			stats.Pending++
		case StatusAccepted:
			stats.Accepted++
		case StatusInProgress:
			stats.InProgress++
		case StatusDelivered:
			stats.Delivered++
		case StatusCancelled:
			stats.Cancelled++
		}
	}
	return stats
}

// sweepLocked deletes pending contracts past their expiry. Caller holds s.mu.
func (s *Store) sweepLocked() {
	now := s.now()
	for id, c := range s.contracts {
		if c.Status == StatusPending && now.After(c.ExpiresAt) {
			delete(s.contracts, id)
		}
	}
}

// snapshot copies a contract so callers never share the stored slices.
func (c *Contract) snapshot() Contract {
	out := *c
	out.Commodities = append([]string(nil), c.Commodities...)
	out.Quantities = append([]int(nil), c.Quantities...)
	if c.DaysLeft != nil {
		d := *c.DaysLeft
		out.DaysLeft = &d
	}
	return out
}

func newContractID() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
