package payment

import (
	"errors"
	"sync"
)

// ErrNoAmountAvailable means every surcharge slot is held by a live session.
var ErrNoAmountAvailable = errors.New("no unique payment amount available")

// AmountAllocator hands out paise surcharges so that each live payment
// session has a distinct payable amount. The surcharge is what lets an
// operator match an incoming UPI credit to a specific order; the matching
// itself happens out of band.
type AmountAllocator struct {
	mu    sync.Mutex
	inUse map[int]bool
}

func NewAmountAllocator() *AmountAllocator {
	return &AmountAllocator{inUse: make(map[int]bool)}
}

// Allocate returns the smallest free surcharge in paise (1..99). The slot
// stays reserved until Release.
func (a *AmountAllocator) Allocate() (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for p := 1; p <= 99; p++ {
		if !a.inUse[p] {
			a.inUse[p] = true
			return p, nil
		}
	}
	return 0, ErrNoAmountAvailable
}

func (a *AmountAllocator) Release(paise int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.inUse, paise)
}
