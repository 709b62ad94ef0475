package internal

import (
	"errors"
	"fmt"
)

// Stock slot names of the request chain.
const (
	SlotRequestID      = "requestID"
	SlotRecover        = "recover"
	SlotMetrics        = "metrics"
	SlotRouteResolver  = "routeResolver"
	SlotLoginCheck     = "loginCheck"
	SlotStaticResource = "staticResourceHandler"
)

var (
	// ErrSlotNotFound is returned when an override targets a slot that was never registered.
	ErrSlotNotFound = errors.New("approuter: middleware slot not found")

	// ErrDuplicateSlot is returned when two slots share the same name.
	ErrDuplicateSlot = errors.New("approuter: duplicate middleware slot")

	// ErrEmptySlotName is returned for slots registered without a name.
	ErrEmptySlotName = errors.New("approuter: empty middleware slot name")
)

// Slot is a named entry of the request chain.
type Slot struct {
	Middleware Middleware
	Name       string
}

// Chain is an ordered list of named middleware slots.
// Slots are addressed by name, so an implementation can be swapped
// without knowing its position in the chain.
type Chain struct {
	slots []Slot
}

// Append adds a slot at the end of the chain.
func (ch *Chain) Append(name string, mw Middleware) error {
	if name == "" {
		return ErrEmptySlotName
	}
	if ch.index(name) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateSlot, name)
	}
	ch.slots = append(ch.slots, Slot{Name: name, Middleware: mw})
	return nil
}

// Replace swaps the implementation of an existing slot in place.
func (ch *Chain) Replace(name string, mw Middleware) error {
	i := ch.index(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSlotNotFound, name)
	}
	ch.slots[i].Middleware = mw
	return nil
}

// Lookup returns the middleware registered under name.
func (ch *Chain) Lookup(name string) (Middleware, bool) {
	i := ch.index(name)
	if i < 0 {
		return nil, false
	}
	return ch.slots[i].Middleware, true
}

// Names returns slot names in execution order.
func (ch *Chain) Names() []string {
	names := make([]string, len(ch.slots))
	for i, s := range ch.slots {
		names[i] = s.Name
	}
	return names
}

// Len returns the number of slots.
func (ch *Chain) Len() int {
	return len(ch.slots)
}

// Then composes the chain around h. The first slot runs first.
func (ch *Chain) Then(h HandlerFunc) HandlerFunc {
	for i := len(ch.slots) - 1; i >= 0; i-- {
		if mw := ch.slots[i].Middleware; mw != nil {
			h = mw(h)
		}
	}
	return h
}

func (ch *Chain) index(name string) int {
	for i, s := range ch.slots {
		if s.Name == name {
			return i
		}
	}
	return -1
}
