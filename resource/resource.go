// Package resource provides the reusable item type the demo binary and the
// exercise harness pool. A Resource stands in for something expensive to
// construct, such as a session, a codec instance, or a hardware handle.
package resource

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Resource is a named, serial-numbered reusable item with a usage counter.
//
// The serial and name are fixed at construction; the usage counter is safe
// to bump from any goroutine holding the resource.
type Resource struct {
	serial  uuid.UUID
	name    string
	created time.Time
	uses    atomic.Int64
}

// New constructs a single Resource with a fresh serial number.
func New(name string) *Resource {
	return &Resource{
		serial:  uuid.New(),
		name:    name,
		created: time.Now(),
	}
}

// Factory builds n resources named prefix-1 through prefix-n, suitable as a
// pool seed slice.
func Factory(prefix string, n int) []*Resource {
	items := make([]*Resource, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, New(fmt.Sprintf("%s-%d", prefix, i+1)))
	}
	return items
}

// Serial returns the resource's unique identifier.
func (r *Resource) Serial() uuid.UUID { return r.serial }

// Name returns the human-readable name given at construction.
func (r *Resource) Name() string { return r.name }

// Created returns the construction timestamp.
func (r *Resource) Created() time.Time { return r.created }

// Use records one use of the resource and returns the total so far.
func (r *Resource) Use() int64 { return r.uses.Add(1) }

// Uses returns how many times the resource has been used.
func (r *Resource) Uses() int64 { return r.uses.Load() }

// String identifies the resource by name and a short serial prefix. It is
// the key the borrow ledger records entries under.
func (r *Resource) String() string {
	return fmt.Sprintf("%s[%s]", r.name, r.serial.String()[:8])
}
