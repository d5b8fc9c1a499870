// Package registry keys itinerary reconcilers by reservation number for the
// lifetime of one processing run.
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"traincal/internal/itinerary"
	"traincal/internal/model"
)

// ErrMissingReservationNumber is returned for snapshots that cannot be
// routed because the extractor found no reservation number.
var ErrMissingReservationNumber = errors.New("snapshot has no reservation number")

// Registry routes snapshots and cancellations to the reconciler of their
// reservation. Delivery is serialized per reservation; different
// reservations do not share any state.
type Registry struct {
	mu           sync.Mutex
	reservations map[string]*entry
}

type entry struct {
	mu sync.Mutex
	r  *itinerary.Reconciler
}

func New() *Registry {
	return &Registry{reservations: make(map[string]*entry)}
}

func (g *Registry) entry(reservationNumber string) *entry {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.reservations[reservationNumber]
	if !ok {
		e = &entry{r: itinerary.New(reservationNumber)}
		g.reservations[reservationNumber] = e
	}
	return e
}

// With calls fn with the reconciler for reservationNumber, creating an
// empty one if needed, while holding that reservation's lock. The
// reconciler must not be retained after fn returns.
func (g *Registry) With(reservationNumber string, fn func(*itinerary.Reconciler) error) error {
	e := g.entry(reservationNumber)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.r)
}

// AddSnapshot merges one snapshot into its reservation. A mismatch error
// from the reconciler is returned wrapped with the reservation number; the
// reservation keeps its previous state.
func (g *Registry) AddSnapshot(timestamp time.Time, reservationNumber string, trains model.Itinerary) error {
	if reservationNumber == "" {
		return ErrMissingReservationNumber
	}
	e := g.entry(reservationNumber)
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.r.Merge(timestamp, trains, reservationNumber); err != nil {
		return errors.Wrapf(err, "merge snapshot for %s", reservationNumber)
	}
	return nil
}

// Add is AddSnapshot for a model.Snapshot.
func (g *Registry) Add(s model.Snapshot) error {
	return g.AddSnapshot(s.Timestamp, s.ReservationNumber, s.Trains)
}

// Cancel marks a known reservation cancelled. Unknown reservations are
// ignored; the return value reports whether one was found.
func (g *Registry) Cancel(reservationNumber string) bool {
	g.mu.Lock()
	e, ok := g.reservations[reservationNumber]
	g.mu.Unlock()
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.r.Cancel()
	return true
}

func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.reservations)
}

// Numbers returns the known reservation numbers in sorted order.
func (g *Registry) Numbers() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, 0, len(g.reservations))
	for n := range g.reservations {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Each calls fn for every reservation in reservation-number order while
// holding that reservation's lock.
func (g *Registry) Each(fn func(*itinerary.Reconciler)) {
	for _, n := range g.Numbers() {
		e := g.entry(n)
		e.mu.Lock()
		fn(e.r)
		e.mu.Unlock()
	}
}

// Display aggregates the display view of every reservation.
func (g *Registry) Display() []itinerary.Display {
	out := make([]itinerary.Display, 0, g.Len())
	g.Each(func(r *itinerary.Reconciler) {
		out = append(out, r.Display())
	})
	return out
}
