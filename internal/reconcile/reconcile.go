// Package reconcile computes the create/delete operations that bring a
// reservation's calendar events in line with its current itinerary.
//
// Matching is one-to-one in scan order: each train claims at most one
// event, and each event is kept only if it is the first match for a train
// not yet claimed. Duplicates and orphans are deleted; when two identical
// events match the same train, the one listed first survives.
package reconcile

import (
	"traincal/internal/model"
)

// Plan lists the events to create (one per train) and the existing events
// to delete. Kept counts existing events left untouched.
type Plan struct {
	ReservationNumber string
	ToCreate          []model.Train
	ToDelete          []model.ExternalEvent
	Kept              int
}

// Empty reports whether applying the plan would change nothing.
func (p Plan) Empty() bool {
	return len(p.ToCreate) == 0 && len(p.ToDelete) == 0
}

// Reconciler decides event matches. Product is the name stamped into event
// descriptions.
type Reconciler struct {
	Product string
}

func New(product string) Reconciler {
	return Reconciler{Product: product}
}

// Matches reports whether ev represents train for the reservation: title,
// start, end and description must all be equal.
func (c Reconciler) Matches(reservationNumber string, train model.Train, ev model.ExternalEvent) bool {
	return ev.Title == train.Title() &&
		ev.Start.Equal(train.Depart) &&
		ev.End.Equal(train.End()) &&
		ev.Description == model.EventDescription(reservationNumber, c.Product)
}

// Reconcile computes the plan for one reservation. It never fails and
// never performs I/O. A cancelled reservation deletes every event and
// creates none.
func (c Reconciler) Reconcile(reservationNumber string, trains model.Itinerary, cancelled bool, existing []model.ExternalEvent) Plan {
	plan := Plan{ReservationNumber: reservationNumber}

	if cancelled {
		plan.ToDelete = append(plan.ToDelete, existing...)
		return plan
	}

	// Every train needs at least one matching event somewhere.
	for _, train := range trains {
		found := false
		for _, ev := range existing {
			if c.Matches(reservationNumber, train, ev) {
				found = true
				break
			}
		}
		if !found {
			plan.ToCreate = append(plan.ToCreate, train)
		}
	}

	// Each event survives only as the first match of an unclaimed train.
	claimed := make([]bool, len(trains))
	for _, ev := range existing {
		kept := false
		for i, train := range trains {
			if claimed[i] || !c.Matches(reservationNumber, train, ev) {
				continue
			}
			claimed[i] = true
			kept = true
			break
		}
		if kept {
			plan.Kept++
			continue
		}
		plan.ToDelete = append(plan.ToDelete, ev)
	}

	return plan
}

// EventFor builds the event that Reconcile expects to find for train.
// Calendars use it when applying ToCreate.
func (c Reconciler) EventFor(reservationNumber string, train model.Train) model.ExternalEvent {
	return model.ExternalEvent{
		Title:       train.Title(),
		Start:       train.Depart,
		End:         train.End(),
		Description: model.EventDescription(reservationNumber, c.Product),
	}
}
