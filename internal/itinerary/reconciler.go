// Package itinerary merges timestamped snapshots of one reservation into a
// current itinerary plus the history of itineraries it superseded.
//
// Merging is "latest timestamp wins": the result does not depend on the
// order in which snapshots are delivered. A snapshot whose timestamp equals
// the current one does not replace it, so the first of several equal
// snapshots stays current.
package itinerary

import (
	"fmt"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"

	"traincal/internal/model"
)

const (
	calendarSearchBase = "https://calendar.google.com/calendar/r/search?q="
	mailSearchBase     = "https://mail.google.com/mail/u/0/#search/"

	calendarSearchTag = "amtrak2calendar"
	mailSearchTag     = "amtrak"
)

// ErrReservationMismatch marks merges that carried a reservation number
// different from the one already recorded.
var ErrReservationMismatch = errors.New("reservation number mismatch")

// MismatchError reports the two conflicting reservation numbers.
type MismatchError struct {
	Have string
	Got  string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("reservation number mismatch: %s != %s", e.Have, e.Got)
}

// Reconciler owns the state of a single reservation. It is not safe for
// concurrent use; the registry serializes access per reservation.
type Reconciler struct {
	reservationNumber string

	current   model.Itinerary
	timestamp time.Time
	hasTS     bool

	history   []model.Itinerary
	cancelled bool
}

// New returns an empty reconciler. reservationNumber may be empty, in which
// case the first non-empty number merged is adopted.
func New(reservationNumber string) *Reconciler {
	return &Reconciler{reservationNumber: reservationNumber}
}

// Merge folds one snapshot into the reservation.
//
// An empty reservationNumber means the caller does not know it. A non-empty
// number that differs from the recorded one fails with an error matching
// ErrReservationMismatch and leaves the state untouched.
func (r *Reconciler) Merge(timestamp time.Time, trains model.Itinerary, reservationNumber string) error {
	if reservationNumber != "" {
		if r.reservationNumber == "" {
			r.reservationNumber = reservationNumber
		} else if r.reservationNumber != reservationNumber {
			return errors.Mark(&MismatchError{Have: r.reservationNumber, Got: reservationNumber}, ErrReservationMismatch)
		}
	}

	if !r.hasTS {
		r.current = trains
		r.timestamp = timestamp
		r.hasTS = true
		return nil
	}

	if timestamp.After(r.timestamp) {
		// Empty placeholder itineraries are never archived.
		if len(r.current) != 0 {
			r.history = append(r.history, r.current)
		}
		r.current = trains
		r.timestamp = timestamp
		return nil
	}

	r.history = append(r.history, trains)
	return nil
}

// MergeSnapshot is Merge for a model.Snapshot.
func (r *Reconciler) MergeSnapshot(s model.Snapshot) error {
	return r.Merge(s.Timestamp, s.Trains, s.ReservationNumber)
}

// Cancel marks the reservation cancelled. Itinerary data is kept.
func (r *Reconciler) Cancel() {
	r.cancelled = true
}

func (r *Reconciler) ReservationNumber() string { return r.reservationNumber }
func (r *Reconciler) Cancelled() bool           { return r.cancelled }

// Current returns the itinerary of the latest snapshot merged so far.
func (r *Reconciler) Current() model.Itinerary { return r.current }

// Timestamp returns the timestamp of Current, and false before any merge.
func (r *Reconciler) Timestamp() (time.Time, bool) { return r.timestamp, r.hasTS }

// History returns superseded itineraries in the order they were archived.
func (r *Reconciler) History() []model.Itinerary { return r.history }

// Describe summarizes the current itinerary, e.g.
// "NEW YORK (PENN STATION), NY -> WASHINGTON, DC (round trip)".
func (r *Reconciler) Describe() string {
	trains := r.current
	switch len(trains) {
	case 0:
		return "(no trains)"
	case 1:
		return trains[0].DepartStationName + " -> " + trains[0].ArriveStationName + " (one-way)"
	case 2:
		first, second := trains[0], trains[1]
		if first.DepartStationName == second.ArriveStationName &&
			second.DepartStationName == first.ArriveStationName {
			return first.DepartStationName + " -> " + first.ArriveStationName + " (round trip)"
		}
		return first.DepartStationName + " -> " + second.ArriveStationName
	default:
		return trains[0].DepartStationName + " -> " + trains[len(trains)-1].ArriveStationName
	}
}

// CalendarSearchURL links to a calendar search for this reservation's events.
func (r *Reconciler) CalendarSearchURL() string {
	return calendarSearchBase + url.PathEscape(calendarSearchTag+" "+r.reservationNumber)
}

// MailSearchURL links to a mailbox search for this reservation's messages.
func (r *Reconciler) MailSearchURL() string {
	return mailSearchBase + url.QueryEscape(mailSearchTag+" "+r.reservationNumber)
}

// Display is the UI/report view of one reservation.
type Display struct {
	CalendarSearchURL string                 `json:"calendarSearchURL"`
	Description       string                 `json:"description"`
	MailSearchURL     string                 `json:"gmailSearchURL"`
	IsCancelled       bool                   `json:"isCancelled"`
	ReservationNumber string                 `json:"reservationNumber"`
	Trains            []model.TrainDisplay   `json:"trains"`
	RescheduledTrains [][]model.TrainDisplay `json:"rescheduledTrains"`
}

func (r *Reconciler) Display() Display {
	rescheduled := make([][]model.TrainDisplay, 0, len(r.history))
	for _, it := range r.history {
		rescheduled = append(rescheduled, it.Display())
	}
	return Display{
		CalendarSearchURL: r.CalendarSearchURL(),
		Description:       r.Describe(),
		MailSearchURL:     r.MailSearchURL(),
		IsCancelled:       r.cancelled,
		ReservationNumber: r.reservationNumber,
		Trains:            r.current.Display(),
		RescheduledTrains: rescheduled,
	}
}
