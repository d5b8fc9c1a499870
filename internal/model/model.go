package model

import (
	"regexp"
	"strings"
	"time"

	"traincal/internal/station"
)

const (
	// TitlePrefix starts every calendar event title.
	TitlePrefix = "Amtrak Train"

	// IncompleteDuration stands in for the unknown travel time of trains
	// extracted from notification emails.
	IncompleteDuration = time.Hour

	dateFormat     = "Mon, Jan 2 2006, 3:04 PM MST"
	dateFormatNoTZ = "Mon, Jan 2 2006, 3:04 PM"
)

var (
	trainNumberRe = regexp.MustCompile(`\d+`)
	// "Train 173: NEW YORK (PENN STATION), NY - WASHINGTON, DC"
	trainTitleRe = regexp.MustCompile(`^Train \d+: (.+?) - (.+)$`)
)

// Train is one directed leg of an itinerary as asserted by one evidence
// source. Values are immutable once constructed; use the constructors.
type Train struct {
	// Name is the raw identifier the extractor found: "173" on tickets,
	// "Train 173: NEW YORK (PENN STATION), NY - WASHINGTON, DC" in emails.
	Name string

	// Origin / Destination are three-letter station codes. Empty for
	// trains taken from notification emails.
	Origin      string
	Destination string

	// Human-readable station names, used by reservation descriptions.
	DepartStationName string
	ArriveStationName string

	// Depart is always set. Arrive is zero for incomplete trains.
	Depart time.Time
	Arrive time.Time

	// Incomplete marks trains with only a naive local departure time.
	Incomplete bool
}

// NewTicketTrain builds a complete train from ticket text. Depart and Arrive
// are re-expressed in the time zones of their stations.
func NewTicketTrain(name, origin, destination string, depart, arrive time.Time) Train {
	return Train{
		Name:              name,
		Origin:            origin,
		Destination:       destination,
		DepartStationName: origin,
		ArriveStationName: destination,
		Depart:            depart.In(station.Location(origin)),
		Arrive:            arrive.In(station.Location(destination)),
	}
}

// NewIncompleteTrain builds a train from a notification email title. Station
// names are parsed from the title when it has the usual shape.
func NewIncompleteTrain(name string, depart time.Time) Train {
	t := Train{
		Name:       name,
		Depart:     depart,
		Incomplete: true,
	}
	if m := trainTitleRe.FindStringSubmatch(name); m != nil {
		t.DepartStationName = m[1]
		t.ArriveStationName = m[2]
	}
	return t
}

// Number returns the train's number, like "123", or "" if Name has none.
func (t Train) Number() string {
	return trainNumberRe.FindString(t.Name)
}

// Title is the calendar event title, e.g. "Amtrak Train 123: WAS -> NYP".
func (t Train) Title() string {
	origin := firstNonEmpty(t.Origin, t.DepartStationName)
	destination := firstNonEmpty(t.Destination, t.ArriveStationName)
	return TitlePrefix + " " + t.Number() + ": " + origin + " -> " + destination
}

// End is the arrival instant, or a placeholder hour after departure for
// incomplete trains.
func (t Train) End() time.Time {
	if t.Incomplete || t.Arrive.IsZero() {
		return t.Depart.Add(IncompleteDuration)
	}
	return t.Arrive
}

// DepartTimeZone is the IANA zone of the origin station, or "".
func (t Train) DepartTimeZone() string {
	tz, _ := station.TimeZone(t.Origin)
	return tz
}

// ArriveTimeZone is the IANA zone of the destination station, or "".
func (t Train) ArriveTimeZone() string {
	tz, _ := station.TimeZone(t.Destination)
	return tz
}

func (t Train) DepartString() string {
	return t.Depart.Format(dateFormat)
}

func (t Train) ArriveString() string {
	return t.End().Format(dateFormat)
}

// TrainDisplay is the UI-facing form of a train.
type TrainDisplay struct {
	Name   string `json:"name"`
	Depart string `json:"depart"`
}

func (t Train) Display() TrainDisplay {
	return TrainDisplay{
		Name:   t.Name,
		Depart: t.Depart.Format(dateFormatNoTZ),
	}
}

// Itinerary is the ordered list of trains asserted by one snapshot.
// Outbound legs come before return legs.
type Itinerary []Train

func (it Itinerary) Display() []TrainDisplay {
	out := make([]TrainDisplay, 0, len(it))
	for _, t := range it {
		out = append(out, t.Display())
	}
	return out
}

// Snapshot is one timestamped assertion of an itinerary. Timestamp is when
// the evidence was produced (the message date), not when it was read.
type Snapshot struct {
	Timestamp         time.Time
	ReservationNumber string
	Trains            Itinerary
}

// ExternalEvent is a calendar event as seen by the reconciler. Handle is
// opaque to everything except the calendar that produced it.
type ExternalEvent struct {
	Handle      string
	Title       string
	Start       time.Time
	End         time.Time
	Description string
}

// EventDescription is the description stamped into every event created for
// a reservation. It doubles as the tag used to find those events again.
func EventDescription(reservationNumber, product string) string {
	return ReservationTag(reservationNumber) + "\nCreated by " + product
}

// ReservationTag is the first line of EventDescription.
func ReservationTag(reservationNumber string) string {
	return "Reservation number: " + reservationNumber
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
