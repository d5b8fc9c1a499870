// Package extract pulls reservation numbers and trains out of the two
// evidence sources: notification email bodies and OCR'd ticket text.
//
// Extraction is best effort. Text that lacks the expected structure yields
// an empty itinerary rather than an error.
package extract

import (
	"html"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"traincal/internal/model"
	"traincal/internal/station"
)

// Extractor turns raw text into a reservation number (possibly empty) and
// the trains it describes.
type Extractor interface {
	Extract(text string) (reservationNumber string, trains model.Itinerary)
}

var (
	emailReservationRe  = regexp.MustCompile(`Reservation Number - ([A-Z0-9]+)`)
	ticketReservationRe = regexp.MustCompile(`(?m)RESERVATION NUMBER ([A-Z0-9]{6})`)

	emailTrainRe = regexp.MustCompile(`ChangeSummaryTrainInfo">(Train [^<]+)</span><span .*?ChangeSummaryDepart">Depart (.*?)<`)

	ticketStationsRe = regexp.MustCompile(`(?m)(\b\w{3}\b) (\b\w{3}\b) (Round-Trip|One-Way)`)
	ticketTrainRe    = regexp.MustCompile(strings.Join([]string{
		// Train and train number.
		`(TRAIN [\s\S]*?(\d+)[\s\S]*?)`,
		// Only the year; month and day near the train header OCR poorly.
		`(\b\d{4}\b)`,
		`[\s\S]*?`,
		`DEPARTS ARRIVES `,
		// Date, like "(Sun Nov 25)".
		`\((.+?)\) `,
		`[\s\S]*?`,
		// Departure time of day.
		`(\d+:\d+ (?:AM|PM)) `,
		`[\s\S]*?`,
		// Arrival time of day.
		`(\d+:\d+ (?:AM|PM) ?)`,
	}, ""))

	cancellationRe = regexp.MustCompile(`(?i)reservation cancel+ed`)
)

const (
	emailDepartLayout = "3:04 PM, Mon, January 2 2006"
	ticketTimeLayout  = "Mon Jan 2 2006 3:04 PM"
)

// ReservationNumberFromEmail returns the reservation number of a
// notification email body, or "".
func ReservationNumberFromEmail(body string) string {
	if m := emailReservationRe.FindStringSubmatch(body); m != nil {
		return m[1]
	}
	return ""
}

// ReservationNumberFromTicket returns the reservation number printed on a
// ticket, or "".
func ReservationNumberFromTicket(text string) string {
	if m := ticketReservationRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// IsCancellation reports whether text announces a cancelled reservation.
func IsCancellation(text string) bool {
	return cancellationRe.MatchString(text)
}

// Email extracts incomplete trains from notification email bodies. Departure
// times carry no zone in the email and are read in Location.
type Email struct {
	Location *time.Location
}

func (e Email) Extract(body string) (string, model.Itinerary) {
	loc := e.Location
	if loc == nil {
		loc = time.UTC
	}

	trains := model.Itinerary{}
	for _, m := range emailTrainRe.FindAllStringSubmatch(body, -1) {
		depart, err := time.ParseInLocation(emailDepartLayout, strings.TrimSpace(html.UnescapeString(m[2])), loc)
		if err != nil {
			continue
		}
		trains = append(trains, model.NewIncompleteTrain(clean(m[1]), depart))
	}
	return ReservationNumberFromEmail(body), trains
}

// Ticket extracts complete trains from OCR'd ticket text. The second and
// later legs run from the destination back to the origin.
type Ticket struct{}

func (Ticket) Extract(text string) (string, model.Itinerary) {
	reservationNumber := ReservationNumberFromTicket(text)

	stations := ticketStationsRe.FindStringSubmatch(text)
	if stations == nil {
		return reservationNumber, model.Itinerary{}
	}
	originStation, destinationStation := stations[1], stations[2]

	trains := model.Itinerary{}
	for i, m := range ticketTrainRe.FindAllStringSubmatch(text, -1) {
		trainNumber, year, date := m[2], m[3], m[4]
		departure, arrival := strings.TrimSpace(m[5]), strings.TrimSpace(m[6])

		origin, destination := originStation, destinationStation
		if i > 0 {
			origin, destination = destinationStation, originStation
		}

		depart, err := parseTicketTime(date, year, departure, origin)
		if err != nil {
			continue
		}
		arrive, err := parseTicketTime(date, year, arrival, destination)
		if err != nil {
			continue
		}
		// Tickets print only one date; overnight trains arrive the next day.
		if arrive.Before(depart) {
			arrive = arrive.AddDate(0, 0, 1)
		}

		trains = append(trains, model.NewTicketTrain(trainNumber, origin, destination, depart, arrive))
	}
	return reservationNumber, trains
}

func parseTicketTime(date, year, clock, stationCode string) (time.Time, error) {
	value := strings.Join(strings.Fields(date), " ") + " " + year + " " + clock
	return time.ParseInLocation(ticketTimeLayout, value, station.Location(stationCode))
}

// clean normalizes free text taken from HTML so that the same station
// written twice compares equal.
func clean(s string) string {
	s = html.UnescapeString(s)
	s = strings.Join(strings.Fields(s), " ")
	return norm.NFC.String(s)
}
