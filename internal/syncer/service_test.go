package syncer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traincal/internal/ics"
	"traincal/internal/mail"
	"traincal/internal/model"
	"traincal/internal/store"
)

const product = "Amtrak2Calendar"

type memCalendar struct {
	mu        sync.Mutex
	events    []model.ExternalEvent
	next      int
	saves     int
	createErr error
}

func (c *memCalendar) Events(_ context.Context, num string) ([]model.ExternalEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.ExternalEvent, 0)
	for _, ev := range c.events {
		if ics.Tagged(ev.Description, num, product) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (c *memCalendar) Create(_ context.Context, ev model.ExternalEvent) (model.ExternalEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.createErr != nil {
		return ev, c.createErr
	}
	c.next++
	ev.Handle = fmt.Sprintf("ev-%d", c.next)
	c.events = append(c.events, ev)
	return ev, nil
}

func (c *memCalendar) Delete(_ context.Context, ev model.ExternalEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.events[:0]
	for _, e := range c.events {
		if e.Handle != ev.Handle {
			kept = append(kept, e)
		}
	}
	c.events = kept
	return nil
}

func (c *memCalendar) Save(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saves++
	return nil
}

func (c *memCalendar) titles() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.events))
	for _, ev := range c.events {
		out = append(out, ev.Title+" @ "+ev.Start.UTC().Format("Jan 2 15:04"))
	}
	return out
}

type fakeMailbox struct {
	msgs []mail.Message
}

func (m *fakeMailbox) Search(_ context.Context, kind mail.Kind) ([]mail.Message, error) {
	out := make([]mail.Message, 0)
	for _, msg := range m.msgs {
		if mail.Classify(msg) == kind {
			out = append(out, msg)
		}
	}
	return out, nil
}

// fakeOCR treats the attachment bytes as a key into its table of texts.
type fakeOCR map[string]string

func (o fakeOCR) Text(_ context.Context, _ string, pdf []byte) (string, error) {
	text, ok := o[string(pdf)]
	if !ok {
		return "", errors.Newf("cannot read %s", pdf)
	}
	return text, nil
}

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "extract", "testdata", name))
	require.NoError(t, err)
	return string(data)
}

func ticketMessage(id string, date time.Time, attachment string) mail.Message {
	msg := mail.Message{
		ID:      id,
		Date:    date,
		From:    mail.Sender,
		Subject: "eTicket and Receipt for Your 01/11/2019 Trip",
	}
	if attachment != "" {
		msg.Attachments = []mail.Attachment{{Filename: "eTicket.pdf", ContentType: "application/pdf", Data: []byte(attachment)}}
	}
	return msg
}

func cancellationMessage(id string, date time.Time, number string) mail.Message {
	return mail.Message{
		ID:      id,
		Date:    date,
		From:    mail.Sender,
		Subject: "Reservation " + number,
		Text:    "Your reservation canceled.\nReservation Number - " + number,
	}
}

var (
	jan1 = time.Date(2019, 1, 1, 9, 0, 0, 0, time.UTC)
	jan5 = time.Date(2019, 1, 5, 9, 0, 0, 0, time.UTC)
)

type fixture struct {
	cal     *memCalendar
	mailbox *fakeMailbox
	ocr     fakeOCR
	reports *store.Store
	svc     *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reports, err := store.Open(filepath.Join(t.TempDir(), "traincal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { reports.Close() })

	original := readFixture(t, "ticket_round_trip.txt")
	f := &fixture{
		cal:     &memCalendar{},
		mailbox: &fakeMailbox{},
		ocr: fakeOCR{
			"original":    original,
			"rescheduled": strings.ReplaceAll(original, "(Sun Jan 13) 6:20 PM", "(Mon Jan 14) 6:20 PM"),
		},
		reports: reports,
	}
	f.svc = New(f.cal, f.mailbox, f.ocr, reports, Options{Product: product})
	return f
}

func TestSync_CreatesEventsAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mailbox.msgs = []mail.Message{ticketMessage("m1", jan1, "original")}

	run, err := f.svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, run.Reservations)
	assert.Equal(t, 2, run.Created)
	assert.Empty(t, run.Errors)
	assert.Equal(t, []string{
		"Amtrak Train 173: NYP -> WAS @ Jan 11 20:35",
		"Amtrak Train 158: WAS -> NYP @ Jan 13 23:20",
	}, f.cal.titles())

	again, err := f.svc.Sync(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.Created)
	assert.Zero(t, again.Deleted)
	assert.Equal(t, 2, again.Kept)
	assert.Equal(t, 2, f.cal.saves)

	latest, ok, err := f.svc.LatestRun(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, again.ID, latest.ID)
}

func TestSync_RescheduleReplacesOnlyMovedTrain(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mailbox.msgs = []mail.Message{ticketMessage("m1", jan1, "original")}
	_, err := f.svc.Sync(ctx)
	require.NoError(t, err)

	// The newer ticket wins regardless of inbox order.
	f.mailbox.msgs = []mail.Message{
		ticketMessage("m2", jan5, "rescheduled"),
		ticketMessage("m1", jan1, "original"),
	}
	run, err := f.svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, run.Created)
	assert.Equal(t, 1, run.Deleted)
	assert.Equal(t, 1, run.Kept)
	assert.ElementsMatch(t, []string{
		"Amtrak Train 173: NYP -> WAS @ Jan 11 20:35",
		"Amtrak Train 158: WAS -> NYP @ Jan 14 23:20",
	}, f.cal.titles())
}

func TestSync_CancellationRemovesEvents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mailbox.msgs = []mail.Message{ticketMessage("m1", jan1, "original")}
	_, err := f.svc.Sync(ctx)
	require.NoError(t, err)

	f.mailbox.msgs = append(f.mailbox.msgs,
		cancellationMessage("c1", jan5, "1D4433"),
		cancellationMessage("c2", jan5, "ZZZZZZ"),
	)
	run, err := f.svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, run.Deleted)
	assert.Empty(t, f.cal.titles())
}

func TestSync_ClearsGlitchedEvents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.cal.events = []model.ExternalEvent{
		{Handle: "glitch", Title: "Amtrak Train 0: ->", Start: jan1, End: jan1, Description: model.EventDescription("", product)},
		{Handle: "dentist", Title: "Dentist", Start: jan1, End: jan1},
	}

	run, err := f.svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, run.Glitched)
	assert.Equal(t, []string{"Dentist @ Jan 1 09:00"}, f.cal.titles())
}

func TestSync_SkipsUnusableMessages(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mailbox.msgs = []mail.Message{
		ticketMessage("no-attachment", jan1, ""),
		ticketMessage("unreadable", jan1, "garbage"),
		ticketMessage("m1", jan1, "original"),
	}

	run, err := f.svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, run.Created)
	require.Len(t, run.Errors, 1)
	assert.Contains(t, run.Errors[0], "cannot read garbage")
}

func TestSync_CalendarFailuresAreReported(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.cal.createErr = ics.ErrReadOnly
	f.mailbox.msgs = []mail.Message{ticketMessage("m1", jan1, "original")}

	run, err := f.svc.Sync(ctx)
	require.NoError(t, err)
	assert.Zero(t, run.Created)
	assert.Len(t, run.Errors, 2)
}

func TestSync_Busy(t *testing.T) {
	f := newFixture(t)
	f.svc.running.Lock()
	defer f.svc.running.Unlock()

	_, err := f.svc.Sync(context.Background())
	assert.True(t, errors.Is(err, ErrBusy))
}

func TestPlan_DoesNotTouchCalendar(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mailbox.msgs = []mail.Message{ticketMessage("m1", jan1, "original")}

	plans, err := f.svc.Plan(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "1D4433", plans[0].ReservationNumber)
	assert.Len(t, plans[0].ToCreate, 2)
	assert.Empty(t, f.cal.titles())
	assert.Zero(t, f.cal.saves)
}

func TestReservations_FromEmailBodies(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	body := readFixture(t, "email_round_trip.html")
	msg := ticketMessage("m1", jan1, "")
	msg.HTML = body
	f.mailbox.msgs = []mail.Message{msg, cancellationMessage("c1", jan5, "1D4433")}
	f.svc = New(f.cal, f.mailbox, f.ocr, f.reports, Options{Product: product, Location: time.FixedZone("EST", -5*60*60)})

	displays, err := f.svc.Reservations(ctx)
	require.NoError(t, err)
	require.Len(t, displays, 1)
	d := displays[0]
	assert.Equal(t, "1D4433", d.ReservationNumber)
	assert.True(t, d.IsCancelled)
	assert.Equal(t, "NEW YORK (PENN STATION), NY -> WASHINGTON, DC (round trip)", d.Description)
	require.Len(t, d.Trains, 2)
	assert.Equal(t, "Fri, Jan 11 2019, 3:35 PM", d.Trains[0].Depart)
	assert.Empty(t, d.RescheduledTrains)
}
