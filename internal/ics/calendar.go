package ics

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"traincal/internal/config"
	appLog "traincal/internal/log"
	"traincal/internal/model"
)

// ErrReadOnly is returned by calendars that cannot be written to.
var ErrReadOnly = errors.New("calendar is read-only")

// Events are only searched one year either side of now.
const searchYears = 1

// Tagged reports whether description marks an event created for
// reservationNumber by product. The first line must be exactly the
// reservation tag, so an empty reservation number only selects events whose
// tag carries no number at all.
func Tagged(description, reservationNumber, product string) bool {
	first, _, _ := strings.Cut(description, "\n")
	if strings.TrimSpace(first) != strings.TrimSpace(model.ReservationTag(reservationNumber)) {
		return false
	}
	return strings.Contains(description, product)
}

// selectEvents expands events around now and keeps the occurrences tagged
// for reservationNumber. handle names each occurrence.
func selectEvents(events []ParsedEvent, reservationNumber, product string, now time.Time, handle func(Occurrence) string) ([]model.ExternalEvent, error) {
	occ, err := ExpandOccurrences(events, ExpandConfig{
		RangeStart: now.AddDate(-searchYears, 0, 0),
		RangeEnd:   now.AddDate(searchYears, 0, 0),
	})
	if err != nil {
		return nil, err
	}
	out := make([]model.ExternalEvent, 0)
	for _, o := range occ {
		if !Tagged(o.Description, reservationNumber, product) {
			continue
		}
		out = append(out, model.ExternalEvent{
			Handle:      handle(o),
			Title:       o.Summary,
			Start:       o.Start,
			End:         o.End,
			Description: o.Description,
		})
	}
	return out, nil
}

const icsUTCLayout = "20060102T150405Z"

// occurrenceHandle is the UID, plus the nominal start for instances of a
// recurring event.
func occurrenceHandle(o Occurrence) string {
	if !o.Recurring {
		return o.UID
	}
	return o.UID + "/" + o.Slot.UTC().Format(icsUTCLayout)
}

// FileCalendar is a calendar kept in a local ICS file. Changes stay in
// memory until Save.
//
// A handle names one VEVENT component, or one instance of a recurring
// component, so files holding the same UID twice are handled one copy at a
// time.
type FileCalendar struct {
	mu      sync.Mutex
	path    string
	product string
	cal     *ical.Calendar
	dirty   bool

	ids    map[*ical.VEvent]int
	nextID int
	refs   map[string]occurrenceRef

	now    func() time.Time
	newUID func() string
}

type occurrenceRef struct {
	master    *ical.VEvent
	override  *ical.VEvent
	recurring bool
	slot      time.Time
}

// OpenFile loads the calendar at path. A missing file yields an empty
// calendar that is created on the first Save.
func OpenFile(path, product string) (*FileCalendar, error) {
	c := &FileCalendar{
		path:    path,
		product: product,
		ids:     make(map[*ical.VEvent]int),
		refs:    make(map[string]occurrenceRef),
		now:     time.Now,
		newUID:  func() string { return uuid.NewString() + "@traincal" },
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		c.cal = ical.NewCalendar()
		c.cal.SetProductId("-//traincal//" + product + "//EN")
		appLog.Info("calendar file not found, starting empty", "path", path)
	case err != nil:
		return nil, errors.Wrapf(err, "read calendar %s", path)
	default:
		cal, err := ical.ParseCalendar(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrapf(err, "parse calendar %s", path)
		}
		c.cal = cal
		appLog.Debug("calendar file loaded", "path", path, "event_count", len(cal.Events()))
	}
	return c, nil
}

// Events returns the occurrences tagged for reservationNumber.
func (c *FileCalendar) Events(ctx context.Context, reservationNumber string) ([]model.ExternalEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return selectEvents(parseCalendar(Source{ID: c.path}, c.cal), reservationNumber, c.product, c.now(), c.register)
}

// register records which component o came from and returns its handle.
// Callers hold c.mu.
func (c *FileCalendar) register(o Occurrence) string {
	id, ok := c.ids[o.master]
	if !ok {
		c.nextID++
		id = c.nextID
		c.ids[o.master] = id
	}
	o.UID = fmt.Sprintf("%s#%d", o.UID, id)
	h := occurrenceHandle(o)
	c.refs[h] = occurrenceRef{master: o.master, override: o.override, recurring: o.Recurring, slot: o.Slot}
	return h
}

// Create adds ev as a new VEVENT and returns it with its handle set.
func (c *FileCalendar) Create(ctx context.Context, ev model.ExternalEvent) (model.ExternalEvent, error) {
	if err := ctx.Err(); err != nil {
		return ev, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	uid := c.newUID()
	ve := c.cal.AddEvent(uid)
	ve.SetDtStampTime(c.now().UTC())
	ve.SetSummary(ev.Title)
	ve.SetDescription(ev.Description)
	ve.SetStartAt(ev.Start)
	ve.SetEndAt(ev.End)
	c.dirty = true

	ev.Handle = c.register(Occurrence{UID: uid, Slot: ev.Start, master: ve})
	return ev, nil
}

// Delete removes the one occurrence the handle names. A single event loses
// its component; an instance of a recurring event gets an EXDATE on its
// master and its override, if any, is removed. Deleting an unknown or
// already deleted handle is a no-op.
func (c *FileCalendar) Delete(ctx context.Context, ev model.ExternalEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	ref, ok := c.refs[ev.Handle]
	if !ok || !c.contains(ref.master) {
		appLog.Debug("calendar delete: no such event", "handle", ev.Handle)
		return nil
	}
	delete(c.refs, ev.Handle)

	if ref.override != nil {
		c.remove(ref.override)
	}
	if ref.recurring {
		ref.master.AddProperty(ical.ComponentPropertyExdate, ref.slot.UTC().Format(icsUTCLayout))
	} else {
		c.remove(ref.master)
	}
	c.dirty = true
	return nil
}

func (c *FileCalendar) contains(ve *ical.VEvent) bool {
	for _, comp := range c.cal.Components {
		if v, ok := comp.(*ical.VEvent); ok && v == ve {
			return true
		}
	}
	return false
}

func (c *FileCalendar) remove(ve *ical.VEvent) {
	kept := make([]ical.Component, 0, len(c.cal.Components))
	for _, comp := range c.cal.Components {
		if v, ok := comp.(*ical.VEvent); ok && v == ve {
			continue
		}
		kept = append(kept, comp)
	}
	c.cal.Components = kept
}

// Save writes pending changes to disk atomically.
func (c *FileCalendar) Save(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}
	if err := config.WriteFileAtomic(c.path, []byte(c.cal.Serialize()), ".traincal-calendar-*.tmp"); err != nil {
		return errors.Wrap(err, "save calendar")
	}
	c.dirty = false
	appLog.Info("calendar saved", "path", c.path, "event_count", len(c.cal.Events()))
	return nil
}

// FeedCalendar reads events from a remote ICS feed. It cannot be written.
type FeedCalendar struct {
	fetcher *Fetcher
	src     Source
	product string
	now     func() time.Time
}

func NewFeedCalendar(fetcher *Fetcher, feedURL, product string) *FeedCalendar {
	return &FeedCalendar{
		fetcher: fetcher,
		src:     Source{ID: "feed", URL: feedURL},
		product: product,
		now:     time.Now,
	}
}

func (c *FeedCalendar) Events(ctx context.Context, reservationNumber string) ([]model.ExternalEvent, error) {
	res, err := c.fetcher.FetchOne(ctx, c.src)
	if err != nil {
		return nil, err
	}
	events, err := ParseICS(c.src, res.Body)
	if err != nil {
		return nil, err
	}
	return selectEvents(events, reservationNumber, c.product, c.now(), occurrenceHandle)
}

func (c *FeedCalendar) Create(context.Context, model.ExternalEvent) (model.ExternalEvent, error) {
	return model.ExternalEvent{}, ErrReadOnly
}

func (c *FeedCalendar) Delete(context.Context, model.ExternalEvent) error {
	return ErrReadOnly
}

func (c *FeedCalendar) Save(context.Context) error { return nil }
