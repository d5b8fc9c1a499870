// Package syncer runs the mailbox -> registry -> calendar pipeline.
package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"traincal/internal/extract"
	"traincal/internal/itinerary"
	appLog "traincal/internal/log"
	"traincal/internal/mail"
	"traincal/internal/model"
	"traincal/internal/reconcile"
	"traincal/internal/registry"
	"traincal/internal/store"
)

// ErrBusy is returned when a sync pass is requested while one is running.
var ErrBusy = errors.New("sync already running")

// Calendar is the calendar the pipeline reconciles against.
type Calendar interface {
	Events(ctx context.Context, reservationNumber string) ([]model.ExternalEvent, error)
	Create(ctx context.Context, ev model.ExternalEvent) (model.ExternalEvent, error)
	Delete(ctx context.Context, ev model.ExternalEvent) error
	Save(ctx context.Context) error
}

// Mailbox finds operator messages by kind.
type Mailbox interface {
	Search(ctx context.Context, kind mail.Kind) ([]mail.Message, error)
}

// OCR reads the text of a PDF ticket. key identifies the attachment.
type OCR interface {
	Text(ctx context.Context, key string, pdf []byte) (string, error)
}

// Reports persists sync run reports.
type Reports interface {
	SaveRun(ctx context.Context, r *store.Run) error
	LatestRun(ctx context.Context) (store.Run, bool, error)
}

// Options configures a Service.
type Options struct {
	Product string
	// Location is used for the zone-less departure times of emails.
	Location *time.Location
}

// Service wires the collaborators together. Passes are serialized.
type Service struct {
	running sync.Mutex

	calendar Calendar
	mailbox  Mailbox
	ocr      OCR
	reports  Reports

	matcher reconcile.Reconciler
	email   extract.Email
	ticket  extract.Ticket
	now     func() time.Time
}

// New builds a Service. reports may be nil, in which case runs are only
// logged.
func New(calendar Calendar, mailbox Mailbox, ocr OCR, reports Reports, opts Options) *Service {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		calendar: calendar,
		mailbox:  mailbox,
		ocr:      ocr,
		reports:  reports,
		matcher:  reconcile.New(opts.Product),
		email:    extract.Email{Location: loc},
		now:      time.Now,
	}
}

// reservationState is a copy of what reconciliation needs from one
// reservation, taken under the registry's lock.
type reservationState struct {
	number    string
	trains    model.Itinerary
	cancelled bool
}

// Sync runs one full pass: read tickets, apply cancellations, reconcile
// every reservation against the calendar, drop glitched events and save.
// Per-reservation failures are recorded in the report and do not stop the
// pass.
func (s *Service) Sync(ctx context.Context) (store.Run, error) {
	if !s.running.TryLock() {
		return store.Run{}, ErrBusy
	}
	defer s.running.Unlock()

	run := store.Run{StartedAt: s.now().UTC()}
	err := s.sync(ctx, &run)
	if err != nil {
		run.Errors = append(run.Errors, err.Error())
	}
	run.FinishedAt = s.now().UTC()
	s.record(ctx, &run)
	return run, err
}

func (s *Service) sync(ctx context.Context, run *store.Run) error {
	reg, errs, err := s.ticketRegistry(ctx)
	run.Errors = append(run.Errors, errs...)
	if err != nil {
		return err
	}
	states := snapshot(reg)
	run.Reservations = len(states)

	for _, st := range states {
		plan, err := s.plan(ctx, st)
		if err != nil {
			appLog.Error("sync: reading calendar failed", err, "reservation", st.number)
			run.Errors = append(run.Errors, err.Error())
			continue
		}
		run.Kept += plan.Kept
		for _, ev := range plan.ToDelete {
			if err := s.calendar.Delete(ctx, ev); err != nil {
				appLog.Error("sync: delete failed", err, "reservation", st.number, "title", ev.Title)
				run.Errors = append(run.Errors, err.Error())
				continue
			}
			appLog.Info("sync: event deleted", "reservation", st.number, "title", ev.Title, "start", ev.Start.Format(time.RFC3339))
			run.Deleted++
		}
		for _, train := range plan.ToCreate {
			ev, err := s.calendar.Create(ctx, s.matcher.EventFor(st.number, train))
			if err != nil {
				appLog.Error("sync: create failed", err, "reservation", st.number, "train", train.Name)
				run.Errors = append(run.Errors, err.Error())
				continue
			}
			appLog.Info("sync: event created", "reservation", st.number, "title", ev.Title, "start", ev.Start.Format(time.RFC3339))
			run.Created++
		}
	}

	glitched, err := s.clearGlitched(ctx)
	run.Glitched = glitched
	if err != nil {
		appLog.Error("sync: clearing glitched events failed", err)
		run.Errors = append(run.Errors, err.Error())
	}

	return errors.Wrap(s.calendar.Save(ctx), "save calendar")
}

// clearGlitched removes events whose tag carries no reservation
// number. They can only come from a broken earlier run.
func (s *Service) clearGlitched(ctx context.Context) (int, error) {
	events, err := s.calendar.Events(ctx, "")
	if err != nil {
		return 0, err
	}
	n := 0
	for _, ev := range events {
		if err := s.calendar.Delete(ctx, ev); err != nil {
			return n, err
		}
		appLog.Info("sync: glitched event deleted", "title", ev.Title)
		n++
	}
	return n, nil
}

// Plan computes what Sync would change without touching the calendar.
func (s *Service) Plan(ctx context.Context) ([]reconcile.Plan, error) {
	reg, _, err := s.ticketRegistry(ctx)
	if err != nil {
		return nil, err
	}
	states := snapshot(reg)
	plans := make([]reconcile.Plan, 0, len(states))
	for _, st := range states {
		plan, err := s.plan(ctx, st)
		if err != nil {
			return nil, errors.Wrapf(err, "plan %s", st.number)
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

func (s *Service) plan(ctx context.Context, st reservationState) (reconcile.Plan, error) {
	existing, err := s.calendar.Events(ctx, st.number)
	if err != nil {
		return reconcile.Plan{}, errors.Wrapf(err, "events of %s", st.number)
	}
	plan := s.matcher.Reconcile(st.number, st.trains, st.cancelled, existing)
	appLog.Debug("sync: plan",
		"reservation", st.number,
		"cancelled", st.cancelled,
		"trains", len(st.trains),
		"existing", len(existing),
		"create", len(plan.ToCreate),
		"delete", len(plan.ToDelete),
		"kept", plan.Kept,
	)
	return plan, nil
}

// Reservations builds the display view from notification email bodies
// alone. It reads no attachments and changes nothing.
func (s *Service) Reservations(ctx context.Context) ([]itinerary.Display, error) {
	msgs, err := s.mailbox.Search(ctx, mail.KindReservation)
	if err != nil {
		return nil, errors.Wrap(err, "search reservations")
	}
	reg := registry.New()
	for _, msg := range msgs {
		num, trains := s.email.Extract(msg.Body())
		if err := reg.AddSnapshot(msg.Date, num, trains); err != nil {
			appLog.Warn("reservations: message skipped", "message", msg.ID, "reason", err.Error())
		}
	}
	if _, err := s.applyCancellations(ctx, reg); err != nil {
		return nil, err
	}
	return reg.Display(), nil
}

// LatestRun returns the newest stored report.
func (s *Service) LatestRun(ctx context.Context) (store.Run, bool, error) {
	if s.reports == nil {
		return store.Run{}, false, nil
	}
	return s.reports.LatestRun(ctx)
}

// ticketRegistry reads every ticket attachment into a registry and applies
// cancellations. Messages that cannot be used are logged and reported in
// the returned error strings.
func (s *Service) ticketRegistry(ctx context.Context) (*registry.Registry, []string, error) {
	msgs, err := s.mailbox.Search(ctx, mail.KindReservation)
	if err != nil {
		return nil, nil, errors.Wrap(err, "search reservations")
	}

	reg := registry.New()
	var problems []string
	for _, msg := range msgs {
		if len(msg.Attachments) == 0 {
			appLog.Warn("sync: reservation message has no attachment", "message", msg.ID)
			continue
		}
		text, err := s.ocr.Text(ctx, msg.ID+"/0", msg.Attachments[0].Data)
		if err != nil {
			appLog.Error("sync: ocr failed", err, "message", msg.ID)
			problems = append(problems, err.Error())
			continue
		}
		num, trains := s.ticket.Extract(text)
		if err := reg.AddSnapshot(msg.Date, num, trains); err != nil {
			appLog.Error("sync: snapshot rejected", err, "message", msg.ID)
			problems = append(problems, err.Error())
			continue
		}
		appLog.Debug("sync: snapshot added", "message", msg.ID, "reservation", num, "trains", len(trains))
	}

	if _, err := s.applyCancellations(ctx, reg); err != nil {
		return nil, problems, err
	}
	return reg, problems, nil
}

func (s *Service) applyCancellations(ctx context.Context, reg *registry.Registry) (int, error) {
	msgs, err := s.mailbox.Search(ctx, mail.KindCancellation)
	if err != nil {
		return 0, errors.Wrap(err, "search cancellations")
	}
	n := 0
	for _, msg := range msgs {
		num := extract.ReservationNumberFromEmail(msg.PlainBody())
		if num == "" {
			appLog.Warn("cancellation without reservation number", "message", msg.ID)
			continue
		}
		if reg.Cancel(num) {
			appLog.Info("reservation cancelled", "reservation", num)
			n++
		} else {
			appLog.Debug("cancellation for unknown reservation", "reservation", num)
		}
	}
	return n, nil
}

func (s *Service) record(ctx context.Context, run *store.Run) {
	appLog.Info("sync finished",
		"reservations", run.Reservations,
		"created", run.Created,
		"deleted", run.Deleted,
		"kept", run.Kept,
		"glitched", run.Glitched,
		"errors", len(run.Errors),
		"duration", run.FinishedAt.Sub(run.StartedAt).String(),
	)
	if s.reports == nil {
		return
	}
	if err := s.reports.SaveRun(ctx, run); err != nil {
		appLog.Error("sync: saving report failed", err)
	}
}

func snapshot(reg *registry.Registry) []reservationState {
	out := make([]reservationState, 0, reg.Len())
	reg.Each(func(r *itinerary.Reconciler) {
		out = append(out, reservationState{
			number:    r.ReservationNumber(),
			trains:    r.Current(),
			cancelled: r.Cancelled(),
		})
	})
	return out
}
