package intake

import (
	"context"
	"log/slog"

	"github.com/servicemed/go-intake/pkg/agenda"
)

// Follow-up directives fed back to the model after a create_event call.
// They steer the assistant's closing utterance; the caller never hears the
// underlying cause of a rejection.
const (
	DirectiveBooked   = "Informez l'utilisateur que le rendez-vous a été pris. Remerciez-le et dites-lui au revoir."
	DirectiveRejected = "Il y a un problème technique. Demandez à l'utilisateur de rappeler plus tard, remerciez-le et dites-lui au revoir."
)

// CalendarWriter is the slice of the calendar provider the booker needs.
type CalendarWriter interface {
	CreateAppointment(ctx context.Context, start string) (link string, err error)
}

// Outcome is the terminal state of one create_event invocation.
type Outcome int

const (
	// OutcomeBooked means the date validated and the write succeeded.
	OutcomeBooked Outcome = iota
	// OutcomeRejected means the date was malformed or the write failed.
	// Both causes collapse to the same caller-facing directive on purpose.
	OutcomeRejected
)

// Result is the outcome of one booking attempt.
type Result struct {
	Outcome   Outcome
	Directive string // follow-up instruction for the model
	Link      string // event link on success
}

// Booker handles the create_event tool. It is stateless across invocations:
// each call validates, writes, and emits a directive, with no retry. A failed
// attempt ends the turn; trying again is a new utterance from the caller.
type Booker struct {
	cal CalendarWriter
	log *slog.Logger
}

// NewBooker creates a booker writing through cal.
func NewBooker(cal CalendarWriter, logger *slog.Logger) *Booker {
	return &Booker{cal: cal, log: logger}
}

// Book attempts to schedule an appointment at date. A malformed date is
// rejected before the provider is ever contacted.
func (b *Booker) Book(ctx context.Context, date string) Result {
	if !agenda.ValidStamp(date) {
		b.log.Warn("rejected appointment date", "date", date, "reason", "format")
		return Result{Outcome: OutcomeRejected, Directive: DirectiveRejected}
	}

	link, err := b.cal.CreateAppointment(ctx, date)
	if err != nil {
		b.log.Error("appointment write failed", "date", date, "error", err)
		return Result{Outcome: OutcomeRejected, Directive: DirectiveRejected}
	}

	b.log.Info("appointment booked", "date", date, "link", link)
	return Result{Outcome: OutcomeBooked, Directive: DirectiveBooked, Link: link}
}

// Handle adapts Book to the tool-handler signature. The directive is always
// returned as the tool result; booking failures are contained here and never
// become tool errors.
func (b *Booker) Handle(ctx context.Context, args map[string]any) (string, error) {
	date, _ := args["date"].(string)
	res := b.Book(ctx, date)
	return res.Directive, nil
}
