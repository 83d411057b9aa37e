package gcal

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/servicemed/go-intake/internal/httpc"
	"github.com/servicemed/go-intake/pkg/agenda"
)

// Fixed appointment fields. The assistant books one kind of event only.
const (
	calendarID          = "primary"
	appointmentTimeZone = "Europe/Paris"
	appointmentMinutes  = 30
	appointmentSummary  = "Rendez-vous médical - Docteur Blanc"
	appointmentDetails  = "Rendez-vous médical avec le docteur Blanc à son cabinet. Adresse: 20 rue du Nil, 75002, Paris."
)

// maxBusySlots caps the availability query; beyond 20 upcoming events the
// prompt block stops being useful to the model anyway.
const maxBusySlots = 20

// ProviderError wraps a calendar API failure (auth, network, quota) with the
// operation that hit it. It is logged at the boundary and never shown raw to
// the caller on the phone.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("gcal [%s]: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Client wraps the Calendar API service for the assistant's two operations.
type Client struct {
	svc *calendar.Service
	log *slog.Logger
}

// NewClient builds an authenticated calendar client from an OAuth config and a
// cached token. The oauth2 transport runs on the shared httpc client so its
// timeouts apply to token refreshes and API calls alike.
func NewClient(ctx context.Context, logger *slog.Logger, cfg *oauth2.Config, tok *oauth2.Token) (*Client, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpc.Client)
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &Client{svc: svc, log: logger}, nil
}

// Availability fetches upcoming busy slots for prompt injection. A provider
// failure degrades to an empty block so the conversation can still start; the
// cause is logged here and nowhere surfaced to the caller.
func (c *Client) Availability(ctx context.Context) agenda.Availability {
	slots, err := c.BusySlots(ctx)
	if err != nil {
		c.log.Warn("availability fetch failed, starting with empty agenda", "error", err)
		return agenda.Availability{Degraded: true}
	}
	return agenda.Availability{Slots: slots}
}

// BusySlots lists events on the primary calendar starting at or after now,
// ascending by start time, recurring events expanded to single instances,
// capped at maxBusySlots.
func (c *Client) BusySlots(ctx context.Context) ([]agenda.BusySlot, error) {
	res, err := c.svc.Events.List(calendarID).
		TimeMin(agenda.NowLabel()).
		MaxResults(maxBusySlots).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, &ProviderError{Op: "events.list", Err: err}
	}

	slots := slotsFromEvents(res.Items)
	c.log.Debug("fetched busy slots", "count", len(slots))
	return slots, nil
}

// CreateAppointment writes one 30-minute event starting at start (a validated
// agenda.Stamp) and returns its HTML link. Format validation belongs to the
// tool boundary; this only computes the derived fields.
func (c *Client) CreateAppointment(ctx context.Context, start string) (string, error) {
	ev, err := buildAppointment(start)
	if err != nil {
		return "", err
	}

	created, err := c.svc.Events.Insert(calendarID, ev).Context(ctx).Do()
	if err != nil {
		return "", &ProviderError{Op: "events.insert", Err: err}
	}

	c.log.Info("appointment created", "start", start, "link", created.HtmlLink)
	return created.HtmlLink, nil
}

// buildAppointment constructs the event body: fixed summary and description,
// end time derived as start + 30 minutes, both bounds pinned to Europe/Paris.
func buildAppointment(start string) (*calendar.Event, error) {
	end, err := agenda.AddMinutes(start, appointmentMinutes)
	if err != nil {
		return nil, err
	}
	return &calendar.Event{
		Summary:     appointmentSummary,
		Description: appointmentDetails,
		Start: &calendar.EventDateTime{
			DateTime: start,
			TimeZone: appointmentTimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: end,
			TimeZone: appointmentTimeZone,
		},
	}, nil
}

// slotsFromEvents reduces API events to display slots. Timed events use their
// DateTime label; all-day events fall back to the bare date.
func slotsFromEvents(items []*calendar.Event) []agenda.BusySlot {
	var slots []agenda.BusySlot
	for _, item := range items {
		if item.Start == nil {
			continue
		}
		start := item.Start.DateTime
		if start == "" {
			start = item.Start.Date
		}
		if start == "" {
			continue
		}
		slots = append(slots, agenda.BusySlot{Start: start, Summary: item.Summary})
	}
	return slots
}
