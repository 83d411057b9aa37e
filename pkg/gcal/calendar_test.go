package gcal

import (
	"errors"
	"testing"

	"google.golang.org/api/calendar/v3"

	"github.com/servicemed/go-intake/pkg/agenda"
)

func TestBuildAppointment(t *testing.T) {
	ev, err := buildAppointment("2025-05-12T10:30:00")
	if err != nil {
		t.Fatalf("buildAppointment error: %v", err)
	}

	if ev.Start.DateTime != "2025-05-12T10:30:00" {
		t.Errorf("start = %q", ev.Start.DateTime)
	}
	if ev.End.DateTime != "2025-05-12T11:00:00" {
		t.Errorf("end = %q, want start + 30 minutes", ev.End.DateTime)
	}
	if ev.Start.TimeZone != "Europe/Paris" || ev.End.TimeZone != "Europe/Paris" {
		t.Errorf("time zones = %q/%q, want Europe/Paris for both", ev.Start.TimeZone, ev.End.TimeZone)
	}
	if ev.Summary == "" || ev.Description == "" {
		t.Error("summary and description must be set")
	}
}

func TestBuildAppointmentRollover(t *testing.T) {
	ev, err := buildAppointment("2025-05-12T23:45:00")
	if err != nil {
		t.Fatalf("buildAppointment error: %v", err)
	}
	if ev.End.DateTime != "2025-05-13T00:15:00" {
		t.Errorf("end = %q, want next-day rollover", ev.End.DateTime)
	}
}

func TestBuildAppointmentMalformed(t *testing.T) {
	_, err := buildAppointment("12 mai 2025")
	if err == nil {
		t.Fatal("expected error for malformed start")
	}
	var fe *agenda.FormatError
	if !errors.As(err, &fe) {
		t.Errorf("error type = %T, want *agenda.FormatError", err)
	}
}

func TestSlotsFromEvents(t *testing.T) {
	items := []*calendar.Event{
		{
			Summary: "Consultation",
			Start:   &calendar.EventDateTime{DateTime: "2025-05-12T09:00:00+02:00"},
		},
		{
			Summary: "Congrès",
			Start:   &calendar.EventDateTime{Date: "2025-05-13"},
		},
		{Summary: "sans début"},
		{Summary: "vide", Start: &calendar.EventDateTime{}},
	}

	slots := slotsFromEvents(items)
	if len(slots) != 2 {
		t.Fatalf("got %d slots, want 2", len(slots))
	}
	if slots[0].Start != "2025-05-12T09:00:00+02:00" || slots[0].Summary != "Consultation" {
		t.Errorf("slot 0 = %+v", slots[0])
	}
	if slots[1].Start != "2025-05-13" || slots[1].Summary != "Congrès" {
		t.Errorf("slot 1 = %+v, want all-day date fallback", slots[1])
	}
}

func TestSlotsFromEventsEmpty(t *testing.T) {
	if got := slotsFromEvents(nil); got != nil {
		t.Errorf("slotsFromEvents(nil) = %v, want nil", got)
	}
}

func TestProviderErrorUnwrap(t *testing.T) {
	inner := errors.New("quota exceeded")
	err := &ProviderError{Op: "events.insert", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("ProviderError should unwrap to the API error")
	}
	if err.Error() != "gcal [events.insert]: quota exceeded" {
		t.Errorf("Error() = %q", err.Error())
	}
}
