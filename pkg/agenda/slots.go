package agenda

import "strings"

// BusySlot is one interval already occupied on the calendar, reduced to the
// display text the model sees. Ordering is provider-supplied (ascending start)
// and preserved through rendering.
type BusySlot struct {
	Start   string // start label, as delivered by the provider
	Summary string // event title
}

// Availability is the outcome of one busy-slot fetch at conversation start.
// A failed fetch degrades to an empty block rather than aborting the call, but
// the Degraded flag keeps "no events" distinguishable from "fetch failed".
type Availability struct {
	Slots    []BusySlot
	Degraded bool
}

// Render concatenates one "<start> <summary>\n" line per slot, in order.
// An empty or nil slice renders to the empty string.
func Render(slots []BusySlot) string {
	var b strings.Builder
	for _, s := range slots {
		b.WriteString(s.Start)
		b.WriteByte(' ')
		b.WriteString(s.Summary)
		b.WriteByte('\n')
	}
	return b.String()
}

// Block renders the availability's slots for prompt injection.
// A degraded availability renders to the empty string.
func (a Availability) Block() string {
	return Render(a.Slots)
}
