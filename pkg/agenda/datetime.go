// Package agenda holds the scheduling core: the date-time stamp format the
// assistant negotiates in, and the busy-slot block injected into its prompt.
package agenda

import "time"

// Stamp is the exact format appointment times travel in: four-digit year,
// two-digit month/day/hour/minute/second, literal T separator, no zone suffix.
// The create_event tool instructs the model to convert any spoken date into it.
const Stamp = "2006-01-02T15:04:05"

// AppointmentZone is the fixed offset the assistant schedules in.
// No DST logic: always exactly +02:00.
var AppointmentZone = time.FixedZone("UTC+2", 2*60*60)

// FormatError reports a string that does not parse as a Stamp.
type FormatError struct {
	Input string
}

// Error implements the error interface. The message is user-facing and
// intentionally names the expected format rather than the offending input.
func (e *FormatError) Error() string {
	return "invalid date format, expected YYYY-MM-DDTHH:MM:SS"
}

// ParseStamp parses s strictly against Stamp.
// time.Parse alone would accept single-digit fields for some layouts, so the
// length is checked first to keep the two-digit requirement strict.
func ParseStamp(s string) (time.Time, error) {
	if len(s) != len(Stamp) {
		return time.Time{}, &FormatError{Input: s}
	}
	t, err := time.Parse(Stamp, s)
	if err != nil {
		return time.Time{}, &FormatError{Input: s}
	}
	return t, nil
}

// ValidStamp reports whether s parses exactly against Stamp.
// It never panics and never returns true for alternate separators,
// missing seconds, or trailing text.
func ValidStamp(s string) bool {
	_, err := ParseStamp(s)
	return err == nil
}

// AddMinutes parses s, adds the given number of minutes, and re-renders in the
// same format. Callers are expected to have validated s already; the parse here
// is defensive, and a malformed input yields a *FormatError, never a partially
// formed stamp.
func AddMinutes(s string, minutes int) (string, error) {
	t, err := ParseStamp(s)
	if err != nil {
		return "", err
	}
	return t.Add(time.Duration(minutes) * time.Minute).Format(Stamp), nil
}

// NowLabel returns the current instant rendered in ISO-8601 with the fixed
// +02:00 offset. The label doubles as the lower bound for the availability
// query and as "today's date/time" in the prompt text.
func NowLabel() string {
	return time.Now().In(AppointmentZone).Format(time.RFC3339)
}
