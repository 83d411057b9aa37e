package agenda

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidStamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid", "2025-05-12T10:30:00", true},
		{"space separator", "2025-05-12 10:30:00", false},
		{"slash separators", "2025/05/12T10:30:00", false},
		{"missing seconds", "2025-05-12T10:30", false},
		{"trailing text", "2025-05-12T10:30:00Z", false},
		{"timezone suffix", "2025-05-12T10:30:00+02:00", false},
		{"single-digit month", "2025-5-12T10:30:00", false},
		{"non-numeric field", "2025-05-12Tab:30:00", false},
		{"month out of range", "2025-13-12T10:30:00", false},
		{"hour out of range", "2025-05-12T25:30:00", false},
		{"empty", "", false},
		{"spoken date", "12 mai 2025", false},
		{"midnight", "2025-05-12T00:00:00", true},
		{"end of day", "2025-12-31T23:59:59", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidStamp(tt.input); got != tt.want {
				t.Errorf("ValidStamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestAddMinutes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		minutes int
		want    string
	}{
		{"plain", "2025-05-12T10:30:00", 30, "2025-05-12T11:00:00"},
		{"day rollover", "2025-05-12T23:45:00", 30, "2025-05-13T00:15:00"},
		{"month rollover", "2025-05-31T23:45:00", 30, "2025-06-01T00:15:00"},
		{"year rollover", "2025-12-31T23:45:00", 30, "2026-01-01T00:15:00"},
		{"zero minutes", "2025-05-12T10:30:00", 0, "2025-05-12T10:30:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddMinutes(tt.input, tt.minutes)
			if err != nil {
				t.Fatalf("AddMinutes(%q, %d) error: %v", tt.input, tt.minutes, err)
			}
			if got != tt.want {
				t.Errorf("AddMinutes(%q, %d) = %q, want %q", tt.input, tt.minutes, got, tt.want)
			}
		})
	}
}

func TestAddMinutesMalformed(t *testing.T) {
	for _, input := range []string{"2025-05-12 10:30:00", "12 mai 2025", ""} {
		got, err := AddMinutes(input, 30)
		if err == nil {
			t.Fatalf("AddMinutes(%q, 30) = %q, want error", input, got)
		}
		if got != "" {
			t.Errorf("AddMinutes(%q, 30) returned partial result %q alongside error", input, got)
		}
		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Errorf("AddMinutes(%q, 30) error type = %T, want *FormatError", input, err)
		}
		if !strings.Contains(err.Error(), "YYYY-MM-DDTHH:MM:SS") {
			t.Errorf("error message %q does not name the expected format", err.Error())
		}
	}
}

func TestNowLabel(t *testing.T) {
	label := NowLabel()

	parsed, err := time.Parse(time.RFC3339, label)
	if err != nil {
		t.Fatalf("NowLabel() = %q, not RFC 3339: %v", label, err)
	}

	_, offset := parsed.Zone()
	if offset != 2*60*60 {
		t.Errorf("NowLabel() offset = %d seconds, want +02:00", offset)
	}

	if !strings.HasSuffix(label, "+02:00") {
		t.Errorf("NowLabel() = %q, want +02:00 suffix", label)
	}
}
