package agenda

import "testing"

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		slots []BusySlot
		want  string
	}{
		{"nil", nil, ""},
		{"empty", []BusySlot{}, ""},
		{
			"single",
			[]BusySlot{{Start: "2025-05-12T09:00:00", Summary: "Consultation"}},
			"2025-05-12T09:00:00 Consultation\n",
		},
		{
			"order preserved",
			[]BusySlot{
				{Start: "2025-05-12T09:00:00", Summary: "Consultation"},
				{Start: "2025-05-12T14:00:00", Summary: "Suivi post-opératoire"},
			},
			"2025-05-12T09:00:00 Consultation\n2025-05-12T14:00:00 Suivi post-opératoire\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.slots); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAvailabilityBlock(t *testing.T) {
	degraded := Availability{Degraded: true}
	if degraded.Block() != "" {
		t.Errorf("degraded availability should render empty, got %q", degraded.Block())
	}

	ok := Availability{Slots: []BusySlot{{Start: "2025-05-12T09:00:00", Summary: "Consultation"}}}
	if ok.Block() != "2025-05-12T09:00:00 Consultation\n" {
		t.Errorf("Block() = %q", ok.Block())
	}
}
