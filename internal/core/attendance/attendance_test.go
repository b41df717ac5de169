package attendance

import (
	"errors"
	"regexp"
	"testing"
)

func TestParseStatus(t *testing.T) {
	t.Parallel()

	cases := map[string]Status{
		"PRESENT":    StatusPresent,
		"late":       StatusLate,
		" On Leave ": StatusOnLeave,
		"on_leave":   StatusOnLeave,
		"حاضر":       StatusPresent,
		"غائب":       StatusAbsent,
		"تأخير":      StatusLate,
		"إجازة":      StatusOnLeave,
	}

	for raw, want := range cases {
		got, err := ParseStatus(raw)
		if err != nil {
			t.Fatalf("ParseStatus(%q) returned error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseStatus(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestParseStatus_Unknown(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "sick", "PRESENTISH"} {
		if _, err := ParseStatus(raw); !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("ParseStatus(%q): expected ErrInvalidStatus, got %v", raw, err)
		}
	}
}

func TestNormalize_Success(t *testing.T) {
	t.Parallel()

	out, err := Normalize(Record{
		EmployeeID:   " E1 ",
		Date:         "2024-03-01",
		ClockIn:      "09:15",
		ClockOut:     "17:00",
		DelayMinutes: 15,
		Status:       "late",
	})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if out.EmployeeID != "E1" || out.Status != StatusLate {
		t.Fatalf("unexpected record: %+v", out)
	}
	if out.ID != "" {
		t.Fatalf("expected id left for caller, got %q", out.ID)
	}
}

func TestNormalize_Invalid(t *testing.T) {
	t.Parallel()

	base := Record{EmployeeID: "E1", Date: "2024-03-01", Status: StatusPresent}

	cases := []struct {
		name   string
		mutate func(r *Record)
		want   error
	}{
		{"missing employee", func(r *Record) { r.EmployeeID = "" }, ErrInvalidEmployeeID},
		{"bad date", func(r *Record) { r.Date = "2024/03/01" }, ErrInvalidDate},
		{"bad clock", func(r *Record) { r.ClockIn = "9am" }, ErrInvalidClockTime},
		{"negative delay", func(r *Record) { r.DelayMinutes = -5 }, ErrInvalidDelay},
		{"bad status", func(r *Record) { r.Status = "sick" }, ErrInvalidStatus},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			in := base
			tc.mutate(&in)
			if _, err := Normalize(in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRecord_Row(t *testing.T) {
	t.Parallel()

	row := Record{ID: "A1", EmployeeID: "E1", Date: "2024-03-01", ClockIn: "09:00", ClockOut: "17:00", DelayMinutes: 3, Status: StatusLate}.Row()
	if len(row) != 7 {
		t.Fatalf("expected 7 cells, got %d", len(row))
	}
	if row[5] != 3 || row[6] != "LATE" {
		t.Fatalf("unexpected row %v", row)
	}
}

func TestNewID_Format(t *testing.T) {
	t.Parallel()

	if id := NewID(); !regexp.MustCompile(`^ATT-[0-9A-F]{8}$`).MatchString(id) {
		t.Fatalf("unexpected id format %q", id)
	}
}
