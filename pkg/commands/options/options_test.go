package options

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"tableflip.dev/helpdesk/pkg/app"
	"tableflip.dev/helpdesk/pkg/ticket"
)

func TestParseTicketID(t *testing.T) {
	tests := map[string]struct {
		raw     string
		want    int64
		wantErr bool
	}{
		"bare":     {raw: "1700000000000", want: 1700000000000},
		"hash":     {raw: "#42", want: 42},
		"spaces":   {raw: "  7 ", want: 7},
		"zero":     {raw: "0", wantErr: true},
		"negative": {raw: "-3", wantErr: true},
		"word":     {raw: "abc", wantErr: true},
		"empty":    {raw: "", wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseTicketID(tc.raw)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidID) {
					t.Fatalf("ParseTicketID(%q) err = %v, want ErrInvalidID", tc.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTicketID(%q): %v", tc.raw, err)
			}
			if got != tc.want {
				t.Fatalf("ParseTicketID(%q) = %d, want %d", tc.raw, got, tc.want)
			}
		})
	}
}

func TestTicketIDArg(t *testing.T) {
	o := &IDOptions{}
	if err := TicketIDArg(o, nil)(nil, []string{"#12"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.ID != 12 {
		t.Fatalf("ID = %d, want 12", o.ID)
	}
	if err := TicketIDArg(o, nil)(nil, []string{"12", "extra"}); err == nil {
		t.Fatalf("expected extra arguments to be rejected")
	}
	if err := TicketIDArg(o, nil)(nil, nil); err == nil {
		t.Fatalf("expected a missing id to be rejected")
	}
}

func TestErrorKind(t *testing.T) {
	tests := map[string]struct {
		err  error
		want string
	}{
		"ticket":    {err: fmt.Errorf("get: %w", app.ErrTicketNotFound), want: "not_found"},
		"agent":     {err: app.ErrAgentNotFound, want: "not_found"},
		"duplicate": {err: app.ErrDuplicateEmail, want: "duplicate"},
		"status":    {err: app.ErrInvalidStatus, want: "invalid"},
		"id":        {err: ErrInvalidID, want: "invalid"},
		"confirm":   {err: ErrConfirmationRequired, want: "invalid"},
		"inactive":  {err: app.ErrAgentInactive, want: "inactive"},
		"other":     {err: errors.New("disk on fire"), want: "internal"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := ErrorKind(tc.err); got != tc.want {
				t.Fatalf("ErrorKind(%v) = %q, want %q", tc.err, got, tc.want)
			}
		})
	}
}

func TestHandleErrorPassThrough(t *testing.T) {
	o := &OutputOptions{}
	want := errors.New("boom")
	if got := o.HandleError(want); got != want {
		t.Fatalf("HandleError = %v, want %v", got, want)
	}
	if got := o.HandleError(nil); got != nil {
		t.Fatalf("HandleError(nil) = %v", got)
	}
}

func TestGetMonth(t *testing.T) {
	now := time.Date(2025, time.October, 17, 9, 0, 0, 0, time.Local)

	if m, err := (&MonthOptions{}).GetMonth(now); err != nil || m != nil {
		t.Fatalf("no calendar: got %v, %v", m, err)
	}

	m, err := (&MonthOptions{Calendar: true}).GetMonth(now)
	if err != nil || m == nil || !m.Equal(now) {
		t.Fatalf("bare calendar: got %v, %v", m, err)
	}

	m, err = (&MonthOptions{MonthString: "2024-3"}).GetMonth(now)
	if err != nil {
		t.Fatalf("full month: %v", err)
	}
	if m.Year() != 2024 || m.Month() != time.March {
		t.Fatalf("full month = %v", m)
	}

	m, err = (&MonthOptions{MonthString: "3"}).GetMonth(now)
	if err != nil {
		t.Fatalf("short month: %v", err)
	}
	if m.Year() != 2025 || m.Month() != time.March {
		t.Fatalf("short month = %v", m)
	}

	if _, err := (&MonthOptions{MonthString: "march"}).GetMonth(now); err == nil {
		t.Fatalf("expected a bad month to fail")
	}
}

func TestFilterOptions(t *testing.T) {
	f, err := (&FilterOptions{Status: "in-progress", Priority: "HIGH", AgentID: "agent1"}).Filter()
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if f.Status != ticket.StatusProgress || f.Priority != ticket.PriorityHigh || f.AgentID != "agent1" {
		t.Fatalf("unexpected filter %+v", f)
	}

	if _, err := (&FilterOptions{Status: "closed"}).Filter(); !errors.Is(err, ticket.ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
	if _, err := (&FilterOptions{Priority: "urgent"}).Filter(); !errors.Is(err, ticket.ErrInvalidPriority) {
		t.Fatalf("err = %v, want ErrInvalidPriority", err)
	}
}

func TestFilterOptionsSince(t *testing.T) {
	f, err := (&FilterOptions{}).Filter()
	if err != nil || !f.Since.IsZero() {
		t.Fatalf("expected no window, got %v, %v", f.Since, err)
	}

	before := time.Now()
	f, err = (&FilterOptions{Since: "1d"}).Filter()
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if d := before.Sub(f.Since); d < 23*time.Hour || d > 25*time.Hour {
		t.Fatalf("since is %v before now, want about a day", d)
	}

	if _, err := (&FilterOptions{Since: "soon"}).Filter(); err == nil {
		t.Fatalf("expected a bad window to fail")
	}
}
