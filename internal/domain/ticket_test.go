package domain

import (
	"testing"
	"time"
)

func TestParseTicketStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want TicketStatus
		ok   bool
	}{
		{"OPEN", TicketStatusOpen, true},
		{"open", TicketStatusOpen, true},
		{" in_progress ", TicketStatusInProgress, true},
		{"Closed", TicketStatusClosed, true},
		{"RESOLVED", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseTicketStatus(tc.raw)
		if tc.ok && err != nil {
			t.Fatalf("ParseTicketStatus(%q) unexpected error: %v", tc.raw, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseTicketStatus(%q) expected error, got %q", tc.raw, got)
		}
		if got != tc.want {
			t.Fatalf("ParseTicketStatus(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestParseTicketPriority(t *testing.T) {
	if got, err := ParseTicketPriority("high"); err != nil || got != TicketPriorityHigh {
		t.Fatalf("ParseTicketPriority(high) = %q, %v", got, err)
	}
	if _, err := ParseTicketPriority("URGENT"); err == nil {
		t.Fatal("ParseTicketPriority(URGENT) expected error")
	}
}

func TestPriorityRank(t *testing.T) {
	if TicketPriorityHigh.Rank() <= TicketPriorityMedium.Rank() {
		t.Fatal("HIGH must outrank MEDIUM")
	}
	if TicketPriorityMedium.Rank() <= TicketPriorityLow.Rank() {
		t.Fatal("MEDIUM must outrank LOW")
	}
}

func TestTicketOpenClosed(t *testing.T) {
	ticket := &Ticket{Status: TicketStatusOpen}
	if !ticket.IsOpen() || ticket.IsClosed() {
		t.Fatal("OPEN ticket must be open")
	}
	ticket.Status = TicketStatusInProgress
	if !ticket.IsOpen() {
		t.Fatal("IN_PROGRESS ticket must count as open")
	}
	ticket.Status = TicketStatusClosed
	if ticket.IsOpen() || !ticket.IsClosed() {
		t.Fatal("CLOSED ticket must be closed")
	}
}

func TestDaysOpen(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	ticket := &Ticket{CreatedAt: created, Status: TicketStatusOpen}

	now := created.Add(72*time.Hour + 5*time.Hour)
	if got := ticket.DaysOpen(now); got != 3 {
		t.Fatalf("DaysOpen while open = %d, want 3", got)
	}

	closed := created.Add(48 * time.Hour)
	ticket.Status = TicketStatusClosed
	ticket.ClosedAt = &closed
	if got := ticket.DaysOpen(now); got != 2 {
		t.Fatalf("DaysOpen after close = %d, want 2", got)
	}
}

func TestNormalizeClosedAt(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	ticket := &Ticket{Status: TicketStatusClosed}
	ticket.NormalizeClosedAt(now)
	if ticket.ClosedAt == nil || !ticket.ClosedAt.Equal(now) {
		t.Fatalf("closing must stamp closed_at, got %v", ticket.ClosedAt)
	}

	// Re-normalizing while still closed keeps the original timestamp.
	later := now.Add(time.Hour)
	ticket.NormalizeClosedAt(later)
	if !ticket.ClosedAt.Equal(now) {
		t.Fatalf("closed_at must not move on re-normalize, got %v", ticket.ClosedAt)
	}

	ticket.Status = TicketStatusOpen
	ticket.NormalizeClosedAt(later)
	if ticket.ClosedAt != nil {
		t.Fatalf("reopening must clear closed_at, got %v", ticket.ClosedAt)
	}
}
