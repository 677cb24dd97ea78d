package db

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to RequestStatus }{
		{StatusPending, StatusApproved},
		{StatusPending, StatusRejected},
		{StatusPending, StatusCancelled},
		{StatusApproved, StatusCompleted},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s allowed", tc.from, tc.to)
		}
	}

	forbidden := []struct{ from, to RequestStatus }{
		{StatusPending, StatusCompleted},
		{StatusApproved, StatusRejected},
		{StatusApproved, StatusPending},
		{StatusRejected, StatusApproved},
		{StatusCancelled, StatusPending},
		{StatusCompleted, StatusApproved},
	}
	for _, tc := range forbidden {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s forbidden", tc.from, tc.to)
		}
	}
}

func TestDisplayStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	out := now.Add(-time.Hour)

	tests := []struct {
		name string
		b    BookingRequest
		want RequestStatus
	}{
		{
			"approved within window",
			BookingRequest{Status: StatusApproved, EndTime: now.Add(time.Hour)},
			StatusApproved,
		},
		{
			"approved past end without checkout",
			BookingRequest{Status: StatusApproved, EndTime: now.Add(-time.Minute)},
			StatusOverdue,
		},
		{
			"approved exactly at end",
			BookingRequest{Status: StatusApproved, EndTime: now},
			StatusOverdue,
		},
		{
			"completed past end",
			BookingRequest{Status: StatusCompleted, EndTime: now.Add(-time.Hour), CheckOutAt: &out},
			StatusCompleted,
		},
		{
			"pending past end",
			BookingRequest{Status: StatusPending, EndTime: now.Add(-time.Hour)},
			StatusPending,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.b.DisplayStatus(now); got != tc.want {
				t.Fatalf("DisplayStatus = %s, want %s", got, tc.want)
			}
		})
	}
}
