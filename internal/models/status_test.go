package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{"pending to confirmed", BookingPending, BookingConfirmed, true},
		{"pending to cancelled", BookingPending, BookingCancelled, true},
		{"pending to completed", BookingPending, BookingCompleted, false},
		{"confirmed to completed", BookingConfirmed, BookingCompleted, true},
		{"confirmed to cancelled", BookingConfirmed, BookingCancelled, true},
		{"confirmed to pending", BookingConfirmed, BookingPending, false},
		{"cancelled is terminal", BookingCancelled, BookingPending, false},
		{"completed is terminal", BookingCompleted, BookingCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestBookingStatusTerminal(t *testing.T) {
	assert.False(t, BookingPending.IsTerminal())
	assert.False(t, BookingConfirmed.IsTerminal())
	assert.True(t, BookingCancelled.IsTerminal())
	assert.True(t, BookingCompleted.IsTerminal())
}

func TestBookingStatusActive(t *testing.T) {
	// Only active bookings block their time slot.
	assert.True(t, BookingPending.Active())
	assert.True(t, BookingConfirmed.Active())
	assert.False(t, BookingCancelled.Active())
	assert.False(t, BookingCompleted.Active())
}

func TestPaymentStatusTransitions(t *testing.T) {
	assert.True(t, PaymentUnpaid.CanTransitionTo(PaymentPaid))
	assert.True(t, PaymentPaid.CanTransitionTo(PaymentRefunded))
	assert.False(t, PaymentUnpaid.CanTransitionTo(PaymentRefunded))
	assert.False(t, PaymentRefunded.CanTransitionTo(PaymentPaid))
	assert.False(t, PaymentPaid.CanTransitionTo(PaymentUnpaid))
}

func TestActivityStatusJoinable(t *testing.T) {
	assert.True(t, ActivityPublished.Joinable())
	assert.False(t, ActivityDraft.Joinable())
	assert.False(t, ActivityOngoing.Joinable())
	assert.False(t, ActivityCompleted.Joinable())
	assert.False(t, ActivityCancelled.Joinable())
}

func TestActivityStatusTransitions(t *testing.T) {
	assert.True(t, ActivityDraft.CanTransitionTo(ActivityPublished))
	assert.True(t, ActivityPublished.CanTransitionTo(ActivityOngoing))
	assert.True(t, ActivityOngoing.CanTransitionTo(ActivityCompleted))
	assert.False(t, ActivityCompleted.CanTransitionTo(ActivityOngoing))
	assert.False(t, ActivityDraft.CanTransitionTo(ActivityOngoing))
}
