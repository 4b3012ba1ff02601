package models

// BookingStatus is the booking lifecycle state. Progression is one-way:
// pending -> confirmed -> completed, with cancellation allowed from pending
// or confirmed. Cancelled and completed are terminal.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
	BookingCancelled: {},
	BookingCompleted: {},
}

// CanTransitionTo reports whether the transition is in the lifecycle table.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// Active reports whether the booking blocks its time slot.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed
}

// PaymentStatus is the payment state: unpaid -> paid -> refunded.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentUnpaid:   {PaymentPaid},
	PaymentPaid:     {PaymentRefunded},
	PaymentRefunded: {},
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ActivityStatus is the activity lifecycle state.
type ActivityStatus string

const (
	ActivityDraft     ActivityStatus = "draft"
	ActivityPublished ActivityStatus = "published"
	ActivityOngoing   ActivityStatus = "ongoing"
	ActivityCompleted ActivityStatus = "completed"
	ActivityCancelled ActivityStatus = "cancelled"
)

var activityTransitions = map[ActivityStatus][]ActivityStatus{
	ActivityDraft:     {ActivityPublished, ActivityCancelled},
	ActivityPublished: {ActivityOngoing, ActivityCancelled},
	ActivityOngoing:   {ActivityCompleted, ActivityCancelled},
	ActivityCompleted: {},
	ActivityCancelled: {},
}

func (s ActivityStatus) CanTransitionTo(next ActivityStatus) bool {
	for _, allowed := range activityTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Joinable reports whether new participants are accepted.
func (s ActivityStatus) Joinable() bool {
	return s == ActivityPublished
}

// Participant statuses that count toward an activity's occupancy.
const (
	ParticipantConfirmed = "confirmed"
	ParticipantAttended  = "attended"
)

// Review moderation statuses. Only approved reviews enter the aggregate.
const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)
