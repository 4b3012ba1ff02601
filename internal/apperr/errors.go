package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an operation failure. Every service error carries exactly
// one kind; handlers map the kind to an HTTP status.
type Kind int

const (
	KindValidation Kind = iota
	KindConflict
	KindState
	KindNotFound
	KindUnauthorized
	KindInternal
)

// Error is a typed domain error with a stable, user-facing message.
type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

// Kind returns the taxonomy class of the error.
func (e *Error) Kind() Kind {
	return e.kind
}

func newError(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Booking errors.
var (
	ErrInvalidInterval           = newError(KindValidation, "end time must be after start time")
	ErrDateOutOfRange            = newError(KindValidation, "booking date is outside the allowed window")
	ErrVenueUnavailable          = newError(KindState, "venue is not available for booking")
	ErrSlotConflict              = newError(KindConflict, "the requested time slot is already booked")
	ErrAlreadyCancelled          = newError(KindState, "booking has already been cancelled")
	ErrCannotCancelCompleted     = newError(KindState, "a completed booking cannot be cancelled")
	ErrCancellationWindowExpired = newError(KindState, "too close to the booking start time to cancel")
	ErrAlreadyPaid               = newError(KindState, "booking has already been paid")
	ErrBookingNotFound           = newError(KindNotFound, "booking not found")
)

// Activity errors.
var (
	ErrActivityNotJoinable  = newError(KindNotFound, "activity not found or not open for participation")
	ErrAlreadyParticipating = newError(KindConflict, "already participating in this activity")
	ErrActivityFull         = newError(KindConflict, "activity has reached its participant limit")
	ErrNotParticipating     = newError(KindNotFound, "not participating in this activity")
	ErrActivityNotFound     = newError(KindNotFound, "activity not found")
)

// Review and comment errors.
var (
	ErrDuplicateReview       = newError(KindConflict, "venue has already been reviewed by this user")
	ErrReviewNotFound        = newError(KindNotFound, "review not found")
	ErrBookingNotEligible    = newError(KindValidation, "booking does not exist or is not completed")
	ErrDuplicateComment      = newError(KindConflict, "activity has already been commented by this user")
	ErrCommentNotFound       = newError(KindNotFound, "comment not found")
	ErrParentCommentNotFound = newError(KindNotFound, "parent comment not found")
)

var (
	ErrVenueNotFound = newError(KindNotFound, "venue not found")
	ErrUserNotFound  = newError(KindNotFound, "user not found")
	ErrUnauthorized  = newError(KindUnauthorized, "user is not authorized")
)

// HTTPStatus maps an error to the status class of its taxonomy kind.
// Unknown errors are treated as infrastructure failures.
func HTTPStatus(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}

	switch appErr.Kind() {
	case KindValidation, KindConflict, KindState:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// IsDomain reports whether err is a typed domain error, as opposed to an
// infrastructure failure that should surface as a generic 500.
func IsDomain(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr)
}
