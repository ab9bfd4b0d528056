package apperrors

import "errors"

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrCapacityExhausted   = errors.New("no tickets available")
	ErrCapacityReduction   = errors.New("total tickets cannot be reduced below sold tickets")
	ErrAlreadyClaimed      = errors.New("ticket already claimed")
	ErrOutOfWindow         = errors.New("ticket cannot be claimed outside the event window")
	ErrDeletionNotAllowed  = errors.New("event has outstanding tickets and has not ended")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInternalServerError = errors.New("internal server error")

	// ErrValidation 用 fmt.Errorf("%w: ...") 包裝，訊息帶出被違反的規則
	ErrValidation = errors.New("validation failed")
)
