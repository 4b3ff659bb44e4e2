package errors

import "errors"

var (
	ErrAlreadyExists          = errors.New("already exists")
	ErrNotFound               = errors.New("not found")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidUserType        = errors.New("invalid user type")
	ErrEmptyMessage           = errors.New("message must contain text or media")
	ErrInvalidMedia           = errors.New("invalid media attachment")
	ErrNotParticipant         = errors.New("user is not a participant of the order")
	ErrNotOrderFreelancer     = errors.New("only the order freelancer may confirm payment")
	ErrPaymentAlreadyApproved = errors.New("payment already approved")
	ErrInvalidStatus          = errors.New("invalid order status")
	ErrInvalidOrder           = errors.New("invalid order")
	ErrNoSession              = errors.New("no persisted session")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrSendInFlight           = errors.New("a send is already in flight")
)
