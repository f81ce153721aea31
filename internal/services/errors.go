package services

import "errors"

// Sentinel errors returned by the service layer. Handlers map these to HTTP
// status codes; anything not matched here is treated as an internal storage
// failure and surfaced as an opaque server error.
var (
	// Conversation resolver.
	ErrInvalidParticipants = errors.New("conversation participants must be two distinct users")
	ErrMissingParticipant  = errors.New("conversation participant is missing")
	ErrMalformedID         = errors.New("malformed identifier")

	// Message recorder.
	ErrConversationNotFound = errors.New("conversation not found")
	ErrEmptyMessage         = errors.New("message content must not be empty")
	ErrUnauthorized         = errors.New("user is not a participant of this conversation")

	// Users.
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrResetTokenInvalid  = errors.New("reset token invalid or expired")

	// Generic.
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateTitle = errors.New("property already posted with this title")
	ErrInvalidPrice   = errors.New("minPrice must not exceed maxPrice")
)
