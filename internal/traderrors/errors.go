package traderrors

import "errors"

// Repository-level errors
var (
	ErrNotFound           = errors.New("record not found")
	ErrNoBids             = errors.New("no bids found for auction")
	ErrDuplicateISBN      = errors.New("a book with this ISBN already exists")
	ErrDuplicateRating    = errors.New("user has already rated this book")
	ErrDuplicateUser      = errors.New("username or email already taken")
	ErrAlreadyWatching    = errors.New("auction is already on the watch list")
	ErrDuplicateTradeItem = errors.New("this copy is already part of the trade")
)

// Business logic errors
var (
	ErrValidation    = errors.New("validation failed")
	ErrInvalidBid    = errors.New("invalid bid")
	ErrBidTooLow     = errors.New("bid amount too low")
	ErrStateConflict = errors.New("operation conflicts with current state")
	ErrTradeExpired  = errors.New("trade offer has expired")
)

// Identity and verification errors
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountInactive    = errors.New("account has not been verified")
	ErrEmailMissing       = errors.New("no email address on file")
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrSessionExpired     = errors.New("session expired")
	ErrMailDelivery       = errors.New("failed to send verification code")
)
