package offer

import "errors"

var (
	// ErrOfferNotFound signals that the offer could not be located.
	ErrOfferNotFound = errors.New("offer not found")
	// ErrInvalidInput is returned when create/update payloads fail validation.
	ErrInvalidInput = errors.New("invalid offer input")
	// ErrImageTooLarge is returned when an uploaded image exceeds the limit.
	ErrImageTooLarge = errors.New("image too large")
)
