package repo

import "errors"

var (
	// ErrProductNotFound is returned when a product is not found in the repository.
	ErrProductNotFound = errors.New("product not found")

	// ErrUserNotFound is returned when a user is not found in the repository.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicatedValueUnique is returned when an insert or update violates
	// a uniqueness constraint (SKU, username, email).
	ErrDuplicatedValueUnique = errors.New("duplicated value for unique column")

	// ErrInvalidQuantityChange is returned when a stock adjustment would
	// leave the quantity negative. The stored quantity is unchanged.
	ErrInvalidQuantityChange = errors.New("resulting quantity cannot be negative")
)
