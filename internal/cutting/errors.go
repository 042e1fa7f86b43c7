package cutting

import "errors"

var (
	// ErrInsufficientLength is returned when a bin cannot hold the requested piece.
	ErrInsufficientLength = errors.New("piece is longer than the remaining length of the bin")
	// ErrInvalidLength is returned when a piece can never fit a bin of the configured stock length.
	ErrInvalidLength = errors.New("piece length exceeds the fixed stock length")
	// ErrInvalidFixedLength is returned when a bin set is created with a zero stock length.
	ErrInvalidFixedLength = errors.New("fixed stock length must be a positive integer")
	// ErrTooManyStockUnits is returned when a plan would need more stock units than allowed.
	ErrTooManyStockUnits = errors.New("plan exceeds the maximum number of stock units")
	// ErrLengthOverflow is returned when plan totals no longer fit in a uint.
	ErrLengthOverflow = errors.New("plan totals overflow")
)
