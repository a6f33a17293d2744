package fixed8

import "errors"

var (
	// ErrInvalidAmount indicates the input is not a decimal number.
	ErrInvalidAmount = errors.New("fixed8: invalid amount")

	// ErrOverflow indicates the scaled amount does not fit in 64 bits.
	ErrOverflow = errors.New("fixed8: amount out of range")
)
