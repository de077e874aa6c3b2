package captable

import "errors"

var (
	// ErrInvalidInput is returned when an argument or a record is rejected at
	// the boundary: non-positive amounts, rata out of range, dangling references.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDegenerate is returned when a computation cannot be carried out
	// because one of its divisors aggregates to zero.
	ErrDegenerate = errors.New("cannot compute")
)
