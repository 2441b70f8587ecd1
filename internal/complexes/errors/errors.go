package errors

import "errors"

var (
	ErrNotFound = errors.New("sport complex not found")

	ErrInvalidID = errors.New("invalid sport complex ID format")

	ErrSportNotFound = errors.New("sport not found")

	ErrSportNotOffered = errors.New("sport is not offered at this complex")
)
