package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("wrong name or password")
	ErrUsernameTaken    = errors.New("username is already taken")

	ErrHabitNotFound     = errors.New("habit doesn't exists")
	ErrWrongOwner        = errors.New("habit has different owner")
	ErrHabitLimitReached = errors.New("active habits limit reached")

	ErrAlreadyCompleted = errors.New("habit already completed today")
	ErrXPLimitReached   = errors.New("xp limit reached")

	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidInput = errors.New("invalid input")
)
