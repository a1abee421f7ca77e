package reminder

import "errors"

var (
	// ErrParseFailure means the date parser could not extract a timestamp.
	// No state is mutated; the user is asked to rephrase.
	ErrParseFailure = errors.New("could not parse a date from the text")

	// ErrPastDate means a timestamp was extracted but lies at or before now.
	ErrPastDate = errors.New("the parsed date is not in the future")
)
