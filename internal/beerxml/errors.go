package beerxml

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRecipe is wrapped by a ParseError when a well-formed document
	// holds no RECIPE element.
	ErrNoRecipe = errors.New("no RECIPE element in document")

	// ErrDivideByZero is returned when a percentage is requested against a
	// zero total, which happens for an empty fermentable bill.
	ErrDivideByZero = errors.New("total weight is zero")
)

// ParseError reports a document that could not be turned into a recipe.
// It is terminal for a rendering attempt; no partial recipe accompanies it.
type ParseError struct {
	// Offset is the input byte offset reached by the decoder, when known.
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("beerxml: parse error at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("beerxml: parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsParseError reports whether err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
