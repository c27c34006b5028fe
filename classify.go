package decicalc

import "errors"

// Category is the user-facing classification of a failed evaluation.
type Category string

// The closed set of categories.
const (
	InvalidExpression Category = "INVALID_EXPRESSION"
	DivisionByZero    Category = "DIVISION_BY_ZERO"
	Overflow          Category = "OVERFLOW"
	GeneralError      Category = "GENERAL_ERROR"
)

// Classify maps an error from parsing or evaluation to its category. Errors it
// does not recognize, including nil, are GeneralError.
func Classify(err error) Category {
	switch {
	case err == nil:
		return GeneralError
	case errors.Is(err, ErrParse):
		return InvalidExpression
	case errors.Is(err, ErrDivisionByZero):
		return DivisionByZero
	case errors.Is(err, ErrOverflow):
		return Overflow
	default:
		return GeneralError
	}
}

// Message returns the text to display for the category.
func (c Category) Message() string {
	switch c {
	case InvalidExpression:
		return "Invalid Expression"
	case DivisionByZero:
		return "Division by Zero"
	case Overflow:
		return "Number Too Large"
	default:
		return "Error"
	}
}
