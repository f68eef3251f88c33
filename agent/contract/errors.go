package contract

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidQuery      = errors.New("query is empty")
	ErrMalformedDecision = errors.New("decision is malformed")
	ErrUnknownAction     = errors.New("could not determine action")
	ErrNotFound          = errors.New("product not found")
	ErrMissingProductID  = errors.New("product id is missing")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidExpression = errors.New("invalid expression")
	ErrArithmetic        = errors.New("arithmetic error")
	ErrCollaborator      = errors.New("catalog call failed")
)
