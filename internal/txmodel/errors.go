package txmodel

import "errors"

// Errors returned by witness/payload-auth verification (spec.md §4.1).
var (
	ErrWitnessCountMismatch     = errors.New("txmodel: witness count does not match input count")
	ErrBadSignature             = errors.New("txmodel: bad signature")
	ErrBadSpendingCounter       = errors.New("txmodel: bad spending counter")
	ErrInsufficientOwnerSignatures = errors.New("txmodel: insufficient owner signatures")
	ErrMixedDiscrimination      = errors.New("txmodel: mixed discrimination")
	ErrUnknownWitnessKind       = errors.New("txmodel: unknown witness kind")
	ErrUnknownInputKind         = errors.New("txmodel: unknown input kind")
)
