package handler

import "errors"

var (
	errInvalidPage     = errors.New("page must be a positive integer")
	errInvalidPageSize = errors.New("page_size must be between 1 and 100")
	errInvalidPartyID  = errors.New("party_id must be a valid UUID")
	errInvalidKind     = errors.New("kind must be one of: SALES, PURCHASE, INVOICE")
	errInvalidStatus   = errors.New("status is not a valid order status")
)
