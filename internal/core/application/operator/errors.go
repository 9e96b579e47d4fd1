package operator

import "errors"

var (
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInvalidOwner       = errors.New("missing owner")
	ErrMintNotFound       = errors.New("mint not found")
	ErrServiceUnavailable = errors.New("service is unavailable, retry later")
)
