package contractor

import "errors"

var (
	ErrNotFound      = errors.New("contractor profile not found")
	ErrInvalidStatus = errors.New("invalid availability status")
)
