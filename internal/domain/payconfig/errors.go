package payconfig

import "errors"

var (
	ErrPayConfigNotFound = errors.New("pay configuration not found")
	ErrPayConfigInvalid  = errors.New("pay configuration is invalid")
)
